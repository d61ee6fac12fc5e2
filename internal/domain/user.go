package domain

import (
	"time"
)

type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleAdmin   Role = "ADMIN"
)

type User struct {
	ID            int64      `json:"id"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	FatherName    string     `json:"fatherName"`
	MotherName    string     `json:"motherName"`
	ContactNumber string     `json:"contactNumber"`
	Photo         string     `json:"photo"`
	CollegeIDCard string     `json:"collegeIdCard"`
	Role          Role       `json:"role"`
	IsVerified    bool       `json:"isVerified"`
	LastLoginAt   *time.Time `json:"lastLoginAt"`

	// a token and its expiry are always set and cleared together
	VerificationToken          *string    `json:"-"`
	VerificationTokenExpiresAt *time.Time `json:"-"`
	ResetPasswordToken         *string    `json:"-"`
	ResetPasswordExpiresAt     *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Version   int32     `json:"-"`
}
