package domain

import (
	"time"
)

type Student struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	RollNo        string    `json:"rollNo"`
	Department    string    `json:"department"`
	Year          int32     `json:"year"`
	ContactNumber string    `json:"contactNumber"`
	FatherName    string    `json:"fatherName"`
	MotherName    string    `json:"motherName"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	Version       int32     `json:"-"`
}
