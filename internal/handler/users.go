package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/gdgu-dev/student-portal/backend/internal/domain"
)

func (h *Handler) GetAllUserInfo(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Fetched users successfully", users)
}

// CreateUser lets an administrator provision an account directly. Such
// accounts skip email verification.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email         string `json:"email" validate:"required,email"`
		Password      string `json:"password" validate:"required"`
		FatherName    string `json:"fatherName" validate:"required"`
		MotherName    string `json:"motherName" validate:"required"`
		ContactNumber string `json:"contactNumber" validate:"required,len=10,numeric"`
		Photo         string `json:"photo"`
		CollegeIDCard string `json:"collegeIdCard"`
		Role          string `json:"role" validate:"omitempty,oneof=STUDENT ADMIN"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if !h.hasInstitutionalDomain(req.Email) {
		h.institutionalDomainError(w, r)
		return
	}

	isExists, err := h.store.CheckEmailIfExists(req.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if isExists {
		h.errorResponse(w, r, "User with this email already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	role := domain.RoleStudent
	if req.Role != "" {
		role = domain.Role(req.Role)
	}

	user := &domain.User{
		Email:         req.Email,
		PasswordHash:  string(hashedPassword),
		FatherName:    req.FatherName,
		MotherName:    req.MotherName,
		ContactNumber: req.ContactNumber,
		Photo:         req.Photo,
		CollegeIDCard: req.CollegeIDCard,
		Role:          role,
		IsVerified:    true,
	}

	if err := h.store.CreateUser(user); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "users_email_key":
			h.errorResponse(w, r, "User with this email already exists")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "User created successfully", user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	var req struct {
		Password      *string `json:"password"`
		FatherName    *string `json:"fatherName"`
		MotherName    *string `json:"motherName"`
		ContactNumber *string `json:"contactNumber" validate:"omitempty,len=10,numeric"`
		Photo         *string `json:"photo"`
		CollegeIDCard *string `json:"collegeIdCard"`
		Role          *string `json:"role" validate:"omitempty,oneof=STUDENT ADMIN"`
		IsVerified    *bool   `json:"isVerified"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Password != nil && *req.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.internalServerError(w, r, err)
			return
		}
		user.PasswordHash = string(hashedPassword)
	}
	if req.FatherName != nil {
		user.FatherName = *req.FatherName
	}
	if req.MotherName != nil {
		user.MotherName = *req.MotherName
	}
	if req.ContactNumber != nil {
		user.ContactNumber = *req.ContactNumber
	}
	if req.Photo != nil {
		user.Photo = *req.Photo
	}
	if req.CollegeIDCard != nil {
		user.CollegeIDCard = *req.CollegeIDCard
	}
	if req.Role != nil {
		user.Role = domain.Role(*req.Role)
	}
	if req.IsVerified != nil {
		user.IsVerified = *req.IsVerified
	}

	if err := h.store.UpdateUser(user); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Update conflict, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "User updated successfully", user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	user := r.Context().Value(UserInfoCtx).(*domain.User)

	if err := h.store.DeleteUser(user.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "User not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "User deleted successfully", nil)
}
