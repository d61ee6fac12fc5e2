package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gdgu-dev/student-portal/backend/internal/domain"
)

func (h *Handler) GetAllStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.store.GetAllStudents()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Fetched students successfully", students)
}

func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name          string `json:"name" validate:"required"`
		Email         string `json:"email" validate:"required,email"`
		RollNo        string `json:"rollNo" validate:"required"`
		Department    string `json:"department" validate:"required"`
		Year          int32  `json:"year" validate:"required,min=1,max=6"`
		ContactNumber string `json:"contactNumber" validate:"required,len=10,numeric"`
		FatherName    string `json:"fatherName" validate:"required"`
		MotherName    string `json:"motherName" validate:"required"`
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

	isExists, err := h.store.CheckStudentIfExists(req.Email, req.RollNo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if isExists {
		h.errorResponse(w, r, "Student with this email or roll number already exists")
		return
	}

	student := &domain.Student{
		Name:          req.Name,
		Email:         req.Email,
		RollNo:        req.RollNo,
		Department:    req.Department,
		Year:          req.Year,
		ContactNumber: req.ContactNumber,
		FatherName:    req.FatherName,
		MotherName:    req.MotherName,
	}

	if err := h.store.CreateStudent(student); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && (pgErr.ConstraintName == "students_email_key" || pgErr.ConstraintName == "students_roll_no_key"):
			h.errorResponse(w, r, "Student with this email or roll number already exists")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Student added successfully", student)
}

func (h *Handler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	student := r.Context().Value(StudentCtx).(*domain.Student)

	var req struct {
		Name          *string `json:"name"`
		Email         *string `json:"email" validate:"omitempty,email"`
		RollNo        *string `json:"rollNo"`
		Department    *string `json:"department"`
		Year          *int32  `json:"year" validate:"omitempty,min=1,max=6"`
		ContactNumber *string `json:"contactNumber" validate:"omitempty,len=10,numeric"`
		FatherName    *string `json:"fatherName"`
		MotherName    *string `json:"motherName"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Email != nil {
		if !h.hasInstitutionalDomain(*req.Email) {
			h.institutionalDomainError(w, r)
			return
		}
		student.Email = *req.Email
	}
	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.RollNo != nil {
		student.RollNo = *req.RollNo
	}
	if req.Department != nil {
		student.Department = *req.Department
	}
	if req.Year != nil {
		student.Year = *req.Year
	}
	if req.ContactNumber != nil {
		student.ContactNumber = *req.ContactNumber
	}
	if req.FatherName != nil {
		student.FatherName = *req.FatherName
	}
	if req.MotherName != nil {
		student.MotherName = *req.MotherName
	}

	if err := h.store.UpdateStudent(student); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Update conflict, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Student updated successfully", student)
}

func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	student := r.Context().Value(StudentCtx).(*domain.Student)

	if err := h.store.DeleteStudent(student.ID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Student not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Student deleted successfully", nil)
}
