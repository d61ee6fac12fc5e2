package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/gdgu-dev/student-portal/backend/internal/domain"
)

const studentColumns = `
	id, name, email, roll_no, department, year, contact_number, father_name, mother_name,
	created_at, updated_at, version
`

func scanStudent(row interface{ Scan(...any) error }) (*domain.Student, error) {
	student := &domain.Student{}
	dst := []any{
		&student.ID, &student.Name, &student.Email, &student.RollNo, &student.Department,
		&student.Year, &student.ContactNumber, &student.FatherName, &student.MotherName,
		&student.CreatedAt, &student.UpdatedAt, &student.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return student, nil
}

func (r *Repository) CreateStudent(student *domain.Student) error {
	query := `
		INSERT INTO students (name, email, roll_no, department, year, contact_number, father_name, mother_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		student.Name, student.Email, student.RollNo, student.Department,
		student.Year, student.ContactNumber, student.FatherName, student.MotherName,
	}
	dst := []any{&student.ID, &student.CreatedAt, &student.UpdatedAt, &student.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetStudentByID(id int64) (*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanStudent(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetAllStudents() ([]*domain.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]*domain.Student, 0)
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

func (r *Repository) CheckStudentIfExists(email string, rollNo string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT EXISTS (SELECT 1 FROM students WHERE email = $1 OR roll_no = $2)`
	if err := r.dbpool.QueryRowContext(ctx, query, email, rollNo).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

func (r *Repository) UpdateStudent(student *domain.Student) error {
	query := `
		UPDATE students
		SET
			name = $1,
			email = $2,
			roll_no = $3,
			department = $4,
			year = $5,
			contact_number = $6,
			father_name = $7,
			mother_name = $8,
			updated_at = now(),
			version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		student.Name, student.Email, student.RollNo, student.Department, student.Year,
		student.ContactNumber, student.FatherName, student.MotherName,
		student.ID, student.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&student.UpdatedAt, &student.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteStudent(id int64) error {
	query := `DELETE FROM students WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
