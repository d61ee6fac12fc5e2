package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/gdgu-dev/student-portal/backend/internal/domain"
)

const userColumns = `
	id, email, password_hash, father_name, mother_name, contact_number, photo, college_id_card,
	role, is_verified, last_login_at,
	verification_token, verification_token_expires_at,
	reset_password_token, reset_password_expires_at,
	created_at, updated_at, version
`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	user := &domain.User{}
	dst := []any{
		&user.ID, &user.Email, &user.PasswordHash, &user.FatherName, &user.MotherName,
		&user.ContactNumber, &user.Photo, &user.CollegeIDCard,
		&user.Role, &user.IsVerified, &user.LastLoginAt,
		&user.VerificationToken, &user.VerificationTokenExpiresAt,
		&user.ResetPasswordToken, &user.ResetPasswordExpiresAt,
		&user.CreatedAt, &user.UpdatedAt, &user.Version,
	}
	if err := row.Scan(dst...); err != nil {
		return nil, err
	}
	return user, nil
}

func (r *Repository) CreateUser(user *domain.User) error {
	query := `
		INSERT INTO users (
			email, password_hash, father_name, mother_name, contact_number, photo, college_id_card,
			role, is_verified, verification_token, verification_token_expires_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		user.Email, user.PasswordHash, user.FatherName, user.MotherName, user.ContactNumber,
		user.Photo, user.CollegeIDCard, user.Role, user.IsVerified,
		user.VerificationToken, user.VerificationTokenExpiresAt,
	}
	dst := []any{&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetUserByID(id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanUser(r.dbpool.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetUserByEmail(email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanUser(r.dbpool.QueryRowContext(ctx, query, email))
}

func (r *Repository) GetAllUsers() ([]*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *Repository) UpdateUser(user *domain.User) error {
	query := `
		UPDATE users
		SET
			password_hash = $1,
			father_name = $2,
			mother_name = $3,
			contact_number = $4,
			photo = $5,
			college_id_card = $6,
			role = $7,
			is_verified = $8,
			updated_at = now(),
			version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		user.PasswordHash, user.FatherName, user.MotherName, user.ContactNumber,
		user.Photo, user.CollegeIDCard, user.Role, user.IsVerified,
		user.ID, user.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.UpdatedAt, &user.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteUser(id int64) error {
	query := `DELETE FROM users WHERE id = $1`

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

func (r *Repository) CheckEmailIfExists(email string) (bool, error) {
	isExists := false

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := r.dbpool.QueryRowContext(ctx, query, email).Scan(&isExists); err != nil {
		return false, err
	}

	return isExists, nil
}

// ConsumeVerificationToken marks the matching account verified and clears the
// token pair in one conditional UPDATE, so a code can be accepted at most
// once even under concurrent submissions. sql.ErrNoRows means the code is
// wrong, expired, or already consumed.
func (r *Repository) ConsumeVerificationToken(code string) (*domain.User, error) {
	query := `
		UPDATE users
		SET
			is_verified = TRUE,
			verification_token = NULL,
			verification_token_expires_at = NULL,
			updated_at = now(),
			version = version + 1
		WHERE verification_token = $1 AND verification_token_expires_at > now()
		RETURNING ` + userColumns

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanUser(r.dbpool.QueryRowContext(ctx, query, code))
}

func (r *Repository) SetResetToken(id int64, token string, expiresAt time.Time) error {
	query := `
		UPDATE users
		SET
			reset_password_token = $1,
			reset_password_expires_at = $2,
			updated_at = now(),
			version = version + 1
		WHERE id = $3
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, token, expiresAt, id); err != nil {
		return err
	}

	return nil
}

// ConsumeResetToken replaces the password hash and clears the reset pair in
// one conditional UPDATE, mirroring ConsumeVerificationToken.
func (r *Repository) ConsumeResetToken(token string, newPasswordHash string) (*domain.User, error) {
	query := `
		UPDATE users
		SET
			password_hash = $2,
			reset_password_token = NULL,
			reset_password_expires_at = NULL,
			updated_at = now(),
			version = version + 1
		WHERE reset_password_token = $1 AND reset_password_expires_at > now()
		RETURNING ` + userColumns

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	return scanUser(r.dbpool.QueryRowContext(ctx, query, token, newPasswordHash))
}

func (r *Repository) UpdateLastLogin(user *domain.User) error {
	query := `
		UPDATE users
		SET last_login_at = now(), updated_at = now()
		WHERE id = $1
		RETURNING last_login_at, updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, user.ID).Scan(&user.LastLoginAt, &user.UpdatedAt); err != nil {
		return err
	}

	return nil
}
