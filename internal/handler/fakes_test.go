package handler

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gdgu-dev/student-portal/backend/internal/config"
	"github.com/gdgu-dev/student-portal/backend/internal/domain"
)

// unique-violation errors as the Postgres driver would surface them
var (
	errDuplicateEmail   = &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
	errDuplicateStudent = &pgconn.PgError{Code: "23505", ConstraintName: "students_email_key"}
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Environment = "development"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 3600
	cfg.Email.UserDomain = "gdgu.org"
	cfg.Email.ClientURL = "http://localhost:5173"
	cfg.Token.VerificationExpiration = 900
	cfg.Token.ResetExpiration = 3600
	cfg.Token.MailCooldown = 60
	cfg.AdminWhitelist = []string{"saafin@gdgu.org", "samkit@gdgu.org"}
	return cfg
}

// fakeStore is an in-memory Store with the same observable behavior as the
// Postgres repository: unique emails, expiry-aware conditional token
// consumption, sql.ErrNoRows for misses.
type fakeStore struct {
	mu         sync.Mutex
	nextID     int64
	users      map[int64]*domain.User
	students   map[int64]*domain.Student
	nextStudID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		nextID:     1,
		nextStudID: 1,
		users:      make(map[int64]*domain.User),
		students:   make(map[int64]*domain.Student),
	}
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func (s *fakeStore) CreateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return errDuplicateEmail
		}
	}

	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	user.Version = 1
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *fakeStore) GetUserByID(id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return copyUser(u), nil
}

func (s *fakeStore) GetUserByEmail(email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) GetAllUsers() ([]*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, copyUser(u))
	}
	return users, nil
}

func (s *fakeStore) UpdateUser(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.users[user.ID]
	if !ok || stored.Version != user.Version {
		return sql.ErrNoRows
	}
	user.Version++
	user.UpdatedAt = time.Now()
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *fakeStore) DeleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.users, id)
	return nil
}

func (s *fakeStore) CheckEmailIfExists(email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) ConsumeVerificationToken(code string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.VerificationToken != nil && *u.VerificationToken == code && u.VerificationTokenExpiresAt.After(time.Now()) {
			u.IsVerified = true
			u.VerificationToken = nil
			u.VerificationTokenExpiresAt = nil
			u.UpdatedAt = time.Now()
			u.Version++
			return copyUser(u), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) SetResetToken(id int64, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.ResetPasswordToken = &token
	u.ResetPasswordExpiresAt = &expiresAt
	u.UpdatedAt = time.Now()
	u.Version++
	return nil
}

func (s *fakeStore) ConsumeResetToken(token string, newPasswordHash string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == token && u.ResetPasswordExpiresAt.After(time.Now()) {
			u.PasswordHash = newPasswordHash
			u.ResetPasswordToken = nil
			u.ResetPasswordExpiresAt = nil
			u.UpdatedAt = time.Now()
			u.Version++
			return copyUser(u), nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *fakeStore) UpdateLastLogin(user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[user.ID]
	if !ok {
		return sql.ErrNoRows
	}
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	user.LastLoginAt = &now
	user.UpdatedAt = now
	return nil
}

func (s *fakeStore) CreateStudent(student *domain.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range s.students {
		if st.Email == student.Email || st.RollNo == student.RollNo {
			return errDuplicateStudent
		}
	}

	student.ID = s.nextStudID
	s.nextStudID++
	student.CreatedAt = time.Now()
	student.UpdatedAt = student.CreatedAt
	student.Version = 1
	c := *student
	s.students[student.ID] = &c
	return nil
}

func (s *fakeStore) GetStudentByID(id int64) (*domain.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	c := *st
	return &c, nil
}

func (s *fakeStore) GetAllStudents() ([]*domain.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	students := make([]*domain.Student, 0, len(s.students))
	for _, st := range s.students {
		c := *st
		students = append(students, &c)
	}
	return students, nil
}

func (s *fakeStore) CheckStudentIfExists(email string, rollNo string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, st := range s.students {
		if st.Email == email || st.RollNo == rollNo {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) UpdateStudent(student *domain.Student) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.students[student.ID]
	if !ok || stored.Version != student.Version {
		return sql.ErrNoRows
	}
	student.Version++
	student.UpdatedAt = time.Now()
	c := *student
	s.students[student.ID] = &c
	return nil
}

func (s *fakeStore) DeleteStudent(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.students[id]; !ok {
		return sql.ErrNoRows
	}
	delete(s.students, id)
	return nil
}

// mutateUser rewrites a stored user in place, for expiring tokens in tests.
func (s *fakeStore) mutateUser(id int64, fn func(*domain.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.users[id])
}

// fakeMailer records published messages.
type fakeMailer struct {
	mu       sync.Mutex
	messages []domain.MailMessage
	failNext error
}

func (m *fakeMailer) Publish(message domain.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.messages = append(m.messages, message)
	return nil
}

func (m *fakeMailer) lastMessage() domain.MailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages[len(m.messages)-1]
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

// fakeCooldown allows everything unless told otherwise.
type fakeCooldown struct {
	mu    sync.Mutex
	deny  bool
	calls int
}

func (c *fakeCooldown) Allow(_ context.Context, _ string, _ string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return !c.deny, nil
}
