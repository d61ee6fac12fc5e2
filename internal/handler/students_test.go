package handler

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gdgu-dev/student-portal/backend/internal/domain"
)

func adminCookie(t *testing.T, h *Handler, store *fakeStore) *http.Cookie {
	t.Helper()

	admin := &domain.User{Email: "saafin@gdgu.org", Role: domain.RoleAdmin, IsVerified: true}
	require.NoError(t, store.CreateUser(admin))
	return signedCookie(t, h, admin, time.Hour)
}

func studentBody(email string, rollNo string) map[string]any {
	return map[string]any{
		"name":          "Aarav Sharma",
		"email":         email,
		"rollNo":        rollNo,
		"department":    "Computer Science",
		"year":          2,
		"contactNumber": "9876543210",
		"fatherName":    "Ramesh Sharma",
		"motherName":    "Sunita Sharma",
	}
}

func TestStudentRoutesRequireAdmin(t *testing.T) {
	h, store, _, _ := newTestHandler(t)

	student := &domain.User{Email: "aarav@gdgu.org", Role: domain.RoleStudent, IsVerified: true}
	require.NoError(t, store.CreateUser(student))

	envelope, _ := doJSON(t, h, http.MethodGet, "/students/", nil, signedCookie(t, h, student, time.Hour))
	assert.False(t, envelope.Success)
	assert.Equal(t, "Access denied. Admin only.", envelope.Message)
}

func TestStudentCRUD(t *testing.T) {
	h, store, _, _ := newTestHandler(t)
	cookie := adminCookie(t, h, store)

	// create
	envelope, _ := doJSON(t, h, http.MethodPost, "/students/", studentBody("aarav.230001@gdgu.org", "230001"), cookie)
	require.True(t, envelope.Success, envelope.Message)

	// duplicate email or roll number is rejected
	envelope, _ = doJSON(t, h, http.MethodPost, "/students/", studentBody("aarav.230001@gdgu.org", "230002"), cookie)
	assert.False(t, envelope.Success)
	envelope, _ = doJSON(t, h, http.MethodPost, "/students/", studentBody("other.230001@gdgu.org", "230001"), cookie)
	assert.False(t, envelope.Success)

	// non-institutional email is rejected
	envelope, _ = doJSON(t, h, http.MethodPost, "/students/", studentBody("aarav@gmail.com", "230003"), cookie)
	assert.False(t, envelope.Success)

	// list
	envelope, _ = doJSON(t, h, http.MethodGet, "/students/", nil, cookie)
	require.True(t, envelope.Success)
	assert.Len(t, envelope.Data.([]any), 1)

	// update
	envelope, _ = doJSON(t, h, http.MethodPut, "/students/1/", map[string]any{"department": "Law"}, cookie)
	require.True(t, envelope.Success, envelope.Message)

	got, err := store.GetStudentByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Law", got.Department)

	// delete
	envelope, _ = doJSON(t, h, http.MethodDelete, "/students/1/", nil, cookie)
	require.True(t, envelope.Success, envelope.Message)

	envelope, _ = doJSON(t, h, http.MethodDelete, "/students/1/", nil, cookie)
	assert.False(t, envelope.Success)
	assert.Equal(t, "Student not found", envelope.Message)
}

func TestAdminCreatesVerifiedUser(t *testing.T) {
	h, store, _, _ := newTestHandler(t)
	cookie := adminCookie(t, h, store)

	body := map[string]any{
		"email":         "newuser@gdgu.org",
		"password":      "initial-pass",
		"fatherName":    "Ramesh Kumar",
		"motherName":    "Sunita Kumar",
		"contactNumber": "9876543210",
	}
	envelope, _ := doJSON(t, h, http.MethodPost, "/users/", body, cookie)
	require.True(t, envelope.Success, envelope.Message)

	user, err := store.GetUserByEmail("newuser@gdgu.org")
	require.NoError(t, err)
	// admin-created accounts skip email verification
	assert.True(t, user.IsVerified)
	assert.Equal(t, domain.RoleStudent, user.Role)
	assert.Nil(t, user.VerificationToken)

	envelope, _ = doJSON(t, h, http.MethodPost, "/auth/login", map[string]any{"email": "newuser@gdgu.org", "password": "initial-pass"})
	assert.True(t, envelope.Success, envelope.Message)
}

func TestAdminUpdatesAndDeletesUser(t *testing.T) {
	h, store, _, _ := newTestHandler(t)
	cookie := adminCookie(t, h, store)

	user := &domain.User{Email: "aarav@gdgu.org", Role: domain.RoleStudent, IsVerified: true, ContactNumber: "9876543210"}
	require.NoError(t, store.CreateUser(user))

	envelope, _ := doJSON(t, h, http.MethodPut, fmt.Sprintf("/users/%d/", user.ID), map[string]any{"role": "ADMIN"}, cookie)
	require.True(t, envelope.Success, envelope.Message)

	got, err := store.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, got.Role)

	envelope, _ = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/users/%d/", user.ID), nil, cookie)
	require.True(t, envelope.Success, envelope.Message)

	_, err = store.GetUserByID(user.ID)
	assert.Error(t, err)
}
