package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/gdgu-dev/student-portal/backend/internal/domain"
	"github.com/gdgu-dev/student-portal/backend/internal/utils"
)

const sessionCookieName = "__gdgu_portal_token"

type AuthClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// setSessionCookie signs a session token for the account and writes it as an
// HTTP-only cookie. The token itself is the complete proof of authentication;
// no session state is kept server-side.
func (h *Handler) setSessionCookie(w http.ResponseWriter, user *domain.User) error {
	expiration := time.Now().Add(time.Duration(h.config.JWT.Expiration) * time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	})
	ss, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		return err
	}

	cookie := &http.Cookie{
		Name:     sessionCookieName,
		Value:    ss,
		Expires:  expiration,
		Path:     "/",
		HttpOnly: true,
		Secure:   false,
	}

	if h.config.Environment == "production" {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}

	http.SetCookie(w, cookie)
	return nil
}

func (h *Handler) hasInstitutionalDomain(email string) bool {
	return strings.HasSuffix(email, "@"+h.config.Email.UserDomain)
}

func (h *Handler) institutionalDomainError(w http.ResponseWriter, r *http.Request) {
	h.errorResponse(w, r, fmt.Sprintf("Only institutional email addresses (@%s) are allowed", h.config.Email.UserDomain))
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email         string `json:"email" validate:"required,email"`
		Password      string `json:"password" validate:"required"`
		FatherName    string `json:"fatherName" validate:"required"`
		MotherName    string `json:"motherName" validate:"required"`
		ContactNumber string `json:"contactNumber" validate:"required,len=10,numeric"`
		Photo         string `json:"photo" validate:"required"`
		CollegeIDCard string `json:"collegeIdCard" validate:"required"`
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
		h.errorResponse(w, r, "User already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	code := utils.GenerateVerificationCode()
	codeExpiresAt := time.Now().Add(time.Duration(h.config.Token.VerificationExpiration) * time.Second)

	// the role is decided once, from the whitelist as it is right now
	user := &domain.User{
		Email:                      req.Email,
		PasswordHash:               string(hashedPassword),
		FatherName:                 req.FatherName,
		MotherName:                 req.MotherName,
		ContactNumber:              req.ContactNumber,
		Photo:                      req.Photo,
		CollegeIDCard:              req.CollegeIDCard,
		Role:                       domain.ResolveRole(h.config.AdminWhitelist, req.Email),
		IsVerified:                 false,
		VerificationToken:          &code,
		VerificationTokenExpiresAt: &codeExpiresAt,
	}

	if err := h.store.CreateUser(user); err != nil {
		// the existence check above races with concurrent signups; the unique
		// constraint is what actually guarantees one account per email
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "users_email_key":
			h.errorResponse(w, r, "User already exists")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// a session is issued before verification so the client can poll its
	// status; login and check-auth remain the operations that gate on it
	if err := h.setSessionCookie(w, user); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.mailer.Publish(domain.MailMessage{
		Type: domain.MailTypeVerificationCode,
		To:   user.Email,
		Data: domain.VerificationCodeMailData{
			Code:       code,
			Expiration: h.config.Token.VerificationExpiration / 60,
		},
	}); err != nil {
		// the account is already durable; surface the failure without
		// undoing the signup
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "User created successfully. Please verify your email with the code sent.", user)
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// wrong, expired and already-consumed codes are indistinguishable to the
	// caller
	user, err := h.store.ConsumeVerificationToken(req.Code)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Invalid or expired verification code")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	name, _, _ := strings.Cut(user.Email, "@")
	if err := h.mailer.Publish(domain.MailMessage{
		Type: domain.MailTypeWelcome,
		To:   user.Email,
		Data: domain.WelcomeMailData{
			Name: name,
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Email verified successfully", user)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
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

	// unknown email and wrong password produce the same message so the
	// endpoint cannot be used to enumerate accounts
	user, err := h.store.GetUserByEmail(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Invalid email or password")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if !user.IsVerified {
		h.errorResponse(w, r, "Please verify your email before logging in")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			h.errorResponse(w, r, "Invalid email or password")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.setSessionCookie(w, user); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.store.UpdateLastLogin(user); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Logged in successfully", user)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:    sessionCookieName,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})

	h.successResponse(w, r, "Logged out successfully", nil)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, err := h.store.GetUserByEmail(req.Email)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "User not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// throttle mail only; the token minted by an earlier request within the
	// window stays valid
	allowed, err := h.cooldown.Allow(r.Context(), domain.MailTypeResetPassword, user.Email)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !allowed {
		h.successResponse(w, r, "Password reset link sent to your email", nil)
		return
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	tokenExpiresAt := time.Now().Add(time.Duration(h.config.Token.ResetExpiration) * time.Second)

	if err := h.store.SetResetToken(user.ID, token, tokenExpiresAt); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.mailer.Publish(domain.MailMessage{
		Type: domain.MailTypeResetPassword,
		To:   user.Email,
		Data: domain.ResetPasswordMailData{
			ResetURL:   fmt.Sprintf("%s/reset-password/%s", h.config.Email.ClientURL, token),
			Expiration: h.config.Token.ResetExpiration / 60,
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Password reset link sent to your email", nil)
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req struct {
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user, err := h.store.ConsumeResetToken(token, string(hashedPassword))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Invalid or expired reset token")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := h.mailer.Publish(domain.MailMessage{
		Type: domain.MailTypeResetSuccess,
		To:   user.Email,
		Data: domain.ResetSuccessMailData{
			Email: user.Email,
		},
	}); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Password reset successful", nil)
}

func (h *Handler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	subString := r.Context().Value(SubCtxKey).(string)

	sub, err := strconv.ParseInt(subString, 10, 64)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user, err := h.store.GetUserByID(sub)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "User not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Authenticated", user)
}
