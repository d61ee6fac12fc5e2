package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/gdgu-dev/student-portal/backend/internal/config"
	"github.com/gdgu-dev/student-portal/backend/internal/domain"
)

// Store is the persistence surface the handlers depend on, implemented by
// repository.Repository. Email uniqueness is enforced by the database; the
// Consume* methods are conditional updates so a token is accepted at most
// once.
type Store interface {
	CreateUser(user *domain.User) error
	GetUserByID(id int64) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	GetAllUsers() ([]*domain.User, error)
	UpdateUser(user *domain.User) error
	DeleteUser(id int64) error
	CheckEmailIfExists(email string) (bool, error)
	ConsumeVerificationToken(code string) (*domain.User, error)
	SetResetToken(id int64, token string, expiresAt time.Time) error
	ConsumeResetToken(token string, newPasswordHash string) (*domain.User, error)
	UpdateLastLogin(user *domain.User) error

	CreateStudent(student *domain.Student) error
	GetStudentByID(id int64) (*domain.Student, error)
	GetAllStudents() ([]*domain.Student, error)
	CheckStudentIfExists(email string, rollNo string) (bool, error)
	UpdateStudent(student *domain.Student) error
	DeleteStudent(id int64) error
}

// Mailer delivers a message to the mail queue. Delivery to the recipient is
// best-effort and happens out of band in cmd/mail.
type Mailer interface {
	Publish(message domain.MailMessage) error
}

// Cooldown throttles outbound mail per recipient address.
type Cooldown interface {
	Allow(ctx context.Context, kind string, email string) (bool, error)
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	store      Store
	translator ut.Translator
	mailer     Mailer
	cooldown   Cooldown

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, store Store, mailer Mailer, cooldown Cooldown) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		store:      store,
		translator: trans,
		mailer:     mailer,
		cooldown:   cooldown,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// account lifecycle
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/verify-email", h.VerifyEmail)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password/{token}", h.ResetPassword)
		r.With(h.auth).Get("/check-auth", h.CheckAuth)
	})

	// administration, requires a logged-in administrator
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Use(h.RequiredRole([]domain.Role{domain.RoleAdmin}))

		r.Route("/students", func(r chi.Router) {
			r.Post("/", h.CreateStudent)
			r.Get("/", h.GetAllStudents)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.studentRecord)
				r.Put("/", h.UpdateStudent)
				r.Delete("/", h.DeleteStudent)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Put("/", h.UpdateUser)
				r.Delete("/", h.DeleteUser)
			})
		})
	})
}
