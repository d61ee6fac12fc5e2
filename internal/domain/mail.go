package domain

const (
	MailTypeVerificationCode = "verification_code"
	MailTypeWelcome          = "welcome"
	MailTypeResetPassword    = "reset_password"
	MailTypeResetSuccess     = "reset_success"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type VerificationCodeMailData struct {
	Code       string `json:"code"`
	Expiration int    `json:"expiration"` // minutes
}

type WelcomeMailData struct {
	Name string `json:"name"`
}

type ResetPasswordMailData struct {
	ResetURL   string `json:"resetUrl"`
	Expiration int    `json:"expiration"` // minutes
}

type ResetSuccessMailData struct {
	Email string `json:"email"`
}
