package models

// User is the signed-in account as returned by GET /user/me.
type User struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	ProfilePictureURL string `json:"profilePictureUrl"`
	Streak            int    `json:"streak"`
	TwoFactorEnabled  bool   `json:"twoFactorEnabled"`
	AITitleAccess     bool   `json:"aiTitleAccess"`
	AIContentAccess   bool   `json:"aiContentAccess"`
}

// DailyPrompt is the writing suggestion of GET /ai/daily-prompt.
type DailyPrompt struct {
	Prompt string `json:"prompt"`
	Date   string `json:"date"`
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is the response of login and 2FA verification. When
// TwoFactorRequired is set Token is empty and a code was sent by email.
type LoginResult struct {
	Token             string `json:"token,omitempty"`
	TwoFactorRequired bool   `json:"twoFactorRequired,omitempty"`
}

// Signup is the body of POST /auth/signup.
type Signup struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// EmailCode carries a code mailed to the user: account verification and
// second factor both use it.
type EmailCode struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,alphanum,len=6"`
}

// EmailOnly is the body of resend-verification and forgot-password.
type EmailOnly struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordReset is the body of POST /auth/reset-password.
type PasswordReset struct {
	Email       string `json:"email" validate:"required,email"`
	Code        string `json:"code" validate:"required,alphanum,len=6"`
	NewPassword string `json:"newPassword" validate:"required,min=8,max=128"`
}

// Message is the generic acknowledgement body of the API.
type Message struct {
	Message string `json:"message"`
}
