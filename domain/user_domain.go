package domain

import "errors"

var (
	MessageSuccessRegister     = "user registered successfully"
	MessageSuccessLogin        = "login success"
	MessageSuccessGetProfile   = "success get profile"
	MessageSuccessUpdateAvatar = "avatar updated successfully"
	MessageSuccessDeleteAvatar = "avatar deleted successfully"
	MessageSuccessForgotPass   = "password reset email sent"
	MessageSuccessResetPass    = "password reset successfully"

	MessageFailedRegister     = "failed to register user"
	MessageFailedLogin        = "failed to login"
	MessageFailedGetProfile   = "failed to get profile"
	MessageFailedUpdateAvatar = "failed to update avatar"
	MessageFailedDeleteAvatar = "failed to delete avatar"
	MessageFailedForgotPass   = "failed to send password reset email"
	MessageFailedResetPass    = "failed to reset password"

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrCredentialsInvalid = errors.New("invalid email or password")
	ErrAvatarNotSet       = errors.New("user has no avatar")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email"`
		Username  string `json:"username" validate:"required,max=150"`
		FirstName string `json:"first_name" validate:"required,max=150"`
		LastName  string `json:"last_name" validate:"required,max=150"`
		Password  string `json:"password" validate:"required,min=8"`
	}

	RegisterResponse struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"auth_token"`
	}

	// UserProfile is the user payload embedded in recipe and subscription
	// views. IsSubscribed is computed relative to the requesting viewer and is
	// always false for an anonymous one.
	UserProfile struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Username     string `json:"username"`
		FirstName    string `json:"first_name"`
		LastName     string `json:"last_name"`
		IsSubscribed bool   `json:"is_subscribed"`
		Avatar       string `json:"avatar,omitempty"`
	}

	UpdateAvatarRequest struct {
		Avatar string `json:"avatar" validate:"required"` // base64 payload
	}

	UpdateAvatarResponse struct {
		Avatar string `json:"avatar"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token    string `json:"token" validate:"required"`
		Password string `json:"password" validate:"required,min=8"`
	}
)
