package domain

import (
	"errors"
	"time"
)

var (
	MessageSuccessRegister         = "user registered successfully"
	MessageSuccessLogin            = "login success"
	MessageSuccessGetMe            = "success get current user"
	MessageSuccessGetProfile       = "success get user profile"
	MessageSuccessChangePassword   = "password changed successfully"
	MessageSuccessUpdateAvatar     = "avatar updated successfully"
	MessageSuccessDeleteAvatar     = "avatar deleted successfully"
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedRegister         = "failed to register user"
	MessageFailedLogin            = "failed to login"
	MessageFailedGetMe            = "failed to get current user"
	MessageFailedGetProfile       = "failed to get user profile"
	MessageFailedChangePassword   = "failed to change password"
	MessageFailedUpdateAvatar     = "failed to update avatar"
	MessageFailedDeleteAvatar     = "failed to delete avatar"
	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrUserNotFound        = errors.New("user not found")
	ErrEmailAlreadyUsed    = errors.New("email already registered")
	ErrUsernameAlreadyUsed = errors.New("username already taken")
	ErrUsernameReserved    = errors.New("username is reserved")
	ErrUsernameInvalid     = errors.New("username contains invalid characters or is too short")
	ErrCredentialsInvalid  = errors.New("invalid email or password")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrAvatarMissing       = errors.New("user has no avatar")
)

type (
	RegisterRequest struct {
		Email     string `json:"email" validate:"required,email"`
		Username  string `json:"username" validate:"required,min=3,max=150"`
		Password  string `json:"password" validate:"required,min=8"`
		FirstName string `json:"first_name" validate:"max=150"`
		LastName  string `json:"last_name" validate:"max=150"`
	}

	RegisterResponse struct {
		ID        string `json:"id"`
		Email     string `json:"email"`
		Username  string `json:"username"`
		FirstName string `json:"first_name,omitempty"`
		LastName  string `json:"last_name,omitempty"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
	}

	UpdateAvatarRequest struct {
		Avatar string `json:"avatar" validate:"required"`
	}

	UpdateAvatarResponse struct {
		AvatarURL string `json:"avatar_url"`
	}

	UserProfileResponse struct {
		ID           string    `json:"id"`
		Email        string    `json:"email"`
		Username     string    `json:"username"`
		FirstName    string    `json:"first_name,omitempty"`
		LastName     string    `json:"last_name,omitempty"`
		AvatarURL    string    `json:"avatar_url,omitempty"`
		IsSubscribed bool      `json:"is_subscribed"`
		CreatedAt    time.Time `json:"created_at"`
	}

	// SubscriptionResponse is one followed author with a short preview of
	// their recipes, ordered newest first.
	SubscriptionResponse struct {
		ID           string          `json:"id"`
		Email        string          `json:"email"`
		Username     string          `json:"username"`
		FirstName    string          `json:"first_name,omitempty"`
		LastName     string          `json:"last_name,omitempty"`
		AvatarURL    string          `json:"avatar_url,omitempty"`
		RecipesCount int64           `json:"recipes_count"`
		Recipes      []RecipePreview `json:"recipes"`
	}
)
