package domain

import "time"

// User roles.
const (
	RoleAdmin   = "ADMIN"
	RoleFaculty = "FACULTY"
	RoleStudent = "STUDENT"
)

// User represents a portal account (student, faculty or admin).
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Role         string    `json:"role" gorm:"size:16;not null"`
	DisplayName  string    `json:"display_name" gorm:"size:255"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserSummary is the identity shape embedded in message payloads.
type UserSummary struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name,omitempty"`
}

// Summary returns the embeddable identity of a user.
func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		DisplayName: u.DisplayName,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents a refresh token request.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AuthResponse is returned on successful login or token refresh.
type AuthResponse struct {
	User         *UserSummary `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    int64        `json:"expires_at"`
}
