package domain

import "time"

type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Role            string    `json:"role"`
	PasswordHash    string    `json:"-"`
	PushToken       string    `json:"-"`
	TotalKilometers float64   `json:"total_kilometers"`
	CreatedAt       time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PushTokenRequest struct {
	Token string `json:"token"`
}
