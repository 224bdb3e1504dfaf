package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password"        validate:"required"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,maxbytes=72"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type meResponse struct {
	Username    string   `json:"username"`
	Authorities []string `json:"authorities"`
}

// --- Profile ---

type profileRequest struct {
	MonthlyIncome        *float64 `json:"monthlyIncome"        validate:"omitempty,gte=0"`
	MonthlySavingsTarget *float64 `json:"monthlySavingsTarget" validate:"omitempty,gte=0"`
	MonthlyExpenseTarget *float64 `json:"monthlyExpenseTarget" validate:"omitempty,gte=0"`
}

type profileResponse struct {
	MonthlyIncome        *float64   `json:"monthlyIncome"`
	MonthlySavingsTarget *float64   `json:"monthlySavingsTarget"`
	MonthlyExpenseTarget *float64   `json:"monthlyExpenseTarget"`
	UpdatedAt            *time.Time `json:"updatedAt,omitempty"`
}

// --- Admin ---

type userResponse struct {
	ID        string   `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	CreatedAt string   `json:"createdAt"`
}
