package domain

import "time"

// Profile holds a user's monthly financial targets. Nil amounts are unset.
type Profile struct {
	UserID               string    `json:"-"`
	MonthlyIncome        *float64  `json:"monthlyIncome"`
	MonthlySavingsTarget *float64  `json:"monthlySavingsTarget"`
	MonthlyExpenseTarget *float64  `json:"monthlyExpenseTarget"`
	UpdatedAt            time.Time `json:"updatedAt,omitzero"`
}
