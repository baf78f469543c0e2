package models

import "time"

// Transaction is the model for the 'transactions' table.
// One row per payment attempt. 'Paid' flips from false to true exactly
// once, when Razorpay reports the matching order as paid.
type Transaction struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Plan      string    `json:"plan" db:"plan"`
	Amount    int64     `json:"amount" db:"amount"`
	Credits   int       `json:"credits" db:"credits"`
	Receipt   string    `json:"receipt" db:"receipt"`
	Paid      bool      `json:"paid" db:"paid"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
