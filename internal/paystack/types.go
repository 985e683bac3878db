package paystack

import "time"

type InitializeRequest struct {
	Email       string
	AmountCents int64
	Currency    string
	OrderNumber string
}

type InitializeResponse struct {
	Reference        string
	AccessCode       string
	AuthorizationURL string
}

type VerifyResponse struct {
	Status      string // gateway transaction status; only "success" means paid
	Reference   string
	AmountCents int64
	Currency    string
	PaidAt      *time.Time
	Raw         map[string]any
}

// Success reports whether the gateway settled the transaction.
func (v VerifyResponse) Success() bool { return v.Status == "success" }

// PopupConfig is handed to the browser shell to open the inline widget.
// Amount is in integer minor units (pesewas).
type PopupConfig struct {
	Key      string `json:"key"`
	Email    string `json:"email"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Ref      string `json:"ref"`
}
