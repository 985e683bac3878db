package checkout

import "net/url"

// SelectionState carries the user's accumulated choices between funnel
// steps. It is populated additively: service at entry, recipient number
// and package at the recipient step. Navigating back starts a fresh one.
type SelectionState struct {
	ServiceID       string `json:"service_id"`
	RecipientNumber string `json:"recipient_number"`
	PackageID       string `json:"package_id"`
}

// ParseSelection reads the navigation-surface query parameters
// (?service=...&package=...&recipient=...).
func ParseSelection(q url.Values) SelectionState {
	return SelectionState{
		ServiceID:       q.Get("service"),
		RecipientNumber: q.Get("recipient"),
		PackageID:       q.Get("package"),
	}
}

// Values renders the state back into query parameters, the shareable
// form the next step is entered with.
func (s SelectionState) Values() url.Values {
	q := url.Values{}
	if s.ServiceID != "" {
		q.Set("service", s.ServiceID)
	}
	if s.PackageID != "" {
		q.Set("package", s.PackageID)
	}
	if s.RecipientNumber != "" {
		q.Set("recipient", s.RecipientNumber)
	}
	return q
}

// Complete reports whether all three choices have been made. Payment
// initiation refuses anything less.
func (s SelectionState) Complete() bool {
	return s.ServiceID != "" && s.RecipientNumber != "" && s.PackageID != ""
}

// key identifies a checkout for in-flight deduplication: one submission
// at a time per selection+payer.
func (s SelectionState) key(paymentNumber string) string {
	return s.ServiceID + "|" + s.PackageID + "|" + paymentNumber
}
