package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"triversa/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

const (
	AttemptInitialized = "initialized"
	AttemptSuccess     = "success"
	AttemptFailed      = "failed"
	AttemptCancelled   = "cancelled"
	// AttemptUnresolved marks a verification that errored in transport.
	// These are never auto-retried; support reconciles them by hand.
	AttemptUnresolved = "unresolved"
)

// Attempt is one gateway invocation for an order. References are unique
// per attempt and never reused; a failed or cancelled attempt is
// discarded and a resubmission creates a fresh row.
type Attempt struct {
	ID          int64     `json:"id"`
	OrderID     int64     `json:"order_id"`
	Reference   string    `json:"reference"`
	Provider    string    `json:"provider"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	GatewayResp any       `json:"gateway_response,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AttemptsStore struct{ q dbx.Querier }

func (s *AttemptsStore) Create(ctx context.Context, a *Attempt) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	if a.Status == "" {
		a.Status = AttemptInitialized
	}
	err := s.q.QueryRow(ctx, `
		INSERT INTO payment_attempts (order_id, reference, provider, amount_cents, currency, status)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at
	`, a.OrderID, a.Reference, a.Provider, a.AmountCents, a.Currency, a.Status).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create payment attempt: %w", err)
	}
	return nil
}

func (s *AttemptsStore) GetByReference(ctx context.Context, reference string) (*Attempt, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var a Attempt
	var raw []byte
	err := s.q.QueryRow(ctx, `
		SELECT id, order_id, reference, provider, amount_cents, currency, status,
		       gateway_response, created_at, updated_at
		FROM payment_attempts WHERE reference=$1
	`, reference).Scan(&a.ID, &a.OrderID, &a.Reference, &a.Provider, &a.AmountCents,
		&a.Currency, &a.Status, &raw, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get payment attempt: %w", err)
	}
	if len(raw) > 0 {
		var resp any
		if err := json.Unmarshal(raw, &resp); err == nil {
			a.GatewayResp = resp
		}
	}
	return &a, nil
}

// SetOutcome records the terminal status plus the raw gateway response
// for audit. Only pending attempts transition; a second outcome for the
// same reference is a no-op, which backs callback idempotency.
func (s *AttemptsStore) SetOutcome(ctx context.Context, reference, status string, raw any) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var payload []byte
	if raw != nil {
		b, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("marshal gateway response: %w", err)
		}
		payload = b
	}

	tag, err := s.q.Exec(ctx, `
		UPDATE payment_attempts
		SET status=$1, gateway_response=COALESCE($2, gateway_response), updated_at=now()
		WHERE reference=$3 AND status=$4
	`, status, payload, reference, AttemptInitialized)
	if err != nil {
		return fmt.Errorf("set attempt outcome: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

// Resolved reports whether the reference already carries a terminal
// outcome (success/failed/cancelled/unresolved).
func (s *AttemptsStore) Resolved(ctx context.Context, reference string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var status string
	err := s.q.QueryRow(ctx, `
		SELECT status FROM payment_attempts WHERE reference=$1
	`, reference).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("check payment attempt: %w", err)
	}
	return status != AttemptInitialized, nil
}
