package store

import (
	"context"
	"errors"
	"time"

	"triversa/internal/infra/dbx"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Orders interface {
		Create(ctx context.Context, o *Order) error
		SetReference(ctx context.Context, orderID int64, reference string) error
		GetByID(ctx context.Context, id int64) (*Order, error)
		GetByReference(ctx context.Context, reference string) (*Order, error)
		GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
		List(ctx context.Context, limit, offset int) ([]Order, int, error)
		MarkPaid(ctx context.Context, orderID int64, paidAt time.Time) error
		SetStatus(ctx context.Context, orderID int64, status string) error
	}
	Attempts interface {
		Create(ctx context.Context, a *Attempt) error
		GetByReference(ctx context.Context, reference string) (*Attempt, error)
		SetOutcome(ctx context.Context, reference, status string, raw any) error
		Resolved(ctx context.Context, reference string) (bool, error)
	}
}

func NewStorage(q dbx.Querier, orderNumbers *OrderNumberGenerator) Storage {
	return Storage{
		Orders:   &OrdersStore{q: q, gen: orderNumbers},
		Attempts: &AttemptsStore{q: q},
	}
}
