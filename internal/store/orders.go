package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"triversa/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusFailed    = "failed"
	OrderStatusCancelled = "cancelled"
)

// Order is one checkout submission. The amount is snapshotted in minor
// units from the catalog at creation time so the gateway charge always
// matches what was resolved, never what the browser carried.
type Order struct {
	ID               int64      `json:"id"`
	OrderNumber      string     `json:"order_number"`
	ServiceID        string     `json:"service_id"`
	PackageID        string     `json:"package_id"`
	PackageName      string     `json:"package_name"`
	RecipientNumber  string     `json:"recipient_number"`
	PaymentNumber    string     `json:"payment_number"`
	PaymentNetwork   string     `json:"payment_network"`
	AmountCents      int64      `json:"amount_cents"`
	Currency         string     `json:"currency"`
	Status           string     `json:"status"`
	GatewayReference *string    `json:"gateway_reference,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type OrdersStore struct {
	q   dbx.Querier
	gen *OrderNumberGenerator
}

func (s *OrdersStore) Create(ctx context.Context, o *Order) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	o.OrderNumber = s.gen.Generate(o.PaymentNumber)
	if o.Status == "" {
		o.Status = OrderStatusPending
	}

	err := s.q.QueryRow(ctx, `
		INSERT INTO orders
			(order_number, service_id, package_id, package_name, recipient_number,
			 payment_number, payment_network, amount_cents, currency, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at
	`, o.OrderNumber, o.ServiceID, o.PackageID, o.PackageName, o.RecipientNumber,
		o.PaymentNumber, o.PaymentNetwork, o.AmountCents, o.Currency, o.Status).
		Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// SetReference attaches the gateway-assigned reference once initialize
// succeeds. The unique index on gateway_reference guarantees no two
// orders ever share one.
func (s *OrdersStore) SetReference(ctx context.Context, orderID int64, reference string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.q.Exec(ctx, `
		UPDATE orders SET gateway_reference=$1 WHERE id=$2 AND gateway_reference IS NULL
	`, reference, orderID)
	if err != nil {
		return fmt.Errorf("set order reference: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrConflict
	}
	return nil
}

const orderColumns = `
	id, order_number, service_id, package_id, package_name, recipient_number,
	payment_number, payment_network, amount_cents, currency, status,
	gateway_reference, paid_at, created_at`

func (s *OrdersStore) scanOne(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.ServiceID, &o.PackageID, &o.PackageName,
		&o.RecipientNumber, &o.PaymentNumber, &o.PaymentNetwork, &o.AmountCents,
		&o.Currency, &o.Status, &o.GatewayReference, &o.PaidAt, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (s *OrdersStore) GetByID(ctx context.Context, id int64) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.scanOne(s.q.QueryRow(ctx, `SELECT`+orderColumns+` FROM orders WHERE id=$1`, id))
}

func (s *OrdersStore) GetByReference(ctx context.Context, reference string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.scanOne(s.q.QueryRow(ctx, `SELECT`+orderColumns+` FROM orders WHERE gateway_reference=$1`, reference))
}

func (s *OrdersStore) GetByOrderNumber(ctx context.Context, orderNumber string) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return s.scanOne(s.q.QueryRow(ctx, `SELECT`+orderColumns+` FROM orders WHERE order_number=$1`, orderNumber))
}

// List returns orders newest-first plus the total count, for the
// support listing.
func (s *OrdersStore) List(ctx context.Context, limit, offset int) ([]Order, int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var total int
	if err := s.q.QueryRow(ctx, `SELECT count(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := s.q.Query(ctx, `
		SELECT`+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		err := rows.Scan(&o.ID, &o.OrderNumber, &o.ServiceID, &o.PackageID, &o.PackageName,
			&o.RecipientNumber, &o.PaymentNumber, &o.PaymentNetwork, &o.AmountCents,
			&o.Currency, &o.Status, &o.GatewayReference, &o.PaidAt, &o.CreatedAt)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (s *OrdersStore) MarkPaid(ctx context.Context, orderID int64, paidAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.q.Exec(ctx, `
		UPDATE orders SET status=$1, paid_at=$2 WHERE id=$3 AND status<>$1
	`, OrderStatusPaid, paidAt, orderID)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *OrdersStore) SetStatus(ctx context.Context, orderID int64, status string) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.q.Exec(ctx, `UPDATE orders SET status=$1 WHERE id=$2`, status, orderID)
	if err != nil {
		return fmt.Errorf("set order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
