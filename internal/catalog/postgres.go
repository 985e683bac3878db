package catalog

import (
	"context"
	"errors"
	"fmt"

	"triversa/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

// Repository is the Postgres-backed Resolver. Schema:
//
//	CREATE TABLE packages (
//	    id          TEXT PRIMARY KEY,
//	    service_id  TEXT NOT NULL,
//	    name        TEXT NOT NULL,
//	    data_amount TEXT NOT NULL,
//	    price_cents BIGINT NOT NULL CHECK (price_cents > 0),
//	    validity    TEXT NOT NULL,
//	    sort_order  INT NOT NULL DEFAULT 0
//	);
type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

func (r *Repository) ResolvePackage(ctx context.Context, serviceID, packageID string) (*Package, error) {
	var p Package
	err := r.q.QueryRow(ctx, `
		SELECT id, service_id, name, data_amount, price_cents, validity
		FROM packages
		WHERE id=$1 AND service_id=$2
	`, packageID, serviceID).
		Scan(&p.ID, &p.ServiceID, &p.Name, &p.DataAmount, &p.PriceCents, &p.Validity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPackageNotFound
		}
		return nil, fmt.Errorf("resolve package: %w", err)
	}
	return &p, nil
}

func (r *Repository) ListPackages(ctx context.Context, serviceID string) ([]Package, error) {
	if !KnownService(serviceID) {
		return nil, ErrUnknownService
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, service_id, name, data_amount, price_cents, validity
		FROM packages
		WHERE service_id=$1
		ORDER BY sort_order, id
	`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var out []Package
	for rows.Next() {
		var p Package
		if err := rows.Scan(&p.ID, &p.ServiceID, &p.Name, &p.DataAmount, &p.PriceCents, &p.Validity); err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return out, nil
}
