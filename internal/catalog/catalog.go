package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrPackageNotFound = errors.New("package not found")
	ErrUnknownService  = errors.New("unknown service")
)

// Package is a purchasable bundle (data allotment or result-check
// voucher). Owned by the catalog; the checkout flow holds a read-only
// copy and never carries its price across steps.
type Package struct {
	ID         string `json:"id"`
	ServiceID  string `json:"service_id"`
	Name       string `json:"name"`
	DataAmount string `json:"data_amount"`
	PriceCents int64  `json:"price_cents"`
	Validity   string `json:"validity"`
}

// Price renders the minor-unit amount as a decimal string ("12.00").
func (p Package) Price() string {
	return fmt.Sprintf("%d.%02d", p.PriceCents/100, p.PriceCents%100)
}

// Service ids form a closed set; they are lookup keys, not persisted rows.
const (
	ServiceMTN        = "mtn"
	ServiceAirtelTigo = "airteltigo"
	ServiceTelecel    = "telecel"
	ServiceWASSCE     = "wassce"
	ServiceBECE       = "bece"
)

var serviceNames = map[string]string{
	ServiceMTN:        "MTN",
	ServiceAirtelTigo: "AirtelTigo",
	ServiceTelecel:    "Telecel",
	ServiceWASSCE:     "WASSCE Checker",
	ServiceBECE:       "BECE Checker",
}

// ServiceName maps a service id to its display name. Unknown ids fall
// back to the raw id so display never breaks on stale links.
func ServiceName(id string) string {
	if name, ok := serviceNames[id]; ok {
		return name
	}
	return id
}

// KnownService reports whether id belongs to the closed service set.
func KnownService(id string) bool {
	_, ok := serviceNames[id]
	return ok
}

// ServiceIDs returns the closed service set in display order.
func ServiceIDs() []string {
	return []string{ServiceMTN, ServiceAirtelTigo, ServiceTelecel, ServiceWASSCE, ServiceBECE}
}

// ParsePrice converts a decimal price string ("12.00", "2.5") to integer
// minor units using exact integer arithmetic. The charged amount must
// equal the displayed price to the pesewa, so floats never enter here.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	whole, frac, found := strings.Cut(s, ".")
	if whole == "" {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, fmt.Errorf("invalid price %q", s)
	}
	var cents int64
	if found {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid price %q", s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q", s)
		}
	}
	return units*100 + cents, nil
}

// Resolver is the catalog collaborator contract: deterministic,
// read-only lookup of packages by service and id.
type Resolver interface {
	ResolvePackage(ctx context.Context, serviceID, packageID string) (*Package, error)
	ListPackages(ctx context.Context, serviceID string) ([]Package, error)
}
