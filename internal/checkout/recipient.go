package checkout

import (
	"context"
	"errors"
	"strings"

	"triversa/internal/catalog"
)

// minPhoneLen is the loose phone rule at this layer; strict format
// validation belongs to the phone-input collaborator.
const minPhoneLen = 10

// RecipientStep validates the recipient number and package choice, then
// advances the selection. Rules run in order and the first failure wins,
// so at most one field-scoped error surfaces at a time.
type RecipientStep struct {
	Catalog catalog.Resolver
}

// Advance returns the fully populated SelectionState and the resolved
// package on success. On validation failure the selection does not
// advance and no navigation happens.
func (s *RecipientStep) Advance(ctx context.Context, serviceID, recipientNumber, packageID string) (SelectionState, *catalog.Package, error) {
	recipientNumber = strings.TrimSpace(recipientNumber)
	if len(recipientNumber) < minPhoneLen {
		return SelectionState{}, nil, invalidField("recipient_number", "please enter a valid phone number")
	}

	if packageID == "" {
		return SelectionState{}, nil, invalidField("package_id", "please select a package")
	}

	pkgs, err := s.Catalog.ListPackages(ctx, serviceID)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownService) {
			return SelectionState{}, nil, invalidField("service", "unknown service")
		}
		return SelectionState{}, nil, &BackendError{Op: "list packages", Err: err}
	}
	if len(pkgs) == 0 {
		return SelectionState{}, nil, ErrNoPackages
	}

	pkg, err := s.Catalog.ResolvePackage(ctx, serviceID, packageID)
	if err != nil {
		if errors.Is(err, catalog.ErrPackageNotFound) {
			return SelectionState{}, nil, invalidField("package_id", "please select a package")
		}
		return SelectionState{}, nil, &BackendError{Op: "resolve package", Err: err}
	}

	sel := SelectionState{
		ServiceID:       serviceID,
		RecipientNumber: recipientNumber,
		PackageID:       pkg.ID,
	}
	return sel, pkg, nil
}
