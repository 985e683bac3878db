package checkout

import (
	"context"
	"testing"

	"triversa/internal/catalog"

	"github.com/stretchr/testify/require"
)

func TestRecipientStepAdvance(t *testing.T) {
	step := &RecipientStep{Catalog: catalog.NewMemoryCatalog(catalog.SeedPackages())}

	sel, pkg, err := step.Advance(context.Background(), catalog.ServiceMTN, "0244000000", "pkg-3")
	require.NoError(t, err)
	require.True(t, sel.Complete())
	require.Equal(t, "pkg-3", sel.PackageID)
	require.Equal(t, int64(1200), pkg.PriceCents)
}

func TestRecipientStepShortNumberBlocks(t *testing.T) {
	step := &RecipientStep{Catalog: catalog.NewMemoryCatalog(catalog.SeedPackages())}

	sel, _, err := step.Advance(context.Background(), catalog.ServiceMTN, "024400", "pkg-3")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "recipient_number", vErr.Field)
	// No state transition on failure.
	require.False(t, sel.Complete())
}

func TestRecipientStepFirstRuleWins(t *testing.T) {
	step := &RecipientStep{Catalog: catalog.NewMemoryCatalog(catalog.SeedPackages())}

	// Both the number and the package are invalid; only the number's
	// error surfaces.
	_, _, err := step.Advance(context.Background(), catalog.ServiceMTN, "", "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "recipient_number", vErr.Field)
}

func TestRecipientStepMissingPackage(t *testing.T) {
	step := &RecipientStep{Catalog: catalog.NewMemoryCatalog(catalog.SeedPackages())}

	_, _, err := step.Advance(context.Background(), catalog.ServiceMTN, "0244000000", "")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "package_id", vErr.Field)

	_, _, err = step.Advance(context.Background(), catalog.ServiceMTN, "0244000000", "pkg-404")
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "package_id", vErr.Field)
}

func TestRecipientStepNoPackagesAvailable(t *testing.T) {
	// A known service with nothing to sell blocks progression entirely.
	step := &RecipientStep{Catalog: catalog.NewMemoryCatalog(nil)}

	_, _, err := step.Advance(context.Background(), catalog.ServiceBECE, "0244000000", "pkg-23")
	require.ErrorIs(t, err, ErrNoPackages)
}

func TestRecipientStepUnknownService(t *testing.T) {
	step := &RecipientStep{Catalog: catalog.NewMemoryCatalog(catalog.SeedPackages())}

	_, _, err := step.Advance(context.Background(), "glo", "0244000000", "pkg-1")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, "service", vErr.Field)
}
