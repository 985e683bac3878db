package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"12.00", 1200},
		{"2.50", 250},
		{"2.5", 250},
		{"3", 300},
		{"180.00", 18000},
		{"0.80", 80},
	}
	for _, c := range cases {
		got, err := ParsePrice(c.in)
		require.NoError(t, err, c.in)
		require.Equal(t, c.want, got, c.in)
	}

	for _, bad := range []string{"", ".", "12.", "12.345", "-1.00", "abc", "1.x"} {
		_, err := ParsePrice(bad)
		require.Error(t, err, bad)
	}
}

func TestMemoryCatalogResolvePackage(t *testing.T) {
	c := NewMemoryCatalog(SeedPackages())
	ctx := context.Background()

	pkg, err := c.ResolvePackage(ctx, ServiceMTN, "pkg-3")
	require.NoError(t, err)
	require.Equal(t, "2GB Weekly", pkg.Name)
	require.Equal(t, int64(1200), pkg.PriceCents)
	require.Equal(t, "12.00", pkg.Price())

	// wrong service for an existing package id
	_, err = c.ResolvePackage(ctx, ServiceTelecel, "pkg-3")
	require.ErrorIs(t, err, ErrPackageNotFound)

	_, err = c.ResolvePackage(ctx, ServiceMTN, "pkg-999")
	require.ErrorIs(t, err, ErrPackageNotFound)
}

func TestMemoryCatalogListPackages(t *testing.T) {
	c := NewMemoryCatalog(SeedPackages())
	ctx := context.Background()

	pkgs, err := c.ListPackages(ctx, ServiceWASSCE)
	require.NoError(t, err)
	require.Len(t, pkgs, 2)
	require.Equal(t, "pkg-21", pkgs[0].ID)

	_, err = c.ListPackages(ctx, "vodafone")
	require.ErrorIs(t, err, ErrUnknownService)
}

func TestServiceName(t *testing.T) {
	require.Equal(t, "AirtelTigo", ServiceName(ServiceAirtelTigo))
	require.Equal(t, "glo", ServiceName("glo"))
	require.True(t, KnownService(ServiceBECE))
	require.False(t, KnownService(""))
}
