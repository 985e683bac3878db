package catalog

import "context"

// MemoryCatalog is an in-memory Resolver seeded with the production
// package list. It backs local development and tests; production wires
// the Postgres repository instead.
type MemoryCatalog struct {
	byService map[string][]Package
	byID      map[string]Package
}

func NewMemoryCatalog(packages []Package) *MemoryCatalog {
	c := &MemoryCatalog{
		byService: make(map[string][]Package),
		byID:      make(map[string]Package, len(packages)),
	}
	for _, p := range packages {
		c.byService[p.ServiceID] = append(c.byService[p.ServiceID], p)
		c.byID[p.ID] = p
	}
	return c
}

func (c *MemoryCatalog) ResolvePackage(_ context.Context, serviceID, packageID string) (*Package, error) {
	p, ok := c.byID[packageID]
	if !ok || p.ServiceID != serviceID {
		return nil, ErrPackageNotFound
	}
	return &p, nil
}

func (c *MemoryCatalog) ListPackages(_ context.Context, serviceID string) ([]Package, error) {
	if !KnownService(serviceID) {
		return nil, ErrUnknownService
	}
	pkgs := c.byService[serviceID]
	out := make([]Package, len(pkgs))
	copy(out, pkgs)
	return out, nil
}

// SeedPackages is the storefront catalog as sold today. Prices are in
// pesewas (GHS minor units).
func SeedPackages() []Package {
	return []Package{
		{ID: "pkg-1", ServiceID: ServiceMTN, Name: "500MB Daily", DataAmount: "500MB", PriceCents: 300, Validity: "Valid for 24 hours"},
		{ID: "pkg-2", ServiceID: ServiceMTN, Name: "1GB Daily", DataAmount: "1GB", PriceCents: 500, Validity: "Valid for 24 hours"},
		{ID: "pkg-3", ServiceID: ServiceMTN, Name: "2GB Weekly", DataAmount: "2GB", PriceCents: 1200, Validity: "Valid for 7 days"},
		{ID: "pkg-4", ServiceID: ServiceMTN, Name: "5GB Weekly", DataAmount: "5GB", PriceCents: 2000, Validity: "Valid for 7 days"},
		{ID: "pkg-5", ServiceID: ServiceMTN, Name: "10GB Monthly", DataAmount: "10GB", PriceCents: 4500, Validity: "Valid for 30 days"},
		{ID: "pkg-6", ServiceID: ServiceMTN, Name: "20GB Monthly", DataAmount: "20GB", PriceCents: 8000, Validity: "Valid for 30 days"},
		{ID: "pkg-7", ServiceID: ServiceMTN, Name: "50GB Monthly", DataAmount: "50GB", PriceCents: 18000, Validity: "Valid for 30 days"},
		{ID: "pkg-8", ServiceID: ServiceAirtelTigo, Name: "500MB Daily", DataAmount: "500MB", PriceCents: 250, Validity: "Valid for 24 hours"},
		{ID: "pkg-9", ServiceID: ServiceAirtelTigo, Name: "1GB Daily", DataAmount: "1GB", PriceCents: 450, Validity: "Valid for 24 hours"},
		{ID: "pkg-10", ServiceID: ServiceAirtelTigo, Name: "3GB Weekly", DataAmount: "3GB", PriceCents: 1500, Validity: "Valid for 7 days"},
		{ID: "pkg-11", ServiceID: ServiceAirtelTigo, Name: "6GB Weekly", DataAmount: "6GB", PriceCents: 2500, Validity: "Valid for 7 days"},
		{ID: "pkg-12", ServiceID: ServiceAirtelTigo, Name: "12GB Monthly", DataAmount: "12GB", PriceCents: 5000, Validity: "Valid for 30 days"},
		{ID: "pkg-13", ServiceID: ServiceAirtelTigo, Name: "25GB Monthly", DataAmount: "25GB", PriceCents: 9500, Validity: "Valid for 30 days"},
		{ID: "pkg-14", ServiceID: ServiceTelecel, Name: "500MB Daily", DataAmount: "500MB", PriceCents: 280, Validity: "Valid for 24 hours"},
		{ID: "pkg-15", ServiceID: ServiceTelecel, Name: "1GB Daily", DataAmount: "1GB", PriceCents: 500, Validity: "Valid for 24 hours"},
		{ID: "pkg-16", ServiceID: ServiceTelecel, Name: "2.5GB Weekly", DataAmount: "2.5GB", PriceCents: 1300, Validity: "Valid for 7 days"},
		{ID: "pkg-17", ServiceID: ServiceTelecel, Name: "5GB Weekly", DataAmount: "5GB", PriceCents: 2200, Validity: "Valid for 7 days"},
		{ID: "pkg-18", ServiceID: ServiceTelecel, Name: "8GB Monthly", DataAmount: "8GB", PriceCents: 3500, Validity: "Valid for 30 days"},
		{ID: "pkg-19", ServiceID: ServiceTelecel, Name: "15GB Monthly", DataAmount: "15GB", PriceCents: 6500, Validity: "Valid for 30 days"},
		{ID: "pkg-20", ServiceID: ServiceTelecel, Name: "30GB Monthly", DataAmount: "30GB", PriceCents: 12000, Validity: "Valid for 30 days"},
		{ID: "pkg-21", ServiceID: ServiceWASSCE, Name: "Single Result Check", DataAmount: "1 Check", PriceCents: 800, Validity: "Instant access"},
		{ID: "pkg-22", ServiceID: ServiceWASSCE, Name: "3 Results Check", DataAmount: "3 Checks", PriceCents: 2000, Validity: "Valid for 7 days"},
		{ID: "pkg-23", ServiceID: ServiceBECE, Name: "Single Result Check", DataAmount: "1 Check", PriceCents: 600, Validity: "Instant access"},
		{ID: "pkg-24", ServiceID: ServiceBECE, Name: "3 Results Check", DataAmount: "3 Checks", PriceCents: 1500, Validity: "Valid for 7 days"},
	}
}
