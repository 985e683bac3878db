package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"triversa/internal/paystack"
	"triversa/internal/store"
)

type fakeReadiness struct{ state paystack.LoadState }

func (f *fakeReadiness) State() paystack.LoadState { return f.state }

type fakeGateway struct {
	mu          sync.Mutex
	initCalls   int
	verifyCalls int

	initErr      error
	verifyErr    error
	verifyStatus string
}

func (g *fakeGateway) Initialize(_ context.Context, req paystack.InitializeRequest) (paystack.InitializeResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.initCalls++
	if g.initErr != nil {
		return paystack.InitializeResponse{}, g.initErr
	}
	return paystack.InitializeResponse{
		Reference:  fmt.Sprintf("trv_ref_%d", g.initCalls),
		AccessCode: fmt.Sprintf("ac_%d", g.initCalls),
	}, nil
}

func (g *fakeGateway) Verify(_ context.Context, reference string) (paystack.VerifyResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.verifyCalls++
	if g.verifyErr != nil {
		return paystack.VerifyResponse{}, g.verifyErr
	}
	status := g.verifyStatus
	if status == "" {
		status = "success"
	}
	return paystack.VerifyResponse{Status: status, Reference: reference}, nil
}

func (g *fakeGateway) Popup(email string, amountCents int64, currency, reference string) paystack.PopupConfig {
	return paystack.PopupConfig{
		Key:      "pk_test_x",
		Email:    email,
		Amount:   amountCents,
		Currency: currency,
		Ref:      reference,
	}
}

type fakeOrders struct {
	mu        sync.Mutex
	nextID    int64
	orders    map[int64]*store.Order
	createErr error
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{orders: make(map[int64]*store.Order)}
}

func (s *fakeOrders) Create(_ context.Context, o *store.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.nextID++
	o.ID = s.nextID
	o.OrderNumber = fmt.Sprintf("TRV-TEST-%04d", s.nextID)
	o.Status = store.OrderStatusPending
	o.CreatedAt = time.Now()
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *fakeOrders) SetReference(_ context.Context, orderID int64, reference string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	o.GatewayReference = &reference
	return nil
}

func (s *fakeOrders) GetByID(_ context.Context, id int64) (*store.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *fakeOrders) GetByReference(_ context.Context, reference string) (*store.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.GatewayReference != nil && *o.GatewayReference == reference {
			cp := *o
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeOrders) GetByOrderNumber(_ context.Context, orderNumber string) (*store.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.OrderNumber == orderNumber {
			cp := *o
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeOrders) List(_ context.Context, limit, offset int) ([]store.Order, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []store.Order
	for _, o := range s.orders {
		all = append(all, *o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *fakeOrders) MarkPaid(_ context.Context, orderID int64, paidAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = store.OrderStatusPaid
	o.PaidAt = &paidAt
	return nil
}

func (s *fakeOrders) SetStatus(_ context.Context, orderID int64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	o.Status = status
	return nil
}

type fakeAttempts struct {
	mu       sync.Mutex
	attempts map[string]*store.Attempt
}

func newFakeAttempts() *fakeAttempts {
	return &fakeAttempts{attempts: make(map[string]*store.Attempt)}
}

func (s *fakeAttempts) Create(_ context.Context, a *store.Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.attempts[a.Reference]; exists {
		return store.ErrConflict
	}
	a.Status = store.AttemptInitialized
	a.CreatedAt = time.Now()
	cp := *a
	s.attempts[a.Reference] = &cp
	return nil
}

func (s *fakeAttempts) GetByReference(_ context.Context, reference string) (*store.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[reference]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *fakeAttempts) SetOutcome(_ context.Context, reference, status string, raw any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[reference]
	if !ok {
		return store.ErrNotFound
	}
	if a.Status != store.AttemptInitialized {
		return store.ErrConflict
	}
	a.Status = status
	if raw != nil {
		a.GatewayResp = raw
	}
	return nil
}

func (s *fakeAttempts) Resolved(_ context.Context, reference string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.attempts[reference]
	if !ok {
		return false, store.ErrNotFound
	}
	return a.Status != store.AttemptInitialized, nil
}

var errBoom = errors.New("boom")
