package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"triversa/internal/catalog"
	"triversa/internal/paystack"
	"triversa/internal/store"

	"go.uber.org/zap"
)

const (
	Currency = "GHS"
	Provider = "paystack"
)

// paymentNetworks is the closed payer-network set. The exam checkers are
// services you can buy for, not networks you can pay from.
var paymentNetworks = map[string]bool{
	catalog.ServiceMTN:        true,
	catalog.ServiceTelecel:    true,
	catalog.ServiceAirtelTigo: true,
}

// Gateway is the slice of the payment client the funnel drives.
type Gateway interface {
	Initialize(ctx context.Context, req paystack.InitializeRequest) (paystack.InitializeResponse, error)
	Verify(ctx context.Context, reference string) (paystack.VerifyResponse, error)
	Popup(email string, amountCents int64, currency, reference string) paystack.PopupConfig
}

// ReadinessSource reports the gateway client's load state; submission is
// refused until it is Ready.
type ReadinessSource interface {
	State() paystack.LoadState
}

// Flow drives the payment leg of the funnel: validation, order creation,
// gateway invocation, and reconciliation of the gateway's outcome.
type Flow struct {
	catalog  catalog.Resolver
	storage  store.Storage
	gateway  Gateway
	ready    ReadinessSource
	logger   *zap.SugaredLogger
	sessions *sessions

	// EmailDomain synthesizes the payer identifier the gateway requires;
	// no real customer email is collected in the funnel.
	EmailDomain string

	// OnSucceeded fires once per reference, when a verification wins the
	// transition to Succeeded. It runs on whichever entry point settled
	// the attempt (callback or status query), never on idempotent
	// repeats. The receipt email hangs off it.
	OnSucceeded func(reference string)
}

func NewFlow(cat catalog.Resolver, storage store.Storage, gateway Gateway, ready ReadinessSource, logger *zap.SugaredLogger) *Flow {
	return &Flow{
		catalog:     cat,
		storage:     storage,
		gateway:     gateway,
		ready:       ready,
		logger:      logger,
		sessions:    newSessions(30 * time.Minute),
		EmailDomain: "triversa.com",
	}
}

type InitiateInput struct {
	Selection      SelectionState
	PaymentNetwork string
	PaymentNumber  string
}

type InitiateResult struct {
	OrderID     int64                `json:"orderId"`
	OrderNumber string               `json:"orderNumber"`
	Reference   string               `json:"reference"`
	Popup       paystack.PopupConfig `json:"popup"`
}

// Initiate runs the guarded submission: readiness gate, field
// validation, authoritative price re-resolution, order creation, and the
// gateway initialize call. No gateway call is ever attempted with an
// incomplete or unresolved selection, and nothing is charged before a
// fresh reference exists.
func (f *Flow) Initiate(ctx context.Context, in InitiateInput) (*InitiateResult, error) {
	// Entry guard: no I/O before the gateway client finished loading.
	if f.ready.State() != paystack.Ready {
		return nil, ErrGatewayNotReady
	}

	if !paymentNetworks[in.PaymentNetwork] {
		return nil, invalidField("payment_network", "please select a payment network")
	}
	if len(in.PaymentNumber) < minPhoneLen {
		return nil, invalidField("payment_number", "please enter a valid payment number")
	}
	// The payment number may equal the recipient number (self-purchase);
	// it is never required to differ.
	if !in.Selection.Complete() {
		return nil, invalidField("selection", "checkout selection is incomplete")
	}

	// Price authority: the package is re-resolved here, immediately
	// before charging. The price the recipient step displayed is never
	// trusted across navigation.
	pkg, err := f.catalog.ResolvePackage(ctx, in.Selection.ServiceID, in.Selection.PackageID)
	if err != nil {
		if errors.Is(err, catalog.ErrPackageNotFound) {
			return nil, invalidField("package_id", "selected package no longer exists")
		}
		return nil, &BackendError{Op: "resolve package", Err: err}
	}

	key := in.Selection.key(in.PaymentNumber)
	if !f.sessions.begin(key) {
		return nil, ErrProcessing
	}

	order := &store.Order{
		ServiceID:       pkg.ServiceID,
		PackageID:       pkg.ID,
		PackageName:     pkg.Name,
		RecipientNumber: in.Selection.RecipientNumber,
		PaymentNumber:   in.PaymentNumber,
		PaymentNetwork:  in.PaymentNetwork,
		AmountCents:     pkg.PriceCents,
		Currency:        Currency,
	}
	if err := f.storage.Orders.Create(ctx, order); err != nil {
		f.sessions.release(key, "")
		return nil, &BackendError{Op: "create order", Err: err}
	}

	email := fmt.Sprintf("customer%d@%s", order.ID, f.EmailDomain)

	initRes, err := f.gateway.Initialize(ctx, paystack.InitializeRequest{
		Email:       email,
		AmountCents: pkg.PriceCents,
		Currency:    Currency,
		OrderNumber: order.OrderNumber,
	})
	if err != nil {
		f.sessions.release(key, "")
		if failErr := f.storage.Orders.SetStatus(ctx, order.ID, store.OrderStatusFailed); failErr != nil {
			f.logger.Errorw("mark order failed after initialize error", "order_id", order.ID, "error", failErr)
		}
		return nil, &BackendError{Op: "initialize payment", Err: err}
	}

	if err := f.storage.Orders.SetReference(ctx, order.ID, initRes.Reference); err != nil {
		f.logger.Errorw("attach gateway reference", "order_id", order.ID, "reference", initRes.Reference, "error", err)
	}
	attempt := &store.Attempt{
		OrderID:     order.ID,
		Reference:   initRes.Reference,
		Provider:    Provider,
		AmountCents: pkg.PriceCents,
		Currency:    Currency,
	}
	if err := f.storage.Attempts.Create(ctx, attempt); err != nil {
		// The gateway transaction exists; keep going so verification can
		// still reconcile it, but leave a loud trace.
		f.logger.Errorw("record payment attempt", "reference", initRes.Reference, "error", err)
	}

	sess := &Session{
		Reference: initRes.Reference,
		OrderID:   order.ID,
		Selection: in.Selection,
	}
	f.sessions.register(key, sess)

	f.logger.Infow("payment initiated",
		"order_number", order.OrderNumber,
		"reference", initRes.Reference,
		"amount_cents", pkg.PriceCents,
		"network", in.PaymentNetwork,
	)

	return &InitiateResult{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Reference:   initRes.Reference,
		Popup:       f.gateway.Popup(email, pkg.PriceCents, Currency, initRes.Reference),
	}, nil
}

// Session exposes the in-flight session for a reference; tests and the
// admin surface use it.
func (f *Flow) Session(reference string) (*Session, bool) {
	return f.sessions.get(reference)
}

// Close stops the session registry's janitor.
func (f *Flow) Close() {
	f.sessions.stop()
}
