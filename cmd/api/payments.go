package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"triversa/internal/checkout"
	"triversa/internal/mailer"
	"triversa/internal/params"
	"triversa/internal/store"

	"github.com/go-chi/chi/v5"
)

type InitializePaymentPayload struct {
	ServiceID       string `json:"serviceId"`
	PackageID       string `json:"packageId"`
	RecipientNumber string `json:"recipientNumber"`
	PaymentNumber   string `json:"paymentNumber" validate:"required,msisdn"`
	PaymentNetwork  string `json:"paymentNetwork" validate:"required,oneof=mtn telecel airteltigo"`
	// Token is the signed selection carrier from the recipient step; if
	// present it wins over the loose fields above.
	Token string `json:"token,omitempty"`
}

// initializePaymentHandler godoc
//
//	@Summary		Initialize a payment
//	@Description	Creates an order, initializes a gateway transaction, and returns the popup parameters
//	@Tags			payment
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		InitializePaymentPayload	true	"Payment initiation payload"
//	@Success		201		{object}	checkout.InitiateResult
//	@Failure		409		{object}	error	"A payment is already in progress"
//	@Failure		422		{object}	error	"Field-scoped validation error"
//	@Failure		503		{object}	error	"Gateway client not ready"
//	@Router			/payment/initialize [post]
func (app *application) initializePaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload InitializePaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.validationErrorResponse(w, r, err)
		return
	}

	sel := checkout.SelectionState{
		ServiceID:       payload.ServiceID,
		RecipientNumber: payload.RecipientNumber,
		PackageID:       payload.PackageID,
	}
	if payload.Token != "" {
		parsed, err := app.tokens.Parse(payload.Token)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid checkout token: %w", err))
			return
		}
		sel = parsed
	} else if !sel.Complete() {
		// Fall back to the navigation surface: ?service=&package=&recipient=
		if fromQuery := checkout.ParseSelection(r.URL.Query()); fromQuery.Complete() {
			sel = fromQuery
		}
	}

	res, err := app.flow.Initiate(r.Context(), checkout.InitiateInput{
		Selection:      sel,
		PaymentNetwork: payload.PaymentNetwork,
		PaymentNumber:  payload.PaymentNumber,
	})
	if err != nil {
		var vErr *checkout.ValidationError
		var bErr *checkout.BackendError
		switch {
		case errors.Is(err, checkout.ErrGatewayNotReady):
			app.logger.Warnw("payment blocked, gateway not ready", "state", app.gateway.Readiness().State())
			writeJSONError(w, http.StatusServiceUnavailable, checkout.ErrGatewayNotReady.Error())
		case errors.Is(err, checkout.ErrProcessing):
			app.conflictResponse(w, r, err)
		case errors.As(err, &vErr):
			app.fieldErrorResponse(w, r, vErr.Field, vErr.Message)
		case errors.As(err, &bErr):
			// Retryable: the funnel is back at idle, resubmission allowed.
			app.internalServerError(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, res); err != nil {
		app.internalServerError(w, r, err)
	}
}

type GatewayEventPayload struct {
	Reference string `json:"reference" validate:"required"`
}

// gatewayCallbackHandler godoc
//
//	@Summary		Gateway completion callback
//	@Description	The popup reported completion; verifies the payment server-side and settles the attempt
//	@Tags			payment
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		GatewayEventPayload	true	"Gateway callback payload"
//	@Success		200		{object}	checkout.Outcome
//	@Failure		404		{object}	error
//	@Failure		502		{object}	error	"Verification could not be completed"
//	@Router			/payment/callback [post]
func (app *application) gatewayCallbackHandler(w http.ResponseWriter, r *http.Request) {
	var payload GatewayEventPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	out, err := app.flow.HandleCallback(r.Context(), payload.Reference)
	if err != nil {
		var vErr *checkout.VerifyError
		switch {
		case errors.Is(err, checkout.ErrUnknownReference):
			app.notFoundResponse(w, r, err)
		case errors.As(err, &vErr):
			// Deliberately not retried: the charge may have landed.
			writeJSONError(w, http.StatusBadGateway, "could not verify payment, please contact support")
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, out); err != nil {
		app.internalServerError(w, r, err)
	}
}

// gatewayCloseHandler godoc
//
//	@Summary		Gateway popup closed
//	@Description	The user closed the popup without paying; the attempt is cancelled, nothing is verified
//	@Tags			payment
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		GatewayEventPayload	true	"Gateway close payload"
//	@Success		200		{object}	checkout.Outcome
//	@Failure		404		{object}	error
//	@Router			/payment/close [post]
func (app *application) gatewayCloseHandler(w http.ResponseWriter, r *http.Request) {
	var payload GatewayEventPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	out, err := app.flow.HandleClose(r.Context(), payload.Reference)
	if err != nil {
		if errors.Is(err, checkout.ErrUnknownReference) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, out); err != nil {
		app.internalServerError(w, r, err)
	}
}

// verifyPaymentHandler godoc
//
//	@Summary		Verify a payment
//	@Description	Authoritative payment status for a reference
//	@Tags			payment
//	@Produce		json
//	@Param			reference	path		string	true	"Gateway reference"
//	@Success		200			{object}	checkout.Outcome
//	@Failure		404			{object}	error
//	@Failure		502			{object}	error	"Verification could not be completed"
//	@Router			/payment/verify/{reference} [get]
func (app *application) verifyPaymentHandler(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	out, err := app.flow.Status(r.Context(), reference)
	if err != nil {
		var vErr *checkout.VerifyError
		switch {
		case errors.Is(err, checkout.ErrUnknownReference):
			app.notFoundResponse(w, r, err)
		case errors.As(err, &vErr):
			writeJSONError(w, http.StatusBadGateway, "could not verify payment, please contact support")
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, out); err != nil {
		app.internalServerError(w, r, err)
	}
}

// gatewayStatusHandler godoc
//
//	@Summary		Gateway client readiness
//	@Tags			payment
//	@Produce		json
//	@Success		200	{object}	string
//	@Router			/payment/gateway/status [get]
func (app *application) gatewayStatusHandler(w http.ResponseWriter, r *http.Request) {
	data := map[string]string{"state": string(app.gateway.Readiness().State())}
	if err := app.jsonResponse(w, http.StatusOK, data); err != nil {
		app.internalServerError(w, r, err)
	}
}

// gatewayRetryHandler godoc
//
//	@Summary		Retry the gateway readiness probe
//	@Description	Re-probes after a failed load; a no-op while loading or ready
//	@Tags			payment
//	@Produce		json
//	@Success		202	{object}	string
//	@Router			/payment/gateway/retry [post]
func (app *application) gatewayRetryHandler(w http.ResponseWriter, r *http.Request) {
	app.gateway.Readiness().Retry(context.Background())
	data := map[string]string{"state": string(app.gateway.Readiness().State())}
	if err := app.jsonResponse(w, http.StatusAccepted, data); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adminGetOrderHandler godoc
//
//	@Summary		Look up an order for support
//	@Description	Support reconciliation surface, mainly for unresolved verifications
//	@Tags			admin
//	@Produce		json
//	@Param			orderNumber	path		string	true	"Order number"
//	@Success		200			{object}	store.Order
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/admin/orders/{orderNumber} [get]
func (app *application) adminGetOrderHandler(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")

	order, err := app.store.Orders.GetByOrderNumber(r.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, order); err != nil {
		app.internalServerError(w, r, err)
	}
}

type OrderListResponse struct {
	Orders     []store.Order     `json:"orders"`
	Pagination params.Pagination `json:"pagination"`
}

// adminListOrdersHandler godoc
//
//	@Summary		List orders for support
//	@Description	Newest orders first, paginated with ?page= and ?limit=
//	@Tags			admin
//	@Produce		json
//	@Param			page	query		int	false	"Page number"
//	@Param			limit	query		int	false	"Items per page"
//	@Success		200		{object}	OrderListResponse
//	@Security		ApiKeyAuth
//	@Router			/admin/orders [get]
func (app *application) adminListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	orders, total, err := app.store.Orders.List(r.Context(), p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if orders == nil {
		orders = []store.Order{}
	}
	resp := OrderListResponse{Orders: orders, Pagination: p}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// sendReceipt emails a payment receipt in the background. Best-effort:
// a failure only logs, it never affects the checkout outcome.
func (app *application) sendReceipt(reference string) {
	if !app.config.mail.enabled {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		order, err := app.store.Orders.GetByReference(ctx, reference)
		if err != nil {
			app.logger.Errorw("load order for receipt", "reference", reference, "error", err)
			return
		}

		amount := fmt.Sprintf("%d.%02d", order.AmountCents/100, order.AmountCents%100)
		data := map[string]string{
			"OrderNumber":     order.OrderNumber,
			"PackageName":     order.PackageName,
			"RecipientNumber": order.RecipientNumber,
			"Amount":          amount,
			"Reference":       reference,
		}
		email := fmt.Sprintf("customer%d@%s", order.ID, app.flow.EmailDomain)

		if _, err := app.mailer.Send(mailer.PaymentReceiptTemplate, order.OrderNumber, email, data); err != nil {
			app.logger.Errorw("send receipt", "reference", reference, "error", err)
			return
		}
		app.logger.Infow("receipt sent", "order_number", order.OrderNumber)
	}()
}
