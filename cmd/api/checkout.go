package main

import (
	"errors"
	"net/http"

	"triversa/internal/checkout"
)

type RecipientStepPayload struct {
	Service         string `json:"service" validate:"required"`
	RecipientNumber string `json:"recipient_number" validate:"required,msisdn"`
	PackageID       string `json:"package_id" validate:"required"`
}

type RecipientStepResponse struct {
	Selection checkout.SelectionState `json:"selection"`
	Token     string                  `json:"token"`
	// NextURL is the payment step entry with the selection encoded as
	// query parameters, the shareable navigation form.
	NextURL     string `json:"next_url"`
	PackageName string `json:"package_name"`
	Price       string `json:"price"`
}

// recipientStepHandler godoc
//
//	@Summary		Recipient/package step
//	@Description	Validates the recipient number and package choice, then advances the selection
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		RecipientStepPayload	true	"Recipient step payload"
//	@Success		200		{object}	RecipientStepResponse
//	@Failure		422		{object}	error	"Field-scoped validation error"
//	@Router			/checkout/recipient [post]
func (app *application) recipientStepHandler(w http.ResponseWriter, r *http.Request) {
	var payload RecipientStepPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.validationErrorResponse(w, r, err)
		return
	}

	sel, pkg, err := app.recipient.Advance(r.Context(), payload.Service, payload.RecipientNumber, payload.PackageID)
	if err != nil {
		var vErr *checkout.ValidationError
		switch {
		case errors.As(err, &vErr):
			app.fieldErrorResponse(w, r, vErr.Field, vErr.Message)
		case errors.Is(err, checkout.ErrNoPackages):
			app.fieldErrorResponse(w, r, "package_id", checkout.ErrNoPackages.Error())
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	token, err := app.tokens.Sign(sel)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	resp := RecipientStepResponse{
		Selection:   sel,
		Token:       token,
		NextURL:     "/payment?" + sel.Values().Encode(),
		PackageName: pkg.Name,
		Price:       pkg.Price(),
	}
	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}
