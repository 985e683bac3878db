package main

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusNotFound, "not found")
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("conflict", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusConflict, err.Error())
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	w.Header().Set("Retry-After", retryAfter)
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter)
}

// validationErrorResponse reports the first failed payload rule
// against its json field name.
func (app *application) validationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) || len(vErrs) == 0 {
		app.badRequestResponse(w, r, err)
		return
	}

	fe := vErrs[0]
	var message string
	switch fe.Tag() {
	case "required":
		message = fe.Field() + " is required"
	case "msisdn":
		message = "enter a valid mobile number"
	case "oneof":
		message = "unsupported value for " + fe.Field()
	default:
		message = fe.Field() + " is invalid"
	}
	app.fieldErrorResponse(w, r, fe.Field(), message)
}

// fieldErrorResponse surfaces a user-correctable, field-scoped
// validation failure (422, so the shell can pin it to the input).
func (app *application) fieldErrorResponse(w http.ResponseWriter, r *http.Request, field, message string) {
	app.logger.Infow("validation failed", "method", r.Method, "path", r.URL.Path, "field", field)

	writeJSONFieldError(w, http.StatusUnprocessableEntity, field, message)
}
