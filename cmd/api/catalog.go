package main

import (
	"errors"
	"fmt"
	"net/http"

	"triversa/internal/catalog"

	"github.com/go-chi/chi/v5"
)

type serviceEnvelope struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// listServicesHandler godoc
//
//	@Summary		List services
//	@Description	Returns the closed set of purchasable services
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{array}	serviceEnvelope
//	@Router			/services [get]
func (app *application) listServicesHandler(w http.ResponseWriter, r *http.Request) {
	services := make([]serviceEnvelope, 0, 5)
	for _, id := range catalog.ServiceIDs() {
		services = append(services, serviceEnvelope{ID: id, Name: catalog.ServiceName(id)})
	}
	if err := app.jsonResponse(w, http.StatusOK, services); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listPackagesHandler godoc
//
//	@Summary		List packages for a service
//	@Description	Ordered packages for the service; empty when nothing is on sale
//	@Tags			catalog
//	@Produce		json
//	@Param			serviceID	path		string	true	"Service ID"
//	@Success		200			{array}		catalog.Package
//	@Failure		404			{object}	error
//	@Router			/services/{serviceID}/packages [get]
func (app *application) listPackagesHandler(w http.ResponseWriter, r *http.Request) {
	serviceID := chi.URLParam(r, "serviceID")

	pkgs, err := app.catalog.ListPackages(r.Context(), serviceID)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownService) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	if pkgs == nil {
		pkgs = []catalog.Package{}
	}
	if err := app.jsonResponse(w, http.StatusOK, pkgs); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getPackageHandler godoc
//
//	@Summary		Get a package
//	@Tags			catalog
//	@Produce		json
//	@Param			packageID	path		string	true	"Package ID"
//	@Param			service		query		string	true	"Service ID"
//	@Success		200			{object}	catalog.Package
//	@Failure		404			{object}	error
//	@Router			/packages/{packageID} [get]
func (app *application) getPackageHandler(w http.ResponseWriter, r *http.Request) {
	packageID := chi.URLParam(r, "packageID")
	serviceID := r.URL.Query().Get("service")
	if serviceID == "" {
		app.badRequestResponse(w, r, fmt.Errorf("missing service query param"))
		return
	}

	pkg, err := app.catalog.ResolvePackage(r.Context(), serviceID, packageID)
	if err != nil {
		if errors.Is(err, catalog.ErrPackageNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, pkg); err != nil {
		app.internalServerError(w, r, err)
	}
}
