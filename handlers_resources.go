package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"farmledger/ledger"
	"farmledger/models"
)

// handleListResources returns one page of the caller's resources together
// with per-type totals over every matching record.
func (a *App) handleListResources(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	page, err := a.resources.List(ctx, ledger.ResourceQuery(owner, ledger.ValuesToParams(r.URL.Query())))
	if err != nil {
		a.fail(w, r, "resources", "fetch", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{
		Success:    true,
		Data:       page.Items,
		Pagination: pageMeta(page.Page),
		Summary:    page.Summary,
	})
}

func (a *App) handleCreateResource(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	in, ok := decodeBody[models.ResourceRecord](w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := a.resources.Create(ctx, owner, in)
	if err != nil {
		a.fail(w, r, "resource", "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: res, Message: "Resource log created successfully"})
}

func (a *App) handleGetResource(w http.ResponseWriter, r *http.Request) {
	owner, oid, ok := ownerAndID(w, r, "Resource")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := a.resources.Get(ctx, owner, oid)
	if err != nil {
		a.fail(w, r, "resource", "fetch", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: res})
}

func (a *App) handleUpdateResource(w http.ResponseWriter, r *http.Request) {
	owner, oid, ok := ownerAndID(w, r, "Resource")
	if !ok {
		return
	}
	var p ledger.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := a.resources.Update(ctx, owner, oid, p)
	if err != nil {
		a.fail(w, r, "resource", "update", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: res, Message: "Resource log updated successfully"})
}

func (a *App) handleDeleteResource(w http.ResponseWriter, r *http.Request) {
	owner, oid, ok := ownerAndID(w, r, "Resource")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.resources.Delete(ctx, owner, oid); err != nil {
		a.fail(w, r, "resource", "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Resource log deleted successfully"})
}
