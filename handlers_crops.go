package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"farmledger/ledger"
	"farmledger/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// handleListCrops returns one page of the caller's crops, newest planting first.
func (a *App) handleListCrops(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	page, err := a.crops.List(ctx, ledger.CropQuery(owner, ledger.ValuesToParams(r.URL.Query())))
	if err != nil {
		a.fail(w, r, "crops", "fetch", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: page.Items, Pagination: pageMeta(page)})
}

func (a *App) handleCreateCrop(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	in, ok := decodeBody[models.CropRecord](w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := a.crops.Create(ctx, owner, in)
	if err != nil {
		a.fail(w, r, "crop", "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, envelope{Success: true, Data: c, Message: "Crop log created successfully"})
}

func (a *App) handleGetCrop(w http.ResponseWriter, r *http.Request) {
	owner, oid, ok := ownerAndID(w, r, "Crop")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	c, err := a.crops.Get(ctx, owner, oid)
	if err != nil {
		a.fail(w, r, "crop", "fetch", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: c})
}

func (a *App) handleUpdateCrop(w http.ResponseWriter, r *http.Request) {
	owner, oid, ok := ownerAndID(w, r, "Crop")
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

	c, err := a.crops.Update(ctx, owner, oid, p)
	if err != nil {
		a.fail(w, r, "crop", "update", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: c, Message: "Crop log updated successfully"})
}

func (a *App) handleDeleteCrop(w http.ResponseWriter, r *http.Request) {
	owner, oid, ok := ownerAndID(w, r, "Crop")
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := a.crops.Delete(ctx, owner, oid); err != nil {
		a.fail(w, r, "crop", "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Crop log deleted successfully"})
}

// ownerAndID resolves the caller and the {id} path parameter. A malformed id
// cannot name any record, so it is reported as not found.
func ownerAndID(w http.ResponseWriter, r *http.Request, kind string) (string, primitive.ObjectID, bool) {
	owner := ownerOf(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return "", primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, kind+" not found", "")
		return "", primitive.NilObjectID, false
	}
	return owner, oid, true
}

// decodeBody reads a create payload. Server-owned keys in the body are
// dropped before decoding.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var p ledger.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		var zero T
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return zero, false
	}
	v, err := ledger.Decode[T](p)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return v, false
	}
	return v, true
}
