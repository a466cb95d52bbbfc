package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"farmledger/ledger"
)

// handleGetProfile returns the caller's profile, from the profile service when
// one is configured and from the local collection otherwise.
func (a *App) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if a.upstream != nil {
		a.proxy(ctx, w, r, a.upstream, http.MethodGet, "/api/user/profile", url.Values{"userId": {owner}}, nil, http.StatusOK)
		return
	}
	p, err := a.profiles.Get(ctx, owner)
	if err != nil {
		a.fail(w, r, "profile", "fetch", err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: p})
}

func (a *App) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	a.saveProfile(w, r, http.MethodPost)
}

func (a *App) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	a.saveProfile(w, r, http.MethodPut)
}

// saveProfile forwards the body keyed by the caller. A userId in the body
// never overrides the caller's identity.
func (a *App) saveProfile(w http.ResponseWriter, r *http.Request, method string) {
	owner := ownerOf(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var p ledger.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	op := "update"
	if method == http.MethodPost {
		op = "create"
	}

	if a.upstream != nil {
		body, err := withOwner(p, owner)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
			return
		}
		okStatus := http.StatusOK
		if method == http.MethodPost {
			okStatus = http.StatusCreated
		}
		a.proxy(ctx, w, r, a.upstream, method, "/api/user/profile", nil, body, okStatus)
		return
	}

	prof, created, err := a.profiles.Save(ctx, owner, p)
	if err != nil {
		a.fail(w, r, "profile", op, err)
		return
	}
	status, msg := http.StatusOK, "Profile updated successfully"
	if created {
		status, msg = http.StatusCreated, "Profile created successfully"
	}
	writeJSON(w, status, envelope{Success: true, Data: prof, Message: msg})
}

var errNoUpstream = errors.New("upstream service not configured")

// proxy forwards one call and relays the reply. A 2xx reply is written with
// okStatus; anything else keeps the collaborator's status and body.
func (a *App) proxy(ctx context.Context, w http.ResponseWriter, r *http.Request, u *upstreamClient, method, path string, query url.Values, body []byte, okStatus int) {
	if u == nil {
		writeError(w, http.StatusServiceUnavailable, "Service unavailable", errNoUpstream.Error())
		return
	}
	resp, err := u.do(ctx, method, path, query, body)
	if err != nil {
		a.fail(w, r, "upstream", "call", err)
		return
	}
	forward(w, okStatus, resp.ContentType, resp.Body)
}

// withOwner sets userId in a JSON object body to owner.
func withOwner(p ledger.Patch, owner string) ([]byte, error) {
	out := make(map[string]json.RawMessage, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	id, err := json.Marshal(owner)
	if err != nil {
		return nil, err
	}
	out["userId"] = id
	return json.Marshal(out)
}

// readObject decodes an optional JSON object body. An empty body yields an
// empty object.
func readObject(r *http.Request) (ledger.Patch, error) {
	var p ledger.Patch
	err := json.NewDecoder(r.Body).Decode(&p)
	if errors.Is(err, io.EOF) {
		return ledger.Patch{}, nil
	}
	return p, err
}
