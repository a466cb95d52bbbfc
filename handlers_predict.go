package main

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// predictPaths maps /predict/{kind} onto the prediction service.
var predictPaths = map[string]string{
	"crop":       "/api/predict-crop",
	"fertilizer": "/api/predict-fertilizer",
	"yield":      "/api/predict-yield",
}

var reportKinds = map[string]bool{"crop": true, "fertilizer": true, "yield": true, "disease": true}

// handlePredict forwards a prediction request. The service records it in the
// caller's history, so userId is always the caller.
func (a *App) handlePredict(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	path, ok := predictPaths[chi.URLParam(r, "kind")]
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown prediction type", "")
		return
	}
	p, err := readObject(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	body, err := withOwner(p, owner)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 25*time.Second)
	defer cancel()
	a.proxy(ctx, w, r, a.upstream, http.MethodPost, path, nil, body, http.StatusOK)
}

func (a *App) handlePredictionHistory(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	q := url.Values{"userId": {owner}}
	if r.Method == http.MethodGet {
		for _, k := range []string{"predictionType", "limit"} {
			if v := r.URL.Query().Get(k); v != "" {
				q.Set(k, v)
			}
		}
	}
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()
	a.proxy(ctx, w, r, a.upstream, r.Method, "/api/user/prediction-history", q, nil, http.StatusOK)
}

// handleReport asks the prediction service for a written report on the
// caller's latest prediction of the given kind.
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	kind := chi.URLParam(r, "kind")
	if !reportKinds[kind] {
		writeError(w, http.StatusNotFound, "Unknown prediction type", "")
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()
	q := url.Values{"userId": {owner}, "predictionType": {kind}}
	a.proxy(ctx, w, r, a.upstream, http.MethodPost, "/api/generate-detailed-report", q, nil, http.StatusOK)
}

// handleSchemes relays reads of the government schemes catalogue, keeping the
// sub-path and query string.
func (a *App) handleSchemes(w http.ResponseWriter, r *http.Request) {
	if ownerOf(r) == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	path := "/api/schemes"
	if rest := strings.Trim(chi.URLParam(r, "*"), "/"); rest != "" {
		path += "/" + rest
	}
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()
	a.proxy(ctx, w, r, a.schemes, http.MethodGet, path, r.URL.Query(), nil, http.StatusOK)
}
