package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"farmledger/ledger"
	"farmledger/notify"

	"go.uber.org/zap"
)

// handleSendSMS renders a template for the caller and sends it to the phone
// on their profile.
func (a *App) handleSendSMS(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	if owner == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "")
		return
	}
	var req smsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	prof, err := a.profiles.Get(ctx, owner)
	if errors.Is(err, ledger.ErrNotFound) {
		writeError(w, http.StatusNotFound, "User profile not found", "")
		return
	}
	if err != nil {
		a.fail(w, r, "SMS", "send", err)
		return
	}
	if !prof.SMSEnabled() {
		writeError(w, http.StatusForbidden, "SMS notifications are disabled for this user", "")
		return
	}
	if prof.Phone == "" {
		writeError(w, http.StatusBadRequest, "Phone number not configured", "")
		return
	}

	body, err := notify.Render(req.Type, req.Data, req.CustomMessage)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid SMS type", err.Error())
		return
	}
	rc, err := a.sms.Send(ctx, notify.Message{
		To:   notify.FormatNumber(prof.Phone, a.cfg.SMS.CountryCode),
		Body: body,
	})
	if err != nil {
		a.fail(w, r, "SMS", "send", err)
		return
	}
	a.log.Info("sms sent", zap.String("owner", owner), zap.String("type", string(req.Type)), zap.String("id", rc.MessageID))
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "SMS sent successfully", Data: rc})
}
