package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message is one outbound SMS.
type Message struct {
	To   string
	Body string
}

// Receipt is what the gateway reported back.
type Receipt struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
}

// Gateway delivers SMS.
type Gateway interface {
	Send(ctx context.Context, m Message) (Receipt, error)
}

// ErrNotConfigured is returned by Disabled.
var ErrNotConfigured = errors.New("SMS service not configured")

// GatewayError carries a non-2xx reply from the messaging provider.
type GatewayError struct {
	StatusCode int
	Body       []byte
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// FormatNumber prefixes countryCode to numbers without one, dropping any
// non-digits: "98765 43210" -> "+919876543210".
func FormatNumber(phone, countryCode string) string {
	p := strings.TrimSpace(phone)
	if strings.HasPrefix(p, "+") {
		return p
	}
	var b strings.Builder
	b.WriteString(countryCode)
	for _, r := range p {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Disabled rejects every send.
type Disabled struct{}

func (Disabled) Send(context.Context, Message) (Receipt, error) {
	return Receipt{}, ErrNotConfigured
}

// DryRun logs messages instead of sending them.
type DryRun struct {
	Log *zap.Logger
}

func (d DryRun) Send(_ context.Context, m Message) (Receipt, error) {
	id := "dry-" + uuid.NewString()
	d.Log.Info("sms dry run", zap.String("to", m.To), zap.String("id", id), zap.Int("chars", len([]rune(m.Body))))
	return Receipt{Success: true, MessageID: id, Status: "queued"}, nil
}

// TwilioConfig addresses the Twilio Messages API.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
	BaseURL    string // defaults to https://api.twilio.com
}

// Twilio sends through the Twilio REST API.
type Twilio struct {
	cfg    TwilioConfig
	client *http.Client
}

func NewTwilio(cfg TwilioConfig) *Twilio {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	return &Twilio{cfg: cfg, client: &http.Client{Timeout: 15 * time.Second}}
}

func (t *Twilio) Send(ctx context.Context, m Message) (Receipt, error) {
	form := url.Values{}
	form.Set("To", m.To)
	form.Set("From", t.cfg.From)
	form.Set("Body", m.Body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(t.cfg.BaseURL, "/"), url.PathEscape(t.cfg.AccountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Receipt{}, fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(t.cfg.AccountSID, t.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return Receipt{}, fmt.Errorf("twilio call failed: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Receipt{}, &GatewayError{StatusCode: resp.StatusCode, Body: data}
	}

	var out struct {
		SID    string `json:"sid"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return Receipt{}, fmt.Errorf("decode twilio resp: %w", err)
	}
	return Receipt{Success: true, MessageID: out.SID, Status: out.Status}, nil
}
