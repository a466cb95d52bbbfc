package notify

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRender(t *testing.T) {
	tests := []struct {
		kind Kind
		data TemplateData
		want string
	}{
		{KindCropReminder, TemplateData{CropName: "Rice", DaysUntilHarvest: 7},
			"🌾 FarmWise Alert: Your Rice is 7 days away from harvest. Prepare for harvesting!"},
		{KindWeatherAlert, TemplateData{Type: "Hailstorm", Severity: "high"},
			"⚠️ FarmWise Weather Alert: Hailstorm warning (high). Take necessary precautions for your crops."},
		{KindResourceLow, TemplateData{ResourceName: "Urea"},
			"📦 FarmWise Inventory: Your Urea stock is running low. Consider restocking soon."},
		{KindDiseaseDetection, TemplateData{DiseaseName: "Blast", CropName: "Rice"},
			"🔬 FarmWise Alert: Blast detected in your Rice. Check your dashboard for treatment recommendations."},
		{KindMarketPrice, TemplateData{CropName: "Wheat", Price: 2275.5},
			"💰 FarmWise Market Update: Wheat current price is ₹2275.5/quintal. Good time to sell!"},
		{KindGeneral, TemplateData{Message: "Mandi closed tomorrow"},
			"🌱 FarmWise: Mandi closed tomorrow"},
	}
	for _, tt := range tests {
		got, err := Render(tt.kind, tt.data, "")
		require.NoError(t, err, tt.kind)
		assert.Equal(t, tt.want, got)
	}

	got, err := Render(KindMarketPrice, TemplateData{}, "Custom text")
	require.NoError(t, err)
	assert.Equal(t, "🌱 FarmWise: Custom text", got)

	_, err = Render("harvestParty", TemplateData{}, "")
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = Render(KindGeneral, TemplateData{}, "")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "+919876543210", FormatNumber("9876543210", "+91"))
	assert.Equal(t, "+919876543210", FormatNumber(" 98765-43210 ", "+91"))
	assert.Equal(t, "+14155550100", FormatNumber("+14155550100", "+91"))
	assert.Equal(t, "+449876543210", FormatNumber("(987) 654 3210", "+44"))
}

func TestTwilioSend(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)
		body, _ := io.ReadAll(r.Body)
		got, _ = url.ParseQuery(string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"sid":"SM42","status":"queued"}`)
	}))
	defer srv.Close()

	tw := NewTwilio(TwilioConfig{AccountSID: "AC123", AuthToken: "secret", From: "+15005550006", BaseURL: srv.URL})
	rc, err := tw.Send(context.Background(), Message{To: "+919876543210", Body: "hello"})
	require.NoError(t, err)
	assert.Equal(t, Receipt{Success: true, MessageID: "SM42", Status: "queued"}, rc)
	assert.Equal(t, "+919876543210", got.Get("To"))
	assert.Equal(t, "+15005550006", got.Get("From"))
	assert.Equal(t, "hello", got.Get("Body"))
}

func TestTwilioErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"code":21211,"message":"Invalid 'To' Phone Number"}`)
	}))
	defer srv.Close()

	tw := NewTwilio(TwilioConfig{AccountSID: "AC1", AuthToken: "x", BaseURL: srv.URL})
	_, err := tw.Send(context.Background(), Message{To: "+1", Body: "x"})
	var ge *GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, http.StatusBadRequest, ge.StatusCode)
	assert.True(t, strings.Contains(ge.Error(), "21211"))
}

func TestDryRunAndDisabled(t *testing.T) {
	rc, err := DryRun{Log: zap.NewNop()}.Send(context.Background(), Message{To: "+91", Body: "x"})
	require.NoError(t, err)
	assert.True(t, rc.Success)
	assert.True(t, strings.HasPrefix(rc.MessageID, "dry-"))

	_, err = Disabled{}.Send(context.Background(), Message{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
