package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcast/backend/internal/infra/ports/http/dto"
)

func webhookCall(t *testing.T, handler func(echo.Context) error, body string) (*httptest.ResponseRecorder, dto.WebhookResponse) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, handler(e.NewContext(req, rec)))

	var resp dto.WebhookResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	return rec, resp
}

func TestWebhookHandler_PublishAcknowledges(t *testing.T) {
	h := NewWebhookHandler()

	body := `{"action":"on_publish","client_id":"c1","ip":"10.0.0.1","vhost":"__defaultVhost__","app":"live","stream":"alice"}`
	rec, resp := webhookCall(t, h.Publish, body)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "success", resp.Message)
}

func TestWebhookHandler_PublishRejectsMalformedPayload(t *testing.T) {
	h := NewWebhookHandler()

	rec, resp := webhookCall(t, h.Publish, "{broken")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, resp.Code)
}

func TestWebhookHandler_UnpublishAlwaysAcknowledges(t *testing.T) {
	h := NewWebhookHandler()

	// The stream already stopped; a decode failure must not veto it.
	rec, resp := webhookCall(t, h.Unpublish, "{broken")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, resp.Code)
}

func TestWebhookHandler_CloseAlwaysAcknowledges(t *testing.T) {
	h := NewWebhookHandler()

	rec, resp := webhookCall(t, h.Close, "{broken")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, resp.Code)
}
