package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestGateway(t *testing.T) *Gateway {
	t.Helper()

	gateway, err := NewGateway(slog.Default(), "gochannel", "")
	require.NoError(t, err)
	t.Cleanup(gateway.Close)

	return gateway
}

func TestGateway_RootEndpoint(t *testing.T) {
	app := setupTestGateway(t).App()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "Voxline Gateway", string(body))
}

func TestGateway_ReceiveMessage(t *testing.T) {
	app := setupTestGateway(t).App()

	payload := `{"tenant_id":"tenant-1","from":"+15550001111","text":"hello"}`
	req := httptest.NewRequest(http.MethodPost, "/callbacks/messages", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestGateway_ReceiveMessage_MissingText(t *testing.T) {
	app := setupTestGateway(t).App()

	payload := `{"from":"+15550001111"}`
	req := httptest.NewRequest(http.MethodPost, "/callbacks/messages", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGateway_ReceiveIncomingCall(t *testing.T) {
	app := setupTestGateway(t).App()

	payload := `{"tenant_id":"tenant-1","call_id":"call-1","from":"+15550001111"}`
	req := httptest.NewRequest(http.MethodPost, "/callbacks/calls/incoming", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestGateway_ReceiveTranscription(t *testing.T) {
	app := setupTestGateway(t).App()

	payload := `{"transcript":"I would like an appointment"}`
	req := httptest.NewRequest(http.MethodPost, "/callbacks/calls/call-1/transcription", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestGateway_ConditionFields(t *testing.T) {
	app := setupTestGateway(t).App()

	req := httptest.NewRequest(http.MethodGet, "/condition-fields?integrations=hubspot", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Fields []struct {
			Path string `json:"path"`
		} `json:"fields"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	paths := make([]string, 0, len(body.Fields))
	for _, field := range body.Fields {
		paths = append(paths, field.Path)
	}

	assert.Contains(t, paths, "customer.name")
	assert.Contains(t, paths, "variables.workflow.crmContactId")
	assert.NotContains(t, paths, "variables.workflow.gmailMessageId")
}
