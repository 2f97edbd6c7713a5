package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neo-assistant-backend/internal/assistant"
	"neo-assistant-backend/internal/config"
	"neo-assistant-backend/internal/store"
	"neo-assistant-backend/internal/types"
)

type fakeProvider struct {
	temp        float64
	tempErr     error
	headline    string
	headlineErr error
	rate        float64
	rateErr     error
}

func (f *fakeProvider) CurrentWeather(context.Context) (float64, error) { return f.temp, f.tempErr }
func (f *fakeProvider) CurrentTime(context.Context) (time.Time, error) {
	return time.Date(2024, 5, 4, 13, 45, 12, 0, time.UTC), nil
}
func (f *fakeProvider) LatestHeadline(context.Context) (string, error) {
	return f.headline, f.headlineErr
}
func (f *fakeProvider) ExchangeRate(context.Context) (float64, error) { return f.rate, f.rateErr }

func newTestServer(p *fakeProvider) (*Server, *store.MemoryStore) {
	ms := store.NewMemoryStore()
	asst := assistant.New(ms, p, assistant.DefaultPersona(), "")
	cfg := config.Config{AllowedOrigin: "*"}
	return newServer(cfg, ms, asst), ms
}

func doJSON(t *testing.T, s *Server, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestCloseWithoutDatabase(t *testing.T) {
	s, _ := newTestServer(&fakeProvider{})
	assert.NoError(t, s.Close())
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(&fakeProvider{})
	rec := doJSON(t, s, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCommandRoundTrip(t *testing.T) {
	s, ms := newTestServer(&fakeProvider{})

	rec := doJSON(t, s, http.MethodPost, "/api/command", "u1", types.CommandRequest{Command: "Hallo Neo"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.CommandResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hallo! Wie kann ich dir helfen?", resp.Reply)
	assert.Equal(t, store.OutputText, resp.OutputMode)
	assert.Equal(t, "u1", rec.Header().Get("X-User-Id"))

	msgs, err := ms.RecentMessages("u1", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, store.RoleAssistant, msgs[0].Role)
	assert.Equal(t, store.RoleUser, msgs[1].Role)
	assert.Equal(t, "Hallo Neo", msgs[1].Content)
}

func TestCommandValidation(t *testing.T) {
	s, _ := newTestServer(&fakeProvider{})

	rec := doJSON(t, s, http.MethodPost, "/api/command", "u1", types.CommandRequest{Command: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/command", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCommandMintsUserReference(t *testing.T) {
	s, _ := newTestServer(&fakeProvider{})
	rec := doJSON(t, s, http.MethodPost, "/api/command", "", types.CommandRequest{Command: "hallo"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-User-Id"))

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, rec.Header().Get("X-User-Id"), cookies[0].Value)
}

func TestCommandWeatherLocationOverride(t *testing.T) {
	s, _ := newTestServer(&fakeProvider{temp: 21})
	rec := doJSON(t, s, http.MethodPost, "/api/command", "u1",
		types.CommandRequest{Command: "wie ist das Wetter", Location: "Hamburg"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.CommandResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Das Wetter in Hamburg: 21°C", resp.Reply)
}

func TestCommandDegradedOnProviderFailure(t *testing.T) {
	s, ms := newTestServer(&fakeProvider{headlineErr: context.DeadlineExceeded})
	rec := doJSON(t, s, http.MethodPost, "/api/command", "u1", types.CommandRequest{Command: "gibt es news"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.CommandResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Entschuldigung, ich konnte keine Nachrichten abrufen.", resp.Reply)

	// The degraded reply is still logged as the assistant turn.
	msgs, err := ms.RecentMessages("u1", 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, resp.Reply, msgs[0].Content)
}

func TestHistoryCappedAtTen(t *testing.T) {
	s, ms := newTestServer(&fakeProvider{})
	for i := 0; i < 6; i++ {
		_, err := ms.AppendMessage("u1", store.RoleUser, "frage")
		require.NoError(t, err)
		_, err = ms.AppendMessage("u1", store.RoleAssistant, "antwort")
		require.NoError(t, err)
	}

	rec := doJSON(t, s, http.MethodGet, "/api/history", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Messages, 10)
	assert.Equal(t, store.RoleAssistant, resp.Messages[0].Role)
}

func TestHistoryEmpty(t *testing.T) {
	s, _ := newTestServer(&fakeProvider{})
	rec := doJSON(t, s, http.MethodGet, "/api/history", "fresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp types.HistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Messages)
}

func TestPreferencesLifecycle(t *testing.T) {
	s, _ := newTestServer(&fakeProvider{})

	// Default before any write.
	rec := doJSON(t, s, http.MethodGet, "/api/preferences", "u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp types.PreferencesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, store.OutputText, resp.OutputMode)

	// Upsert to voice.
	rec = doJSON(t, s, http.MethodPost, "/api/preferences", "u1", types.PreferencesRequest{OutputMode: "voice"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/api/preferences", "u1", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, store.OutputVoice, resp.OutputMode)

	// Back to text updates the same record.
	rec = doJSON(t, s, http.MethodPost, "/api/preferences", "u1", types.PreferencesRequest{OutputMode: "text"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, s, http.MethodGet, "/api/preferences", "u1", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, store.OutputText, resp.OutputMode)
}

func TestPreferencesValidation(t *testing.T) {
	s, _ := newTestServer(&fakeProvider{})
	rec := doJSON(t, s, http.MethodPost, "/api/preferences", "u1", types.PreferencesRequest{OutputMode: "loud"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
