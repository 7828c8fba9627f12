package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/expo-push-api/internal/config"
	"github.com/expo-push-api/internal/domain"
	"github.com/expo-push-api/internal/infrastructure/expo"
	"github.com/expo-push-api/internal/infrastructure/metrics"
	"github.com/expo-push-api/internal/infrastructure/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatewayStub is a push gateway that reports every token containing "gone" as unregistered.
type gatewayStub struct {
	mu       sync.Mutex
	received []expo.Message
}

func (g *gatewayStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var msgs []expo.Message
	if err := json.NewDecoder(r.Body).Decode(&msgs); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	g.mu.Lock()
	g.received = append(g.received, msgs...)
	g.mu.Unlock()

	tickets := make([]expo.Ticket, len(msgs))
	for i, m := range msgs {
		tickets[i] = expo.Ticket{Status: expo.TicketOK, ID: "t"}
		if m.To == "ExponentPushToken[gone]" {
			tickets[i] = expo.Ticket{Status: expo.TicketError, Details: &expo.TicketDetails{Error: expo.ErrDeviceNotRegistered}}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": tickets})
}

type testServer struct {
	handler http.Handler
	gateway *gatewayStub
	devices *sqlite.DeviceRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	stub := &gatewayStub{}
	gw := httptest.NewServer(stub)
	t.Cleanup(gw.Close)

	cfg := &config.Config{
		AllowedOrigins:    []string{"*"},
		RegisterRateLimit: 100,
		RegisterRateBurst: 100,
		Expo:              config.Expo{PushURL: gw.URL, Timeout: 2 * time.Second, BatchSize: 100},
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	devices := sqlite.NewDeviceRepo(db)
	h := NewRouter(ctx, cfg, &Deps{
		DeviceRepo:       devices,
		NotificationRepo: sqlite.NewNotificationRepo(db),
		Gateway:          expo.NewClient(cfg.Expo),
		Metrics:          metrics.New(),
	})
	return &testServer{handler: h, gateway: stub, devices: devices}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, r)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

func TestRouter_RegisterTokenIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	body := `{"token":"ExponentPushToken[abc]","platform":"IOS"}`

	first := s.do(t, http.MethodPost, "/api/notifications/register-token", body)
	require.Equal(t, http.StatusCreated, first.Code)
	second := s.do(t, http.MethodPost, "/api/notifications/register-token", body)
	require.Equal(t, http.StatusCreated, second.Code)

	a, b := decode[domain.Device](t, first), decode[domain.Device](t, second)
	assert.Equal(t, a.DeviceID, b.DeviceID)

	all, err := s.devices.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRouter_RegisterTokenRejectsBadPlatform(t *testing.T) {
	s := newTestServer(t)
	rr := s.do(t, http.MethodPost, "/api/notifications/register-token", `{"token":"ExponentPushToken[abc]","platform":"WEB"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRouter_NotificationLifecycle(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/notifications/register-token",
		`{"token":"ExponentPushToken[ios]","platform":"IOS"}`).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/notifications/register-token",
		`{"token":"ExponentPushToken[gone]","platform":"ANDROID"}`).Code)
	require.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/api/notifications/register-token",
		`{"token":"garbage","platform":"ANDROID"}`).Code)

	created := s.do(t, http.MethodPost, "/api/notifications",
		`{"title":"Promo","body":"50% off","iosMessageSubtitle":"Today","badgeCount":1,"data":{"k":"v"}}`)
	require.Equal(t, http.StatusCreated, created.Code)
	n := decode[domain.Notification](t, created)
	assert.Equal(t, domain.StatusDraft, n.Status)

	updated := s.do(t, http.MethodPut, "/api/notifications/"+n.NotificationID, `{"title":"Big promo"}`)
	require.Equal(t, http.StatusOK, updated.Code)
	assert.Equal(t, "Big promo", decode[domain.Notification](t, updated).Title)

	published := s.do(t, http.MethodPut, "/api/notifications/"+n.NotificationID+"/publish", "")
	require.Equal(t, http.StatusOK, published.Code)
	assert.Equal(t, domain.StatusPublished, decode[domain.Notification](t, published).Status)

	// Malformed token never reaches the gateway.
	require.Len(t, s.gateway.received, 2)
	ios := s.gateway.received[0]
	assert.Equal(t, "ExponentPushToken[ios]", ios.To)
	assert.Equal(t, "Big promo", ios.Title)
	assert.Equal(t, "Today", ios.Subtitle)
	assert.Equal(t, 1, *ios.Badge)
	assert.Equal(t, "default", ios.Sound)
	assert.Equal(t, "high", s.gateway.received[1].Priority)

	// The unregistered device was pruned; the malformed one was kept.
	_, err := s.devices.GetByToken(context.Background(), "ExponentPushToken[gone]")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.devices.GetByToken(context.Background(), "garbage")
	assert.NoError(t, err)

	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPut, "/api/notifications/"+n.NotificationID+"/publish", "").Code)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPut, "/api/notifications/"+n.NotificationID, `{"title":"x"}`).Code)

	list := s.do(t, http.MethodGet, "/api/notifications", "")
	require.Equal(t, http.StatusOK, list.Code)
	assert.Len(t, decode[[]domain.Notification](t, list), 1)

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/api/notifications/"+n.NotificationID, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/notifications/"+n.NotificationID, "").Code)
}

func TestRouter_PublishWithNoDevices(t *testing.T) {
	s := newTestServer(t)
	n := decode[domain.Notification](t, s.do(t, http.MethodPost, "/api/notifications", `{"title":"a","body":"b"}`))

	rr := s.do(t, http.MethodPut, "/api/notifications/"+n.NotificationID+"/publish", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, s.gateway.received)
}

func TestRouter_MissingAndMalformedIDs(t *testing.T) {
	s := newTestServer(t)
	missing := "01HZX3Y6Q8V9K2M4N5P7R8S9T0"

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/notifications/"+missing, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, "/api/notifications/"+missing, `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodDelete, "/api/notifications/"+missing, "").Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodPut, "/api/notifications/"+missing+"/publish", "").Code)
	assert.Equal(t, http.StatusBadRequest, s.do(t, http.MethodGet, "/api/notifications/nope", "").Code)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	ping := s.do(t, http.MethodGet, "/health-check/ping", "")
	assert.Equal(t, http.StatusOK, ping.Code)
	assert.JSONEq(t, `{"message":"pong"}`, ping.Body.String())

	m := s.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), `route="/health-check/{action}"`)
}

func TestRouter_SwaggerDocs(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var doc struct {
		Swagger string                     `json:"swagger"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	for _, p := range []string{
		"/api/notifications",
		"/api/notifications/register-token",
		"/api/notifications/{id}",
		"/api/notifications/{id}/publish",
	} {
		assert.Contains(t, doc.Paths, p)
	}
}
