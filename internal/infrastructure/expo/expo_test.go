package expo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/expo-push-api/internal/config"
	"github.com/expo-push-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string, retries int) *Client {
	c := NewClient(config.Expo{PushURL: url, AccessToken: "secret", Timeout: 2 * time.Second, MaxRetries: retries})
	c.retryInterval = time.Millisecond
	return c
}

func TestSend_PostsBatchAndReturnsTickets(t *testing.T) {
	var got []Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"status":"ok","id":"t1"},{"status":"error","message":"gone","details":{"error":"DeviceNotRegistered"}}]}`))
	}))
	defer srv.Close()

	badge := 2
	tickets, err := newTestClient(srv.URL, 0).Send(context.Background(), []Message{
		{To: "ExponentPushToken[a]", Title: "t", Body: "b", Data: map[string]interface{}{}, Sound: "default", Subtitle: "s", Badge: &badge},
		{To: "ExponentPushToken[b]", Title: "t", Body: "b", Data: map[string]interface{}{}, ChannelID: "c", Priority: "high"},
	})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, TicketOK, tickets[0].Status)
	assert.False(t, tickets[0].DeviceNotRegistered())
	assert.True(t, tickets[1].DeviceNotRegistered())

	require.Len(t, got, 2)
	assert.Equal(t, "s", got[0].Subtitle)
	assert.Equal(t, 2, *got[0].Badge)
	assert.Equal(t, "c", got[1].ChannelID)
	assert.Equal(t, "high", got[1].Priority)
}

func TestSend_OmitsAuthorizationWithoutToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewClient(config.Expo{PushURL: srv.URL, Timeout: time.Second})
	tickets, err := c.Send(context.Background(), []Message{})
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestSend_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"data":[{"status":"ok","id":"x"}]}`))
	}))
	defer srv.Close()

	tickets, err := newTestClient(srv.URL, 2).Send(context.Background(), []Message{{To: "ExponentPushToken[a]"}})
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSend_GivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).Send(context.Background(), []Message{{To: "ExponentPushToken[a]"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDispatchTransport)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSend_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"code":"VALIDATION_ERROR","message":"bad"}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).Send(context.Background(), []Message{{To: "ExponentPushToken[a]"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDispatchTransport)
	assert.Contains(t, err.Error(), "VALIDATION_ERROR")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSend_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"data":[]}`))
	}))
	defer srv.Close()

	c := NewClient(config.Expo{PushURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := c.Send(context.Background(), []Message{{To: "ExponentPushToken[a]"}})
	assert.ErrorIs(t, err, domain.ErrDispatchTransport)
}

func TestSend_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 2).Send(context.Background(), []Message{{To: "ExponentPushToken[a]"}})
	assert.ErrorIs(t, err, domain.ErrDispatchTransport)
}
