package expo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/expo-push-api/internal/config"
	"github.com/expo-push-api/internal/domain"
)

const (
	TicketOK    = "ok"
	TicketError = "error"

	// ErrDeviceNotRegistered is the ticket error code for a token the gateway no longer accepts.
	ErrDeviceNotRegistered = "DeviceNotRegistered"
)

// Message is one entry of a push request body.
type Message struct {
	To        string                 `json:"to"`
	Title     string                 `json:"title,omitempty"`
	Body      string                 `json:"body,omitempty"`
	Data      map[string]interface{} `json:"data"`
	Sound     string                 `json:"sound,omitempty"`
	Subtitle  string                 `json:"subtitle,omitempty"`
	Badge     *int                   `json:"badge,omitempty"`
	ChannelID string                 `json:"channelId,omitempty"`
	Priority  string                 `json:"priority,omitempty"`
	TTL       int                    `json:"ttl,omitempty"`
}

type TicketDetails struct {
	Error string `json:"error,omitempty"`
}

// Ticket is the per-message result. Tickets come back in request order.
type Ticket struct {
	Status  string         `json:"status"`
	ID      string         `json:"id,omitempty"`
	Message string         `json:"message,omitempty"`
	Details *TicketDetails `json:"details,omitempty"`
}

func (t Ticket) DeviceNotRegistered() bool {
	return t.Status == TicketError && t.Details != nil && t.Details.Error == ErrDeviceNotRegistered
}

type sendResponse struct {
	Data   []Ticket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

type Client struct {
	httpClient    *http.Client
	pushURL       string
	accessToken   string
	maxRetries    int
	retryInterval time.Duration
}

func NewClient(cfg config.Expo) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		pushURL:       cfg.PushURL,
		accessToken:   cfg.AccessToken,
		maxRetries:    cfg.MaxRetries,
		retryInterval: 500 * time.Millisecond,
	}
}

// Send posts one batch and returns its tickets. Network failures, 429 and 5xx
// responses are retried; anything else fails immediately. Returned errors wrap
// domain.ErrDispatchTransport.
func (c *Client) Send(ctx context.Context, msgs []Message) ([]Ticket, error) {
	payload, err := json.Marshal(msgs)
	if err != nil {
		return nil, fmt.Errorf("marshal push batch: %w", err)
	}

	var tickets []Ticket
	op := func() error {
		var err error
		tickets, err = c.post(ctx, payload)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval
	retries := uint64(0)
	if c.maxRetries > 0 {
		retries = uint64(c.maxRetries)
	}
	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDispatchTransport, err)
	}
	return tickets, nil
}

func (c *Client) post(ctx context.Context, payload []byte) ([]Ticket, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pushURL, bytes.NewReader(payload))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	var out sendResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := fmt.Errorf("push gateway responded %s%s", resp.Status, gatewayErrors(out))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}
	if decodeErr != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode push response: %w", decodeErr))
	}
	if out.Data == nil {
		return nil, backoff.Permanent(errors.New("push response carried no tickets" + gatewayErrors(out)))
	}
	return out.Data, nil
}

func gatewayErrors(out sendResponse) string {
	if len(out.Errors) == 0 {
		return ""
	}
	parts := make([]string, 0, len(out.Errors))
	for _, e := range out.Errors {
		parts = append(parts, e.Code+": "+e.Message)
	}
	return " (" + strings.Join(parts, "; ") + ")"
}
