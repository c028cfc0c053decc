package tickets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/ticketo/points/internal/domain/model"
)

// ErrTicketUnknown indicates the expense app has no record of the ticket.
var ErrTicketUnknown = errors.New("ticket unknown")

// ErrNotConfigured indicates no tickets address was configured.
var ErrNotConfigured = errors.New("tickets service not configured")

// Client resolves ticket context for ledger history display.
type Client interface {
	Resolve(ctx context.Context, ticketID int64) (*model.TicketContext, error)
}

// HTTPClient implements Client against the expense application's API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors the JSON payload from the expense app.
type response struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Total       float64   `json:"total"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// NewHTTPClient creates an HTTP ticket client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse tickets url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("tickets url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Resolve fetches the ticket summary by id.
func (c *HTTPClient) Resolve(ctx context.Context, ticketID int64) (*model.TicketContext, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/tickets/", strconv.FormatInt(ticketID, 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data response
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		return &model.TicketContext{ID: data.ID, Title: data.Title, Total: data.Total, PurchasedAt: data.PurchasedAt}, nil
	case http.StatusNotFound, http.StatusNoContent:
		return nil, ErrTicketUnknown
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("ticket request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("tickets error: %s", resp.Status)
	}
}

// Disabled is the Client used when no tickets address is configured; history
// entries then carry no ticket context.
type Disabled struct{}

func (Disabled) Resolve(context.Context, int64) (*model.TicketContext, error) {
	return nil, ErrNotConfigured
}
