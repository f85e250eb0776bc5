package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"roomm8/models"
)

// Options tunes a Client. Zero values fall back to sane defaults.
type Options struct {
	Timeout          time.Duration
	FailureThreshold uint32
	OpenTimeout      time.Duration
	HTTPClient       *http.Client
}

// Client talks to the Property/Booking backend over its REST contract.
// A Client is safe for concurrent use; WithToken returns a per-user copy
// sharing the same transport and breaker.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	breaker *gobreaker.CircuitBreaker[response]
	logger  *zap.Logger
}

type response struct {
	status      int
	contentType string
	body        []byte
}

func NewClient(baseURL string, opts Options, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.FailureThreshold == 0 {
		opts.FailureThreshold = 5
	}
	if opts.OpenTimeout <= 0 {
		opts.OpenTimeout = 30 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	threshold := opts.FailureThreshold

	breaker := gobreaker.NewCircuitBreaker[response](gobreaker.Settings{
		Name:        "backend",
		MaxRequests: 1,
		Timeout:     opts.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		breaker: breaker,
		logger:  logger,
	}
}

// WithToken returns a copy that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// BreakerState is the current circuit breaker state, for health reporting.
func (c *Client) BreakerState() string {
	return c.breaker.State().String()
}

func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	var out loginResponse
	if err := c.do(ctx, http.MethodPost, "/users/login", loginRequest{Email: email, Password: password}, &out); err != nil {
		return LoginResult{}, err
	}
	return out.toModel()
}

func (c *Client) ApprovedProperties(ctx context.Context) ([]models.RoomListing, error) {
	return c.properties(ctx, "/properties/approved")
}

func (c *Client) OwnerProperties(ctx context.Context, ownerEmail string) ([]models.RoomListing, error) {
	return c.properties(ctx, "/properties/owner/"+url.PathEscape(ownerEmail))
}

func (c *Client) Property(ctx context.Context, id int64) (*models.RoomListing, error) {
	var dto propertyDTO
	if err := c.do(ctx, http.MethodGet, "/properties/"+strconv.FormatInt(id, 10), nil, &dto); err != nil {
		return nil, err
	}
	room, err := dto.toModel()
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) UpdatePropertyStatus(ctx context.Context, id int64, status string) error {
	path := fmt.Sprintf("/properties/%d/status?status=%s", id, url.QueryEscape(status))
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

func (c *Client) DeleteProperty(ctx context.Context, id int64, ownerEmail string) error {
	path := fmt.Sprintf("/properties/%d/owner?ownerEmail=%s", id, url.QueryEscape(ownerEmail))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// CreateBooking persists one booking. Overlap rejections surface as an
// *APIError whose Conflict method reports true.
func (c *Client) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.BookingRecord, error) {
	var dto bookingDTO
	err := c.do(ctx, http.MethodPost, "/bookings", req, &dto)
	// A 2xx means the booking exists even when its body is unusable.
	if errors.Is(err, ErrInvalidResponse) {
		c.logger.Warn("Booking created but response unreadable", zap.Int64("propertyId", req.PropertyID), zap.Error(err))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// Some backends answer with an empty body; the booking still exists.
	if dto.ID == nil {
		return nil, nil
	}
	rec, err := dto.toModel()
	if err != nil {
		c.logger.Warn("Booking created but response invalid", zap.Int64("propertyId", req.PropertyID), zap.Error(err))
		return nil, nil
	}
	return &rec, nil
}

func (c *Client) UserBookings(ctx context.Context, userEmail string) ([]models.BookingRecord, error) {
	return c.bookings(ctx, "/bookings/user/"+url.PathEscape(userEmail))
}

func (c *Client) AllBookings(ctx context.Context) ([]models.BookingRecord, error) {
	return c.bookings(ctx, "/bookings")
}

func (c *Client) CancelBooking(ctx context.Context, id int64, userEmail string) error {
	path := fmt.Sprintf("/bookings/%d/cancel?userEmail=%s", id, url.QueryEscape(userEmail))
	return c.do(ctx, http.MethodPut, path, nil, nil)
}

func (c *Client) properties(ctx context.Context, path string) ([]models.RoomListing, error) {
	var dtos []propertyDTO
	if err := c.do(ctx, http.MethodGet, path, nil, &dtos); err != nil {
		return nil, err
	}
	rooms := make([]models.RoomListing, 0, len(dtos))
	for _, dto := range dtos {
		room, err := dto.toModel()
		if err != nil {
			c.logger.Warn("Skipping invalid property", zap.String("path", path), zap.Error(err))
			continue
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}

func (c *Client) bookings(ctx context.Context, path string) ([]models.BookingRecord, error) {
	var dtos []bookingDTO
	if err := c.do(ctx, http.MethodGet, path, nil, &dtos); err != nil {
		return nil, err
	}
	records := make([]models.BookingRecord, 0, len(dtos))
	for _, dto := range dtos {
		rec, err := dto.toModel()
		if err != nil {
			c.logger.Warn("Skipping invalid booking", zap.String("path", path), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// do sends one request through the breaker. Only transport failures and 5xx
// answers count against the breaker; 4xx answers are the caller's problem.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	res, err := c.breaker.Execute(func() (response, error) {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
		if err != nil {
			return response{}, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return response{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return response{}, fmt.Errorf("%w: read body: %v", ErrBackendUnavailable, err)
		}
		r := response{status: resp.StatusCode, contentType: resp.Header.Get("Content-Type"), body: data}
		if resp.StatusCode >= http.StatusInternalServerError {
			return r, errorFromResponse(r)
		}
		return r, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		c.logger.Warn("Backend call rejected by circuit breaker", zap.String("method", method), zap.String("path", path))
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	if err != nil {
		c.logger.Error("Backend call failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return err
	}
	if res.status < 200 || res.status >= 300 {
		apiErr := errorFromResponse(res)
		c.logger.Debug("Backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", res.status),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(res.body)) == 0 || !strings.Contains(res.contentType, "json") {
		return nil
	}
	if err := json.Unmarshal(res.body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func errorFromResponse(r response) *APIError {
	var body errorBody
	_ = json.Unmarshal(r.body, &body)
	return newAPIError(r.status, body.Message)
}
