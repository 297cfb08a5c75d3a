package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKrupin/go-stock-keeper/internal/config"
	"github.com/MKrupin/go-stock-keeper/internal/logger"
	"github.com/MKrupin/go-stock-keeper/internal/utils"
	"github.com/MKrupin/go-stock-keeper/models"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

// wrapTransportError classifies failures raised before any HTTP status was
// read. A timed-out request may still have been applied by the server, so it
// maps to [ErrServerError]; connection-level failures mean the server never
// saw the request and map to [ErrServerUnavailable].
func wrapTransportError(label string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %s timed out: %v", ErrServerError, label, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrServerUnavailable, label, err)
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently
// held by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Login implements [ServerAdapter]. It POSTs the credentials to
// POST /api/auth/login. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken. Returns an error if
// the request fails, the server returns a non-2xx status, or the token
// cannot be parsed.
func (h *httpServerAdapter) Login(ctx context.Context, creds models.Credentials) (models.Session, error) {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(creds).
		Post("/api/auth/login")
	if err != nil {
		return models.Session{}, wrapTransportError("login request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Session{}, err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return models.Session{}, fmt.Errorf("login parse bearer token: %w", err)
	}

	h.SetToken(token)
	return models.Session{Login: creds.Login, Token: token, CreatedAt: time.Now()}, nil
}

// Ping implements [ServerAdapter]. It GETs /api/ping and reports any
// non-success as unreachability.
func (h *httpServerAdapter) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/api/ping")
	if err != nil {
		return wrapTransportError("ping", err)
	}

	return mapHTTPError(resp)
}

func (h *httpServerAdapter) CreateItem(ctx context.Context, p models.CreateItemPayload, idempotencyKey string) (models.MutationResult, error) {
	return h.postMutation(ctx, "/api/items", p, idempotencyKey)
}

func (h *httpServerAdapter) CreateLocation(ctx context.Context, p models.CreateLocationPayload, idempotencyKey string) (models.MutationResult, error) {
	return h.postMutation(ctx, "/api/locations", p, idempotencyKey)
}

func (h *httpServerAdapter) CreateContainer(ctx context.Context, p models.CreateContainerPayload, idempotencyKey string) (models.MutationResult, error) {
	return h.postMutation(ctx, "/api/containers", p, idempotencyKey)
}

func (h *httpServerAdapter) CreateInventory(ctx context.Context, p models.CreateInventoryPayload, idempotencyKey string) (models.MutationResult, error) {
	return h.postMutation(ctx, "/api/inventory", p, idempotencyKey)
}

// AdjustStock implements [ServerAdapter]. The delta travels in the body;
// the target stock record is addressed by path.
func (h *httpServerAdapter) AdjustStock(ctx context.Context, p models.AdjustStockPayload, idempotencyKey string) (models.MutationResult, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Idempotency-Key", idempotencyKey).
		SetBody(p).
		Post("/api/inventory/" + url.PathEscape(p.ID) + "/adjust")
	if err != nil {
		return models.MutationResult{}, wrapTransportError("adjust stock request", err)
	}

	return decodeMutationResult(resp)
}

func (h *httpServerAdapter) UpdateInventory(ctx context.Context, p models.UpdateInventoryPayload, idempotencyKey string) (models.MutationResult, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Idempotency-Key", idempotencyKey).
		SetBody(p).
		Put("/api/inventory/" + url.PathEscape(p.ID))
	if err != nil {
		return models.MutationResult{}, wrapTransportError("update inventory request", err)
	}

	return decodeMutationResult(resp)
}

func (h *httpServerAdapter) ListItems(ctx context.Context) ([]models.Item, error) {
	return listEntities[models.Item](h, ctx, "/api/items")
}

func (h *httpServerAdapter) ListLocations(ctx context.Context) ([]models.Location, error) {
	return listEntities[models.Location](h, ctx, "/api/locations")
}

func (h *httpServerAdapter) ListContainers(ctx context.Context) ([]models.Container, error) {
	return listEntities[models.Container](h, ctx, "/api/containers")
}

func (h *httpServerAdapter) ListInventory(ctx context.Context) ([]models.InventoryRecord, error) {
	return listEntities[models.InventoryRecord](h, ctx, "/api/inventory")
}

func (h *httpServerAdapter) ListCategories(ctx context.Context) ([]models.Category, error) {
	return listEntities[models.Category](h, ctx, "/api/categories")
}

func (h *httpServerAdapter) postMutation(ctx context.Context, path string, body any, idempotencyKey string) (models.MutationResult, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Idempotency-Key", idempotencyKey).
		SetBody(body).
		Post(path)
	if err != nil {
		return models.MutationResult{}, wrapTransportError(path+" request", err)
	}

	return decodeMutationResult(resp)
}

func listEntities[T any](h *httpServerAdapter, ctx context.Context, path string) ([]T, error) {
	resp, err := h.authedRequest(ctx).Get(path)
	if err != nil {
		return nil, wrapTransportError(path+" request", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var out []T
	if err = json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", path, err)
	}

	return out, nil
}

func decodeMutationResult(resp *resty.Response) (models.MutationResult, error) {
	if err := mapHTTPError(resp); err != nil {
		return models.MutationResult{}, err
	}

	var res models.MutationResult
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		return models.MutationResult{}, fmt.Errorf("decode mutation result: %w", err)
	}

	return res, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
