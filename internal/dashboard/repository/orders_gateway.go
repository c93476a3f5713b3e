package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"stock-order-dashboard/internal/dashboard/config"
	"stock-order-dashboard/internal/dashboard/dto"
	"stock-order-dashboard/internal/entity"
	"stock-order-dashboard/pkg/logger"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// OrdersGateway issues read/write requests against the remote
// order/notification service. It does no reconciliation of its own; a
// failed call returns an error and leaves local state untouched.
type OrdersGateway interface {
	List(ctx context.Context) ([]entity.Order, error)
	Create(ctx context.Context, draft dto.OrderDraft) error
	Update(ctx context.Context, symbol string, draft dto.OrderDraft) error
	Delete(ctx context.Context, symbol string) error
	DeleteCompleted(ctx context.Context) error
	Exit(ctx context.Context, symbol string) error
	Alerts(ctx context.Context) ([]entity.Notification, error)
	Candles(ctx context.Context, symbol, interval string) ([]entity.Candle, error)
}

type ordersGateway struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	candleCache    *cache.Cache
}

// NewOrdersGateway creates a gateway for the configured remote service.
func NewOrdersGateway(cfg *config.Config, log *logger.Logger) OrdersGateway {
	secondsPerRequest := time.Minute / time.Duration(cfg.Remote.MaxRequestPerMinute)
	return &ordersGateway{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.Remote.RequestTimeout,
		},
		requestLimiter: requestLimiterOrDefault(secondsPerRequest),
		candleCache:    cache.New(cfg.Remote.CandleCacheTTL, 2*cfg.Remote.CandleCacheTTL),
	}
}

func requestLimiterOrDefault(perRequest time.Duration) *rate.Limiter {
	if perRequest <= 0 {
		perRequest = 500 * time.Millisecond
	}
	return rate.NewLimiter(rate.Every(perRequest), 1)
}

func (g *ordersGateway) List(ctx context.Context) ([]entity.Order, error) {
	body, err := g.sendRequest(ctx, http.MethodGet, "/api/orders", nil)
	if err != nil {
		return nil, err
	}

	var orders []entity.Order
	if err := json.Unmarshal(body, &orders); err != nil {
		g.log.ErrorContext(ctx, "Order list payload is not an order array", logger.ErrorField(err))
		return nil, fmt.Errorf("malformed order list response: %w", err)
	}
	return orders, nil
}

func (g *ordersGateway) Create(ctx context.Context, draft dto.OrderDraft) error {
	_, err := g.sendRequest(ctx, http.MethodPost, "/api/orders", draft)
	return err
}

func (g *ordersGateway) Update(ctx context.Context, symbol string, draft dto.OrderDraft) error {
	_, err := g.sendRequest(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(symbol), draft)
	return err
}

func (g *ordersGateway) Delete(ctx context.Context, symbol string) error {
	_, err := g.sendRequest(ctx, http.MethodDelete, "/api/orders/"+url.PathEscape(symbol), nil)
	return err
}

func (g *ordersGateway) DeleteCompleted(ctx context.Context) error {
	_, err := g.sendRequest(ctx, http.MethodDelete, "/api/orders/completed", nil)
	return err
}

func (g *ordersGateway) Exit(ctx context.Context, symbol string) error {
	_, err := g.sendRequest(ctx, http.MethodPost, "/api/orders/"+url.PathEscape(symbol)+"/exit", nil)
	return err
}

func (g *ordersGateway) Alerts(ctx context.Context) ([]entity.Notification, error) {
	body, err := g.sendRequest(ctx, http.MethodGet, "/api/notifications", nil)
	if err != nil {
		return nil, err
	}

	var alerts []entity.Notification
	if err := json.Unmarshal(body, &alerts); err != nil {
		g.log.ErrorContext(ctx, "Alert list payload is not a notification array", logger.ErrorField(err))
		return nil, fmt.Errorf("malformed alert list response: %w", err)
	}
	return alerts, nil
}

func (g *ordersGateway) Candles(ctx context.Context, symbol, interval string) ([]entity.Candle, error) {
	cacheKey := symbol + ":" + interval
	if cached, found := g.candleCache.Get(cacheKey); found {
		return cached.([]entity.Candle), nil
	}

	path := fmt.Sprintf("/api/stock/%s?interval=%s", url.PathEscape(symbol), url.QueryEscape(interval))
	body, err := g.sendRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var candles []entity.Candle
	if err := json.Unmarshal(body, &candles); err != nil {
		g.log.ErrorContext(ctx, "Candle payload is not a bar array", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil, fmt.Errorf("malformed candle response: %w", err)
	}

	g.candleCache.Set(cacheKey, candles, cache.DefaultExpiration)
	return candles, nil
}

func (g *ordersGateway) sendRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	fullURL := g.cfg.Remote.BaseURL + path
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("url", fullURL),
	}

	if err := g.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		g.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, err
	}

	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request payload: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		fields = append(fields, zap.Error(err))
		g.log.ErrorContext(ctx, "Failed to create http request", fields...)
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		fields = append(fields, zap.Error(err))
		g.log.ErrorContext(ctx, "Failed to send request to order service", fields...)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		fields = append(fields, zap.Int("status_code", resp.StatusCode))
		g.log.ErrorContext(ctx, "Received non-2xx response from order service", fields...)
		return nil, fmt.Errorf("order service returned status %d for %s %s", resp.StatusCode, method, path)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, zap.Error(err))
		g.log.ErrorContext(ctx, "Failed to read response body from order service", fields...)
		return nil, err
	}

	return body, nil
}
