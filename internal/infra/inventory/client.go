// Package inventory talks to the remote product and stock service.
package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domproduct "example.com/rocketshoes/app/internal/domain/product"
)

const tracerName = "example.com/rocketshoes/app/internal/infra/inventory"

// ErrUnavailable is wrapped around transport failures and unexpected
// responses from the inventory service.
var ErrUnavailable = domproduct.ErrInventoryUnavailable

type Client struct {
	baseURL  *url.URL
	http     *http.Client
	validate *validator.Validate
	tracer   trace.Tracer
	timeout  time.Duration
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds every request. It applies to a copy of the HTTP client,
// so a client passed with WithHTTPClient is left untouched.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse inventory url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("inventory url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:  u,
		http:     &http.Client{},
		validate: validator.New(),
		tracer:   otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c, nil
}

type productPayload struct {
	ID    int64   `json:"id" validate:"gt=0"`
	Title string  `json:"title"`
	Price float64 `json:"price" validate:"gte=0"`
	Image string  `json:"image"`
}

type stockPayload struct {
	ID     int64 `json:"id"`
	Amount int64 `json:"amount" validate:"gte=0"`
}

func (p productPayload) toDomain() *domproduct.Product {
	return &domproduct.Product{ID: p.ID, Title: p.Title, Price: p.Price, Image: p.Image}
}

func (c *Client) List(ctx context.Context) ([]*domproduct.Product, error) {
	var payload []productPayload
	if err := c.get(ctx, "products", domproduct.ErrProductNotFound, &payload); err != nil {
		return nil, err
	}

	products := make([]*domproduct.Product, 0, len(payload))
	for _, p := range payload {
		if err := c.validate.Struct(p); err != nil {
			return nil, errors.Wrapf(ErrUnavailable, "invalid product %d: %v", p.ID, err)
		}
		products = append(products, p.toDomain())
	}
	return products, nil
}

func (c *Client) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	var payload productPayload
	if err := c.get(ctx, fmt.Sprintf("products/%d", id), domproduct.ErrProductNotFound, &payload); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(payload); err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "invalid product %d: %v", id, err)
	}
	return payload.toDomain(), nil
}

func (c *Client) GetStock(ctx context.Context, id int64) (*domproduct.Stock, error) {
	var payload stockPayload
	if err := c.get(ctx, fmt.Sprintf("stock/%d", id), domproduct.ErrStockNotFound, &payload); err != nil {
		return nil, err
	}
	if err := c.validate.Struct(payload); err != nil {
		return nil, errors.Wrapf(ErrUnavailable, "invalid stock %d: %v", id, err)
	}
	return &domproduct.Stock{ID: id, Amount: payload.Amount}, nil
}

func (c *Client) get(ctx context.Context, path string, notFound error, dst any) (err error) {
	endpoint := c.baseURL.JoinPath(path)

	ctx, span := c.tracer.Start(ctx, "inventory.GET /"+strings.SplitN(path, "/", 2)[0],
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", endpoint.String())),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return errors.Wrap(err, "build inventory request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(ErrUnavailable, "GET %s: %v", endpoint, err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errors.Wrapf(notFound, "GET %s", endpoint)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.Wrapf(ErrUnavailable, "GET %s: status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return errors.Wrapf(ErrUnavailable, "decode %s: %v", endpoint, err)
	}
	return nil
}
