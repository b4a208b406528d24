package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound is returned when the catalog reports 404 for a product id.
var ErrNotFound = errors.New("product not found")

// Client consumes the product catalog REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tracer     trace.Tracer
}

// NewClient constructor. httpClient may be nil, in which case a client
// with a 10 second timeout is used.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		tracer:     otel.Tracer("catalog"),
	}
}

// List fetches one page of products under the given filters and reports
// whether another page exists server-side.
func (c *Client) List(ctx context.Context, params ListParams) ([]Product, bool, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.List")
	defer span.End()
	span.SetAttributes(
		attribute.String("app.category", params.Category),
		attribute.String("app.search", params.Search),
		attribute.Int("app.page", params.Page),
	)

	q := url.Values{}
	if params.Category != "" {
		q.Set("category", params.Category)
	}
	if params.Search != "" {
		q.Set("search", params.Search)
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}

	env, err := c.get(ctx, "/products", q)
	if err != nil {
		return nil, false, err
	}
	var products []Product
	if err := json.Unmarshal(env.Data, &products); err != nil {
		return nil, false, errors.Wrap(err, "failed to parse product list")
	}
	return products, env.HasMore, nil
}

// Featured fetches the featured product list.
func (c *Client) Featured(ctx context.Context) ([]Product, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.Featured")
	defer span.End()

	env, err := c.get(ctx, "/products/featured", nil)
	if err != nil {
		return nil, err
	}
	var products []Product
	if err := json.Unmarshal(env.Data, &products); err != nil {
		return nil, errors.Wrap(err, "failed to parse featured products")
	}
	return products, nil
}

// Categories fetches the category names. The backend returns a mix of
// bare strings and {name: ...} objects; both are normalized to strings.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.Categories")
	defer span.End()

	env, err := c.get(ctx, "/products/categories", nil)
	if err != nil {
		return nil, err
	}
	var cats []category
	if err := json.Unmarshal(env.Data, &cats); err != nil {
		return nil, errors.Wrap(err, "failed to parse categories")
	}
	names := make([]string, 0, len(cats))
	for _, cat := range cats {
		names = append(names, cat.Name)
	}
	return names, nil
}

// Get fetches a single product by id.
func (c *Client) Get(ctx context.Context, id string) (*Product, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.Get")
	defer span.End()
	span.SetAttributes(attribute.String("app.product_id", id))

	env, err := c.get(ctx, "/products/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var product Product
	if err := json.Unmarshal(env.Data, &product); err != nil {
		return nil, errors.Wrap(err, "failed to parse product")
	}
	return &product, nil
}

// Related fetches products related to the given product id.
func (c *Client) Related(ctx context.Context, id string) ([]Product, error) {
	ctx, span := c.tracer.Start(ctx, "catalog.Related")
	defer span.End()
	span.SetAttributes(attribute.String("app.product_id", id))

	env, err := c.get(ctx, "/products/"+url.PathEscape(id)+"/related", nil)
	if err != nil {
		return nil, err
	}
	var products []Product
	if err := json.Unmarshal(env.Data, &products); err != nil {
		return nil, errors.Wrap(err, "failed to parse related products")
	}
	return products, nil
}

// get issues the request and unwraps the response envelope. Both non-2xx
// statuses and success=false envelopes come back as errors.
func (c *Client) get(ctx context.Context, path string, query url.Values) (*envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build catalog request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "catalog request failed: GET %s", path)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, errors.Wrapf(err, "failed to decode catalog response: GET %s", path)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(ErrNotFound, "GET %s", path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := env.Error
		if msg == "" {
			msg = resp.Status
		}
		return nil, errors.Errorf("catalog returned %d for GET %s: %s", resp.StatusCode, path, msg)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = "unknown error"
		}
		return nil, errors.Errorf("catalog request unsuccessful: GET %s: %s", path, msg)
	}
	return &env, nil
}
