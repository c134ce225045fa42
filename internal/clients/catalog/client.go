package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/driffle/genie-backend/internal/platform/logger"
)

type Product struct {
	ProductID int     `json:"productId"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	MRP       float64 `json:"mrp"`
	Platform  string  `json:"platform"`
	RegionID  int     `json:"regionId"`
}

type Query struct {
	Q        string
	PriceMin int
	PriceMax *int
	Sort     string
	Limit    int
}

// Client is the product catalog gateway. Failures propagate uncaught; only the
// AI parsing layer above has fallbacks.
type Client interface {
	Search(ctx context.Context, q Query) ([]Product, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	baseURL := strings.TrimSpace(os.Getenv("CATALOG_BASE_URL"))
	if baseURL == "" {
		return nil, fmt.Errorf("missing CATALOG_BASE_URL")
	}
	return &client{
		log:        log.With("client", "CatalogClient"),
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

type listResponse struct {
	Msg  string    `json:"msg"`
	Data []Product `json:"data"`
}

func (c *client) Search(ctx context.Context, q Query) ([]Product, error) {
	params := url.Values{}
	params.Set("q", q.Q)
	params.Set("priceMin", strconv.Itoa(q.PriceMin))
	if q.PriceMax != nil {
		params.Set("priceMax", strconv.Itoa(*q.PriceMax))
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	params.Set("limit", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products/v2/list?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog http %d: %s", resp.StatusCode, string(raw))
	}

	var decoded listResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("catalog decode error: %w", err)
	}
	return decoded.Data, nil
}
