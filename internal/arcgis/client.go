// Package arcgis fetches asset-survey features from an ArcGIS feature
// service and maps them into transformer records.
package arcgis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrSourceUnavailable indicates the feature service could not be queried:
// network failure, non-2xx status, or a malformed payload. It aborts a whole
// sync pass.
var ErrSourceUnavailable = errors.New("feature source unavailable")

// Geometry is a feature's point location in the requested spatial reference.
type Geometry struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Feature is one record from the feature service: an opaque attribute bag
// plus optional geometry.
type Feature struct {
	Attributes map[string]any `json:"attributes"`
	Geometry   *Geometry      `json:"geometry"`
}

// queryResponse is the wire shape of a feature service query reply. ArcGIS
// reports request-level errors inside a 200 response body.
type queryResponse struct {
	Features              []Feature `json:"features"`
	ExceededTransferLimit bool      `json:"exceededTransferLimit"`
	Error                 *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client queries an ArcGIS feature service layer.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given feature layer URL (the layer
// endpoint, without the trailing /query).
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchAllFeatures requests the full unfiltered feature set: all fields,
// output spatial reference 4326, JSON format. If the service caps a single
// reply it follows up with resultOffset queries until the set is complete.
func (c *Client) FetchAllFeatures(ctx context.Context) ([]Feature, error) {
	var features []Feature
	offset := 0

	for {
		page, err := c.query(ctx, offset)
		if err != nil {
			return nil, err
		}
		features = append(features, page.Features...)

		if !page.ExceededTransferLimit || len(page.Features) == 0 {
			return features, nil
		}
		offset += len(page.Features)
	}
}

func (c *Client) query(ctx context.Context, offset int) (*queryResponse, error) {
	params := url.Values{}
	params.Set("where", "1=1")
	params.Set("outFields", "*")
	params.Set("outSR", "4326")
	params.Set("f", "json")
	if offset > 0 {
		params.Set("resultOffset", strconv.Itoa(offset))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}

	var body queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSourceUnavailable, err)
	}
	if body.Error != nil {
		return nil, fmt.Errorf("%w: service error %d: %s", ErrSourceUnavailable, body.Error.Code, body.Error.Message)
	}
	if body.Features == nil {
		return nil, fmt.Errorf("%w: response missing features", ErrSourceUnavailable)
	}

	return &body, nil
}

// Ping issues a minimal count-only query, used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("where", "1=1")
	params.Set("returnCountOnly", "true")
	params.Set("f", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/query?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrSourceUnavailable, resp.StatusCode)
	}
	return nil
}
