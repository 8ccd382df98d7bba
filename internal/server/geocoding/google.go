package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dmitrijs2005/placekeeper/internal/common"
	"github.com/dmitrijs2005/placekeeper/internal/logging"
	"github.com/dmitrijs2005/placekeeper/internal/server/models"
)

const (
	defaultBaseURL = "https://maps.googleapis.com"
	geocodePath    = "/maps/api/geocode/json"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"

	// Bodies larger than this are not a geocoding answer.
	maxResponseBytes = 1 << 20
)

type GoogleConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// GoogleClient talks to the Google Geocoding JSON API. It makes exactly one
// request per Resolve call, with no retry and no caching.
type GoogleClient struct {
	log        logging.Logger
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewGoogleClient(log logging.Logger, cfg GoogleConfig) (*GoogleClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("geocoder api key required")
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = defaultBaseURL
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("geocoder base url: %w", err)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &GoogleClient{
		log:     log.With("module", "geocoding"),
		baseURL: base,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (c *GoogleClient) Resolve(ctx context.Context, address string) (models.Location, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+geocodePath+"?"+q.Encode(), nil)
	if err != nil {
		return models.Location{}, fmt.Errorf("%w: %v", common.ErrResolutionUnavailable, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn(ctx, "geocoding request failed", "error", err)
		return models.Location{}, fmt.Errorf("%w: %v", common.ErrResolutionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		c.log.Warn(ctx, "geocoding provider returned error status", "status", resp.StatusCode)
		return models.Location{}, fmt.Errorf("%w: provider status %d", common.ErrResolutionUnavailable, resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return models.Location{}, fmt.Errorf("%w: decode response: %v", common.ErrResolutionUnavailable, err)
	}

	switch body.Status {
	case statusZeroResults:
		return models.Location{}, common.ErrUnresolvableAddress
	case statusOK:
		if len(body.Results) == 0 {
			return models.Location{}, common.ErrUnresolvableAddress
		}
		loc := body.Results[0].Geometry.Location
		c.log.Debug(ctx, "address resolved", "lat", loc.Lat, "lng", loc.Lng)
		return models.Location{Lat: loc.Lat, Lng: loc.Lng}, nil
	default:
		c.log.Warn(ctx, "geocoding provider refused request", "status", body.Status, "message", body.ErrorMessage)
		return models.Location{}, fmt.Errorf("%w: provider status %s", common.ErrResolutionUnavailable, body.Status)
	}
}
