package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"places-backend/internal/metrics"
	"places-backend/internal/models"
)

// Geocoder resolves a free-text address into coordinates.
type Geocoder interface {
	Resolve(ctx context.Context, address string) (models.Location, error)
}

// HTTPGeocoder calls an external geocoding provider over HTTP. Each call is
// independent: no retry, no cache.
type HTTPGeocoder struct {
	client  *http.Client
	baseURL string
	apiKey  string
	metrics *metrics.Collector
}

// NewHTTPGeocoder creates a geocoder client. collector may be nil.
func NewHTTPGeocoder(baseURL, apiKey string, timeout time.Duration, collector *metrics.Collector) *HTTPGeocoder {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPGeocoder{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		metrics: collector,
	}
}

// geocodeResponse mirrors the provider's JSON: a status field plus a results
// list whose first element carries the coordinates.
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location models.Location `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Resolve returns the first result's coordinates for the given address.
// Zero results or an unusable body fail with models.ErrGeocodingFailed;
// transport-level failures with models.ErrGeocodingUnavailable.
func (g *HTTPGeocoder) Resolve(ctx context.Context, address string) (models.Location, error) {
	reqURL := fmt.Sprintf("%s?address=%s&key=%s", g.baseURL, url.QueryEscape(address), url.QueryEscape(g.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return models.Location{}, fmt.Errorf("%w: %v", models.ErrGeocodingUnavailable, err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.record("unavailable")
		return models.Location{}, fmt.Errorf("%w: %v", models.ErrGeocodingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.record("unavailable")
		return models.Location{}, fmt.Errorf("%w: provider returned status %d", models.ErrGeocodingUnavailable, resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		g.record("failed")
		return models.Location{}, fmt.Errorf("%w: malformed provider response", models.ErrGeocodingFailed)
	}

	if body.Status == "ZERO_RESULTS" || len(body.Results) == 0 {
		g.record("zero_results")
		return models.Location{}, fmt.Errorf("%w: %q", models.ErrGeocodingFailed, address)
	}

	g.record("ok")
	return body.Results[0].Geometry.Location, nil
}

func (g *HTTPGeocoder) record(outcome string) {
	if g.metrics != nil {
		g.metrics.RecordGeocodeOutcome(outcome)
	}
}
