// api/routing/osrm.go

package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	harvest_errors "github.com/harvestlink/market/api/errors"
	logger "github.com/harvestlink/market/api/logging"
	"github.com/harvestlink/market/api/model"
)

const DefaultTimeout = 10 * time.Second

// OSRMProvider queries an OSRM-compatible /route/v1/driving endpoint.
type OSRMProvider struct {
	baseURL string
	timeout time.Duration
	client  *retryablehttp.Client
}

var _ Provider = &OSRMProvider{}

func NewOSRMProvider(baseURL string, timeout time.Duration) *OSRMProvider {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	client := retryablehttp.NewClient()
	client.RetryMax = 1
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.Logger = nil

	return &OSRMProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  client,
	}
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

func (p *OSRMProvider) Route(ctx context.Context, from, to model.Coordinate) (*model.Route, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// OSRM takes lng,lat pairs.
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson",
		p.baseURL, from.Lng, from.Lat, to.Lng, to.Lat)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build route request: %v: %w", err, harvest_errors.ErrRouteUnavailable)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		logger.Warn("Routing provider unreachable", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return nil, fmt.Errorf("routing provider: %v: %w", err, harvest_errors.ErrRouteUnavailable)
	}
	defer resp.Body.Close()

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("malformed routing payload: %v: %w", err, harvest_errors.ErrRouteUnavailable)
	}
	if resp.StatusCode != http.StatusOK || body.Code != "Ok" {
		return nil, fmt.Errorf("routing provider returned %d %s %s: %w",
			resp.StatusCode, body.Code, body.Message, harvest_errors.ErrRouteUnavailable)
	}
	if len(body.Routes) == 0 {
		return nil, fmt.Errorf("routing provider returned no routes: %w", harvest_errors.ErrRouteUnavailable)
	}

	best := body.Routes[0]
	points := make([]model.Coordinate, 0, len(best.Geometry.Coordinates))
	for _, pair := range best.Geometry.Coordinates {
		if len(pair) < 2 {
			return nil, fmt.Errorf("malformed route geometry: %w", harvest_errors.ErrRouteUnavailable)
		}
		points = append(points, model.Coordinate{Lat: pair[1], Lng: pair[0]})
	}

	logger.Debug("Route fetched",
		zap.Int("points", len(points)),
		zap.Float64("distance", best.Distance),
		zap.Duration("duration", time.Since(start)))

	return &model.Route{
		From:            from,
		To:              to,
		Points:          points,
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
		Available:       true,
	}, nil
}
