// api/dao/supabase_dao.go
package dao

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	harvest_errors "github.com/harvestlink/market/api/errors"
	logger "github.com/harvestlink/market/api/logging"
	"github.com/harvestlink/market/api/model"
)

// SupabaseDAO talks to the hosted backend's PostgREST endpoint with the
// service key. Row-level access is enforced by the backend itself.
type SupabaseDAO struct {
	baseURL    string
	serviceKey string
	client     *retryablehttp.Client
}

var _ DataService = &SupabaseDAO{}

func NewSupabaseDAO(baseURL, serviceKey string, timeout time.Duration, retryMax int) *SupabaseDAO {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.RetryWaitMin = 100 * time.Millisecond
	client.RetryWaitMax = time.Second
	client.HTTPClient.Timeout = timeout
	client.Logger = zapLeveledLogger{logger.Log.Sugar().With("component", "supabase")}

	return &SupabaseDAO{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		client:     client,
	}
}

func (dao *SupabaseDAO) List(ctx context.Context, resource string) ([]model.Record, error) {
	start := time.Now()
	var records []model.Record
	if err := dao.do(ctx, http.MethodGet, resource, url.Values{"select": {"*"}}, nil, &records); err != nil {
		return nil, err
	}
	logger.Debug("Listed records",
		zap.String("resource", resource),
		zap.Int("count", len(records)),
		zap.Duration("duration", time.Since(start)))
	return records, nil
}

func (dao *SupabaseDAO) GetByID(ctx context.Context, resource, id string) (model.Record, error) {
	var records []model.Record
	if err := dao.do(ctx, http.MethodGet, resource, byID(id), nil, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s %s: %w", resource, id, harvest_errors.ErrNotFound)
	}
	return records[0], nil
}

func (dao *SupabaseDAO) Insert(ctx context.Context, resource string, record model.Record) (model.Record, error) {
	var records []model.Record
	if err := dao.do(ctx, http.MethodPost, resource, nil, record, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("insert into %s returned no rows: %w", resource, harvest_errors.ErrUpstreamUnavailable)
	}
	return records[0], nil
}

func (dao *SupabaseDAO) Update(ctx context.Context, resource, id string, record model.Record) (model.Record, error) {
	var records []model.Record
	if err := dao.do(ctx, http.MethodPatch, resource, byID(id), record, &records); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s %s: %w", resource, id, harvest_errors.ErrNotFound)
	}
	return records[0], nil
}

func (dao *SupabaseDAO) Delete(ctx context.Context, resource, id string) error {
	var records []model.Record
	if err := dao.do(ctx, http.MethodDelete, resource, byID(id), nil, &records); err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("%s %s: %w", resource, id, harvest_errors.ErrNotFound)
	}
	return nil
}

func (dao *SupabaseDAO) do(ctx context.Context, method, resource string, query url.Values, body interface{}, out interface{}) error {
	if !knownResources[resource] {
		return fmt.Errorf("%q: %w", resource, harvest_errors.ErrUnknownResource)
	}

	endpoint := dao.baseURL + "/rest/v1/" + resource
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", resource, err)
		}
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", resource, err)
	}
	req.Header.Set("apikey", dao.serviceKey)
	req.Header.Set("Authorization", "Bearer "+dao.serviceKey)
	req.Header.Set("Accept", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	var resp *http.Response
	if method == http.MethodPost {
		// Inserts are not idempotent; never retry them.
		resp, err = dao.client.HTTPClient.Do(req)
	} else {
		var retryable *retryablehttp.Request
		if retryable, err = retryablehttp.FromRequest(req); err == nil {
			resp, err = dao.client.Do(retryable)
		}
	}
	if err != nil {
		logger.Error("Data service request failed",
			zap.Error(err),
			zap.String("method", method),
			zap.String("resource", resource))
		return fmt.Errorf("%s %s: %v: %w", method, resource, err, harvest_errors.ErrUpstreamUnavailable)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %v: %w", resource, err, harvest_errors.ErrUpstreamUnavailable)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, resource, harvest_errors.ErrNotFound)
	case resp.StatusCode >= 300:
		logger.Error("Data service returned an error",
			zap.String("method", method),
			zap.String("resource", resource),
			zap.Int("statusCode", resp.StatusCode),
			zap.ByteString("body", truncate(data, 512)))
		return fmt.Errorf("%s %s: status %d: %w", method, resource, resp.StatusCode, harvest_errors.ErrUpstreamUnavailable)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("malformed %s payload: %v: %w", resource, err, harvest_errors.ErrUpstreamUnavailable)
	}
	return nil
}

func byID(id string) url.Values {
	return url.Values{"select": {"*"}, "id": {"eq." + id}}
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

// zapLeveledLogger adapts zap to retryablehttp.LeveledLogger.
type zapLeveledLogger struct {
	s *zap.SugaredLogger
}

func (l zapLeveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, keysAndValues...)
}

func (l zapLeveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l zapLeveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l zapLeveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.s.Warnw(msg, keysAndValues...)
}
