package coachapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/traininggrounds/internal/briefing"
	"github.com/2beens/traininggrounds/internal/telemetry/metrics"
	"github.com/2beens/traininggrounds/internal/telemetry/tracing"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultCacheSize          = 50 * 1024 * 1024
	DefaultCacheExpireSeconds = 60
	maxErrorBodyBytes         = 1024
)

var ErrEmptyUserID = errors.New("user id empty")

// APIError is returned for non 2xx responses from the coach backend.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("coach api responded with status %d: %s", e.StatusCode, e.Body)
}

type weeklyReportsResponse struct {
	Reports briefing.LenientList[briefing.WeeklyReport] `json:"reports"`
}

type workoutsResponse struct {
	Workouts briefing.LenientList[briefing.WorkoutRecord] `json:"workouts"`
}

type ClientParams struct {
	BaseURL            string
	ServiceToken       string
	HttpClient         *http.Client
	CacheExpireSeconds int
	MetricsManager     *metrics.Manager
}

// Client reads weekly analytics reports and workouts from the coach backend.
type Client struct {
	baseURL            string
	serviceToken       string
	httpClient         *http.Client
	cache              *freecache.Cache
	cacheExpireSeconds int
	metricsManager     *metrics.Manager
}

func NewClient(params ClientParams) *Client {
	httpClient := params.HttpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	expire := params.CacheExpireSeconds
	if expire == 0 {
		expire = DefaultCacheExpireSeconds
	}
	return &Client{
		baseURL:            strings.TrimSuffix(params.BaseURL, "/"),
		serviceToken:       params.ServiceToken,
		httpClient:         httpClient,
		cache:              freecache.NewCache(defaultCacheSize),
		cacheExpireSeconds: expire,
		metricsManager:     params.MetricsManager,
	}
}

// RecentWeeklyReports returns up to limit weekly reports, most recent first.
func (c *Client) RecentWeeklyReports(ctx context.Context, userID string, limit int) (_ []briefing.WeeklyReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "coachapi.recentWeeklyReports")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID), attribute.Int("limit", limit))

	if userID == "" {
		return nil, ErrEmptyUserID
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	body, err := c.get(ctx, "reports", fmt.Sprintf("/users/%s/analytics/weekly", url.PathEscape(userID)), query)
	if err != nil {
		return nil, err
	}

	var resp weeklyReportsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal weekly reports: %w", err)
	}

	SortReports(resp.Reports)
	if limit > 0 && len(resp.Reports) > limit {
		resp.Reports = resp.Reports[:limit]
	}
	return resp.Reports, nil
}

// RecentWorkouts returns up to limit workouts, most recently completed first.
func (c *Client) RecentWorkouts(ctx context.Context, userID string, limit int) (_ []briefing.WorkoutRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "coachapi.recentWorkouts")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user_id", userID), attribute.Int("limit", limit))

	if userID == "" {
		return nil, ErrEmptyUserID
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("sort", "-completedAt")
	body, err := c.get(ctx, "workouts", fmt.Sprintf("/users/%s/workouts", url.PathEscape(userID)), query)
	if err != nil {
		return nil, err
	}

	var resp workoutsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal workouts: %w", err)
	}

	SortWorkouts(resp.Workouts)
	if limit > 0 && len(resp.Workouts) > limit {
		resp.Workouts = resp.Workouts[:limit]
	}
	return resp.Workouts, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path + "?" + query.Encode()
	cacheKey := []byte(endpoint + "::" + reqURL)

	begin := time.Now()
	if cached, err := c.cache.Get(cacheKey); err == nil {
		log.Tracef("coach api [%s] served from cache", reqURL)
		c.observe(endpoint, true, begin)
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.serviceToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.serviceToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(errBody)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read coach api response: %w", err)
	}
	c.observe(endpoint, false, begin)

	if err := c.cache.Set(cacheKey, body, c.cacheExpireSeconds); err != nil {
		log.Errorf("failed to cache coach api response for [%s]: %s", reqURL, err)
	}

	return body, nil
}

func (c *Client) observe(endpoint string, cached bool, begin time.Time) {
	if c.metricsManager == nil {
		return
	}
	c.metricsManager.HistogramCoachApiDuration.
		WithLabelValues(endpoint, strconv.FormatBool(cached)).
		Observe(time.Since(begin).Seconds())
}

// SortReports orders reports most recent first by reference date.
// Reports without a usable date go last, keeping their relative order.
func SortReports(reports []briefing.WeeklyReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		di, okI := reports[i].ReferenceDate()
		dj, okJ := reports[j].ReferenceDate()
		switch {
		case okI && okJ:
			return di.After(dj)
		default:
			return okI && !okJ
		}
	})
}

// SortWorkouts orders workouts most recently completed first.
func SortWorkouts(workouts []briefing.WorkoutRecord) {
	sort.SliceStable(workouts, func(i, j int) bool {
		return workouts[i].CompletedAt.After(workouts[j].CompletedAt)
	})
}
