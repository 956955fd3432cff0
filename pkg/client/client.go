package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/roadsafetyguard/roadsafetyguard/pkg/analytics"
	"github.com/roadsafetyguard/roadsafetyguard/pkg/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("roadsafety-api-client")

// Client talks to a running API. The bearer token belongs to the client
// value, so two sessions never share headers.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Token() string {
	return c.token
}

// APIError is a non 2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string              `json:"message"`
	Errors     []models.FieldError `json:"errors"`
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		messages := make([]string, 0, len(e.Errors))
		for _, fieldError := range e.Errors {
			messages = append(messages, fieldError.Message)
		}
		return fmt.Sprintf("api returned %d: %s", e.StatusCode, strings.Join(messages, "; "))
	}

	return fmt.Sprintf("api returned %d: %s", e.StatusCode, e.Message)
}

type Session struct {
	Token string             `json:"token"`
	User  models.SessionUser `json:"user"`
}

// Login returns a new client bound to the issued token. The receiver is left
// untouched.
func (c *Client) Login(ctx context.Context, username string, password string) (*Client, *Session, error) {
	var session Session
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, map[string]string{
		"username": username,
		"password": password,
	}, &session)
	if err != nil {
		return nil, nil, err
	}

	bound := *c
	bound.token = session.Token

	return &bound, &session, nil
}

func (c *Client) AnalyticsDashboard(ctx context.Context, window models.Window) (*analytics.Dashboard, error) {
	var dashboard analytics.Dashboard
	if err := c.do(ctx, http.MethodGet, "/api/analytics/dashboard", windowQuery(window), nil, &dashboard); err != nil {
		return nil, err
	}

	return &dashboard, nil
}

func (c *Client) Trends(ctx context.Context, period models.Period, window models.Window) ([]models.TrendBucket, error) {
	query := windowQuery(window)
	if period != "" {
		query.Set("period", string(period))
	}

	var trends []models.TrendBucket
	if err := c.do(ctx, http.MethodGet, "/api/analytics/trends", query, nil, &trends); err != nil {
		return nil, err
	}

	return trends, nil
}

func (c *Client) Heatmap(ctx context.Context, window models.Window) ([]models.HeatmapPoint, error) {
	var points []models.HeatmapPoint
	if err := c.do(ctx, http.MethodGet, "/api/analytics/heatmap", windowQuery(window), nil, &points); err != nil {
		return nil, err
	}

	return points, nil
}

type ListOptions struct {
	Severity models.Severity
	Category models.Category
	Status   models.Status
	Location string
	Window   models.Window
	Page     int64
	Limit    int64
}

type AccidentPage struct {
	Accidents   []*models.Accident `json:"accidents"`
	TotalPages  int64              `json:"totalPages"`
	CurrentPage int64              `json:"currentPage"`
	Total       int64              `json:"total"`
}

func (c *Client) ListAccidents(ctx context.Context, opts ListOptions) (*AccidentPage, error) {
	query := windowQuery(opts.Window)
	setIf(query, "severity", string(opts.Severity))
	setIf(query, "category", string(opts.Category))
	setIf(query, "status", string(opts.Status))
	setIf(query, "location", opts.Location)
	if opts.Page > 0 {
		query.Set("page", strconv.FormatInt(opts.Page, 10))
	}
	if opts.Limit > 0 {
		query.Set("limit", strconv.FormatInt(opts.Limit, 10))
	}

	var page AccidentPage
	if err := c.do(ctx, http.MethodGet, "/api/accidents", query, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

func (c *Client) CreateAccident(ctx context.Context, accident *models.Accident) (*models.Accident, error) {
	var created struct {
		Accident *models.Accident `json:"accident"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/accidents", nil, accident, &created); err != nil {
		return nil, err
	}

	return created.Accident, nil
}

func (c *Client) do(ctx context.Context, method string, path string, query url.Values, body interface{}, out interface{}) (err error) {
	ctx, span := tracer.Start(ctx, method+" "+path)
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiError := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiError); err != nil {
			apiError.Message = http.StatusText(resp.StatusCode)
		}
		return apiError
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func windowQuery(window models.Window) url.Values {
	query := url.Values{}
	if window.Start != nil {
		query.Set("startDate", window.Start.UTC().Format(time.RFC3339))
	}
	if window.End != nil {
		query.Set("endDate", window.End.UTC().Format(time.RFC3339))
	}

	return query
}

func setIf(query url.Values, key string, value string) {
	if value != "" {
		query.Set(key, value)
	}
}
