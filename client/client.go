// Package client is a Go client for the leadboard HTTP API together with the
// client-side state a dashboard keeps: a query cache and an incrementally
// loaded lead feed.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"leadboard/models"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == fasthttp.StatusNotFound
}

// Client calls the HTTP API with a bearer token
type Client struct {
	baseURL string
	http    *fasthttp.Client
	timeout time.Duration
	cache   *QueryCache

	mu    sync.RWMutex
	token string
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying fasthttp client
func WithHTTPClient(hc *fasthttp.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request when the context has no earlier deadline
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithToken sets the bearer token
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithCache serves campaign reads from cache and invalidates it on writes
func WithCache(cache *QueryCache) Option {
	return func(c *Client) { c.cache = cache }
}

// New creates a client for the API rooted at baseURL, e.g. "http://localhost:3000"
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &fasthttp.Client{
			Name:                "leadboard-client",
			MaxIdleConnDuration: time.Minute,
		},
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Register creates an account and keeps its token
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.User, error) {
	var out authResponse
	if err := c.do(ctx, fasthttp.MethodPost, "/api/auth/register", nil, req, &out); err != nil {
		return nil, err
	}
	c.setToken(out.Token)
	return out.User, nil
}

// Login authenticates and keeps the issued token
func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var out authResponse
	body := models.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, fasthttp.MethodPost, "/api/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	c.setToken(out.Token)
	return out.User, nil
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, fasthttp.MethodGet, "/api/auth/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CampaignParams are the optional campaign list query parameters
type CampaignParams struct {
	Status string
	Sort   string
	Order  string
}

func (p CampaignParams) values() url.Values {
	v := url.Values{}
	setIf(v, "status", p.Status)
	setIf(v, "sort", p.Sort)
	setIf(v, "order", p.Order)
	return v
}

// ListCampaigns returns the user's campaigns with lead metrics
func (c *Client) ListCampaigns(ctx context.Context, p CampaignParams) ([]models.CampaignSummary, error) {
	query := p.values()
	key := campaignsKey + "?" + query.Encode()
	// Callers get their own slice; the cached one is never handed out.
	if cached, ok := c.cache.Get(key); ok {
		return slices.Clone(cached.([]models.CampaignSummary)), nil
	}

	var out []models.CampaignSummary
	if err := c.do(ctx, fasthttp.MethodGet, "/api/campaigns", query, nil, &out); err != nil {
		return nil, err
	}
	c.cache.Set(key, out)
	return slices.Clone(out), nil
}

// GetCampaign returns a campaign with its leads
func (c *Client) GetCampaign(ctx context.Context, id int64) (*models.CampaignDetail, error) {
	var out models.CampaignDetail
	if err := c.do(ctx, fasthttp.MethodGet, campaignPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCampaign creates a campaign
func (c *Client) CreateCampaign(ctx context.Context, req models.CreateCampaignRequest) (*models.CampaignSummary, error) {
	var out models.CampaignSummary
	if err := c.do(ctx, fasthttp.MethodPost, "/api/campaigns", nil, req, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(campaignsKey)
	return &out, nil
}

// UpdateCampaign patches a campaign's name and/or status
func (c *Client) UpdateCampaign(ctx context.Context, id int64, req models.UpdateCampaignRequest) (*models.CampaignSummary, error) {
	var out models.CampaignSummary
	if err := c.do(ctx, fasthttp.MethodPatch, campaignPath(id), nil, req, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(campaignsKey)
	return &out, nil
}

// DeleteCampaign removes a campaign. Cached listings drop it immediately and
// are restored if the server rejects the delete.
func (c *Client) DeleteCampaign(ctx context.Context, id int64) error {
	snap := c.cache.Snapshot()
	c.cache.Update(campaignsKey, func(v interface{}) interface{} {
		list, ok := v.([]models.CampaignSummary)
		if !ok {
			return v
		}
		kept := make([]models.CampaignSummary, 0, len(list))
		for _, s := range list {
			if s.ID != id {
				kept = append(kept, s)
			}
		}
		return kept
	})

	if err := c.do(ctx, fasthttp.MethodDelete, campaignPath(id), nil, nil, nil); err != nil {
		c.cache.Restore(snap)
		return err
	}
	c.cache.Invalidate(campaignsKey)
	return nil
}

// Summary returns the dashboard summary cards
func (c *Client) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	key := campaignsKey + ":summary"
	if cached, ok := c.cache.Get(key); ok {
		sum := cached.(models.DashboardSummary)
		return &sum, nil
	}

	var out models.DashboardSummary
	if err := c.do(ctx, fasthttp.MethodGet, "/api/dashboard/summary", nil, nil, &out); err != nil {
		return nil, err
	}
	c.cache.Set(key, out)
	return &out, nil
}

// LeadParams are the lead list query parameters
type LeadParams struct {
	Query    string
	Status   string
	Campaign string
	Page     int
	Limit    int
	Sort     string
	Order    string
}

func (p LeadParams) values() url.Values {
	v := url.Values{}
	setIf(v, "q", p.Query)
	setIf(v, "status", p.Status)
	setIf(v, "campaign", p.Campaign)
	setIf(v, "sort", p.Sort)
	setIf(v, "order", p.Order)
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	return v
}

// ListLeads returns one page of leads
func (c *Client) ListLeads(ctx context.Context, p LeadParams) (*models.LeadPage, error) {
	var out models.LeadPage
	if err := c.do(ctx, fasthttp.MethodGet, "/api/leads", p.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLead returns a lead
func (c *Client) GetLead(ctx context.Context, id int64) (*models.LeadView, error) {
	var out models.LeadView
	if err := c.do(ctx, fasthttp.MethodGet, leadPath(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateLead adds a lead to a campaign
func (c *Client) CreateLead(ctx context.Context, req models.CreateLeadRequest) (*models.LeadView, error) {
	var out models.LeadView
	if err := c.do(ctx, fasthttp.MethodPost, "/api/leads", nil, req, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(campaignsKey)
	return &out, nil
}

// UpdateLeadStatus changes a lead's status
func (c *Client) UpdateLeadStatus(ctx context.Context, id int64, status models.LeadStatus) (*models.LeadView, error) {
	var out models.LeadView
	body := models.UpdateLeadStatusRequest{Status: status}
	if err := c.do(ctx, fasthttp.MethodPatch, leadPath(id), nil, body, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(campaignsKey)
	return &out, nil
}

// DeleteLead removes a lead
func (c *Client) DeleteLead(ctx context.Context, id int64) error {
	if err := c.do(ctx, fasthttp.MethodDelete, leadPath(id), nil, nil, nil); err != nil {
		return err
	}
	c.cache.Invalidate(campaignsKey)
	return nil
}

// Seed fills the account with sample data through the dev route
func (c *Client) Seed(ctx context.Context) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, fasthttp.MethodPost, "/api/dev/seed", nil, nil, &out); err != nil {
		return "", err
	}
	c.cache.Invalidate(campaignsKey)
	return out.Message, nil
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// do sends one JSON request and decodes a 2xx body into out
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	uri := c.baseURL + path
	if len(query) > 0 {
		uri += "?" + query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(raw)
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		apiErr := &APIError{Status: status}
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(resp.Body(), &payload) == nil && payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = fasthttp.StatusMessage(status)
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func campaignPath(id int64) string { return "/api/campaigns/" + strconv.FormatInt(id, 10) }
func leadPath(id int64) string     { return "/api/leads/" + strconv.FormatInt(id, 10) }

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
