// Package client is the HTTP client for the will service API. It is
// consumed by the interactive wizard and usable as a standalone SDK.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"bitwill.backend/internal/domain/entities"
	"bitwill.backend/pkg/utils"
	"github.com/google/uuid"
)

// APIBasePath is the versioned API prefix
const APIBasePath = "/api/v1"

// APIError is a non-2xx response from the service
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// Client talks to the will service API
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL,
// e.g. "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken sets the bearer token used on authenticated calls
func (c *Client) SetToken(token string) {
	c.token = token
}

// AuthTokens is the token pair returned by register and login
type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Register creates an account and returns its token pair
func (c *Client) Register(ctx context.Context, email, password string) (*AuthTokens, error) {
	var tokens AuthTokens
	err := c.doJSON(ctx, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
	}, &tokens)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Login authenticates and returns the account's token pair
func (c *Client) Login(ctx context.Context, email, password string) (*AuthTokens, error) {
	var tokens AuthTokens
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &tokens)
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Template fetches the empty draft skeleton
func (c *Client) Template(ctx context.Context) (*entities.Will, error) {
	var will entities.Will
	if err := c.doJSON(ctx, http.MethodGet, "/wills/template", nil, &will); err != nil {
		return nil, err
	}
	return &will, nil
}

// CreateWill persists a new will and returns it with its assigned ID
func (c *Client) CreateWill(ctx context.Context, will *entities.Will) (*entities.Will, error) {
	var created entities.Will
	if err := c.doJSON(ctx, http.MethodPost, "/wills", willInput(will), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateWill replaces the will's content on the server
func (c *Client) UpdateWill(ctx context.Context, will *entities.Will) (*entities.Will, error) {
	var updated entities.Will
	path := "/wills/" + will.ID.String()
	if err := c.doJSON(ctx, http.MethodPut, path, willInput(will), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// GetWill fetches a full will by ID
func (c *Client) GetWill(ctx context.Context, id uuid.UUID) (*entities.Will, error) {
	var will entities.Will
	if err := c.doJSON(ctx, http.MethodGet, "/wills/"+id.String(), nil, &will); err != nil {
		return nil, err
	}
	return &will, nil
}

// WillList is the response of the list endpoint
type WillList struct {
	Wills      []*entities.WillSummary `json:"wills"`
	Pagination utils.PaginationMeta    `json:"pagination"`
}

// ListWills lists the account's wills
func (c *Client) ListWills(ctx context.Context, page, limit int) (*WillList, error) {
	path := fmt.Sprintf("/wills?page=%d&limit=%d", page, limit)
	var list WillList
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GenerateDocument renders the will's document on the server
func (c *Client) GenerateDocument(ctx context.Context, id uuid.UUID) (*entities.GenerateResult, error) {
	var result entities.GenerateResult
	path := "/wills/" + id.String() + "/generate"
	if err := c.doJSON(ctx, http.MethodPost, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DownloadDocument streams the generated document into w. When
// downloadToken is non-empty it is sent instead of the bearer token,
// so the link works without authentication.
func (c *Client) DownloadDocument(ctx context.Context, id uuid.UUID, downloadToken string, w io.Writer) error {
	path := "/wills/" + id.String() + "/download"
	if downloadToken != "" {
		path += "?token=" + url.QueryEscape(downloadToken)
	}

	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return decodeAPIError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// DeleteWill soft deletes a will
func (c *Client) DeleteWill(ctx context.Context, id uuid.UUID) error {
	return c.doJSON(ctx, http.MethodDelete, "/wills/"+id.String(), nil, nil)
}

// Plans fetches the subscription plan catalog
func (c *Client) Plans(ctx context.Context) ([]entities.PlanInfo, error) {
	var body struct {
		Plans []entities.PlanInfo `json:"plans"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/subscriptions/plans", nil, &body); err != nil {
		return nil, err
	}
	return body.Plans, nil
}

// SubscriptionStatus fetches the account's subscription status
func (c *Client) SubscriptionStatus(ctx context.Context) (*entities.SubscriptionStatusInfo, error) {
	var status entities.SubscriptionStatusInfo
	if err := c.doJSON(ctx, http.MethodGet, "/subscriptions/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Checkout activates a plan for the account
func (c *Client) Checkout(ctx context.Context, plan entities.SubscriptionPlan) (*entities.Subscription, error) {
	var sub entities.Subscription
	err := c.doJSON(ctx, http.MethodPost, "/subscriptions/checkout", map[string]string{
		"plan": string(plan),
	}, &sub)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// CancelSubscription cancels the account's active subscription
func (c *Client) CancelSubscription(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodPost, "/subscriptions/cancel", nil, nil)
}

func willInput(will *entities.Will) *entities.WillInput {
	return &entities.WillInput{
		Title:         will.Title,
		PersonalInfo:  will.PersonalInfo,
		BitcoinAssets: will.BitcoinAssets,
		Beneficiaries: will.Beneficiaries,
		Instructions:  will.Instructions,
	}
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+APIBasePath+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
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
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	message := http.StatusText(resp.StatusCode)
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			message = body.Message
		} else if body.Error != "" {
			message = body.Error
		}
	}
	return &APIError{Status: resp.StatusCode, Message: message}
}
