// Package backend is the HTTP client for the user service. The contract is
// query-parameter based for every verb: the server reads all inputs from the
// URL, the body is always empty.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/team8-2025-2026/AiAgents/internal/model"
)

// TransportError means no well-formed response was received: the network
// failed, the status was non-2xx, or the body did not parse. Status is 0 when
// the request never completed.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("backend transport error (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("backend transport error (status %d)", e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }

// BusinessError is a well-formed {success:false} response: the backend
// understood the request and refused it.
type BusinessError struct {
	Message string
}

func (e *BusinessError) Error() string {
	return "backend rejected request: " + e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, op, method, path string, params url.Values) (json.RawMessage, error) {
	data, err := c.roundTrip(ctx, method, path, params)
	observe(op, err)
	return data, err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, params url.Values) (json.RawMessage, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Status: resp.StatusCode}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &TransportError{Status: resp.StatusCode, Err: err}
	}
	if !env.Success {
		return nil, &BusinessError{Message: env.Error}
	}
	return env.Data, nil
}

// Login exchanges credentials for the user record. The access token is
// carried inside the returned profile.
func (c *Client) Login(ctx context.Context, email, password string) (model.Profile, error) {
	params := url.Values{}
	params.Set("email", email)
	params.Set("password", password)

	data, err := c.do(ctx, "login", http.MethodGet, "/user", params)
	if err != nil {
		return model.Profile{}, err
	}
	return decodeProfile(data)
}

// UserByToken resolves the owner of an access token.
func (c *Client) UserByToken(ctx context.Context, token string) (model.Profile, error) {
	params := url.Values{}
	params.Set("access_token", token)

	data, err := c.do(ctx, "user_by_token", http.MethodGet, "/user/by_token", params)
	if err != nil {
		return model.Profile{}, err
	}
	return decodeProfile(data)
}

// CreateUser registers a new user. The backend generates the initial password
// and returns it exactly once alongside the profile.
func (c *Client) CreateUser(ctx context.Context, email, firstName, lastName, status, requesterToken string) (model.Profile, string, error) {
	params := url.Values{}
	params.Set("email", email)
	params.Set("first_name", firstName)
	params.Set("last_name", lastName)
	params.Set("status", status)
	params.Set("access_token", requesterToken)

	data, err := c.do(ctx, "create_user", http.MethodPut, "/user", params)
	if err != nil {
		return model.Profile{}, "", err
	}
	var payload struct {
		model.Profile
		Password string `json:"password"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.Profile{}, "", &TransportError{Status: http.StatusOK, Err: err}
	}
	return payload.Profile, payload.Password, nil
}

// UpdateUser PATCHes the changed fields only. Empty fields of the update are
// omitted from the request entirely, never sent as empty values.
func (c *Client) UpdateUser(ctx context.Context, email, requesterToken string, update model.ProfileUpdate) (model.Profile, error) {
	params := url.Values{}
	params.Set("email", email)
	params.Set("access_token", requesterToken)
	if update.FirstName != "" {
		params.Set("first_name", update.FirstName)
	}
	if update.LastName != "" {
		params.Set("last_name", update.LastName)
	}
	if update.Description != "" {
		params.Set("description", update.Description)
	}
	if update.Password != "" {
		params.Set("password", update.Password)
	}

	data, err := c.do(ctx, "update_user", http.MethodPatch, "/user", params)
	if err != nil {
		return model.Profile{}, err
	}
	return decodeProfile(data)
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, email, requesterToken string) error {
	params := url.Values{}
	params.Set("email", email)
	params.Set("access_token", requesterToken)

	_, err := c.do(ctx, "delete_user", http.MethodDelete, "/user", params)
	return err
}

func decodeProfile(data json.RawMessage) (model.Profile, error) {
	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return model.Profile{}, &TransportError{Status: http.StatusOK, Err: err}
	}
	return profile, nil
}

func observe(op string, err error) {
	outcome := "ok"
	var transportErr *TransportError
	var businessErr *BusinessError
	switch {
	case err == nil:
	case errors.As(err, &businessErr):
		outcome = "business_error"
	case errors.As(err, &transportErr):
		outcome = "transport_error"
	default:
		outcome = "error"
	}
	requestsTotal.WithLabelValues(op, outcome).Inc()
}
