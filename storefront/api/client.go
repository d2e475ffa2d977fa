// Package api is the storefront's client for the pharmacy REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go-pharmacy/session"
	"go-pharmacy/storefront/apperr"
)

// Client calls the REST API under a base URL. Requests carry the bearer
// token of the session found in their context.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client for baseURL. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func userPath(format, userID string) string {
	return fmt.Sprintf(format, url.PathEscape(userID))
}

// do sends in as JSON and decodes the response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s, ok := session.FromContext(ctx); ok && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.NetworkFailure, method+" "+path+" failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return statusError(method, path, resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(apperr.MalformedResponse, method+" "+path+" returned an unreadable body", err)
	}
	return nil
}

func statusError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	msg := strings.TrimSpace(string(raw))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	if msg == "" {
		msg = resp.Status
	}

	kind := apperr.NetworkFailure
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		kind = apperr.Unauthenticated
	case http.StatusBadRequest:
		kind = apperr.ValidationFailure
	}
	return &apperr.Error{
		Kind:    kind,
		Message: msg,
		Status:  resp.StatusCode,
		Cause:   errors.New(method + " " + path + ": " + resp.Status),
	}
}
