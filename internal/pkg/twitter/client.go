package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.twitter.com"

// ErrUnauthorized is returned when the API rejects the access token.
var ErrUnauthorized = errors.New("twitter: access token rejected")

// APIError is a non-2xx answer from the Twitter API.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitter api error %d: %s", e.StatusCode, e.Detail)
}

// Client calls the Twitter v2 API on behalf of a user.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Me returns the account the token belongs to.
func (c *Client) Me(ctx context.Context, accessToken string) (*User, error) {
	var out struct {
		Data User `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/2/users/me", accessToken, nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// PostTweet publishes text and returns the new tweet id.
func (c *Client) PostTweet(ctx context.Context, accessToken, text string) (string, error) {
	var out struct {
		Data struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"data"`
	}
	body := map[string]string{"text": text}
	if err := c.do(ctx, http.MethodPost, "/2/tweets", accessToken, body, &out); err != nil {
		return "", err
	}
	if out.Data.ID == "" {
		return "", errors.New("twitter: response missing tweet id")
	}
	return out.Data.ID, nil
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, in, out interface{}) error {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("twitter request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Detail: errorDetail(raw)}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// errorDetail pulls the human readable message out of a v2 error body.
func errorDetail(raw []byte) string {
	var body struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Detail != "" {
			return body.Detail
		}
		if body.Title != "" {
			return body.Title
		}
	}
	return strings.TrimSpace(string(raw))
}
