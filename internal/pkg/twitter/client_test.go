package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostTweet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/2/tweets", r.URL.Path)
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "hello world", body["text"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"data":{"id":"1790","text":"hello world"}}`))
	}))
	defer server.Close()

	id, err := NewClient(server.URL, nil).PostTweet(context.Background(), "at-1", "hello world")
	require.NoError(t, err)
	assert.Equal(t, "1790", id)
}

func TestClient_PostTweet_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).PostTweet(context.Background(), "stale", "hi")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClient_PostTweet_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"title":"Forbidden","detail":"You are not allowed to create a Tweet with duplicate content."}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, nil).PostTweet(context.Background(), "at", "dup")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, apiErr.Detail, "duplicate content")
}

func TestClient_Me(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/users/me", r.URL.Path)
		w.Write([]byte(`{"data":{"id":"42","name":"Jane","username":"jane"}}`))
	}))
	defer server.Close()

	user, err := NewClient(server.URL+"/", nil).Me(context.Background(), "at")
	require.NoError(t, err)
	assert.Equal(t, "42", user.ID)
	assert.Equal(t, "jane", user.Username)
}
