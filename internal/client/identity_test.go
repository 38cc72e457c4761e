package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityClient_SignIn(t *testing.T) {
	var gotPath, gotKey string
	var gotPayload map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Write([]byte(`{"localId":"abc123","email":"alice@example.com","idToken":"tok"}`))
	}))
	defer server.Close()

	c := NewIdentityClient(server.URL, "apikey", 5*time.Second)

	auth, err := c.SignIn(context.Background(), "alice@example.com", "hunter2")
	require.NoError(t, err)

	assert.Equal(t, "/accounts:signInWithPassword", gotPath)
	assert.Equal(t, "apikey", gotKey)
	assert.Equal(t, "alice@example.com", gotPayload["email"])
	assert.Equal(t, true, gotPayload["returnSecureToken"])

	assert.Equal(t, "abc123", auth.UserID)
	assert.Equal(t, "tok", auth.IDToken)
}

func TestIdentityClient_SignUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signUp", r.URL.Path)
		w.Write([]byte(`{"localId":"new456","email":"bob@example.com","idToken":"tok2"}`))
	}))
	defer server.Close()

	c := NewIdentityClient(server.URL, "apikey", 5*time.Second)

	auth, err := c.SignUp(context.Background(), "bob@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "new456", auth.UserID)
}

func TestIdentityClient_ProviderErrorSurfacedVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"INVALID_PASSWORD"}}`))
	}))
	defer server.Close()

	c := NewIdentityClient(server.URL, "apikey", 5*time.Second)

	_, err := c.SignIn(context.Background(), "alice@example.com", "wrong")
	require.Error(t, err)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "INVALID_PASSWORD", authErr.Message)
	assert.Equal(t, "INVALID_PASSWORD", err.Error())
}

func TestIdentityClient_MalformedErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	c := NewIdentityClient(server.URL, "apikey", 5*time.Second)

	_, err := c.SignIn(context.Background(), "alice@example.com", "hunter2")
	require.Error(t, err)

	var authErr *AuthError
	assert.False(t, errors.As(err, &authErr))
	assert.Contains(t, err.Error(), "status 500")
}
