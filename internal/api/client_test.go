package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens string

func (s staticTokens) AccessToken() (string, error) { return string(s), nil }

func TestClientErrorCarriesMessageStatusEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"detail": "Insufficient credits"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Post(context.Background(), "/blog/generate", map[string]string{"topic": "x"}, nil)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Insufficient credits", apiErr.Message)
	assert.Equal(t, http.StatusPaymentRequired, apiErr.Status)
	assert.Equal(t, "/blog/generate", apiErr.Endpoint)
}

func TestClientFallsBackToStatusText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>upstream dead</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Get(context.Background(), "/credits/balance", nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestClientNonStandardStatusHasMessage(t *testing.T) {
	// 599 has no status text; the message must still be non-empty.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(599)
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Get(context.Background(), "/credits/balance", nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 599, apiErr.Status)
	assert.Equal(t, "HTTP 599", apiErr.Message)
}

func TestClientNetworkFailureIsStatusZero(t *testing.T) {
	// Closed server: connection refused, no response at all.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(server.URL)
	err := client.Get(context.Background(), "/auth/me", nil)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.Equal(t, "/auth/me", apiErr.Endpoint)
	assert.Contains(t, apiErr.Message, "network error")
	assert.True(t, IsNetworkError(err))
}

func TestClientDecodesSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/credits/balance", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "credits": {"current_balance": 42}}`))
	}))
	defer server.Close()

	var out struct {
		Success bool `json:"success"`
		Credits struct {
			CurrentBalance int `json:"current_balance"`
		} `json:"credits"`
	}

	client := NewClient(server.URL)
	err := client.Get(context.Background(), "/credits/balance", &out)
	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.Equal(t, 42, out.Credits.CurrentBalance)
}

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTokenSource(staticTokens("tok-123")))
	require.NoError(t, client.Get(context.Background(), "/auth/me", nil))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestClientOmitsAuthorizationWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTokenSource(staticTokens("")))
	require.NoError(t, client.Get(context.Background(), "/credits/balance", nil))
	assert.Empty(t, gotAuth)
}

func TestClientCallerAuthorizationWinsOverToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	headers := http.Header{}
	headers.Set("Authorization", "Basic dXNlcjpwYXNz")

	client := NewClient(server.URL, WithTokenSource(staticTokens("tok-123")))
	err := client.DoWithHeaders(context.Background(), http.MethodGet, "/social/instagram/publish", headers, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Basic dXNlcjpwYXNz", gotAuth)
}

func TestClientPersistsCookiesAcrossRequests(t *testing.T) {
	var secondCookie string
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.SetCookie(w, &http.Cookie{Name: "orla_session", Value: "abc", Path: "/"})
		} else {
			if c, err := r.Cookie("orla_session"); err == nil {
				secondCookie = c.Value
			}
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.NoError(t, client.Get(context.Background(), "/auth/me", nil))
	require.NoError(t, client.Get(context.Background(), "/credits/balance", nil))

	assert.Equal(t, "abc", secondCookie, "session cookie should travel on the second request")
}

func TestClientCallerHeadersWin(t *testing.T) {
	var gotContentType, gotIdem string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotIdem = r.Header.Get("Idempotency-Key")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	headers := http.Header{}
	headers.Set("Content-Type", "application/vnd.orla+json")
	headers.Set("Idempotency-Key", "key-1")

	client := NewClient(server.URL)
	err := client.DoWithHeaders(context.Background(), http.MethodPost, "/payment/purchase-credits",
		headers, map[string]string{"package_id": "starter"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "application/vnd.orla+json", gotContentType)
	assert.Equal(t, "key-1", gotIdem)
}

func TestClientAuthFailureHook(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		endpoint  string
		wantFired bool
	}{
		{
			name:      "jwt 401 fires hook",
			status:    http.StatusUnauthorized,
			body:      `{"detail": "Invalid or expired token"}`,
			endpoint:  "/credits/balance",
			wantFired: true,
		},
		{
			name:      "identity endpoint 401 fires hook",
			status:    http.StatusUnauthorized,
			body:      `{"detail": "whatever"}`,
			endpoint:  "/auth/me",
			wantFired: true,
		},
		{
			name:      "third-party 401 does not fire hook",
			status:    http.StatusUnauthorized,
			body:      `{"detail": "Instagram rejected the upload token"}`,
			endpoint:  "/social/instagram/publish",
			wantFired: false,
		},
		{
			name:      "403 does not fire hook",
			status:    http.StatusForbidden,
			body:      `{"detail": "Invalid or expired token"}`,
			endpoint:  "/credits/balance",
			wantFired: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			fired := ""
			client := NewClient(server.URL)
			client.SetAuthFailureFunc(func(endpoint string) { fired = endpoint })

			err := client.Get(context.Background(), tt.endpoint, nil)
			require.Error(t, err)

			if tt.wantFired {
				assert.Equal(t, tt.endpoint, fired)
			} else {
				assert.Empty(t, fired)
			}
		})
	}
}

func TestClientResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", int(MaxResponseSize)+1000)))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.Get(context.Background(), "/media/list", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResponseTooLarge))
}

func TestReadLimitedResponse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		maxSize int64
		wantErr error
		wantLen int
	}{
		{name: "within limit", data: "hello world", maxSize: 100, wantLen: 11},
		{name: "at exact limit", data: "12345", maxSize: 5, wantLen: 5},
		{name: "exceeds limit", data: "this is too long", maxSize: 5, wantErr: ErrResponseTooLarge},
		{name: "empty", data: "", maxSize: 100, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := readLimitedResponse(strings.NewReader(tt.data), tt.maxSize)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, body, tt.wantLen)
		})
	}
}

func TestClientNormalizesEndpointSlash(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")
	require.NoError(t, client.Get(context.Background(), "auth/me", nil))
	assert.Equal(t, "/auth/me", gotPath)
}
