package cinema

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, StaticToken("test-token"), zerolog.Nop(), opts...)
	require.NoError(t, err)
	return client
}

func TestNewClient(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name    string
		baseURL string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			baseURL: "http://localhost:8000",
		},
		{
			name:    "trailing slash is trimmed",
			baseURL: "http://localhost:8000/",
		},
		{
			name:    "missing URL",
			baseURL: "",
			wantErr: true,
			errMsg:  "base URL is required",
		},
		{
			name:    "unsupported scheme",
			baseURL: "ftp://localhost",
			wantErr: true,
			errMsg:  "unsupported URL scheme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, nil, logger)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "http://localhost:8000", client.BaseURL())
		})
	}
}

func TestClientOptions(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("with timeout", func(t *testing.T) {
		client, err := NewClient("http://localhost:8000", nil, logger, WithTimeout(5*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	})

	t.Run("default timeout", func(t *testing.T) {
		client, err := NewClient("http://localhost:8000", nil, logger)
		require.NoError(t, err)
		assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	})

	t.Run("with custom http client", func(t *testing.T) {
		custom := &http.Client{Timeout: 10 * time.Second}
		client, err := NewClient("http://localhost:8000", nil, logger, WithHTTPClient(custom))
		require.NoError(t, err)
		assert.Equal(t, custom, client.httpClient)
	})

	t.Run("with user agent", func(t *testing.T) {
		client, err := NewClient("http://localhost:8000", nil, logger, WithUserAgent("cinema-test/1.0"))
		require.NoError(t, err)
		assert.Equal(t, "cinema-test/1.0", client.userAgent)
	})
}

func TestRequestHeaders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/show/", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "cinemactl", r.Header.Get("User-Agent"))
		w.Write([]byte(`[]`))
	})

	_, err := client.Shows().List(context.Background(), ListOptions{})
	require.NoError(t, err)
}

func TestAnonymousRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, client.TestConnection(context.Background()))
}

func TestListQueryParameters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "ana", q.Get("search"))
		assert.Equal(t, "-id", q.Get("ordering"))
		assert.Equal(t, "7", q.Get("show_id"))
		w.Write([]byte(`{"count":0,"next":null,"previous":null,"results":[]}`))
	})

	resp, err := client.Reservations().List(context.Background(), ListOptions{
		Page:     2,
		Search:   "ana",
		Ordering: "-id",
		ShowID:   7,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Items())
}

func TestResourceCRUD(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]any

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotBody = nil

		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				assert.NoError(t, json.Unmarshal(data, &gotBody))
			}
		}

		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"id":9,"movie_title":"Dune","room":"A","price":"12.50","available_seats":80}`))
		case http.MethodPut:
			w.Write([]byte(`{"id":9,"movie_title":"Dune Part Two","room":"B","price":14,"available_seats":60}`))
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		}
	})

	ctx := context.Background()
	shows := client.Shows()

	created, err := shows.Create(ctx, ShowPayload{
		MovieTitle:     "Dune",
		Room:           "A",
		Price:          decimal.RequireFromString("12.50"),
		AvailableSeats: 80,
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/api/show/", gotPath)
	assert.Equal(t, "Dune", gotBody["movie_title"])
	assert.NotContains(t, gotBody, "id")
	assert.Equal(t, int64(9), created.ID)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("12.5")))

	updated, err := shows.Update(ctx, 9, ShowPayload{
		MovieTitle:     "Dune Part Two",
		Room:           "B",
		Price:          decimal.NewFromInt(14),
		AvailableSeats: 60,
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/api/show/9/", gotPath)
	assert.Equal(t, "B", updated.Room)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(14)))

	require.NoError(t, shows.Delete(ctx, 9))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/show/9/", gotPath)
}

func TestStringIDsAreEscaped(t *testing.T) {
	tests := []struct {
		id          string
		wantPath    string
		wantEscaped string
	}{
		{id: "65f0a1b2c3", wantPath: "/api/movie-catalog/65f0a1b2c3/", wantEscaped: "/api/movie-catalog/65f0a1b2c3/"},
		{id: "a b", wantPath: "/api/movie-catalog/a b/", wantEscaped: "/api/movie-catalog/a%20b/"},
		{id: "a/b", wantPath: "/api/movie-catalog/a/b/", wantEscaped: "/api/movie-catalog/a%2Fb/"},
		{id: "50%", wantPath: "/api/movie-catalog/50%/", wantEscaped: "/api/movie-catalog/50%25/"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			var requests atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				requests.Add(1)
				assert.Equal(t, tt.wantPath, r.URL.Path)
				assert.Equal(t, tt.wantEscaped, r.URL.EscapedPath())
				if r.Method == http.MethodPut {
					_ = json.NewEncoder(w).Encode(CatalogItem{ID: tt.id, MovieTitle: "Dune"})
					return
				}
				w.WriteHeader(http.StatusNoContent)
			})

			ctx := context.Background()
			require.NoError(t, client.Catalog().Delete(ctx, tt.id))
			_, err := client.Catalog().Update(ctx, tt.id, CatalogPayload{MovieTitle: "Dune"})
			require.NoError(t, err)
			assert.Equal(t, int32(2), requests.Load())
		})
	}
}

func TestEndpointKeepsBasePath(t *testing.T) {
	client, err := NewClient("http://cinema.local/v2/", nil, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, "http://cinema.local/v2/api/movie-catalog/a%20b/", client.endpoint("/movie-catalog/a%20b/", nil))
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.Reservations().Create(context.Background(), ReservationPayload{
		CustomerName: "Ana",
		Status:       StatusReserved,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.False(t, called, "no request should reach the backend")
}

func TestAPIErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		message      string
		unauthorized bool
		notFound     bool
	}{
		{
			name:         "DRF detail is used as message",
			status:       http.StatusForbidden,
			body:         `{"detail":"You do not have permission to perform this action."}`,
			message:      "You do not have permission to perform this action.",
			unauthorized: true,
		},
		{
			name:     "plain status text",
			status:   http.StatusNotFound,
			body:     `not here`,
			message:  "Not Found",
			notFound: true,
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    ``,
			message: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			err := client.Events().Delete(context.Background(), "abc")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.unauthorized, apiErr.IsUnauthorized())
			assert.Equal(t, tt.notFound, apiErr.IsNotFound())
		})
	}
}

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{StatusCode: 404, Message: "Not Found"}
	assert.Equal(t, "cinema API error: status 404: Not Found", err.Error())
}

func TestListAllFollowsNextLinks(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "":
			w.Write([]byte(`{"count":3,"next":"` + server.URL + `/api/reservation-events/?page=2","previous":null,"results":[{"_id":"a","reservation_id":"1"},{"_id":"b","reservation_id":2}]}`))
		case "2":
			w.Write([]byte(`{"count":3,"next":null,"previous":"x","results":[{"id":"c","reservation_id":3}]}`))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer server.Close()

	client, err := NewClient(server.URL, nil, zerolog.Nop())
	require.NoError(t, err)

	events, err := client.Events().ListAll(context.Background(), ListOptions{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "a", events[0].ID)
	assert.Equal(t, RefID(1), events[0].ReservationID)
	assert.Equal(t, "c", events[2].ID)
}

func TestListAllRejectsForeignHost(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"count":2,"next":"http://evil.example/api/show/?page=2","previous":null,"results":[{"id":1}]}`))
	})

	_, err := client.Shows().ListAll(context.Background(), ListOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForeignPage)
}

func TestFileToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	require.NoError(t, os.WriteFile(path, []byte("  file-token\n"), 0o600))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer file-token", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := NewClient(server.URL, FileToken{Path: path}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, client.TestConnection(context.Background()))

	missing, err := NewClient(server.URL, FileToken{Path: filepath.Join(t.TempDir(), "nope")}, zerolog.Nop())
	require.NoError(t, err)
	assert.Error(t, missing.TestConnection(context.Background()))
}
