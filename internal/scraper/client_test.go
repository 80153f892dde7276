package scraper

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"eitsapi/internal/eits"
	"eitsapi/internal/telemetry"

	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("accept"))
		require.Equal(t, "eits-test", r.Header.Get("user-agent"))
		w.Write([]byte(`{"version":"2023"}`))
	}))
	defer server.Close()

	client := NewClient(ClientOptions{UserAgent: "eits-test"}, &telemetry.Recorder{})
	body, err := client.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.JSONEq(t, `{"version":"2023"}`, string(body))
}

func TestFetchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	rec := &telemetry.Recorder{}
	client := NewClient(ClientOptions{}, rec)
	body, err := client.Fetch(context.Background(), server.URL+"/api/2/catalog/2023")
	require.Nil(t, body)

	var fetchErr *eits.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusInternalServerError, fetchErr.Status)
	require.Equal(t, server.URL+"/api/2/catalog/2023", fetchErr.URL)
	require.Len(t, rec.Find("broken", report_client_fetch), 1)
}

func TestFetchTimeout(t *testing.T) {
	done := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-time.After(time.Second * 5):
		}
	}))
	defer server.Close()
	defer close(done)

	client := NewClient(ClientOptions{Timeout: time.Millisecond * 50}, &telemetry.Recorder{})
	_, err := client.Fetch(context.Background(), server.URL)

	var fetchErr *eits.FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, 0, fetchErr.Status)
	require.NotNil(t, fetchErr.Unwrap())
}

func TestFetchConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(ClientOptions{}, &telemetry.Recorder{})
	_, err := client.Fetch(context.Background(), url)

	var fetchErr *eits.FetchError
	require.True(t, errors.As(err, &fetchErr))
}

func TestEndpoints(t *testing.T) {
	e := NewEndpoints("https://eits.ria.ee/")
	require.Equal(t, "https://eits.ria.ee/api/2/catalog/2023", e.Catalog(2023))
	require.Equal(t, "https://eits.ria.ee/api/2/catalog/2023/abc-123", e.Module(2023, "abc-123"))
	require.Equal(t, "https://eits.ria.ee/api/2/materials", e.Materials())
	require.Equal(t, "https://eits.ria.ee/api/2/catalog/measures-diff/2022/2023", e.DiffCatalog(2022, 2023))
	require.Equal(t, DefaultBaseUrl, NewEndpoints("").BaseUrl)
}
