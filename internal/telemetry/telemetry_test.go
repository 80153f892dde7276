package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("scraper", rec)

	scoped.ReportBroken("client.fetch", "oops")
	scoped.ReportWarning("client.fetch")
	scoped.ReportCount("modules", 3)
	scoped.ReportInfo("saving output")

	require.Len(t, rec.Find("broken", "scraper: client.fetch"), 1)
	require.Len(t, rec.Find("warning", "scraper: client.fetch"), 1)
	require.Len(t, rec.Find("count", "scraper: modules"), 1)
	// info lines are meant for the operator and are not namespaced
	require.Len(t, rec.Find("info", "saving output"), 1)
	require.Equal(t, []any{int64(3)}, rec.Find("count", "modules")[0].Params)
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	rec := &Recorder{}
	client := resty.New()
	InstrumentResty(client, rec)

	res, err := client.R().SetContext(context.Background()).Get(server.URL)
	require.NoError(t, err)
	require.Equal(t, http.StatusTeapot, res.StatusCode())

	require.Len(t, rec.Find("debug", report_resty_request), 1)
	require.Len(t, rec.Find("debug", report_resty_response), 1)
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:eits", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}
