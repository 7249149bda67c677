package metrics

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	before := testutil.ToFloat64(ItemsTotal.WithLabelValues("arxiv", "fetched"))
	RecordItems("arxiv", "fetched", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(ItemsTotal.WithLabelValues("arxiv", "fetched")))

	before = testutil.ToFloat64(FailuresTotal.WithLabelValues("github", "screenshot"))
	RecordFailure("github", "screenshot")
	assert.Equal(t, before+1, testutil.ToFloat64(FailuresTotal.WithLabelValues("github", "screenshot")))

	before = testutil.ToFloat64(DeliveriesTotal.WithLabelValues("email", "error"))
	RecordDelivery("email", errors.New("bounced"))
	assert.Equal(t, before+1, testutil.ToFloat64(DeliveriesTotal.WithLabelValues("email", "error")))
}

func TestPush(t *testing.T) {
	assert.NoError(t, Push(context.Background(), ""))

	var (
		gotPath string
		gotBody []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	RecordItems("reddit", "kept", 1)

	require.NoError(t, Push(context.Background(), srv.URL))
	assert.Equal(t, "/metrics/job/agentic_news", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestPush_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.Error(t, Push(context.Background(), srv.URL))
}
