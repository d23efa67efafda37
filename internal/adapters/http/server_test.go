package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/tally"
	httpadapter "github.com/aretw0/tally/internal/adapters/http"
	"github.com/aretw0/tally/internal/adapters/memory"
	"github.com/aretw0/tally/internal/logging"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, rows domain.Dataset) http.Handler {
	t.Helper()
	ctrl, err := tally.New("", tally.WithStore(memory.New(rows)))
	require.NoError(t, err)
	return httpadapter.NewHandler(ctrl, logging.NewNop())
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string, out any) *httptest.ResponseRecorder {
	t.Helper()
	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("")
	} else {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reqBody)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if out != nil && rr.Code < 300 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), out))
	}
	return rr
}

func TestGetHealth(t *testing.T) {
	handler := newTestHandler(t, domain.Dataset{{ID: "a"}})

	var resp map[string]string
	rr := doJSON(t, handler, "GET", "/health", "", &resp)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", resp["status"])
}

func TestLabelFlow(t *testing.T) {
	rows := domain.Dataset{
		{ID: "a", Prompt: "pa", Response: "ra"},
		{ID: "b", Prompt: "pb", Response: "rb"},
	}
	handler := newTestHandler(t, rows)

	// First item
	var item httpadapter.ItemResponse
	rr := doJSON(t, handler, "GET", "/item", "", &item)
	require.Equal(t, http.StatusOK, rr.Code)
	require.False(t, item.Exhausted)
	assert.Equal(t, 1, item.Position)
	assert.Equal(t, 2, item.Total)

	// Label it; the response carries the next item.
	var next httpadapter.ItemResponse
	rr = doJSON(t, handler, "POST", "/item/"+item.ID+"/label", `{"value":"Yes"}`, &next)
	require.Equal(t, http.StatusOK, rr.Code)
	require.False(t, next.Exhausted)
	assert.NotEqual(t, item.ID, next.ID)
	assert.Equal(t, 2, next.Position)

	// Progress
	var progress httpadapter.ProgressResponse
	rr = doJSON(t, handler, "GET", "/progress", "", &progress)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, progress.Labeled)
	assert.Equal(t, 1, progress.Remaining)
	assert.False(t, progress.Complete)

	// Label the last one: exhausted.
	var done httpadapter.ItemResponse
	rr = doJSON(t, handler, "POST", "/item/"+next.ID+"/label", `{"value":"No"}`, &done)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, done.Exhausted)

	rr = doJSON(t, handler, "GET", "/progress", "", &progress)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, progress.Complete)
}

func TestLabelValidation(t *testing.T) {
	handler := newTestHandler(t, domain.Dataset{{ID: "a"}})

	rr := doJSON(t, handler, "POST", "/item/a/label", `{"value":"Maybe"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, handler, "POST", "/item/a/label", `{"value":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, handler, "POST", "/item/a/label", `not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, handler, "POST", "/item/missing/label", `{"value":"Yes"}`, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestSkipAndReset(t *testing.T) {
	rows := domain.Dataset{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	handler := newTestHandler(t, rows)

	var first httpadapter.ItemResponse
	doJSON(t, handler, "GET", "/item", "", &first)

	var skipped httpadapter.ItemResponse
	rr := doJSON(t, handler, "POST", "/skip", "", &skipped)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotEqual(t, first.ID, skipped.ID)

	// Reset returns the first item in order with zero progress.
	var afterReset httpadapter.ItemResponse
	rr = doJSON(t, handler, "POST", "/reset", "", &afterReset)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, afterReset.Position)

	var progress httpadapter.ProgressResponse
	doJSON(t, handler, "GET", "/progress", "", &progress)
	assert.Equal(t, 0, progress.Labeled)
	assert.Equal(t, 3, progress.Remaining)
}

func TestSetupFailure(t *testing.T) {
	// A store with no dataset blocks every labeling route.
	ctrl, err := tally.New("", tally.WithStore(memory.New(nil)))
	require.NoError(t, err)
	handler := httpadapter.NewHandler(ctrl, logging.NewNop())

	rr := doJSON(t, handler, "GET", "/item", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestMetricsExposed(t *testing.T) {
	handler := newTestHandler(t, domain.Dataset{{ID: "a"}})

	var item httpadapter.ItemResponse
	doJSON(t, handler, "GET", "/item", "", &item)
	doJSON(t, handler, "POST", "/item/a/label", `{"value":"Yes"}`, nil)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "tally_labels_total")
	assert.Contains(t, body, "tally_rows_remaining 0")
}
