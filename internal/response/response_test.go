package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	err := JSONWithHeaders(rec, http.StatusCreated, JSONObject{"status": "OK"}, http.Header{"X-Trace": {"abc"}})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "abc", rec.Header().Get("X-Trace"))
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
}

func TestJSONUnsupportedValue(t *testing.T) {
	rec := httptest.NewRecorder()

	err := JSON(rec, http.StatusOK, JSONObject{"bad": make(chan int)})
	assert.Error(t, err)
	assert.Zero(t, rec.Body.Len())
}

func TestMetricsResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	mw := NewMetricsResponseWriter(rec)

	mw.WriteHeader(http.StatusTeapot)
	mw.WriteHeader(http.StatusOK)
	_, err := mw.Write([]byte("hello"))
	require.NoError(t, err)
	_, err = mw.Write([]byte(" world"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, mw.StatusCode)
	assert.Equal(t, 11, mw.BytesCount)
	assert.Same(t, rec, mw.Unwrap())
}

func TestMetricsResponseWriterImplicitStatus(t *testing.T) {
	mw := NewMetricsResponseWriter(httptest.NewRecorder())

	_, err := mw.Write([]byte("x"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, mw.StatusCode)
}
