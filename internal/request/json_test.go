package request

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func decode(t *testing.T, body string) (payload, error) {
	t.Helper()

	var dst payload
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	w := httptest.NewRecorder()
	err := DecodeJSONStrict(w, r, &dst)
	return dst, err
}

func TestDecodeJSONStrict(t *testing.T) {
	dst, err := decode(t, `{"lat": 52.52, "lng": 13.405}`)
	require.NoError(t, err)
	require.NotNil(t, dst.Lat)
	assert.Equal(t, 52.52, *dst.Lat)

	dst, err = decode(t, ``)
	require.NoError(t, err, "empty body is allowed")
	assert.Nil(t, dst.Lat)

	_, err = decode(t, `{"lat": 1, "extra": true}`)
	assert.ErrorContains(t, err, "unknown key")
}

func TestDecodeJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{name: "syntax", body: `{"lat": }`, msg: "badly-formed JSON (at character"},
		{name: "truncated", body: `{"lat": 1`, msg: "badly-formed JSON"},
		{name: "wrong type", body: `{"lat": "north"}`, msg: `incorrect JSON type for field "lat"`},
		{name: "two values", body: `{} {}`, msg: "single JSON value"},
		{name: "too large", body: `{"lat": 1, "pad": "` + strings.Repeat("x", _maxBodyBytes) + `"}`, msg: "must not be larger than"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(t, tt.body)
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}
