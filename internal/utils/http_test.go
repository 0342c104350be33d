package utils

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
)

func TestExtractIDFromParams(t *testing.T) {
	testCases := []struct {
		name string
		id   string
		want string
	}{
		{
			name: "Basic ID",
			id:   "123",
			want: "123",
		},
		{
			name: "ID with JSON extension",
			id:   "456.json",
			want: "456",
		},
		{
			name: "ID with multiple dots",
			id:   "789.data.json",
			want: "789.data",
		},
		{
			name: "Merged node ID",
			id:   "PIAZZA_MERGED.json",
			want: "PIAZZA_MERGED",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := httprouter.New()

			var result string
			router.HandlerFunc(http.MethodGet, "/api/test/:id", func(w http.ResponseWriter, r *http.Request) {
				result = ExtractIDFromParams(r)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/test/"+tc.id, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tc.want, result)
		})
	}
}

func TestParseFloatParam(t *testing.T) {
	params := url.Values{"maxWeight": {"7.5"}, "bad": {"seven"}}
	fieldErrors := make(map[string][]string)

	v, ok := ParseFloatParam(params, "maxWeight", fieldErrors)
	assert.True(t, ok)
	assert.Equal(t, 7.5, v)

	_, ok = ParseFloatParam(params, "missing", fieldErrors)
	assert.False(t, ok)

	_, ok = ParseFloatParam(params, "bad", fieldErrors)
	assert.False(t, ok)
	assert.Equal(t, []string{`Invalid field value for field "bad".`}, fieldErrors["bad"])
	assert.Len(t, fieldErrors, 1)
}

func TestParseIntParam(t *testing.T) {
	params := url.Values{"minSamples": {"2"}, "bad": {"2.5"}}
	fieldErrors := make(map[string][]string)

	v, ok := ParseIntParam(params, "minSamples", fieldErrors)
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	_, ok = ParseIntParam(params, "bad", fieldErrors)
	assert.False(t, ok)
	assert.Contains(t, fieldErrors, "bad")
}
