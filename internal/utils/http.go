package utils

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// ExtractIDFromParams retrieves the "id" route parameter and removes a trailing ".json".
func ExtractIDFromParams(r *http.Request) string {
	params := httprouter.ParamsFromContext(r.Context())
	rawID := params.ByName("id")
	return strings.TrimSuffix(rawID, ".json")
}

// ParseFloatParam retrieves a float64 value from the provided URL query parameters.
// If the key is not present it returns 0 and false. An unparsable value is
// recorded in fieldErrors.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, bool) {
	val := params.Get(key)
	if val == "" {
		return 0, false
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return 0, false
	}
	return f, true
}

// ParseIntParam is ParseFloatParam for integers.
func ParseIntParam(params url.Values, key string, fieldErrors map[string][]string) (int, bool) {
	val := params.Get(key)
	if val == "" {
		return 0, false
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
		return 0, false
	}
	return n, true
}
