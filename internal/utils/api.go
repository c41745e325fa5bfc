package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

func invalid(fieldErrors map[string][]string, key string) {
	fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
}

// ParseFloatParam retrieves a float64 value from the provided URL query parameters.
// If the key is not present or the value is invalid, it returns 0 and updates the fieldErrors map.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		invalid(fieldErrors, key)
	}
	return f, fieldErrors
}

// ParseOptionalFloatParam is ParseFloatParam returning nil when the key is absent.
func ParseOptionalFloatParam(params url.Values, key string, fieldErrors map[string][]string) (*float64, map[string][]string) {
	if params.Get(key) == "" {
		if fieldErrors == nil {
			fieldErrors = make(map[string][]string)
		}
		return nil, fieldErrors
	}
	f, fieldErrors := ParseFloatParam(params, key, fieldErrors)
	return &f, fieldErrors
}

// ParseIntParam retrieves an int, returning def when the key is absent.
func ParseIntParam(params url.Values, key string, def int, fieldErrors map[string][]string) (int, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return def, fieldErrors
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		invalid(fieldErrors, key)
		return def, fieldErrors
	}
	return n, fieldErrors
}

// ParseBoolParam retrieves a bool, returning def when the key is absent.
func ParseBoolParam(params url.Values, key string, def bool, fieldErrors map[string][]string) (bool, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return def, fieldErrors
	}

	b, err := strconv.ParseBool(val)
	if err != nil {
		invalid(fieldErrors, key)
		return def, fieldErrors
	}
	return b, fieldErrors
}

// ParsePointParam reads an "x,y" pair. Absent keys give nil.
func ParsePointParam(params url.Values, key string, fieldErrors map[string][]string) (*orb.Point, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return nil, fieldErrors
	}

	parts := strings.Split(val, ",")
	if len(parts) != 2 {
		invalid(fieldErrors, key)
		return nil, fieldErrors
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		invalid(fieldErrors, key)
		return nil, fieldErrors
	}
	p := orb.Point{x, y}
	return &p, fieldErrors
}

// ParseListParam splits a comma separated value, dropping blanks.
func ParseListParam(params url.Values, key string) []string {
	var out []string
	for _, s := range strings.Split(params.Get(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
