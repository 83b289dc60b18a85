// Package httputil provides HTTP method, status code and media type helpers
// shared by the loader, extractor and validator.
package httputil

import (
	"mime"
	"strconv"
	"strings"
)

// HTTP Method Constants
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace" // OAS 3.0+ only
)

var (
	oas2Methods = []string{MethodGet, MethodPut, MethodPost, MethodDelete, MethodOptions, MethodHead, MethodPatch}
	oas3Methods = []string{MethodGet, MethodPut, MethodPost, MethodDelete, MethodOptions, MethodHead, MethodPatch, MethodTrace}
)

// IsMethod reports whether key names an operation under a path item for the
// given major OAS version (2 or 3). Matching is case-sensitive: the OAS
// field names are lower case.
func IsMethod(key string, oasMajor int) bool {
	methods := oas3Methods
	if oasMajor == 2 {
		methods = oas2Methods
	}
	for _, m := range methods {
		if key == m {
			return true
		}
	}
	return false
}

// IsReadMethod reports whether method retrieves data without side effects.
func IsReadMethod(method string) bool {
	switch strings.ToLower(method) {
	case MethodGet, MethodHead:
		return true
	}
	return false
}

// ValidateStatusCode reports whether code is a valid response key:
// "default", a 3-digit code in 100..599, or a wildcard such as "2XX".
func ValidateStatusCode(code string) bool {
	if code == "default" {
		return true
	}
	if len(code) != 3 {
		return false
	}
	if strings.EqualFold(code[1:], "XX") {
		return code[0] >= '1' && code[0] <= '5'
	}
	n, err := strconv.Atoi(code)
	return err == nil && n >= 100 && n <= 599
}

// IsSuccessCode reports whether code is a 2xx status or the "2XX" wildcard.
func IsSuccessCode(code string) bool {
	return len(code) == 3 && code[0] == '2' && ValidateStatusCode(code)
}

// IsJSONMediaType reports whether mediaType is application/json or a
// structured "+json" suffix type, ignoring parameters.
func IsJSONMediaType(mediaType string) bool {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
