package httpkit

import (
	"net/http"

	phttp "csvprep/internal/platform/net/http"
)

// Get registers a no-body handler and uses the envelope adapter
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.GetJSON(r, path, h)
}

// PostJSON mounts a JSON handler under POST; the body is decoded and validated into T
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// PostRaw mounts a POST handler that receives the undecoded body, capped at maxBytes
func PostRaw(r Router, path string, maxBytes int64, h func(*http.Request, []byte) (any, error)) {
	phttp.PostRaw(r, path, maxBytes, h)
}
