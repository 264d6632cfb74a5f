package http

import (
	"net/http"

	"csvprep/internal/platform/net/http/bind"
)

// GetJSON mounts a pure JSON handler for GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, JSONHandlerNoBody(h))
}

// PostJSON mounts a pure JSON handler for POST
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, JSONHandler(h))
}

// PostRaw mounts a POST handler that receives the raw body, capped at maxBytes
func PostRaw(r Router, path string, maxBytes int64, h func(*http.Request, []byte) (any, error)) {
	r.Post(path, JSONHandlerNoBody(func(req *http.Request) (any, error) {
		body, err := bind.ReadBody(req, maxBytes)
		if err != nil {
			return nil, err
		}
		return h(req, body)
	}))
}
