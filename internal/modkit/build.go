package modkit

import (
	"net/http"

	"csvprep/internal/modkit/httpkit"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any

	// Register is never nil
	Register func(httpkit.Router)
}

// Build applies Option funcs to an internal buildCfg and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Mount routes a module's endpoints under prefix with its middlewares applied
func Mount(r httpkit.Router, prefix string, mw []func(http.Handler) http.Handler, register ...func(httpkit.Router)) {
	r.Route(prefix, func(rr httpkit.Router) {
		if len(mw) > 0 {
			rr.Use(mw...)
		}
		for _, reg := range register {
			if reg != nil {
				reg(rr)
			}
		}
	})
}
