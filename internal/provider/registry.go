package provider

import (
	"net/http"

	"github.com/SoJune1023/Dive-Chat-Prototype/internal/domain"
)

// Registry maps a model identifier to its backend. Adding a provider means
// one new adapter and one entry here; the pipelines stay untouched.
type Registry struct {
	providers map[string]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

func (r *Registry) Lookup(model string) (Provider, error) {
	p, ok := r.providers[model]
	if !ok {
		return nil, domain.NewClientError("Wrong AI model", http.StatusBadRequest, domain.CodeWrongModel)
	}
	return p, nil
}
