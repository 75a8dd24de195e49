// Package http provides http transport for screen
package http

import (
	stdhttp "net/http"

	phttp "promptguard/internal/platform/net/http"
	"promptguard/internal/services/screen/domain"
	svc "promptguard/internal/services/screen/service"
)

// Register mounts the screen routes
func Register(r phttp.Router, s svc.Service) {
	h := &handlers{svc: s}
	phttp.PostJSON[domain.ClassifyInput](r, "/classify", h.classify)
	phttp.GetJSON(r, "/buckets", h.buckets)
}

type handlers struct{ svc svc.Service }

func (h *handlers) classify(r *stdhttp.Request, in domain.ClassifyInput) (any, error) {
	return h.svc.Classify(r.Context(), in)
}

func (h *handlers) buckets(r *stdhttp.Request) (any, error) {
	return h.svc.Buckets(r.Context())
}
