package http

import (
	"testing"

	"promptguard/internal/platform/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(config.New())
}

func TestNewServerDefaults(t *testing.T) {
	srv := newTestServer(t)
	if srv.Addr() != ":8080" {
		t.Fatalf("Addr = %q, want :8080", srv.Addr())
	}
	if srv.Router() == nil {
		t.Fatal("Router() returned nil")
	}
}

func TestNewServerEnvPort(t *testing.T) {
	t.Setenv("CORE_API_PORT", ":9100")
	srv := NewServer(config.New().Prefix("CORE_"))
	if srv.Addr() != ":9100" {
		t.Fatalf("Addr = %q, want :9100", srv.Addr())
	}
}
