package services_test

import (
	"errors"
	"strings"
	"testing"

	"curator/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("connection reset")
	err := services.Wrap(services.ErrTransport, "figshare", "list accounts", "page 3", base)
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "figshare: list accounts: page 3") {
		t.Fatalf("unexpected detail: %v", err)
	}
}

func TestWrapNilMarkerDefaultsToTransport(t *testing.T) {
	err := services.Wrap(nil, "fetch", "download", "", nil)
	if !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected transport default, got %v", err)
	}
}

func TestIsFatal(t *testing.T) {
	cases := []struct {
		err   error
		fatal bool
	}{
		{services.Wrap(services.ErrAmbiguousState, "stagefs", "locate", "", nil), true},
		{services.Wrap(services.ErrInvalidTransition, "stagefs", "advance", "", nil), true},
		{services.Wrap(services.ErrConfiguration, "config", "load", "", nil), true},
		{services.Wrap(services.ErrTransport, "figshare", "request", "", nil), false},
		{services.Wrap(services.ErrAuthorization, "fetch", "download", "", nil), false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := services.IsFatal(tc.err); got != tc.fatal {
			t.Fatalf("IsFatal(%v) = %v, want %v", tc.err, got, tc.fatal)
		}
	}
}
