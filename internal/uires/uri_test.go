package uires_test

import (
	"errors"
	"testing"

	"github.com/sebamar88/mcp-ui-poc/internal/uires"
)

func TestResolve(t *testing.T) {
	testCases := []struct {
		name     string
		uri      string
		wantKind uires.Kind
		wantID   int
		wantErr  bool
	}{
		{
			name:     "post scheme",
			uri:      "post://7",
			wantKind: uires.KindSummary,
			wantID:   7,
		},
		{
			name:     "urn summary",
			uri:      "urn:post:42:summary",
			wantKind: uires.KindSummary,
			wantID:   42,
		},
		{
			name:     "urn remote dom",
			uri:      "urn:post:42:remote-dom",
			wantKind: uires.KindRemoteDom,
			wantID:   42,
		},
		{
			name:     "posts list scheme",
			uri:      "posts://list",
			wantKind: uires.KindList,
		},
		{
			name:     "urn posts list",
			uri:      "urn:posts:list",
			wantKind: uires.KindList,
		},
		{
			name:    "non numeric id",
			uri:     "post://abc",
			wantErr: true,
		},
		{
			name:    "zero id",
			uri:     "post://0",
			wantErr: true,
		},
		{
			name:    "overflowing id",
			uri:     "post://99999999999999999999",
			wantErr: true,
		},
		{
			name:    "unknown scheme",
			uri:     "file:///etc/passwd",
			wantErr: true,
		},
		{
			name:    "urn with unknown variant",
			uri:     "urn:post:1:thumbnail",
			wantErr: true,
		},
		{
			name:    "trailing garbage",
			uri:     "post://7/extra",
			wantErr: true,
		},
		{
			name:    "empty",
			uri:     "",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			target, err := uires.Resolve(tc.uri)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %+v", tc.uri, target)
				}
				if !errors.Is(err, uires.ErrInvalidURI) {
					t.Fatalf("expected ErrInvalidURI, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if target.Kind != tc.wantKind {
				t.Errorf("expected kind %d, got %d", tc.wantKind, target.Kind)
			}
			if target.ID != tc.wantID {
				t.Errorf("expected id %d, got %d", tc.wantID, target.ID)
			}
		})
	}
}

func TestCanonicalURIs(t *testing.T) {
	if got := uires.SummaryURI(42); got != "urn:post:42:summary" {
		t.Errorf("unexpected summary URI: %s", got)
	}
	if got := uires.RemoteDomURI(42); got != "urn:post:42:remote-dom" {
		t.Errorf("unexpected remote-dom URI: %s", got)
	}
	if uires.SummaryURI(42) == uires.RemoteDomURI(42) {
		t.Error("summary and remote-dom URIs must differ")
	}
}
