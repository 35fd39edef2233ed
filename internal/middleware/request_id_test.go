package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		incoming  string
		wantReuse bool
	}{
		{name: "generated when absent", incoming: "", wantReuse: false},
		{name: "client id reused", incoming: "req-abc-123", wantReuse: true},
		{name: "id with spaces replaced", incoming: "has space", wantReuse: false},
		{name: "oversized id replaced", incoming: strings.Repeat("a", maxRequestIDLength+1), wantReuse: false},
		{name: "max length id reused", incoming: strings.Repeat("a", maxRequestIDLength), wantReuse: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var fromCtx string
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fromCtx = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			header := rec.Header().Get(RequestIDHeader)
			if header != fromCtx {
				t.Errorf("header %q and context %q differ", header, fromCtx)
			}
			if tt.wantReuse {
				if header != tt.incoming {
					t.Errorf("request id = %q, want %q", header, tt.incoming)
				}
				return
			}
			if _, err := uuid.Parse(header); err != nil {
				t.Errorf("generated request id %q is not a UUID: %v", header, err)
			}
		})
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetRequestID(req.Context()); got != "" {
		t.Errorf("GetRequestID() = %q, want empty", got)
	}
}
