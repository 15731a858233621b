package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func healthServer(t *testing.T, code int, body any) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestCheckHealth(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		body     HealthStatus
		wantCode int
		wantOut  string
	}{
		{
			name:     "running",
			code:     http.StatusOK,
			body:     HealthStatus{Status: "healthy", Overall: "warning", State: "running"},
			wantCode: 0,
			wantOut:  "sysmon healthy (overall warning)",
		},
		{
			name:     "stopped",
			code:     http.StatusOK,
			body:     HealthStatus{Status: "healthy", Overall: "normal", State: "stopped"},
			wantCode: 1,
			wantOut:  "sysmon unhealthy (status healthy, state stopped)",
		},
		{
			name:     "server error",
			code:     http.StatusInternalServerError,
			wantCode: 1,
			wantOut:  "not reachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := healthServer(t, tt.code, tt.body)

			var stdout, stderr bytes.Buffer
			code := checkHealth(&stdout, &stderr, addr, false)

			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d", code, tt.wantCode)
			}
			if out := stdout.String() + stderr.String(); !strings.Contains(out, tt.wantOut) {
				t.Errorf("output %q does not contain %q", out, tt.wantOut)
			}
		})
	}
}

func TestCheckHealthJSON(t *testing.T) {
	addr := healthServer(t, http.StatusOK, HealthStatus{Status: "healthy", Overall: "normal", State: "running"})

	var stdout, stderr bytes.Buffer
	if code := checkHealth(&stdout, &stderr, addr, true); code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr.String())
	}

	var got HealthStatus
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal %q: %v", stdout.String(), err)
	}
	if got.State != "running" || got.Overall != "normal" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestCheckHealthUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(srv.URL, "http://")
	srv.Close()

	var stdout, stderr bytes.Buffer
	if code := checkHealth(&stdout, &stderr, addr, true); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout.String(), `"status":"unreachable"`) {
		t.Errorf("json output = %q", stdout.String())
	}
}
