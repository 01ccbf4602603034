package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	phttp "codeeditor/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

func serve(t *testing.T, d Deps, path string) (int, map[string]any) {
	t.Helper()
	r := phttp.AdaptChi(chi.NewRouter())
	Register(r, d)

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	var env struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, env.Data
}

func TestHealth(t *testing.T) {
	code, data := serve(t, Deps{ServiceName: "codeeditor-api", StartedAt: time.Now()}, "/health")
	if code != http.StatusOK || data["ok"] != true || data["service"] != "codeeditor-api" {
		t.Fatalf("%d %v", code, data)
	}
}

func TestReady(t *testing.T) {
	down := errors.New("refused")
	cases := []struct {
		name   string
		probes []Probe
		code   int
		want   string
	}{
		{"all ok", []Probe{ProbeOf("pg", pinger{}, false), ProbeOf("ch", pinger{}, true)}, http.StatusOK, "ok"},
		{"ch disabled", []Probe{ProbeOf("pg", pinger{}, false), ProbeOf("ch", nil, true)}, http.StatusOK, "ok"},
		{"ch down", []Probe{ProbeOf("pg", pinger{}, false), ProbeOf("ch", pinger{err: down}, true)}, http.StatusOK, "degraded"},
		{"pg down", []Probe{ProbeOf("pg", pinger{err: down}, false), ProbeOf("ch", pinger{}, true)}, http.StatusServiceUnavailable, "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, data := serve(t, Deps{Probes: tc.probes}, "/ready")
			if code != tc.code || data["status"] != tc.want {
				t.Fatalf("code=%d status=%v, want %d %s", code, data["status"], tc.code, tc.want)
			}
		})
	}
}

func TestReady_SkippedCheck(t *testing.T) {
	_, data := serve(t, Deps{Probes: []Probe{ProbeOf("ch", struct{}{}, true)}}, "/ready")
	checks := data["checks"].([]any)
	if checks[0].(map[string]any)["status"] != "skipped" {
		t.Fatalf("checks = %v", checks)
	}
}

func TestService(t *testing.T) {
	_, data := serve(t, Deps{ServiceName: "editor-test", StartedAt: time.Now().Add(-time.Minute)}, "/service")
	if data["service"] != "editor-test" || data["uptime"].(float64) < 59 {
		t.Fatalf("data = %v", data)
	}
}
