package http

import (
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	perr "codeeditor/internal/platform/errors"
	phttp "codeeditor/internal/platform/net/http"
	"codeeditor/internal/services/api/buildlogs/repo"
	"codeeditor/internal/services/api/buildlogs/service"
)

const build = `{"entries":[
{"time":"2019-05-15T08:32:11Z","log":"[ERROR] /ci/src/a/B.java:[3,4] boom"},
{"time":"2019-05-15T08:32:12Z","log":"[INFO] done"}]}`

func mount(bodyLimit int64) stdhttp.Handler {
	s := service.New(repo.NewMemory(), service.WithMaxLines(10))
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Route("/buildlogs", func(rr phttp.Router) { RegisterExtract(rr, s, bodyLimit) })
	r.Route("/participations/{participationID}/buildlogs", func(rr phttp.Router) { RegisterParticipation(rr, s, bodyLimit) })
	return mux
}

func do(t *testing.T, h stdhttp.Handler, method, target, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var env map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestExtractEndpoint(t *testing.T) {
	h := mount(0)
	code, env := do(t, h, stdhttp.MethodPost, "/buildlogs/extract", build)
	if code != stdhttp.StatusOK {
		t.Fatalf("code = %d env = %v", code, env)
	}
	data := env["data"].(map[string]any)
	if data["timestamp"].(float64) != 1557909131000 {
		t.Fatalf("timestamp = %v", data["timestamp"])
	}
	anns := data["errors"].(map[string]any)["src/a/B.java"].([]any)
	first := anns[0].(map[string]any)
	if first["row"].(float64) != 2 || first["column"].(float64) != 3 || first["type"] != "error" {
		t.Fatalf("annotation = %v", first)
	}
}

func TestIngestThenRead(t *testing.T) {
	h := mount(0)

	code, env := do(t, h, stdhttp.MethodPost, "/participations/5/buildlogs", build)
	if code != stdhttp.StatusCreated {
		t.Fatalf("code = %d env = %v", code, env)
	}

	code, env = do(t, h, stdhttp.MethodGet, "/participations/5/buildlogs", "")
	if code != stdhttp.StatusOK {
		t.Fatalf("code = %d", code)
	}
	lines := env["data"].(map[string]any)["lines"].([]any)
	if len(lines) != 2 {
		t.Fatalf("lines = %v", lines)
	}

	code, env = do(t, h, stdhttp.MethodGet, "/participations/5/buildlogs/errors", "")
	if code != stdhttp.StatusOK {
		t.Fatalf("code = %d", code)
	}
	if _, ok := env["data"].(map[string]any)["errors"].(map[string]any)["src/a/B.java"]; !ok {
		t.Fatalf("errors = %v", env["data"])
	}
}

func TestIngestValidation(t *testing.T) {
	h := mount(0)

	code, _ := do(t, h, stdhttp.MethodPost, "/participations/0/buildlogs", build)
	if code != perr.HTTPStatusCode(perr.ErrorCodeInvalidArgument) {
		t.Fatalf("code = %d", code)
	}

	code, _ = do(t, h, stdhttp.MethodPost, "/participations/5/buildlogs", `{}`)
	if code != stdhttp.StatusBadRequest {
		t.Fatalf("missing entries code = %d", code)
	}

	many := `{"entries":[` + strings.TrimSuffix(strings.Repeat(`{"time":"","log":"x"},`, 11), ",") + `]}`
	code, _ = do(t, h, stdhttp.MethodPost, "/participations/5/buildlogs", many)
	if code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("oversized code = %d", code)
	}
}

func TestBodyLimit(t *testing.T) {
	h := mount(64)
	code, _ := do(t, h, stdhttp.MethodPost, "/buildlogs/extract", build)
	if code != stdhttp.StatusBadRequest {
		t.Fatalf("code = %d", code)
	}
}
