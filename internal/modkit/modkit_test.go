package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"codeeditor/internal/modkit/httpkit"
	phttp "codeeditor/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func tag(v string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Tag", v)
			next.ServeHTTP(w, r)
		})
	}
}

func get(t *testing.T, r httpkit.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestBuild_LaterOptionsWin(t *testing.T) {
	b := Build(WithName("a"), WithPrefix("one/"), WithName("exercises"), WithPorts(42))
	if b.Name() != "exercises" || b.Prefix() != "/one" {
		t.Fatalf("name=%q prefix=%q", b.Name(), b.Prefix())
	}
	if b.Injected() != 42 {
		t.Fatalf("injected = %v", b.Injected())
	}
}

func TestBase_NamePanicsWhenMissing(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("want panic")
		}
	}()
	_ = Build().Name()
}

func TestBase_Mount(t *testing.T) {
	var wrapped bool
	b := Build(
		WithName("exercises"),
		WithPrefix("/exercises"),
		WithMiddlewares(tag("a"), tag("b")),
		WithSubrouter(func(r httpkit.Router) httpkit.Router { wrapped = true; return r }),
		WithRegister(func(r httpkit.Router) {
			httpkit.Get(r, "/extra", func(*http.Request) (any, error) { return "extra", nil })
		}),
	)
	r := phttp.AdaptChi(chi.NewRouter())
	b.Mount(r, func(rr httpkit.Router) {
		httpkit.Get(rr, "/{id}", func(req *http.Request) (any, error) { return httpkit.Param(req, "id"), nil })
	})
	b.MountAt(r, "/participations", func(rr httpkit.Router) {
		httpkit.Get(rr, "/", func(*http.Request) (any, error) { return "list", nil })
	})

	rec := get(t, r, "/exercises/7")
	if rec.Code != http.StatusOK || !wrapped {
		t.Fatalf("status=%d wrapped=%v", rec.Code, wrapped)
	}
	if got := rec.Header().Values("X-Tag"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("middleware order = %v", got)
	}
	if rec := get(t, r, "/exercises/extra"); rec.Code != http.StatusOK {
		t.Fatalf("extension route status = %d", rec.Code)
	}
	if rec := get(t, r, "/participations"); rec.Code != http.StatusOK || len(rec.Header().Values("X-Tag")) != 2 {
		t.Fatalf("MountAt status=%d tags=%v", rec.Code, rec.Header().Values("X-Tag"))
	}
}
