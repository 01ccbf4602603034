package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"codeeditor/internal/core/repodomain"
	phttp "codeeditor/internal/platform/net/http"
	"codeeditor/internal/services/api/editor/domain"
	"codeeditor/internal/services/api/editor/service"
	exdomain "codeeditor/internal/services/api/exercises/domain"
)

type stubExercises struct{}

func (stubExercises) Get(_ context.Context, id int64) (repodomain.Exercise, error) {
	return repodomain.Exercise{ID: id, Template: &repodomain.Participation{ID: 10, RepositoryURL: "https://vcs/t"}}, nil
}

func (stubExercises) ListParticipations(context.Context, exdomain.ListParticipationsInput) ([]exdomain.ParticipationRow, error) {
	return nil, nil
}

func (s stubExercises) SetAssignment(ctx context.Context, id int64, _ exdomain.SetAssignmentInput) (repodomain.Exercise, error) {
	return s.Get(ctx, id)
}

func server(t *testing.T) (*httptest.Server, *service.Svc) {
	t.Helper()
	svc := service.New(service.Config{}, service.Deps{Exercises: stubExercises{}})
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)
	r.Route("/editor/sessions", func(rr phttp.Router) {
		Register(rr, svc)
		RegisterEvents(rr, svc, nil)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		svc.Shutdown()
	})
	return srv, svc
}

func readEvent(t *testing.T, ctx context.Context, c *websocket.Conn) domain.Event {
	t.Helper()
	_, b, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ev domain.Event
	if err := json.Unmarshal(b, &ev); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return ev
}

func TestEvents_StreamsDomainChanges(t *testing.T) {
	srv, svc := server(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	v, err := svc.Open(ctx, domain.OpenInput{})
	if err != nil {
		t.Fatal(err)
	}

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/editor/sessions/" + v.ID + "/events"
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer func() { _ = c.CloseNow() }()

	if ev := readEvent(t, ctx, c); ev.Type != domain.EventDomain || ev.Session.State != repodomain.StateUninitialized {
		t.Fatalf("first event = %+v", ev)
	}

	req, _ := stdhttp.NewRequestWithContext(ctx, stdhttp.MethodPut, srv.URL+"/editor/sessions/"+v.ID+"/route", strings.NewReader(`{"exerciseId":3}`))
	res, err := stdhttp.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	_ = res.Body.Close()
	if res.StatusCode != stdhttp.StatusOK {
		t.Fatalf("navigate status = %d", res.StatusCode)
	}

	ev := readEvent(t, ctx, c)
	if ev.Type != domain.EventDomain || ev.Session.Selected == nil || ev.Session.Selected.Kind != repodomain.KindTemplate {
		t.Fatalf("event = %+v", ev)
	}

	if err := svc.Close(ctx, v.ID); err != nil {
		t.Fatal(err)
	}
	if ev := readEvent(t, ctx, c); ev.Type != domain.EventClosed {
		t.Fatalf("event = %+v", ev)
	}
	if _, _, err := c.Read(ctx); websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Fatalf("close err = %v", err)
	}
}

func TestEvents_UnknownSession(t *testing.T) {
	srv, _ := server(t)
	res, err := stdhttp.Get(srv.URL + "/editor/sessions/missing/events")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != stdhttp.StatusNotFound {
		t.Fatalf("status = %d", res.StatusCode)
	}
}

func TestSessionEndpoints(t *testing.T) {
	srv, _ := server(t)

	res, err := stdhttp.Post(srv.URL+"/editor/sessions", "application/json", strings.NewReader(`{"exerciseId":3}`))
	if err != nil {
		t.Fatal(err)
	}
	var env struct {
		Data domain.SessionView `json:"data"`
	}
	_ = json.NewDecoder(res.Body).Decode(&env)
	_ = res.Body.Close()
	if res.StatusCode != stdhttp.StatusCreated || env.Data.State != repodomain.StateSelected {
		t.Fatalf("status = %d view = %+v", res.StatusCode, env.Data)
	}

	req, _ := stdhttp.NewRequest(stdhttp.MethodDelete, srv.URL+"/editor/sessions/"+env.Data.ID, nil)
	res, err = stdhttp.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	_ = res.Body.Close()
	if res.StatusCode != stdhttp.StatusNoContent {
		t.Fatalf("delete status = %d", res.StatusCode)
	}

	res, err = stdhttp.Get(srv.URL + "/editor/sessions/" + env.Data.ID)
	if err != nil {
		t.Fatal(err)
	}
	_ = res.Body.Close()
	if res.StatusCode != stdhttp.StatusNotFound {
		t.Fatalf("get status = %d", res.StatusCode)
	}
}
