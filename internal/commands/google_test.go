package commands_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"

	"todo/internal/commands"
	"todo/internal/exitcode"
	"todo/internal/gateway/googletasks"
	"todo/internal/orchestrator"
	"todo/internal/task"
)

const listPath = "/tasks/v1/lists/@default/tasks"

// fakeTasksAPI serves the slice of the Google Tasks API the client uses.
// Unknown task IDs get a 404, as the real API does.
type fakeTasksAPI struct {
	mu    sync.Mutex
	known map[string]string
	next  int
	seen  []string
}

func (f *fakeTasksAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == listPath {
		switch r.Method {
		case http.MethodGet:
			type item struct {
				ID    string `json:"id"`
				Title string `json:"title"`
			}
			var items []item
			for id, title := range f.known {
				items = append(items, item{ID: id, Title: title})
			}
			_ = json.NewEncoder(w).Encode(map[string]any{"items": items})
		case http.MethodPost:
			var body struct {
				Title string `json:"title"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.next++
			id := "g-" + strconv.Itoa(f.next)
			f.known[id] = body.Title
			_ = json.NewEncoder(w).Encode(map[string]string{"id": id, "title": body.Title})
		}
		return
	}

	id := strings.TrimPrefix(r.URL.Path, listPath+"/")
	if _, ok := f.known[id]; !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Task not found."}}`))
		return
	}
	switch r.Method {
	case http.MethodPatch:
		_, _ = w.Write([]byte(`{"id":"` + id + `","status":"completed"}`))
	case http.MethodDelete:
		delete(f.known, id)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (f *fakeTasksAPI) requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

func newGoogleSession(t *testing.T, api *fakeTasksAPI) *orchestrator.Orchestrator {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	gw, err := googletasks.NewWithHTTPClient(ctx, srv.Client(), "", option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("google client: %v", err)
	}
	orch := orchestrator.New(task.NewStore(), gw)
	if err := orch.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return orch
}

func TestGoogleSession_ActionsAddressRemoteIDs(t *testing.T) {
	api := &fakeTasksAPI{known: map[string]string{"g-1": "Buy bread"}, next: 1}
	sess := newGoogleSession(t, api)

	if _, _, code := runCommand(t, &commands.AddCmd{}, sess, []string{"Water", "plants"}, true); code != exitcode.Success {
		t.Fatalf("add: exit code %d", code)
	}

	done := &commands.DoneCmd{}
	done.SetWait(true)
	if _, stderr, code := runCommand(t, done, sess, []string{"2"}, true); code != exitcode.Success {
		t.Fatalf("done: exit code %d, stderr %q", code, stderr)
	}

	rm := &commands.RmCmd{}
	rm.SetWait(true)
	if _, stderr, code := runCommand(t, rm, sess, []string{"1"}, true); code != exitcode.Success {
		t.Fatalf("rm: exit code %d, stderr %q", code, stderr)
	}

	expected := []string{
		"GET " + listPath,
		"POST " + listPath,
		"PATCH " + listPath + "/g-2",
		"DELETE " + listPath + "/g-1",
	}
	got := api.requests()
	if len(got) != len(expected) {
		t.Fatalf("expected requests %q, got %q", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("request %d: expected %q, got %q", i, expected[i], got[i])
		}
	}

	tasks := sess.View().Tasks()
	if len(tasks) != 1 || tasks[0].Ref != "g-2" || !tasks[0].Done {
		t.Errorf("expected only the completed g-2 task, got %+v", tasks)
	}
}

func TestGoogleSession_AddFailureAddsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"items":[]}`))
			return
		}
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"Insufficient permission"}}`))
	}))
	t.Cleanup(srv.Close)

	gw, err := googletasks.NewWithHTTPClient(context.Background(), srv.Client(), "", option.WithEndpoint(srv.URL+"/"))
	if err != nil {
		t.Fatalf("google client: %v", err)
	}
	sess := orchestrator.New(task.NewStore(), gw)

	_, stderr, code := runCommand(t, &commands.AddCmd{}, sess, []string{"Water plants"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.Contains(stderr, "Insufficient permission") {
		t.Errorf("expected remote message in stderr, got %q", stderr)
	}
	if n := len(sess.View().Tasks()); n != 0 {
		t.Errorf("expected no tasks, got %d", n)
	}
}
