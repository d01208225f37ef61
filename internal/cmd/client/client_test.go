package client

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type recorded struct {
	method string
	uri    string
	auth   string
}

// fakeServer answers every request with status and body and records what
// the CLI sent.
func fakeServer(t *testing.T, status int, body string) (*httptest.Server, func() []recorded) {
	t.Helper()
	var mu sync.Mutex
	var got []recorded
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, recorded{method: r.Method, uri: r.URL.RequestURI(), auth: r.Header.Get("Authorization")})
		mu.Unlock()
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []recorded {
		mu.Lock()
		defer mu.Unlock()
		return append([]recorded(nil), got...)
	}
}

func execute(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	root := NewRoot(func() string { return srv.URL })
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestItemCommandsBuildWorkerRequests(t *testing.T) {
	cases := []struct {
		name string
		args []string
		uri  string
	}{
		{"get", []string{"item", "get", "-p", "books", "-u", "alice"}, "/books/item/get?username=alice"},
		{"heartbeat", []string{"item", "heartbeat", "-p", "books", "--id", "7"}, "/books/item/heartbeat?id=7"},
		{"done", []string{"item", "done", "-p", "books", "--id", "7", "--size", "42"}, "/books/item/done?id=7&size=42"},
		{"leaderboard", []string{"item", "leaderboard", "-p", "books"}, "/books/api/leaderboard"},
		{"user-stats", []string{"item", "user-stats", "-p", "books", "-u", "bob"}, "/books/api/user_stats?username=bob"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, requests := fakeServer(t, http.StatusOK, "Success")
			out, err := execute(t, srv, tc.args...)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			got := requests()
			if len(got) != 1 || got[0].method != http.MethodGet || got[0].uri != tc.uri {
				t.Fatalf("requests %+v, want GET %s", got, tc.uri)
			}
			if strings.TrimSpace(out) != "Success" {
				t.Fatalf("output %q", out)
			}
		})
	}
}

func TestItemGetPrintsIndentedJSON(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusOK, `{"id":3,"values":["a","b"]}`)
	out, err := execute(t, srv, "item", "get", "-p", "books", "-u", "alice")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "\"id\": 3") {
		t.Fatalf("expected indented item, got %q", out)
	}
}

func TestItemGetSurfacesWireString(t *testing.T) {
	srv, _ := fakeServer(t, http.StatusNotFound, "NoItemsLeft")
	_, err := execute(t, srv, "item", "get", "-p", "books", "-u", "alice")
	if err == nil || !strings.Contains(err.Error(), "NoItemsLeft") {
		t.Fatalf("expected NoItemsLeft error, got %v", err)
	}
}

func TestItemCommandRequiresProject(t *testing.T) {
	srv, requests := fakeServer(t, http.StatusOK, "")
	if _, err := execute(t, srv, "item", "leaderboard"); err == nil {
		t.Fatalf("expected missing --project error")
	}
	if len(requests()) != 0 {
		t.Fatalf("no request should be sent")
	}
}

func TestProjectPauseSendsToken(t *testing.T) {
	srv, requests := fakeServer(t, http.StatusOK, `{"name":"books","paused":true}`)
	if _, err := execute(t, srv, "project", "pause", "books", "--token", "s3cret"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	got := requests()
	if len(got) != 1 || got[0].method != http.MethodPost || got[0].uri != "/v1/projects/books/pause" || got[0].auth != "Bearer s3cret" {
		t.Fatalf("requests %+v", got)
	}
}

func TestProjectResumeNeedsToken(t *testing.T) {
	t.Setenv("TRACKER_ADMIN_TOKEN", "")
	srv, requests := fakeServer(t, http.StatusOK, "")
	if _, err := execute(t, srv, "project", "resume", "books"); err == nil {
		t.Fatalf("expected token error")
	}
	if len(requests()) != 0 {
		t.Fatalf("no request should be sent")
	}
}

func TestProjectRankingLimit(t *testing.T) {
	srv, requests := fakeServer(t, http.StatusOK, `{"entries":[]}`)
	if _, err := execute(t, srv, "project", "ranking", "books", "--limit", "5"); err != nil {
		t.Fatalf("execute: %v", err)
	}
	got := requests()
	if len(got) != 1 || got[0].uri != "/v1/projects/books/leaderboard?limit=5" {
		t.Fatalf("requests %+v", got)
	}
}
