package track

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kestrelhq/sharecard/pkg/card"
	"github.com/kestrelhq/sharecard/pkg/errors"
	"github.com/kestrelhq/sharecard/pkg/httputil"
)

func TestTrackShare(t *testing.T) {
	var got ShareEvent
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.TrackShare(context.Background(), "a1", ShareEvent{Platform: "instagram_story"})
	if err != nil {
		t.Fatalf("TrackShare error: %v", err)
	}
	if gotPath != "/api/activities/a1/track-share" {
		t.Errorf("path = %s", gotPath)
	}
	if got.Platform != "instagram_story" {
		t.Errorf("platform = %s", got.Platform)
	}
	if got.Count != 0 {
		t.Errorf("count = %d, want 0 for single share", got.Count)
	}
}

func TestTrackShareBatchCount(t *testing.T) {
	var got ShareEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.TrackShare(context.Background(), "a1", ShareEvent{Platform: "social", Count: 3}); err != nil {
		t.Fatal(err)
	}
	if got.Platform != "social" || got.Count != 3 {
		t.Errorf("event = %+v", got)
	}
}

func TestTrackShareActivityNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	err := c.TrackShare(context.Background(), "missing", ShareEvent{Platform: "twitter"})
	if !errors.Is(err, errors.ErrCodeActivityNotFound) {
		t.Errorf("expected ACTIVITY_NOT_FOUND, got %v", err)
	}
}

func TestTrackShareValidation(t *testing.T) {
	c := NewClient("http://example.invalid")
	if err := c.TrackShare(context.Background(), "", ShareEvent{Platform: "twitter"}); !errors.Is(err, errors.ErrCodeInvalidRequest) {
		t.Errorf("empty activity id: got %v", err)
	}
	if err := c.TrackShare(context.Background(), "a1", ShareEvent{}); !errors.Is(err, errors.ErrCodeInvalidRequest) {
		t.Errorf("empty platform: got %v", err)
	}
}

func TestTasks(t *testing.T) {
	want := []card.Task{
		{ID: "t1", Title: "Create a starter", Completed: true},
		{ID: "t2", Title: "First bake"},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/activities/a1/tasks" {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	tasks, err := c.Tasks(context.Background(), "a1", false)
	if err != nil {
		t.Fatalf("Tasks error: %v", err)
	}
	if len(tasks) != 2 || tasks[0].ID != "t1" || !tasks[0].Completed {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestTasksCached(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode([]card.Task{{ID: "t1", Title: "Only task"}})
	}))
	defer srv.Close()

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	c := NewClient(srv.URL, WithCache(cache))
	if _, err := c.Tasks(context.Background(), "a1", false); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Tasks(context.Background(), "a1", false); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("service calls = %d, want 1 (second fetch served from cache)", calls)
	}

	// refresh bypasses the cache
	if _, err := c.Tasks(context.Background(), "a1", true); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("service calls = %d, want 2 after refresh", calls)
	}
}

func TestResponseCacheNamespaces(t *testing.T) {
	// The same activity id is cached for both endpoints; namespaced keys
	// keep a cached task list from ever answering an activity fetch.
	var taskCalls, activityCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/tasks") {
			taskCalls++
			json.NewEncoder(w).Encode([]card.Task{{ID: "t1", Title: "Only task"}})
			return
		}
		activityCalls++
		json.NewEncoder(w).Encode(Activity{ID: "a1", Title: "Bake bread"})
	}))
	defer srv.Close()

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(srv.URL, WithCache(cache))

	ctx := context.Background()
	if _, err := c.Tasks(ctx, "a1", false); err != nil {
		t.Fatal(err)
	}
	a, err := c.Activity(ctx, "a1", false)
	if err != nil {
		t.Fatal(err)
	}
	if a.Title != "Bake bread" {
		t.Errorf("activity = %+v", a)
	}
	if taskCalls != 1 || activityCalls != 1 {
		t.Errorf("calls = %d tasks / %d activities, want 1 each", taskCalls, activityCalls)
	}

	// Both served from cache on the second round.
	if _, err := c.Tasks(ctx, "a1", false); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Activity(ctx, "a1", false); err != nil {
		t.Fatal(err)
	}
	if taskCalls != 1 || activityCalls != 1 {
		t.Errorf("calls after cached round = %d tasks / %d activities, want 1 each", taskCalls, activityCalls)
	}
}
