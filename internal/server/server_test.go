package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kestrelhq/sharecard/pkg/card"
)

func newTestServer(t *testing.T) (*Server, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	return New(store, nil), store
}

func seedActivity(t *testing.T, store *MemoryStore) Activity {
	t.Helper()
	a, err := store.CreateActivity(context.Background(), Activity{
		ID:       "a1",
		Title:    "Learn watercolor painting",
		Category: "art",
		Tasks: []card.Task{
			{ID: "t1", Title: "Buy brushes", Completed: true},
			{ID: "t2", Title: "First wash"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestListTasks(t *testing.T) {
	srv, store := newTestServer(t)
	seedActivity(t, store)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/activities/a1/tasks", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var tasks []card.Task
	if err := json.NewDecoder(rec.Body).Decode(&tasks); err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 || tasks[0].ID != "t1" {
		t.Errorf("tasks = %+v", tasks)
	}
}

func TestListTasksNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/activities/nope/tasks", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestTrackShare(t *testing.T) {
	srv, store := newTestServer(t)
	seedActivity(t, store)

	body := bytes.NewBufferString(`{"platform":"instagram_story"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/activities/a1/track-share", body))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	a, err := store.GetActivity(context.Background(), "a1")
	if err != nil {
		t.Fatal(err)
	}
	if a.ShareCounts["instagram_story"] != 1 {
		t.Errorf("counts = %v", a.ShareCounts)
	}
}

func TestTrackShareBatchCount(t *testing.T) {
	srv, store := newTestServer(t)
	seedActivity(t, store)

	body := bytes.NewBufferString(`{"platform":"social_pack","count":3}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/activities/a1/track-share", body))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d", rec.Code)
	}

	a, _ := store.GetActivity(context.Background(), "a1")
	if a.ShareCounts["social_pack"] != 3 {
		t.Errorf("counts = %v", a.ShareCounts)
	}
}

func TestTrackShareValidation(t *testing.T) {
	srv, store := newTestServer(t)
	seedActivity(t, store)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/activities/a1/track-share",
		bytes.NewBufferString(`{}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for missing platform", rec.Code)
	}
}

func TestCreateAndGetActivity(t *testing.T) {
	srv, _ := newTestServer(t)

	body := bytes.NewBufferString(`{"title":"Run a half marathon","category":"fitness"}`)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/activities", body))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var created Activity
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.ID == "" {
		t.Fatal("expected an assigned id")
	}

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/activities/"+created.ID, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("get status = %d", rec.Code)
	}
}
