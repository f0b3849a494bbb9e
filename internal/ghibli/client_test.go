package ghibli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const oneFilm = `[{"id":"1","title":"A","description":"d","director":"x","producer":"y","release_date":"1990"}]`

func TestListFilms_Success(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(oneFilm))
	}))
	defer srv.Close()

	c := New(srv.URL+"/films", 0)
	films, err := c.ListFilms(context.Background())
	if err != nil {
		t.Fatalf("ListFilms: %v", err)
	}
	if gotMethod != http.MethodGet || gotPath != "/films" {
		t.Errorf("request = %s %s, want GET /films", gotMethod, gotPath)
	}
	if len(films) != 1 {
		t.Fatalf("got %d films, want 1", len(films))
	}
	if films[0].ID != "1" || films[0].ReleaseDate != "1990" {
		t.Errorf("film = %+v", films[0])
	}
	if films[0].RTScore != "" {
		t.Errorf("RTScore = %q, want empty", films[0].RTScore)
	}
}

func TestListFilms_PreservesOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"c"},{"id":"a"},{"id":"b"}]`))
	}))
	defer srv.Close()

	films, err := New(srv.URL, 0).ListFilms(context.Background())
	if err != nil {
		t.Fatalf("ListFilms: %v", err)
	}
	var ids []string
	for _, f := range films {
		ids = append(ids, f.ID)
	}
	if got := strings.Join(ids, ","); got != "c,a,b" {
		t.Errorf("order = %s, want c,a,b", got)
	}
}

func TestListFilms_NullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	films, err := New(srv.URL, 0).ListFilms(context.Background())
	if err != nil {
		t.Fatalf("ListFilms: %v", err)
	}
	if films == nil || len(films) != 0 {
		t.Errorf("films = %#v, want empty non-nil slice", films)
	}
}

func TestListFilms_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).ListFilms(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error %T is not *StatusError", err)
	}
	if se.Code != 500 {
		t.Errorf("Code = %d, want 500", se.Code)
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error %q should mention 500", err)
	}
}

func TestListFilms_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, 0).ListFilms(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decoding films") {
		t.Errorf("error = %v, want decoding failure", err)
	}
}

func TestListFilms_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := New(srv.URL, 0).ListFilms(context.Background())
	if err == nil || !strings.Contains(err.Error(), "requesting films") {
		t.Errorf("error = %v, want transport failure", err)
	}
}

func TestListFilms_SingleRequestNoRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	New(srv.URL, 0).ListFilms(context.Background())
	if n := hits.Load(); n != 1 {
		t.Errorf("server hit %d times, want 1", n)
	}
}

func TestListFilms_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := New(srv.URL, 50*time.Millisecond).ListFilms(context.Background())
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestNew_DefaultURL(t *testing.T) {
	if got := New("", 0).URL(); got != DefaultURL {
		t.Errorf("URL() = %q, want %q", got, DefaultURL)
	}
}

func TestCheckReachable(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer up.Close()

	var buf bytes.Buffer
	if !CheckReachable(context.Background(), New(up.URL, 0), &buf) {
		t.Error("CheckReachable() = false, want true")
	}
	if !strings.Contains(buf.String(), "ready") {
		t.Errorf("output = %q, want ready", buf.String())
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	down.Close()

	buf.Reset()
	if CheckReachable(context.Background(), New(down.URL, 0), &buf) {
		t.Error("CheckReachable() = true, want false")
	}
}
