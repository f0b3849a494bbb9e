package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kalambet/filmdeck/internal/api"
)

const filmsJSON = `[
  {"id":"2baf70d1","title":"Castle in the Sky","description":"The orphan Sheeta inherited a mysterious crystal.","director":"Hayao Miyazaki","producer":"Isao Takahata","release_date":"1986","rt_score":"95"},
  {"id":"58611129","title":"My Neighbor Totoro","description":"Two sisters move to the country.","director":"Hayao Miyazaki","producer":"Hayao Miyazaki","release_date":"1988","rt_score":"93"}
]`

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
}

type testServer struct {
	server   *httptest.Server
	requests []recordedRequest
}

func newTestServer(t *testing.T, responses map[string]string) *testServer {
	t.Helper()
	ts := &testServer{}

	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.RequestURI(),
			Auth:   r.Header.Get("Authorization"),
		})

		key := r.Method + " " + r.URL.Path
		if resp, ok := responses[key]; ok {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(resp))
			return
		}

		w.WriteHeader(404)
		w.Write([]byte(`{"error":{"message":"not found","type":"not_found"}}`))
	}))

	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *apiClient {
	return &apiClient{
		baseURL:    ts.server.URL,
		token:      "test-token",
		httpClient: ts.server.Client(),
	}
}

// isolate points config and secrets at temp dirs and the source at url.
func isolate(t *testing.T, sourceURL string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("FILMDECK_SOURCE_URL", sourceURL)
	t.Setenv("FILMDECK_SOURCE_TIMEOUT", "")
	t.Setenv("FILMDECK_LOG_LEVEL", "error")
	t.Setenv("FILMDECK_SERVER_TOKEN", "test-token")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--no-color"}, args...))
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		showCmd.Flags().Set("from", fromCLI)
	})
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "filmdeck version dev") {
		t.Errorf("output = %q", out)
	}
}

func TestListCommand(t *testing.T) {
	src := newTestServer(t, map[string]string{"GET /films": filmsJSON})
	isolate(t, src.server.URL+"/films")

	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	castle := strings.Index(out, "Castle in the Sky")
	totoro := strings.Index(out, "My Neighbor Totoro")
	if castle < 0 || totoro < 0 || castle > totoro {
		t.Errorf("films missing or out of order:\n%s", out)
	}
	if !strings.Contains(out, "1986 • Dir: Hayao Miyazaki") {
		t.Errorf("subtitle missing:\n%s", out)
	}
	if !strings.Contains(out, "[C]") {
		t.Errorf("avatar initial missing:\n%s", out)
	}
	if len(src.requests) != 1 {
		t.Errorf("source hit %d times, want 1", len(src.requests))
	}
}

func TestListCommand_Empty(t *testing.T) {
	src := newTestServer(t, map[string]string{"GET /films": `[]`})
	isolate(t, src.server.URL+"/films")

	out, err := execute(t, "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "No films found.") {
		t.Errorf("output = %q", out)
	}
}

func TestListCommand_SourceError(t *testing.T) {
	src := newTestServer(t, nil)
	isolate(t, src.server.URL+"/films")

	_, err := execute(t, "list")
	if err == nil {
		t.Fatal("expected error for failing source")
	}
	if !strings.HasPrefix(err.Error(), "Error loading data: ") || !strings.Contains(err.Error(), "404") {
		t.Errorf("error = %q", err.Error())
	}
}

func TestShowCommand(t *testing.T) {
	src := newTestServer(t, map[string]string{"GET /films": filmsJSON})
	isolate(t, src.server.URL+"/films")

	out, err := execute(t, "show", "my", "neighbor", "totoro")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"My Neighbor Totoro (1988)", "Director: Hayao Miyazaki", "from: CLI"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowCommand_FromFlag(t *testing.T) {
	src := newTestServer(t, map[string]string{"GET /films": filmsJSON})
	isolate(t, src.server.URL+"/films")

	out, err := execute(t, "show", "--from", "Search", "2baf70d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "from: Search") || !strings.Contains(out, "Castle in the Sky") {
		t.Errorf("output = %q", out)
	}
}

func TestShowCommand_NotFound(t *testing.T) {
	src := newTestServer(t, map[string]string{"GET /films": filmsJSON})
	isolate(t, src.server.URL+"/films")

	_, err := execute(t, "show", "zzzzzzzzzzzzzzzz")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestShowCommand_MissingArgs(t *testing.T) {
	_, err := execute(t, "show")
	if err == nil {
		t.Fatal("expected error for missing args")
	}
}

func TestConfigSet_UnknownKey(t *testing.T) {
	isolate(t, "http://127.0.0.1:1/films")

	_, err := execute(t, "config", "set", "no.such.key", "1")
	if err == nil || !strings.Contains(err.Error(), "unknown config key") {
		t.Fatalf("err = %v, want unknown config key", err)
	}
}

func TestConfigShow_HidesToken(t *testing.T) {
	isolate(t, "http://example.test/films")

	out, err := execute(t, "config", "show")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "test-token") || strings.Contains(out, "server.token") {
		t.Errorf("config show leaked the token:\n%s", out)
	}
	if !strings.Contains(out, "source.url = http://example.test/films") {
		t.Errorf("output = %q", out)
	}
}

func withAPIClient(t *testing.T, c *apiClient) {
	t.Helper()
	orig := newAPIClient
	newAPIClient = func() (*apiClient, error) { return c, nil }
	t.Cleanup(func() { newAPIClient = orig })
}

func TestRemoteRefresh(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /films/refresh": `{"items":[],"loading":false,"refreshing":false,"generation":3}`,
	})
	withAPIClient(t, ts.client())

	out, err := execute(t, "remote", "refresh")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var st api.StateResponse
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("output is not a state: %v\n%s", err, out)
	}
	if st.Generation != 3 {
		t.Errorf("generation = %d, want 3", st.Generation)
	}

	if len(ts.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(ts.requests))
	}
	r := ts.requests[0]
	if r.Method != "POST" || r.Path != "/films/refresh" {
		t.Errorf("request = %s %s", r.Method, r.Path)
	}
	if r.Auth != "Bearer test-token" {
		t.Errorf("auth = %q, want Bearer test-token", r.Auth)
	}
}

func TestRemoteState_ReportsError(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /films": `{"items":[],"loading":false,"refreshing":false,"error":"unexpected status 503","generation":1}`,
	})
	withAPIClient(t, ts.client())

	_, err := execute(t, "remote", "state")
	if err == nil || err.Error() != "Error loading data: unexpected status 503" {
		t.Fatalf("err = %v", err)
	}
}

func TestRemoteShow(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /films/castle in the sky": `{"title":"Castle in the Sky","initial":"C","heading":"Castle in the Sky (1986)","lines":["Director: Hayao Miyazaki"],"from":"CLI"}`,
	})
	withAPIClient(t, ts.client())

	out, err := execute(t, "remote", "show", "castle", "in", "the", "sky")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Castle in the Sky (1986)") || !strings.Contains(out, "from: CLI") {
		t.Errorf("output = %q", out)
	}
	if got := ts.requests[0].Path; got != "/films/castle%20in%20the%20sky?from=CLI" {
		t.Errorf("path = %q", got)
	}
}

func TestDecodeJSON_ServerError(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := ts.client().get(context.Background(), "/missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var v any
	err = decodeJSON(resp, &v)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("err = %v, want 404", err)
	}
}

func TestOrNone(t *testing.T) {
	if orNone("") != "none" || orNone("5s") != "5s" {
		t.Error("orNone mismatch")
	}
}
