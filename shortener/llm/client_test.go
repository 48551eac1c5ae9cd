package llm

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/spance/concise-go/shortener/definitions"
	"github.com/spance/concise-go/shortener/helper"
)

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type capturedRequest struct {
	method  string
	path    string
	headers http.Header
	body    []byte
}

// fakeAPI answers every request with the given status and body.
func fakeAPI(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32, chan capturedRequest) {
	t.Helper()
	var calls atomic.Int32
	captured := make(chan capturedRequest, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		data, _ := io.ReadAll(r.Body)
		select {
		case captured <- capturedRequest{method: r.Method, path: r.URL.Path, headers: r.Header.Clone(), body: data}:
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls, captured
}

func testConfig(endpoint string) *definitions.Config {
	return &definitions.Config{
		Model:    "gpt-4o-mini",
		Endpoint: endpoint,
		Ratio:    0.75,
		APIKey:   "sk-test",
		Timeout:  5 * time.Second,
	}
}

func requestKind(t *testing.T, err error) *definitions.Error {
	t.Helper()
	var runErr *definitions.Error
	if !errors.As(err, &runErr) {
		t.Fatalf("expected *definitions.Error, got %#v", err)
	}
	return runErr
}

func TestRequestSuccess(t *testing.T) {
	srv, calls, captured := fakeAPI(t, http.StatusOK, `{"choices":[{"message":{"content":" Hello world "}}]}`)
	client := NewModelClient(testConfig(srv.URL + "/v1/chat/completions"), nil)

	prompt := helper.BuildPrompt(0.75)
	got, err := client.Request(context.Background(), helper.BuildMessages(prompt, "Some long text."))
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello world" {
		t.Errorf("wanted %q, got %q", "Hello world", got)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly one request, got %d", n)
	}

	req := <-captured
	if req.method != http.MethodPost {
		t.Errorf("expected POST, got %s", req.method)
	}
	if req.path != "/v1/chat/completions" {
		t.Errorf("expected endpoint path to be used as is, got %s", req.path)
	}
	if got := req.headers.Get("Authorization"); got != "Bearer sk-test" {
		t.Errorf("unexpected Authorization header: %q", got)
	}
	if got := req.headers.Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Errorf("unexpected Content-Type header: %q", got)
	}
	if _, err := uuid.Parse(req.headers.Get(HeaderClientRequestID)); err != nil {
		t.Errorf("expected a uuid request id, got %q", req.headers.Get(HeaderClientRequestID))
	}

	var payload wireRequest
	if err := json.Unmarshal(req.body, &payload); err != nil {
		t.Fatalf("request body is not JSON: %v\n%s", err, req.body)
	}
	if payload.Model != "gpt-4o-mini" {
		t.Errorf("unexpected model: %s", payload.Model)
	}
	if math.Abs(payload.Temperature-0.2) > 1e-6 {
		t.Errorf("unexpected temperature: %v", payload.Temperature)
	}
	want := []wireMessage{
		{Role: "system", Content: "You are a concise editor that trims redundant words without losing nuance."},
		{Role: "user", Content: prompt + "\n\n---\nSome long text.\n---"},
	}
	if diff := cmp.Diff(want, payload.Messages); diff != "" {
		t.Errorf("messages (-want +got):\n%s", diff)
	}
}

func TestRequestAPIError(t *testing.T) {
	srv, calls, _ := fakeAPI(t, http.StatusTooManyRequests, `{"error":"rate limited"}`)
	client := NewModelClient(testConfig(srv.URL), nil)

	_, err := client.Request(context.Background(), helper.BuildMessages("p", "text"))
	runErr := requestKind(t, err)
	if runErr.Kind != definitions.KindAPI {
		t.Fatalf("expected api error, got %s", runErr.Kind)
	}
	if runErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("unexpected status: %d", runErr.StatusCode)
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("expected status and body in message, got: %s", err)
	}
	// no retries
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly one request, got %d", n)
	}
}

func TestRequestServerError(t *testing.T) {
	srv, calls, _ := fakeAPI(t, http.StatusInternalServerError, `upstream exploded`)
	client := NewModelClient(testConfig(srv.URL), nil)

	_, err := client.Request(context.Background(), helper.BuildMessages("p", "text"))
	runErr := requestKind(t, err)
	if runErr.Kind != definitions.KindAPI || runErr.Body != "upstream exploded" {
		t.Errorf("unexpected error: %#v", runErr)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected exactly one request, got %d", n)
	}
}

func TestRequestMalformedResponse(t *testing.T) {
	for _, body := range []string{`{"unexpected":"shape"}`, `not json at all`} {
		srv, _, _ := fakeAPI(t, http.StatusOK, body)
		client := NewModelClient(testConfig(srv.URL), nil)

		_, err := client.Request(context.Background(), helper.BuildMessages("p", "text"))
		runErr := requestKind(t, err)
		if runErr.Kind != definitions.KindResponseFormat {
			t.Errorf("%s: expected response format error, got %s", body, runErr.Kind)
		}
		if !strings.Contains(err.Error(), body) {
			t.Errorf("expected raw body in message, got: %s", err)
		}
	}
}

func TestRequestConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	client := NewModelClient(testConfig(endpoint), nil)
	_, err := client.Request(context.Background(), helper.BuildMessages("p", "text"))
	runErr := requestKind(t, err)
	if runErr.Kind != definitions.KindConnectivity {
		t.Fatalf("expected connectivity error, got %s", runErr.Kind)
	}
	if !strings.HasPrefix(err.Error(), "Failed to reach OpenAI API") {
		t.Errorf("unexpected message: %s", err)
	}
}

func TestRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	client := NewModelClient(cfg, nil)

	_, err := client.Request(context.Background(), helper.BuildMessages("p", "text"))
	runErr := requestKind(t, err)
	if runErr.Kind != definitions.KindConnectivity {
		t.Fatalf("expected connectivity error, got %s", runErr.Kind)
	}
}
