package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"tidy-hq/vesta/pkg/classify"
)

func newTestServer(t *testing.T, handler func(req generateRequest) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("request path = %q, want /api/generate", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Stream {
			t.Error("requests must disable streaming")
		}
		json.NewEncoder(w).Encode(generateResponse{Response: handler(req)})
	}))
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Error("New without base URL should fail")
	}
}

func TestClassifyApplication(t *testing.T) {
	var got generateRequest
	srv := newTestServer(t, func(req generateRequest) string {
		got = req
		return "  Browser\n"
	})
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatal(err)
	}

	label, err := client.ClassifyApplication(context.Background(), "chrome.exe", "Funny cats", []string{"browser", "game"})
	if err != nil {
		t.Fatalf("ClassifyApplication returned error: %v", err)
	}
	if label != "Browser" {
		t.Errorf("label = %q, want trimmed %q", label, "Browser")
	}
	if got.Model != "mistral" {
		t.Errorf("model = %q, want the default text model", got.Model)
	}
	if len(got.Images) != 0 {
		t.Error("text classification must not attach images")
	}
}

func TestClassifyImageSendsBase64(t *testing.T) {
	imagePath := filepath.Join(t.TempDir(), "shot.png")
	content := []byte("fake png bytes")
	if err := os.WriteFile(imagePath, content, 0o644); err != nil {
		t.Fatal(err)
	}

	var got generateRequest
	srv := newTestServer(t, func(req generateRequest) string {
		got = req
		return "meme"
	})
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatal(err)
	}

	label, err := client.ClassifyImage(context.Background(), imagePath, []string{"meme", "screenshot"})
	if err != nil {
		t.Fatalf("ClassifyImage returned error: %v", err)
	}
	if label != "meme" {
		t.Errorf("label = %q, want %q", label, "meme")
	}
	if got.Model != "pixtral" {
		t.Errorf("model = %q, want the default vision model", got.Model)
	}
	if len(got.Images) != 1 || got.Images[0] != base64.StdEncoding.EncodeToString(content) {
		t.Error("image should be attached as base64")
	}
}

func TestClassifyImageMissingFile(t *testing.T) {
	client, err := New(Config{BaseURL: "http://localhost:1"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.ClassifyImage(context.Background(), "/does/not/exist.png", nil)
	var classErr *classify.ClassificationError
	if !errors.As(err, &classErr) {
		t.Fatalf("got %T, want *classify.ClassificationError", err)
	}
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Complete(context.Background(), "hello")
	var classErr *classify.ClassificationError
	if !errors.As(err, &classErr) {
		t.Fatalf("got %T, want *classify.ClassificationError", err)
	}
}

func TestGenerateUnreachableServer(t *testing.T) {
	client, err := New(Config{BaseURL: "http://127.0.0.1:1"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := client.Complete(context.Background(), "hello"); err == nil {
		t.Error("expected error for unreachable server")
	}
}

func TestBaseURLTrailingSlash(t *testing.T) {
	srv := newTestServer(t, func(generateRequest) string { return "ok" })
	defer srv.Close()

	client, err := New(Config{BaseURL: srv.URL + "/"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := client.Complete(context.Background(), "hello"); err != nil {
		t.Errorf("Complete with trailing-slash base URL returned error: %v", err)
	}
}
