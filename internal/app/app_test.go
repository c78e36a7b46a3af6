package app

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/pomojira/internal/backend"
	"github.com/five82/pomojira/internal/config"
)

func TestLocalURL(t *testing.T) {
	cases := map[string]string{
		"127.0.0.1:3001": "http://127.0.0.1:3001",
		":3001":          "http://127.0.0.1:3001",
		"0.0.0.0:8080":   "http://127.0.0.1:8080",
		"[::]:8080":      "http://127.0.0.1:8080",
		"localhost:9000": "http://localhost:9000",
		"not-an-address": "http://not-an-address",
	}
	for in, want := range cases {
		if got := localURL(in); got != want {
			t.Errorf("localURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLevelFor_FlagWins(t *testing.T) {
	cfg := config.Default()
	cfg.Server.LogLevel = "warn"
	if got := levelFor(Options{}, cfg); got != "warn" {
		t.Fatalf("levelFor = %q, want warn", got)
	}
	if got := levelFor(Options{LogLevel: "debug"}, cfg); got != "debug" {
		t.Fatalf("levelFor = %q, want debug", got)
	}
}

func TestEnsureProxyAvailable_Up(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	client, err := backend.NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := ensureProxyAvailable(context.Background(), client, client.BaseURL(), nil); err != nil {
		t.Fatalf("ensureProxyAvailable: %v", err)
	}
}

func TestEnsureProxyAvailable_DownExplainsHowToStart(t *testing.T) {
	client, _ := backend.NewClient("http://127.0.0.1:1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := ensureProxyAvailable(ctx, client, client.BaseURL(), nil)
	if err == nil || !strings.Contains(err.Error(), "pomojira serve") {
		t.Fatalf("err = %v, want hint to start the proxy", err)
	}
}

func TestEnsureProxyAvailable_EmbeddedFailureIsReported(t *testing.T) {
	client, _ := backend.NewClient("http://127.0.0.1:1")
	embedded := &embeddedProxy{done: make(chan struct{}), err: errors.New("address already in use")}
	close(embedded.done)

	err := ensureProxyAvailable(context.Background(), client, client.BaseURL(), embedded)
	if err == nil || !strings.Contains(err.Error(), "address already in use") {
		t.Fatalf("err = %v, want bind failure", err)
	}
}

func TestServe_LogsAndStopsWithContext(t *testing.T) {
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[server]\nlisten = \"127.0.0.1:0\"\nlog_format = \"json\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if err := serve(ctx, Options{ConfigPath: path}, &out); err != nil {
		t.Fatalf("serve: %v", err)
	}
	if !strings.Contains(out.String(), `"msg":"proxy listening"`) {
		t.Fatalf("missing startup log line: %s", out.String())
	}
}

func TestServe_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[server\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if err := serve(context.Background(), Options{ConfigPath: path}, &bytes.Buffer{}); err == nil {
		t.Fatal("serve should reject invalid TOML")
	}
}
