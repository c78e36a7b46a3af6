package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PORT", "")

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Listen != defaultListen {
		t.Fatalf("Listen = %q, want %q", cfg.Server.Listen, defaultListen)
	}
	if cfg.Server.APIVersion != "3" || cfg.Server.UpstreamScheme != "https" {
		t.Fatalf("upstream = %s/%s, want https/3", cfg.Server.UpstreamScheme, cfg.Server.APIVersion)
	}
	if cfg.Server.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.Server.RequestTimeout, defaultRequestTimeout)
	}
	if cfg.Client.ProxyURL != defaultProxyURL {
		t.Fatalf("ProxyURL = %q, want %q", cfg.Client.ProxyURL, defaultProxyURL)
	}

	wantLog, err := ExpandPath(defaultLogFile)
	if err != nil {
		t.Fatalf("ExpandPath(defaultLogFile) returned error: %v", err)
	}
	if cfg.Client.LogFile != wantLog {
		t.Fatalf("LogFile = %q, want %q", cfg.Client.LogFile, wantLog)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PORT", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
[server]
listen = "  0.0.0.0:9999  "
api_version = "2"
upstream_scheme = "HTTP"
request_timeout = "3s"
log_level = " DEBUG "
log_format = "json"

[client]
proxy_url = " http://proxy.local:9999 "
log_file = "  ~/logs/pomo.log  "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Listen != "0.0.0.0:9999" {
		t.Fatalf("Listen = %q, want %q", cfg.Server.Listen, "0.0.0.0:9999")
	}
	if cfg.Server.APIVersion != "2" || cfg.Server.UpstreamScheme != "http" {
		t.Fatalf("upstream = %s/%s, want http/2", cfg.Server.UpstreamScheme, cfg.Server.APIVersion)
	}
	if cfg.Server.RequestTimeout != 3*time.Second {
		t.Fatalf("RequestTimeout = %v, want 3s", cfg.Server.RequestTimeout)
	}
	if cfg.Server.LogLevel != "debug" || cfg.Server.LogFormat != "json" {
		t.Fatalf("log = %s/%s, want debug/json", cfg.Server.LogLevel, cfg.Server.LogFormat)
	}
	if cfg.Client.ProxyURL != "http://proxy.local:9999" {
		t.Fatalf("ProxyURL = %q", cfg.Client.ProxyURL)
	}
	if !strings.HasPrefix(cfg.Client.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.Client.LogFile, home)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PORT", "")

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
[server]
listen = "   "
request_timeout = ""
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Listen != defaultListen {
		t.Fatalf("Listen = %q, want %q", cfg.Server.Listen, defaultListen)
	}
	if cfg.Server.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.Server.RequestTimeout, defaultRequestTimeout)
	}
}

func TestLoad_PortEnvOverridesListen(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PORT", "4100")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Listen != "127.0.0.1:4100" {
		t.Fatalf("Listen = %q, want 127.0.0.1:4100", cfg.Server.Listen)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`[server`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_RejectsBadSchemeAndTimeout(t *testing.T) {
	t.Setenv("PORT", "")
	for name, body := range map[string]string{
		"scheme":  "[server]\nupstream_scheme = \"ftp\"\n",
		"timeout": "[server]\nrequest_timeout = \"soon\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("Load returned nil error, want error")
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := ExpandPath("~/a/b")
	if err != nil {
		t.Fatalf("ExpandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("ExpandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := ExpandPath("   "); err == nil {
		t.Fatalf("ExpandPath returned nil error, want error")
	}
}
