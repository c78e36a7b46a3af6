package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings for both the proxy server and the terminal client.
type Config struct {
	Server Server
	Client Client
}

// Server configures the Jira proxy.
type Server struct {
	Listen         string
	APIVersion     string
	UpstreamScheme string
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
}

// Client configures the terminal client.
type Client struct {
	ProxyURL string
	LogFile  string
}

const (
	defaultConfigPath     = "~/.config/pomojira/config.toml"
	defaultListen         = "127.0.0.1:3001"
	defaultAPIVersion     = "3"
	defaultUpstreamScheme = "https"
	defaultRequestTimeout = 15 * time.Second
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
	defaultProxyURL       = "http://127.0.0.1:3001"
	defaultLogFile        = "~/.local/state/pomojira/pomojira.log"

	portEnv = "PORT"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server: Server{
			Listen:         defaultListen,
			APIVersion:     defaultAPIVersion,
			UpstreamScheme: defaultUpstreamScheme,
			RequestTimeout: defaultRequestTimeout,
			LogLevel:       defaultLogLevel,
			LogFormat:      defaultLogFormat,
		},
		Client: Client{
			ProxyURL: defaultProxyURL,
			LogFile:  mustExpand(defaultLogFile),
		},
	}
}

// Load locates and parses the pomojira config, falling back to defaults when missing.
// The PORT environment variable overrides the port of server.listen.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(cfg)
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Server struct {
			Listen         string `toml:"listen"`
			APIVersion     string `toml:"api_version"`
			UpstreamScheme string `toml:"upstream_scheme"`
			RequestTimeout string `toml:"request_timeout"`
			LogLevel       string `toml:"log_level"`
			LogFormat      string `toml:"log_format"`
		} `toml:"server"`
		Client struct {
			ProxyURL string `toml:"proxy_url"`
			LogFile  string `toml:"log_file"`
		} `toml:"client"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Server.Listen = orDefault(raw.Server.Listen, defaultListen)
	cfg.Server.APIVersion = orDefault(raw.Server.APIVersion, defaultAPIVersion)
	cfg.Server.UpstreamScheme = strings.ToLower(orDefault(raw.Server.UpstreamScheme, defaultUpstreamScheme))
	if cfg.Server.UpstreamScheme != "https" && cfg.Server.UpstreamScheme != "http" {
		return Config{}, fmt.Errorf("parse config: upstream_scheme %q must be http or https", raw.Server.UpstreamScheme)
	}
	if timeout := strings.TrimSpace(raw.Server.RequestTimeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: request_timeout: %w", err)
		}
		if d > 0 {
			cfg.Server.RequestTimeout = d
		}
	}
	cfg.Server.LogLevel = strings.ToLower(orDefault(raw.Server.LogLevel, defaultLogLevel))
	cfg.Server.LogFormat = strings.ToLower(orDefault(raw.Server.LogFormat, defaultLogFormat))

	cfg.Client.ProxyURL = orDefault(raw.Client.ProxyURL, defaultProxyURL)
	cfg.Client.LogFile = mustExpand(orDefault(raw.Client.LogFile, defaultLogFile))

	return applyEnv(cfg)
}

func applyEnv(cfg Config) (Config, error) {
	port := strings.TrimSpace(os.Getenv(portEnv))
	if port == "" {
		return cfg, nil
	}
	host, _, err := net.SplitHostPort(cfg.Server.Listen)
	if err != nil {
		return Config{}, fmt.Errorf("apply %s: listen %q: %w", portEnv, cfg.Server.Listen, err)
	}
	cfg.Server.Listen = net.JoinHostPort(host, port)
	return cfg, nil
}

func orDefault(value, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
