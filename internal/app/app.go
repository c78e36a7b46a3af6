package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/five82/pomojira/internal/backend"
	"github.com/five82/pomojira/internal/config"
	"github.com/five82/pomojira/internal/logging"
	"github.com/five82/pomojira/internal/prefs"
	"github.com/five82/pomojira/internal/proxy"
	"github.com/five82/pomojira/internal/ui"
)

// Options configure the pomojira application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pomojira/prefs.toml
	LogLevel   string // empty uses the configured level
	WithProxy  bool   // run the proxy in-process alongside the TUI
}

// Run boots the terminal client until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closer, err := logging.OpenFile(cfg.Client.LogFile, levelFor(opts, cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "pomojira: logging disabled: %v\n", err)
	}
	defer func() { _ = closer.Close() }()

	store := prefs.Open(opts.PrefsPath)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	proxyURL := cfg.Client.ProxyURL
	var embedded *embeddedProxy
	if opts.WithProxy {
		proxyURL = localURL(cfg.Server.Listen)
		embedded = startProxy(ctx, cfg.Server, logger)
	}

	client, err := backend.NewClient(proxyURL)
	if err != nil {
		return fmt.Errorf("init proxy client: %w", err)
	}
	if err := ensureProxyAvailable(ctx, client, client.BaseURL(), embedded); err != nil {
		cancel()
		if embedded != nil {
			_ = embedded.wait()
		}
		return err
	}
	logger.Info("tui starting", "proxy", client.BaseURL(), "embedded_proxy", opts.WithProxy)

	uiErr := ui.Run(ui.Options{
		Context:        ctx,
		Service:        client,
		Store:          store,
		Logger:         logger,
		RequestTimeout: cfg.Server.RequestTimeout + 5*time.Second,
	})

	cancel()
	if embedded != nil {
		if err := embedded.wait(); err != nil {
			logger.Warn("embedded proxy stopped", "error", err)
		}
	}
	return uiErr
}

// Serve runs the Jira proxy until the context is cancelled.
func Serve(ctx context.Context, opts Options) error {
	return serve(ctx, opts, os.Stderr)
}

func serve(ctx context.Context, opts Options, logOut io.Writer) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := levelFor(opts, cfg)
	logger := logging.New(logOut, level, cfg.Server.LogFormat)
	slog.SetDefault(logger)
	setGinMode(level)

	return proxy.NewServer(cfg.Server, logger).Start(ctx)
}

// embeddedProxy is a proxy server running inside the TUI process.
type embeddedProxy struct {
	done chan struct{}
	err  error
}

func startProxy(ctx context.Context, cfg config.Server, logger *slog.Logger) *embeddedProxy {
	setGinMode(cfg.LogLevel)
	p := &embeddedProxy{done: make(chan struct{})}
	srv := proxy.NewServer(cfg, logger.With("component", "proxy"))
	go func() {
		p.err = srv.Start(ctx)
		close(p.done)
	}()
	return p
}

// wait blocks until the server has shut down and returns its error.
func (p *embeddedProxy) wait() error {
	<-p.done
	return p.err
}

// ensureProxyAvailable waits briefly for the proxy so the TUI never starts
// against an address nobody is serving.
func ensureProxyAvailable(ctx context.Context, client pinger, baseURL string, embedded *embeddedProxy) error {
	probeCtx, cancel := context.WithTimeout(ctx, proxyReadyTimeout)
	defer cancel()

	if embedded != nil {
		// Stop probing as soon as the embedded server gives up, e.g. on a busy port.
		go func() {
			select {
			case <-embedded.done:
				cancel()
			case <-probeCtx.Done():
			}
		}()
	}

	err := waitForProxy(probeCtx, client, defaultProbeInterval)
	if err == nil {
		return nil
	}
	if embedded == nil {
		return fmt.Errorf("proxy not reachable at %s (start it with `pomojira serve` or pass --with-proxy): %w", baseURL, err)
	}
	select {
	case <-embedded.done:
		if embedded.err != nil {
			return fmt.Errorf("embedded proxy: %w", embedded.err)
		}
	default:
	}
	return fmt.Errorf("embedded proxy at %s did not start: %w", baseURL, err)
}

func levelFor(opts Options, cfg config.Config) string {
	if strings.TrimSpace(opts.LogLevel) != "" {
		return opts.LogLevel
	}
	return cfg.Server.LogLevel
}

func setGinMode(level string) {
	if logging.ParseLevel(level) == slog.LevelDebug {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}

// localURL turns a listen address into a URL the client can dial.
func localURL(listen string) string {
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return "http://" + listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, port)
}
