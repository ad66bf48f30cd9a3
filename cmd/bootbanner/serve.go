package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/creasty/defaults"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/rickchristie/bootbanner"
	"github.com/rickchristie/bootbanner/internal/ansi"
	"github.com/rickchristie/bootbanner/internal/version"
)

// ServerSettings holds the server.* properties used by serve.
type ServerSettings struct {
	Port               int    `default:"8080"`
	HealthCheckEnabled bool   `default:"false"`
	HealthCheckPath    string `default:"/healthz"`
}

// serverSettingsFrom reads server.port, server.health_check_enabled and
// server.health_check_path.
func serverSettingsFrom(env *bootbanner.Environment) (ServerSettings, error) {
	var s ServerSettings
	if err := defaults.Set(&s); err != nil {
		return s, fmt.Errorf("failed to apply server defaults: %w", err)
	}
	var err error
	if s.Port, err = env.GetInt("server.port", s.Port); err != nil {
		return s, err
	}
	if s.HealthCheckEnabled, err = env.GetBool("server.health_check_enabled", s.HealthCheckEnabled); err != nil {
		return s, err
	}
	s.HealthCheckPath = env.Get("server.health_check_path", s.HealthCheckPath)

	if s.Port <= 0 {
		return s, fmt.Errorf("server.port must be > 0, got %d", s.Port)
	}
	if s.HealthCheckEnabled && s.HealthCheckPath == "" {
		return s, errors.New("server.health_check_path must be set when server.health_check_enabled is true")
	}
	return s, nil
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", configPath(), "Path to configuration file")
	fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Boot the application; this prints the banner.
	appCtx, err := bootbanner.New(appOptions(*cfgPath, fs.Args(), ansi.Writer(os.Stdout))...).Run(ctx)
	if err != nil {
		return err
	}
	defer appCtx.Close()
	logger := appCtx.Logger()

	// 2. Server settings
	settings, err := serverSettingsFrom(appCtx.Environment())
	if err != nil {
		return fmt.Errorf("invalid server settings: %w", err)
	}

	// 3. MCP server and HTTP listener
	streamableServer, addr, err := newServer(appCtx, settings, logger)
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		streamableServer.Shutdown(shutdownCtx)
	}()

	logger.Info().Int("port", settings.Port).Str("run_id", appCtx.RunID()).Msg("starting bootbanner server")
	if err := streamableServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// newServer builds the MCP server for appCtx with an optional health check.
// The returned server is not started.
func newServer(appCtx *bootbanner.Context, settings ServerSettings, logger zerolog.Logger) (*server.StreamableHTTPServer, string, error) {
	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcp.InitializeRequest, result *mcp.InitializeResult) {
		logger.Info().
			Str("client_name", req.Params.ClientInfo.Name).
			Str("client_version", req.Params.ClientInfo.Version).
			Msg("AI agent connected (MCP initialize)")
	})

	mcpServer := server.NewMCPServer("bootbanner", version.Version,
		server.WithToolCapabilities(true),
		server.WithHooks(hooks),
	)
	if err := bootbanner.RegisterMCPTools(mcpServer, appCtx); err != nil {
		return nil, "", err
	}

	addr := fmt.Sprintf(":%d", settings.Port)
	mux := http.NewServeMux()

	// Process liveness only.
	if settings.HealthCheckEnabled {
		mux.HandleFunc(settings.HealthCheckPath, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
	}

	httpSrv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	streamableServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithEndpointPath("/mcp"),
		server.WithStateLess(true),
		server.WithStreamableHTTPServer(httpSrv),
	)

	// Start() does NOT register the handler when a custom *http.Server is
	// provided via WithStreamableHTTPServer.
	mux.Handle("/mcp", streamableServer)

	return streamableServer, addr, nil
}
