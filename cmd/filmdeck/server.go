package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/filmdeck/internal/api"
	"github.com/kalambet/filmdeck/internal/config"
	"github.com/kalambet/filmdeck/internal/film"
	"github.com/kalambet/filmdeck/internal/ghibli"
	"github.com/kalambet/filmdeck/internal/listfetch"
	"github.com/kalambet/filmdeck/internal/poller"
	"github.com/kalambet/filmdeck/internal/screen"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the films screen over HTTP and MCP (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		noMCP, _ := cmd.Flags().GetBool("no-mcp")
		return runServer(cmd.Context(), !noMCP)
	},
}

func init() {
	serveCmd.Flags().Bool("no-mcp", false, "do not serve MCP over stdio")
}

func runServer(parent context.Context, withMCP bool) error {
	fmt.Fprintf(os.Stderr, "filmdeck version %s\n", version)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	token, err := config.ServerToken(cfg, config.NewKeychain())
	if err != nil {
		return fmt.Errorf("initializing server token: %w", err)
	}
	slog.Info("API bearer token available")

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get("http://" + addr + "/health"); err == nil {
		resp.Body.Close()
		printWarning("filmdeck is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := ghibli.New(cfg.Source.URL, cfg.SourceTimeout())
	ghibli.CheckReachable(ctx, client, os.Stderr)

	films := screen.NewFilms(listfetch.New[film.Film](client), screen.Navigator{})
	defer films.Deactivate()

	srv := &http.Server{
		Addr:    addr,
		Handler: api.NewFilmsHandler(films, token),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "filmdeck listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	// Fetch failures stay in the screen state and are served to clients.
	g.Go(func() error {
		if err := films.Activate(gctx); err != nil && !errors.Is(err, listfetch.ErrSuperseded) {
			slog.Warn("initial load failed", "error", err)
		}
		return nil
	})

	if interval := cfg.RefreshInterval(); interval > 0 {
		p := poller.New(films, interval)
		g.Go(func() error {
			p.Run(gctx)
			return nil
		})
		slog.Info("background refresh enabled", "interval", interval)
	}

	if withMCP {
		stdioSrv := server.NewStdioServer(api.NewMCPServer(films, version))
		g.Go(func() error {
			if err := stdioSrv.Listen(gctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP stdio server error", "error", err)
			}
			return nil
		})
		slog.Info("MCP server started (stdio transport)")
	}

	return g.Wait()
}
