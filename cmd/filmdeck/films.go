package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kalambet/filmdeck/internal/config"
	"github.com/kalambet/filmdeck/internal/film"
	"github.com/kalambet/filmdeck/internal/ghibli"
	"github.com/kalambet/filmdeck/internal/listfetch"
	"github.com/kalambet/filmdeck/internal/screen"
	"github.com/kalambet/filmdeck/internal/tui"
)

const (
	cardWidth = 72
	fromCLI   = "CLI"
)

func newController(cfg config.Config) *listfetch.Controller[film.Film] {
	return listfetch.New[film.Film](ghibli.New(cfg.Source.URL, cfg.SourceTimeout()))
}

// loadFilms activates a films screen once and reports the inline error text on failure.
func loadFilms(ctx context.Context, cfg config.Config) (*screen.FilmsScreen, error) {
	films := screen.NewFilms(newController(cfg), screen.Navigator{})
	films.Activate(ctx)
	if st := films.State(); st.Failed() {
		return nil, errors.New(screen.ErrorText(st.Err))
	}
	return films, nil
}

// --- list ---

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all films",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		films, err := loadFilms(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		cards := films.Cards(cardWidth)
		if len(cards) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No films found.")
			return nil
		}
		printCards(cmd.OutOrStdout(), cards)
		return nil
	},
}

// --- show ---

var showCmd = &cobra.Command{
	Use:   "show <id|title>",
	Short: "Show details for one film",
	Long: `Show details for one film. The film is matched by id, then by title
(case-insensitive), then by the closest title.

Examples:
  filmdeck show "Castle in the Sky"
  filmdeck show totoro`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		from, _ := cmd.Flags().GetString("from")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		films, err := loadFilms(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		f, err := film.Find(films.State().Items, query)
		if err != nil {
			return fmt.Errorf("%q: %w", query, err)
		}
		printDetails(cmd.OutOrStdout(), screen.NewDetails(screen.Selection{Film: &f, From: from}))
		return nil
	},
}

func init() {
	showCmd.Flags().String("from", fromCLI, "provenance label shown in the details")
}

// --- browse ---

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse films in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// The alternate screen owns the terminal; only debug logs are kept.
		if !strings.EqualFold(cfg.Log.Level, "debug") {
			slog.SetDefault(slog.New(slog.DiscardHandler))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		err = tui.Run(ctx, newController(cfg))
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// --- status ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration summary and source reachability",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus(cmd.Context())
	},
}

func showStatus(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	client := ghibli.New(cfg.Source.URL, cfg.SourceTimeout())
	if ghibli.CheckReachable(ctx, client, os.Stderr) {
		printStatus("Source", "reachable")
	} else {
		printStatus("Source", "unreachable")
	}

	printStatus("Source URL", "%s", cfg.Source.URL)
	printStatus("Source timeout", "%s", orNone(cfg.Source.Timeout))
	printStatus("Server", "127.0.0.1:%d", cfg.Server.Port)
	printStatus("Refresh interval", "%s", orNone(cfg.Server.RefreshInterval))
	if cfg.Server.Token != "" {
		printStatus("Server token", "configured")
	} else {
		printStatus("Server token", "generated on first serve")
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
