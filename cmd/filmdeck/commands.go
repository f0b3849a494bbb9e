package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/filmdeck/internal/api"
	"github.com/kalambet/filmdeck/internal/config"
	"github.com/kalambet/filmdeck/internal/screen"
)

// --- remote ---

var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Drive the films screen of a running server",
}

var remoteStateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the current state snapshot as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return remoteState(cmd, "GET", "/films")
	},
}

var remoteLoadCmd = &cobra.Command{
	Use:   "load",
	Short: "Trigger a load and print the resulting state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return remoteState(cmd, "POST", "/films/load")
	},
}

var remoteRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Trigger a refresh and print the resulting state",
	RunE: func(cmd *cobra.Command, args []string) error {
		return remoteState(cmd, "POST", "/films/refresh")
	},
}

var remoteShowCmd = &cobra.Command{
	Use:   "show <id|title>",
	Short: "Show film details from the server's current list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		path := "/films/" + url.PathEscape(query) + "?from=" + url.QueryEscape(fromCLI)
		resp, err := client.get(cmd.Context(), path)
		if err != nil {
			return err
		}

		var d screen.Details
		if err := decodeJSON(resp, &d); err != nil {
			return err
		}
		printDetails(cmd.OutOrStdout(), d)
		return nil
	},
}

func remoteState(cmd *cobra.Command, method, path string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	resp, err := client.do(cmd.Context(), method, path)
	if err != nil {
		return err
	}

	var st api.StateResponse
	if err := decodeJSON(resp, &st); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(st); err != nil {
		return err
	}
	if st.Error != "" {
		return errors.New(screen.ErrorText(st.Error))
	}
	return nil
}

func init() {
	remoteCmd.AddCommand(remoteStateCmd)
	remoteCmd.AddCommand(remoteLoadCmd)
	remoteCmd.AddCommand(remoteRefreshCmd)
	remoteCmd.AddCommand(remoteShowCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s = %s  %s\n", colorize(colorBold, k.Key), k.Value, colorize(colorDim, "("+k.EnvVar+")"))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long:  "Set a configuration value. Valid keys: " + strings.Join(config.ValidKeys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a configuration value to its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return err
		}
		printSuccess("Unset %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
}
