package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/braindump/internal/extraction"
	"github.com/fyrsmithlabs/braindump/internal/keyring"
	"github.com/spf13/cobra"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage backend API keys in the OS keyring",
	}
	cmd.AddCommand(newAuthSetCmd(), newAuthDeleteCmd(), newAuthStatusCmd())
	return cmd
}

func newAuthSetCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "set <backend>",
		Short: "Store an API key",
		Long: `Store an API key for a backend in the OS keyring. The key is read from
--key or from the first line of stdin.

Examples:
  braindump auth set anthropic --key sk-ant-...
  pass show groq | braindump auth set groq`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := parseBackendArg(args[0])
			if err != nil {
				return err
			}
			if key == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("no API key given (use --key or stdin)")
				}
				key = strings.TrimSpace(line)
			}
			if err := keyring.SetAPIKey(backend, key); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored API key for %s\n", backend)
			return nil
		},
	}
	cmd.Flags().StringVar(&key, "key", "", "API key (read from stdin when omitted)")
	return cmd
}

func newAuthDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <backend>",
		Short: "Remove a stored API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := parseBackendArg(args[0])
			if err != nil {
				return err
			}
			if err := keyring.DeleteAPIKey(backend); err != nil {
				if errors.Is(err, keyring.ErrNotFound) {
					return fmt.Errorf("no API key stored for %s", backend)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted API key for %s\n", backend)
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which backends have a stored API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if !keyring.IsAvailable() {
				return keyring.ErrKeyringUnavailable
			}
			for _, b := range extraction.Backends() {
				state := "not set"
				if _, err := keyring.GetAPIKey(b); err == nil {
					state = "stored"
				}
				fmt.Fprintf(out, "%-10s %s\n", b, state)
			}
			return nil
		},
	}
}
