package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/braindump/internal/config"
	"github.com/fyrsmithlabs/braindump/internal/prompt"
	"github.com/spf13/cobra"
)

type processOptions struct {
	backend    string
	model      string
	noCache    bool
	categories []string
	raw        bool
}

func newProcessCmd(a *app) *cobra.Command {
	opts := &processOptions{}

	cmd := &cobra.Command{
		Use:   "process [file|-]",
		Short: "Extract records from a file or stdin",
		Long: `Extract tasks, habits, calendar events and sleep entries from free text.

Examples:
  # Process a notes file
  braindump process notes.txt

  # Process from stdin with a specific backend and model
  echo "Call mom tomorrow. Exercise daily at 7am." | braindump process --backend groq -

  # Only extract tasks and events
  braindump process --categories tasks,events notes.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.backend, "backend", "", "backend override (anthropic, openai, groq)")
	cmd.Flags().StringVar(&opts.model, "model", "", "model override")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "always call the backend")
	cmd.Flags().StringSliceVar(&opts.categories, "categories", nil, "categories to extract (tasks, habits, events, sleep)")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "include the raw backend reply in the output")
	return cmd
}

func runProcess(cmd *cobra.Command, a *app, opts *processOptions, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	ai, err := opts.apply(a)
	if err != nil {
		return err
	}

	res, err := a.service.ProcessText(cmd.Context(), text, ai)
	if err != nil {
		return err
	}
	if !opts.raw {
		res.RawResponse = ""
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// apply layers command-line overrides onto the configured AI settings.
func (o *processOptions) apply(a *app) (config.AIConfig, error) {
	if o.backend != "" {
		b, err := parseBackendArg(o.backend)
		if err != nil {
			return config.AIConfig{}, err
		}
		if b != a.cfg.AI.Backend {
			// the configured key belongs to the configured backend
			a.cfg.AI.APIKey = ""
			a.cfg.AI.Model = ""
		}
		a.cfg.AI.Backend = b
	}
	ai := a.aiConfig()

	if o.model != "" {
		ai.Model = o.model
	}
	if o.noCache {
		ai.CacheEnabled = false
	}
	if len(o.categories) > 0 {
		cats, err := parseCategories(o.categories)
		if err != nil {
			return config.AIConfig{}, err
		}
		ai.Categories = cats
	}
	return ai, nil
}

func parseCategories(names []string) (prompt.Categories, error) {
	var c prompt.Categories
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "tasks":
			c.Tasks = true
		case "habits":
			c.Habits = true
		case "events":
			c.Events = true
		case "sleep":
			c.Sleep = true
		default:
			return c, fmt.Errorf("unknown category %q (must be tasks, habits, events or sleep)", name)
		}
	}
	return c, nil
}
