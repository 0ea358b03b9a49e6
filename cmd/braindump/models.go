package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newModelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "models [backend]",
		Short: "List the models a backend accepts",
		Long: `List the model identifiers a backend accepts. Without an argument the
configured backend is used. The first model is the default.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := string(a.cfg.AI.Backend)
			if len(args) == 1 {
				name = args[0]
			}
			backend, err := parseBackendArg(name)
			if err != nil {
				return err
			}

			models, err := a.service.AvailableModels(backend)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tMAX OUTPUT\tDESCRIPTION")
			for _, m := range models {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", m.ID, m.Name, m.MaxOutputTokens, m.Description)
			}
			return w.Flush()
		},
	}
}
