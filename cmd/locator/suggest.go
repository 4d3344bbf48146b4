package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/nivaran/internal/locator"
	"github.com/UnknownOlympus/nivaran/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var errShortQuery = fmt.Errorf("query must be at least %d characters", locator.MinQueryLength)

var suggestCmd = &cobra.Command{
	Use:   "suggest <text>",
	Short: "Print address suggestions for a partial address",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		if locator.IsShortQuery(query) {
			return errShortQuery
		}

		providers, err := newClients(metrics.NewMetrics(prometheus.NewRegistry()), nil)
		if err != nil {
			return err
		}

		suggestions := providers.autocomplete.Suggest(cmd.Context(), query)
		if len(suggestions) == 0 {
			return errors.New("no suggestions found")
		}
		for _, suggestion := range suggestions {
			fmt.Fprintln(cmd.OutOrStdout(), suggestion)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
