package main

import (
	"fmt"

	"github.com/UnknownOlympus/nivaran/internal/geolocation"
	"github.com/UnknownOlympus/nivaran/internal/locator"
	"github.com/UnknownOlympus/nivaran/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Detect the current location from the public IP address",
	Long:  "Runs location detection the way the report form does, with the position approximated from the public IP address.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
		providers, err := newClients(appMetrics, nil)
		if err != nil {
			return err
		}

		var failed bool
		notices := locator.NotifierFunc(func(n locator.Notice) {
			if n.Level == locator.LevelError {
				failed = true
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", n.Level, n.Message)
		})

		field := providers.fieldFactory(appMetrics)(notices)
		defer field.Close()

		if err = field.OnDetectLocationRequested(geolocation.NewIPSource(logger)); err != nil {
			return err
		}
		field.Wait()

		if failed {
			return locator.ErrPositionUnavailable
		}
		fmt.Fprintln(cmd.OutOrStdout(), field.Resolved())

		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd)
}
