package main

import (
	"fmt"
	"strconv"

	"github.com/UnknownOlympus/nivaran/internal/geolocation"
	"github.com/UnknownOlympus/nivaran/internal/locator"
	"github.com/UnknownOlympus/nivaran/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var reverseCmd = &cobra.Command{
	Use:   "reverse <latitude> <longitude>",
	Short: "Print the address of a coordinate pair",
	Long:  "Reverse geocodes the coordinates. When no address is available the formatted coordinates are printed, as the report form would submit them.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		latitude, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q: %w", args[0], err)
		}
		longitude, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q: %w", args[1], err)
		}

		source, err := geolocation.FromFix(latitude, longitude)
		if err != nil {
			return err
		}
		coords, err := source.CurrentPosition(cmd.Context())
		if err != nil {
			return err
		}

		providers, err := newClients(metrics.NewMetrics(prometheus.NewRegistry()), nil)
		if err != nil {
			return err
		}

		address, err := providers.reverse.ReverseGeocode(cmd.Context(), coords)
		if err != nil {
			logger.WarnContext(cmd.Context(), "No address for coordinates", "error", err)
			address = locator.FormatCoordinates(coords)
		}
		fmt.Fprintln(cmd.OutOrStdout(), address)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(reverseCmd)
}
