package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kilianp07/phasebal/core/balance"
)

var neutralCmd = &cobra.Command{
	Use:   "neutral L1 L2 L3",
	Short: "Estimate the neutral current from three phase currents",
	Args:  cobra.ExactArgs(3),
	RunE:  runNeutral,
}

func init() {
	rootCmd.AddCommand(neutralCmd)
}

func runNeutral(cmd *cobra.Command, args []string) error {
	var currents [3]float64
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("L%d: invalid current %q", i+1, a)
		}
		if err := balance.ValidateCurrent(v); err != nil {
			return fmt.Errorf("L%d: %w", i+1, err)
		}
		currents[i] = v
	}
	n := balance.EstimateNeutralCurrent(currents[0], currents[1], currents[2])
	fmt.Fprintf(cmd.OutOrStdout(), "%.2f\n", n)
	return nil
}
