package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kilianp07/phasebal/core/balance"
	"github.com/kilianp07/phasebal/infra/circuits"
	"github.com/kilianp07/phasebal/infra/logger"
	"github.com/kilianp07/phasebal/pkg/export"
)

var (
	circuitsPath string
	seed         int64
	jsonOutput   bool
	csvOutput    bool
	strict       bool
)

// ErrNonCompliant is returned by the balance command in strict mode when
// the best allocation still exceeds the imbalance limit.
var ErrNonCompliant = fmt.Errorf("allocation exceeds the %.0f%% imbalance limit", balance.MaxImbalancePercent)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Balance the circuits of a YAML or JSON file",
	Long: `Balance the circuits of a YAML or JSON file and print per-phase totals,
imbalance, compliance, the neutral current estimate, the allocation and any
recommendations.

With --strict the command fails when the allocation is not compliant.`,
	RunE: runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&circuitsPath, "file", "f", "", "circuit file (.yaml, .yml or .json)")
	balanceCmd.Flags().Int64Var(&seed, "seed", 0, "seed for shuffled orderings (overrides balance.seed)")
	balanceCmd.Flags().BoolVar(&jsonOutput, "json", false, "output the JSON report")
	balanceCmd.Flags().BoolVar(&csvOutput, "csv", false, "output the allocation as CSV")
	balanceCmd.MarkFlagsMutuallyExclusive("json", "csv")
	balanceCmd.Flags().BoolVar(&strict, "strict", false, "fail when the allocation is not compliant")
	_ = balanceCmd.MarkFlagRequired("file")
}

func runBalance(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		cfg.Balance.Seed = seed
	}
	loads, err := circuits.LoadFile(circuitsPath)
	if err != nil {
		return err
	}
	b, err := balance.NewBalancer(balance.NewOptimizer(cfg.Balance.Seed, cfg.Balance.RandomPasses), nil, nil, logger.New("balance-command"))
	if err != nil {
		return err
	}
	rep, err := b.Balance(cmd.Context(), loads)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case jsonOutput:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return err
		}
	case csvOutput:
		if err := export.WriteCSV(out, rep.Result.CircuitAllocation); err != nil {
			return err
		}
	default:
		writeReport(out, rep)
	}
	if strict && !rep.Result.Compliant {
		return ErrNonCompliant
	}
	return nil
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// writeReport prints a human readable report.
func writeReport(w io.Writer, rep balance.Report) {
	res := rep.Result
	fmt.Fprintln(w, headerStyle.Render("Phase loading"))
	for _, p := range []struct {
		name  string
		total float64
	}{{"L1", res.L1Total}, {"L2", res.L2Total}, {"L3", res.L3Total}} {
		fmt.Fprintf(w, "  %s  %8.2f A\n", p.name, p.total)
	}
	fmt.Fprintf(w, "  Mean %6.2f A\n", res.TotalLoad)
	fmt.Fprintf(w, "  Neutral (estimate) %.2f A\n\n", rep.NeutralCurrent)

	status := passStyle.Render(fmt.Sprintf("✓ Imbalance %.2f%% (limit %.0f%%)", res.Imbalance, balance.MaxImbalancePercent))
	if !res.Compliant {
		status = failStyle.Render(fmt.Sprintf("✗ Imbalance %.2f%% (limit %.0f%%)", res.Imbalance, balance.MaxImbalancePercent))
	}
	fmt.Fprintln(w, status)

	if len(res.CircuitAllocation) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Allocation"))
		for _, a := range res.CircuitAllocation {
			lock := ""
			if a.Locked {
				lock = " (locked)"
			}
			fmt.Fprintf(w, "  %3d  %-24s %s  %7.2f A%s\n", a.CircuitNumber, truncate(a.Name, 24), a.Phase, a.LoadContribution, lock)
		}
	}
	if len(res.Recommendations) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("Recommendations"))
		for _, r := range res.Recommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
