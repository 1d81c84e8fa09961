package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/deploytrack/deploytrack/internal/config"
	"github.com/deploytrack/deploytrack/internal/delay"
	"github.com/deploytrack/deploytrack/internal/store"
)

// NewCalcCmd creates the calc command: compute delays, rewrite the data file,
// print the per-record report and the summary block.
func NewCalcCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "calc",
		Short: "Calculate deployment delays and update the data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runCalc(cmd.OutOrStdout(), cfg)
		},
	}
}

func runCalc(w io.Writer, cfg *config.Config) error {
	st := store.New(cfg.DataFile)
	c, err := st.Load()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "Calculating Deployment Delays")
	fmt.Fprintln(w, banner)

	results, sum := delay.NewEngine().Process(c)
	delay.WriteReport(w, results)

	if err := st.Save(c); err != nil {
		return err
	}

	delay.WriteSummary(w, sum, cfg.Calculator.Divisor())
	fmt.Fprintln(w, "Delays calculated and saved successfully!")
	fmt.Fprintf(w, "   File: %s\n", cfg.DataFile)
	fmt.Fprintf(w, "   Last Updated: %s\n", c.LastUpdated)
	fmt.Fprintln(w, banner)
	return nil
}
