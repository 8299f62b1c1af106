package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autolyze/internal/config"
)

var (
	// Loaded configuration, resolved before any subcommand runs
	cfg *config.Config

	// Global flag overrides
	flagOutputDir string
	flagEpsilon   float64
	flagMinPoints int
)

var rootCmd = &cobra.Command{
	Use:   "autolyze",
	Short: "autolyze profiles tabular datasets and narrates the findings",
	Long: `autolyze ingests a CSV or Excel dataset, computes descriptive statistics,
flags outliers, clusters the numeric subspace with DBSCAN and Ward linkage,
renders charts and writes a narrative markdown report.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagOutputDir, "output", "o", "", "output directory for charts and report (default from OUTPUT_DIR or .)")
	rootCmd.PersistentFlags().Float64Var(&flagEpsilon, "eps", 0, "DBSCAN neighborhood radius (overrides DBSCAN_EPSILON)")
	rootCmd.PersistentFlags().IntVar(&flagMinPoints, "min-points", 0, "DBSCAN minimum neighborhood size (overrides DBSCAN_MIN_POINTS)")
}

func loadConfig() {
	c, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if flagOutputDir != "" {
		c.Output.Dir = flagOutputDir
	}
	if flagEpsilon != 0 {
		c.Engine.Epsilon = flagEpsilon
	}
	if flagMinPoints != 0 {
		c.Engine.MinPoints = flagMinPoints
	}
	cfg = c
}
