package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile <dataset.csv|dataset.xlsx>",
	Short: "Profile a dataset and write charts plus a narrative report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		service, _, err := buildService(ctx)
		if err != nil {
			return err
		}

		result, err := service.ProfileFile(ctx, args[0], cfg.Output.Dir)
		if err != nil {
			return err
		}

		if result.Narrative != "" {
			fmt.Println(result.Narrative)
		}
		if result.ReportPath != "" {
			fmt.Printf("Report saved to %s\n", result.ReportPath)
		}
		fmt.Printf("Run %s: %d columns profiled", result.Report.RunID, len(result.Report.Profiles))
		if result.Report.Clusters != nil {
			fmt.Printf(", %d clusters, %d noise rows", result.Report.Clusters.Clusters, result.Report.Clusters.Noise)
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
