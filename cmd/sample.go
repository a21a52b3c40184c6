package cmd

import (
	"github.com/spf13/cobra"
)

var sampleOpts viewOptions

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Summarize the bundled sample dataset",
	Long: `Summarize the bundled sample dataset. If the sample cannot be read (see sample_path in
config) a built-in six-month dataset is shown instead and a note is printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, rows, strict, err := sampleOpts.resolve(cmd)
		if err != nil {
			return err
		}
		snap := newSession(&sampleOpts, rows, strict).LoadSample()
		return sampleOpts.present(cmd, snap, format)
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
	sampleOpts.register(sampleCmd)
}
