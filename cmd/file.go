package cmd

import (
	"github.com/spf13/cobra"
)

var fileOpts viewOptions

var fileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Load a local .xlsx, .xls or .csv file and summarize it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, rows, strict, err := fileOpts.resolve(cmd)
		if err != nil {
			return err
		}
		snap, err := newSession(&fileOpts, rows, strict).LoadFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return fileOpts.present(cmd, snap, format)
	},
}

func init() {
	rootCmd.AddCommand(fileCmd)
	fileOpts.register(fileCmd)
	fileCmd.Flags().BoolVar(&fileOpts.allowJSON, "allow-json", false, "also accept .json files (array of objects or a single object)")
}
