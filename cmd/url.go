package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sheetdash/internal/source"
)

var (
	urlOpts     viewOptions
	urlExamples bool
)

var urlCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Fetch a spreadsheet, CSV or JSON dataset over HTTP and summarize it",
	Long: `Fetch a dataset with a single GET request. Responses served as application/json are read as
an array of objects (or a single object); anything else is read as a workbook or CSV text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if urlExamples {
			for _, ex := range source.ExampleURLs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n  %s\n", ex.Name, ex.URL)
			}
			return nil
		}
		var raw string
		if len(args) == 1 {
			raw = args[0]
		}
		format, rows, strict, err := urlOpts.resolve(cmd)
		if err != nil {
			return err
		}
		snap, err := newSession(&urlOpts, rows, strict).LoadURL(cmd.Context(), raw)
		if err != nil {
			return err
		}
		return urlOpts.present(cmd, snap, format)
	},
}

func init() {
	rootCmd.AddCommand(urlCmd)
	urlOpts.register(urlCmd)
	urlCmd.Flags().BoolVar(&urlExamples, "examples", false, "list public example URLs and exit")
}
