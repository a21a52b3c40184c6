package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/sheetdash/internal/dashboard"
)

var (
	serveAddr    string
	servePreload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dataset API over HTTP",
	Long: `Serve the dataset API:

  GET  /api/dataset          current dataset (404 until something is loaded)
  POST /api/dataset/sample   load the bundled sample
  POST /api/dataset/url      load {"url": "..."}
  POST /api/dataset/file     load a multipart upload in field "file"
  GET  /healthz`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings()
		addr := s.ServeAddr
		if cmd.Flags().Changed("addr") {
			addr = serveAddr
		}
		sess := newSession(nil, s.DisplayRows, s.StrictTypeInference)
		if servePreload {
			sess.LoadSample()
		}
		srv := dashboard.NewServer(sess, nil, int64(s.MaxUploadMB)<<20)

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address (overrides serve_addr)")
	serveCmd.Flags().BoolVar(&servePreload, "preload-sample", false, "load the bundled sample before serving")
}
