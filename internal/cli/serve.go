package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/appbuilder/internal/fieldtype"
	"github.com/matthewbaird/appbuilder/internal/report"
	"github.com/matthewbaird/appbuilder/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schema authoring page and API",
		Long: `Serve the browser page for authoring schema documents, the field-type
catalogue, the save endpoint, the run ledger and the live generation stream.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			store, closeStore, err := app.openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			gen := app.generator(store, report.LogSink{Log: app.log})
			return server.Run(ctx, server.Config{
				Host:      app.cfg.Server.Host,
				Port:      app.cfg.Server.Port,
				SchemaDir: app.cfg.SchemaDir,
				Catalog:   fieldtype.Default,
				Runner:    gen,
				Store:     store,
				Log:       app.log,
			})
		},
	}
	cmd.Flags().String("host", "127.0.0.1", "Listen host")
	cmd.Flags().Int("port", 8000, "Listen port")
	_ = app.v.BindPFlag("server.host", cmd.Flags().Lookup("host"))
	_ = app.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}
