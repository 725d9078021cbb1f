package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/appbuilder/internal/generate"
	"github.com/matthewbaird/appbuilder/internal/report"
)

var batchCommands = map[generate.Command]struct {
	use, alias, short, long string
}{
	generate.CommandModels: {
		use:   "generate-models",
		alias: "generate_models_from_schema",
		short: "Generate apps in place inside the host Django project",
		long: `Generate every app described in the schema directory inside the host
Django project (the base directory, holding manage.py). Missing apps are
created with "python manage.py startapp"; existing apps are reused. The five
artifacts of each app are rewritten, the Authentication app is written and the
host project's settings.py and urls.py are regenerated with the full app list.`,
	},
	generate.CommandProject: {
		use:   "create-project",
		alias: "create_project_from_schema",
		short: "Build a Django project for every project schema",
		long: `Build one Django project per project schema document: scaffold the
project with django-admin, scaffold and generate each app, write the
Authentication app, settings.py, urls.py and the landing page, then print the
commands that start the backend.`,
	},
	generate.CommandFlutter: {
		use:   "build-flutter",
		alias: "buildflutter",
		short: "Create a Flutter project with one Dart model class per model",
		long: `Run "flutter create" for the first project schema and write one Dart
model class per model into lib/models/.`,
	},
}

func newBatchCmd(app *App, command generate.Command) *cobra.Command {
	meta := batchCommands[command]
	return &cobra.Command{
		Use:     meta.use,
		Aliases: []string{meta.alias},
		Short:   meta.short,
		Long:    meta.long,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := app.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			gen := app.generator(store, report.NewConsole(cmd.OutOrStdout()))
			sum, err := gen.Run(cmd.Context(), command)
			if err != nil {
				return fmt.Errorf("%w: %v", errReported, err)
			}
			app.log.WithField("run", sum.RunID).Debug("run recorded")
			return nil
		},
	}
}
