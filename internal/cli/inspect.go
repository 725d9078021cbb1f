package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matthewbaird/appbuilder/internal/fieldtype"
	"github.com/matthewbaird/appbuilder/internal/report"
	"github.com/matthewbaird/appbuilder/internal/schema"
)

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check every schema document without generating anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rep := report.New(report.NewConsole(cmd.OutOrStdout()))
			docs, err := schema.Load(app.cfg.SchemaDir)
			if err != nil {
				rep.Errorf("%v", err)
				return fmt.Errorf("%w: %v", errReported, err)
			}

			invalid := 0
			for _, doc := range docs {
				vs := schema.Validate(doc)
				if len(vs) == 0 {
					rep.Successf("%s: %s %s is valid.", doc.File, doc.Kind, doc.Name())
					continue
				}
				invalid++
				rep.Errorf("%s: %d problem(s)", doc.File, len(vs))
				for _, v := range vs {
					rep.Errorf("  %s", v)
				}
			}
			if invalid > 0 {
				return fmt.Errorf("%w: %d invalid document(s)", errReported, invalid)
			}
			return nil
		},
	}
}

func newFieldTypesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "field-types [type]",
		Short: "Print the field-type catalogue served to the authoring page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options := fieldtype.Default.Options()
			if len(args) == 0 {
				return printJSON(cmd.OutOrStdout(), options)
			}
			opts, ok := options[args[0]]
			if !ok {
				return fmt.Errorf("unknown field type %q", args[0])
			}
			return printJSON(cmd.OutOrStdout(), opts)
		},
	}
}

func newJSONSchemaCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "jsonschema app|project",
		Short:     "Print the JSON Schema of a schema document kind",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"app", "project"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := schema.ParseKind(args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), schema.JSONSchema(kind))
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
