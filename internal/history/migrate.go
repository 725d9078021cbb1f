package history

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

const (
	runsTable    = "generation_runs"
	entriesTable = "generation_entries"
)

var (
	// RunsColumns holds the columns for the "generation_runs" table.
	RunsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "command", Type: field.TypeString},
		{Name: "base_dir", Type: field.TypeString, Default: ""},
		{Name: "status", Type: field.TypeString},
		{Name: "message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "generated", Type: field.TypeInt, Default: 0},
		{Name: "skipped", Type: field.TypeInt, Default: 0},
		{Name: "started_at", Type: field.TypeInt64},
		{Name: "finished_at", Type: field.TypeInt64, Nullable: true},
	}
	// RunsTable holds the schema information for the "generation_runs" table.
	RunsTable = &schema.Table{
		Name:       runsTable,
		Columns:    RunsColumns,
		PrimaryKey: []*schema.Column{RunsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "run_started_at", Columns: []*schema.Column{RunsColumns[7]}},
		},
	}
	// EntriesColumns holds the columns for the "generation_entries" table.
	EntriesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "run_id", Type: field.TypeString},
		{Name: "seq", Type: field.TypeInt},
		{Name: "level", Type: field.TypeString},
		{Name: "message", Type: field.TypeString, Size: 2147483647},
		{Name: "at", Type: field.TypeInt64},
		{Name: "detail", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// EntriesTable holds the schema information for the "generation_entries" table.
	EntriesTable = &schema.Table{
		Name:       entriesTable,
		Columns:    EntriesColumns,
		PrimaryKey: []*schema.Column{EntriesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "generation_entries_generation_runs_entries",
				Columns:    []*schema.Column{EntriesColumns[1]},
				RefColumns: []*schema.Column{RunsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "entry_run_id_seq", Unique: true, Columns: []*schema.Column{EntriesColumns[1], EntriesColumns[2]}},
		},
	}
	// Tables holds all the tables of the run ledger.
	Tables = []*schema.Table{
		RunsTable,
		EntriesTable,
	}
)

func init() {
	EntriesTable.ForeignKeys[0].RefTable = RunsTable
}
