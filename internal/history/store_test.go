package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/appbuilder/internal/report"
)

func openSQL(t *testing.T) *SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "history.db") + "?_pragma=foreign_keys(1)"
	s, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": openSQL(t),
	}
}

func TestStore_RunLifecycle(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.StartRun(ctx, Run{ID: "r1", Command: "models", BaseDir: "/work", Status: StatusRunning, StartedAt: base}))
			require.NoError(t, s.StartRun(ctx, Run{ID: "r2", Command: "project", Status: StatusRunning, StartedAt: base.Add(time.Minute)}))

			require.NoError(t, s.AppendEntry(ctx, Entry{RunID: "r1", Seq: 1, Level: "SUCCESS", Message: "Models for Blog generated.", At: base}))
			require.NoError(t, s.AppendEntry(ctx, Entry{RunID: "r1", Seq: 2, Level: "NOTICE", Message: "Django app Shop already exists.", At: base.Add(time.Second)}))

			done := base.Add(2 * time.Second)
			require.NoError(t, s.FinishRun(ctx, Run{ID: "r1", Status: StatusPartial, Generated: 1, Skipped: 1, FinishedAt: &done}))

			run, err := s.GetRun(ctx, "r1")
			require.NoError(t, err)
			assert.Equal(t, "models", run.Command)
			assert.Equal(t, "/work", run.BaseDir)
			assert.Equal(t, StatusPartial, run.Status)
			assert.Equal(t, 1, run.Generated)
			assert.Equal(t, 1, run.Skipped)
			require.NotNil(t, run.FinishedAt)
			assert.True(t, done.Equal(*run.FinishedAt))
			assert.True(t, base.Equal(run.StartedAt))

			runs, err := s.ListRuns(ctx, 0)
			require.NoError(t, err)
			require.Len(t, runs, 2)
			assert.Equal(t, "r2", runs[0].ID)
			assert.Nil(t, runs[0].FinishedAt)

			runs, err = s.ListRuns(ctx, 1)
			require.NoError(t, err)
			require.Len(t, runs, 1)

			entries, err := s.Entries(ctx, "r1")
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Equal(t, 1, entries[0].Seq)
			assert.Equal(t, "Django app Shop already exists.", entries[1].Message)
		})
	}
}

func TestStore_UnknownRun(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			_, err := s.GetRun(ctx, "missing")
			assert.ErrorIs(t, err, ErrRunNotFound)
			_, err = s.Entries(ctx, "missing")
			assert.ErrorIs(t, err, ErrRunNotFound)
			err = s.FinishRun(ctx, Run{ID: "missing", Status: StatusFailed})
			assert.ErrorIs(t, err, ErrRunNotFound)
		})
	}
}

func TestSQLStore_EntryNeedsRun(t *testing.T) {
	s := openSQL(t)
	err := s.AppendEntry(context.Background(), Entry{RunID: "nope", Seq: 1, Level: "ERROR", Message: "x", At: time.Now()})
	assert.Error(t, err)
}

func TestRecorder_NumbersEntries(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.StartRun(ctx, Run{ID: "r", Command: "models", Status: StatusRunning, StartedAt: time.Now()}))

	rep := report.New(NewRecorder(ctx, s, "r", nil))
	rep.Successf("one")
	rep.Errorf("two")

	entries, err := s.Entries(ctx, "r")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Seq)
	assert.Equal(t, "SUCCESS", entries[0].Level)
	assert.Equal(t, 2, entries[1].Seq)
	assert.Equal(t, "two", entries[1].Message)
}

func TestRecorder_KeepsDetailBlock(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.StartRun(ctx, Run{ID: "r", Command: "project", Status: StatusRunning, StartedAt: time.Now()}))

			rep := report.New(NewRecorder(ctx, s, "r", nil))
			rep.Successf("App Created: Blog")
			rep.Block("Project Shop is built successfully.", "```sh\npython manage.py migrate\n```\n")

			entries, err := s.Entries(ctx, "r")
			require.NoError(t, err)
			require.Len(t, entries, 2)
			assert.Empty(t, entries[0].Detail)
			assert.Equal(t, "Project Shop is built successfully.", entries[1].Message)
			assert.Equal(t, "```sh\npython manage.py migrate\n```\n", entries[1].Detail)
		})
	}
}

func TestRecorder_StoreErrorIsNotFatal(t *testing.T) {
	rec := NewRecorder(context.Background(), NewMemoryStore(), "unknown", nil)
	assert.NotPanics(t, func() { rec.Emit(report.Entry{Level: report.Notice, Message: "x"}) })
}
