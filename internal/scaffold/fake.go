package scaffold

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FakeRunner imitates the bootstrap commands by creating the directories they
// would create. It records every call. Commands listed in Fail return an
// error instead.
type FakeRunner struct {
	mu    sync.Mutex
	Calls []string
	Fail  map[string]error // keyed by the created name
}

// Run implements Runner.
func (f *FakeRunner) Run(_ context.Context, dir, name string, args ...string) error {
	f.mu.Lock()
	f.Calls = append(f.Calls, strings.TrimSpace(name+" "+strings.Join(args, " ")))
	f.mu.Unlock()

	if len(args) == 0 {
		return fmt.Errorf("%w: %s without arguments", ErrCommandFailed, name)
	}
	target := args[len(args)-1]
	if err, ok := f.Fail[target]; ok {
		return err
	}
	root := filepath.Join(dir, target)
	switch {
	case len(args) >= 2 && args[0] == "startproject":
		if err := os.MkdirAll(filepath.Join(root, target), 0o755); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(root, "manage.py"), []byte("# manage.py\n"), 0o644)
	case len(args) >= 3 && args[1] == "startapp":
		if err := os.MkdirAll(filepath.Join(root, "migrations"), 0o755); err != nil {
			return err
		}
		return os.WriteFile(filepath.Join(root, "__init__.py"), nil, 0o644)
	default:
		return os.MkdirAll(filepath.Join(root, "lib"), 0o755)
	}
}

// CallCount returns the number of recorded calls.
func (f *FakeRunner) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
