package e2e

import (
	"path/filepath"
	"runtime"
)

// repositoryRoot locates the module root so specs read the real selector
// table, env files and fixtures regardless of the working directory.
func repositoryRoot() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot resolve repository root in tests/e2e")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
}
