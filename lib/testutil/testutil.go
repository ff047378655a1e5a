package testutil

import (
	"os"
	"testing"
)

// Chdir changes the working directory for the rest of the test. Tests
// using it must not run in parallel.
func Chdir(t testing.TB, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	err = os.Chdir(dir)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		err := os.Chdir(wd)
		if err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}

// InTempDir runs the rest of the test inside a fresh temporary directory
// and returns its path.
func InTempDir(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	Chdir(t, dir)
	return dir
}
