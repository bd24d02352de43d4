// Package testhelpers provides shared test utilities: throwaway git
// repositories, a mock GitHub client, and a test build of the CLI binary.
package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	sharedBinaryPath string
	binaryOnce       sync.Once
	binaryErr        error
)

// TestMain builds the git-stack binary once, runs the package's tests
// against it, then removes it. Packages that exercise the CLI call this from
// their own TestMain.
func TestMain(m *testing.M, cleanup func()) {
	binaryPath, binaryCleanup, err := buildBinary()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build git-stack binary: %v\n", err)
		os.Exit(1)
	}
	sharedBinaryPath = binaryPath

	code := m.Run()

	binaryCleanup()
	if cleanup != nil {
		cleanup()
	}
	os.Exit(code)
}

// GetSharedBinaryPath returns the path of the test binary, building it on
// first use when the package has no TestMain of its own.
func GetSharedBinaryPath() string {
	binaryOnce.Do(func() {
		if sharedBinaryPath == "" {
			path, _, err := buildBinary()
			if err != nil {
				binaryErr = err
				return
			}
			sharedBinaryPath = path
		}
	})
	return sharedBinaryPath
}

// GetBinaryError returns any error that occurred while building the binary.
func GetBinaryError() error {
	return binaryErr
}

// buildBinary compiles cmd/git-stack into a temp directory and returns the
// binary path with a cleanup function.
func buildBinary() (string, func(), error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	moduleRoot := findModuleRoot(wd)
	if moduleRoot == "" {
		return "", nil, fmt.Errorf("could not find module root (go.mod) starting from %s", wd)
	}

	tmpDir, err := os.MkdirTemp("", "git-stack-test-binary-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "git-stack")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/git-stack")
	cmd.Dir = moduleRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", nil, fmt.Errorf("failed to build: %s: %w", string(output), err)
	}

	//nolint:gosec // 0755 is correct for an executable binary
	if err := os.Chmod(binaryPath, 0755); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", nil, fmt.Errorf("failed to chmod: %w", err)
	}

	cleanup := func() {
		_ = os.RemoveAll(tmpDir)
	}

	return binaryPath, cleanup, nil
}

// findModuleRoot walks up from startDir to the directory containing go.mod.
func findModuleRoot(startDir string) string {
	dir := startDir
	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
