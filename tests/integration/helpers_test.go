// Copyright 2024 LatentFS Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package integration runs the vfind binary against real directory trees.
//
// TestMain builds ./cmd/vfind into bin/vfind once. Every test gets its own
// TestEnv with a tree directory and a settings directory; the CLI is run
// through RunCLIWithConfigDir, which passes VFIND_CONFIG_DIR via cmd.Env so
// parallel tests never share process-wide environment.
package integration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var (
	cliBinary   string
	projectRoot string
)

// TestMain builds the CLI binary once before running all tests
func TestMain(m *testing.M) {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to get working directory: %v\n", err)
		os.Exit(1)
	}

	projectRoot = filepath.Join(wd, "..", "..")
	cliBinary = filepath.Join(projectRoot, "bin", "vfind")

	if err := os.MkdirAll(filepath.Join(projectRoot, "bin"), 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create bin directory: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Building vfind binary...")
	cmd := exec.Command("go", "build", "-o", cliBinary, "./cmd/vfind")
	cmd.Dir = projectRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build binary: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// TestEnv holds the test environment configuration
type TestEnv struct {
	t         *testing.T
	Root      string // directory tree searched by the CLI
	configDir string // VFIND_CONFIG_DIR for this test
}

// NewTestEnv creates a tree directory and an isolated settings directory.
// Both are removed by the testing package.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	root := filepath.Join(t.TempDir(), "tree")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatalf("Failed to create tree directory: %v", err)
	}
	return &TestEnv{
		t:         t,
		Root:      root,
		configDir: filepath.Join(t.TempDir(), "config"),
	}
}

// CLIResult holds the result of a CLI command execution
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunCLI executes vfind in the tree directory with the isolated settings
func (e *TestEnv) RunCLI(args ...string) CLIResult {
	return RunCLIWithConfigDir(e.Root, e.configDir, args...)
}

// WriteSettings writes settings.yaml into the isolated settings directory
func (e *TestEnv) WriteSettings(content string) {
	e.t.Helper()
	if err := os.MkdirAll(e.configDir, 0755); err != nil {
		e.t.Fatalf("Failed to create config directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(e.configDir, "settings.yaml"), []byte(content), 0644); err != nil {
		e.t.Fatalf("Failed to write settings: %v", err)
	}
}

// WriteFile writes content to a file in the tree
func (e *TestEnv) WriteFile(relPath, content string) {
	e.t.Helper()
	fullPath := filepath.Join(e.Root, filepath.FromSlash(relPath))

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		e.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		e.t.Fatalf("Failed to write file %s: %v", relPath, err)
	}
}

// Touch sets the modification time of a tree entry
func (e *TestEnv) Touch(relPath string, mtime time.Time) {
	e.t.Helper()
	fullPath := filepath.Join(e.Root, filepath.FromSlash(relPath))
	if err := os.Chtimes(fullPath, mtime, mtime); err != nil {
		e.t.Fatalf("Failed to set times on %s: %v", relPath, err)
	}
}

// filterEnvExcluding returns os.Environ() with the specified env var removed
func filterEnvExcluding(exclude string) []string {
	env := make([]string, 0, len(os.Environ()))
	prefix := exclude + "="
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, prefix) {
			env = append(env, e)
		}
	}
	return env
}

// CLITimeout is the maximum time a CLI command can run before being killed.
const CLITimeout = 15 * time.Second

// RunCLIWithConfigDir executes the CLI in dir with VFIND_CONFIG_DIR set to
// configDir via cmd.Env instead of process-wide env.
func RunCLIWithConfigDir(dir, configDir string, args ...string) CLIResult {
	ctx, cancel := context.WithTimeout(context.Background(), CLITimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cliBinary, args...)
	cmd.Dir = dir
	cmd.WaitDelay = 2 * time.Second

	env := filterEnvExcluding("VFIND_CONFIG_DIR")
	if configDir != "" {
		env = append(env, "VFIND_CONFIG_DIR="+configDir)
	}
	env = append(env, "NO_COLOR=1")
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if ctx.Err() == context.DeadlineExceeded {
			exitCode = 124 // Standard timeout exit code
			stderr.WriteString(fmt.Sprintf("\n[CLI TIMEOUT] Command timed out after %v: %v\n", CLITimeout, args))
		} else if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = 1
		}
	}

	return CLIResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// Lines splits stdout into lines without the trailing newline
func (r CLIResult) Lines() []string {
	out := strings.TrimSuffix(r.Stdout, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}
