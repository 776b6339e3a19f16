package testutil

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/specialistvlad/etreport/internal/app"
	"github.com/specialistvlad/etreport/internal/cli"
	"github.com/specialistvlad/etreport/internal/hcl"
	"github.com/stretchr/testify/require"
)

// DirPlaceholder is replaced in harness arguments by the directory the
// test files were written to.
const DirPlaceholder = "$DIR"

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string // what the run wrote to stdout
	LogOutput string
	Err       error
	Dir       string
}

// RunIntegrationTest writes files into a fresh directory and runs the
// command line args against them, the way main does. Arguments may refer to
// the directory as $DIR.
func RunIntegrationTest(t *testing.T, files map[string]string, args ...string) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, args...)
}

// RunIntegrationTestWithContext is RunIntegrationTest with a caller-provided context.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, args ...string) *HarnessResult {
	t.Helper()

	// 1. Create a temporary root directory for the test.
	tmpDir := t.TempDir()

	// 2. Write all input files. Names may contain subdirectories.
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	expanded := make([]string, len(args))
	for i, arg := range args {
		expanded[i] = strings.ReplaceAll(arg, DirPlaceholder, tmpDir)
	}

	out := &SafeBuffer{}
	logBuffer := &SafeBuffer{}
	result := &HarnessResult{Dir: tmpDir}

	appConfig, shouldExit, err := cli.Parse(expanded, out, hcl.NewLoader())
	if err == nil && !shouldExit {
		// Always capture everything, in a stable format.
		appConfig.LogLevel = "debug"
		appConfig.LogFormat = "text"

		var testApp *app.App
		testApp, err = app.NewApp(out, logBuffer, appConfig)
		if err == nil {
			err = testApp.Run(ctx)
		}
	}

	if os.Getenv("ETREPORT_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	result.Output = out.String()
	result.LogOutput = logBuffer.String()
	result.Err = err
	return result
}

// Path returns the absolute path of a file written by the harness.
func (r *HarnessResult) Path(name string) string {
	return filepath.Join(r.Dir, name)
}
