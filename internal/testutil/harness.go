package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/burstdsl/internal/app"
	"github.com/specialistvlad/burstdsl/internal/hcl"
	"github.com/specialistvlad/burstdsl/internal/registry"
	"github.com/stretchr/testify/require"
)

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
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// Harness describes one run over a set of formula files.
type Harness struct {
	// Files maps relative paths to HCL content.
	Files map[string]string
	// Config is completed with the directory of Files and debug logging.
	Config  app.Config
	Modules []registry.Module
}

// RunIntegrationTest runs h with a background context.
func RunIntegrationTest(t *testing.T, h Harness) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, h)
}

// RunIntegrationTestWithContext writes the files to a temporary directory,
// builds the app through the HCL loader and runs it. Startup panics are
// returned as errors.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, h Harness) *HarnessResult {
	t.Helper()

	dir := t.TempDir()
	for name, content := range h.Files {
		filePath := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	cfg := h.Config
	if len(h.Files) > 0 {
		cfg.FormulaPaths = append(cfg.FormulaPaths, dir)
	}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	out := &SafeBuffer{}
	logs := &SafeBuffer{}
	t.Cleanup(func() {
		if os.Getenv("BURSTDSL_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(out, logs, &cfg, hcl.NewLoader(), h.Modules...)
	}()
	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logs.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
		}
	}

	runErr := testApp.Run(ctx)
	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       runErr,
		App:       testApp,
	}
}
