package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/devicefarm/internal/app"
	"github.com/specialistvlad/devicefarm/internal/monitor"
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

// HarnessResult holds the outcomes of an end-to-end recipe run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	Farm      *FakeFarm
}

// RunRecipe writes the recipe to a temporary file named filename and runs
// the full application against farm with debug text logging.
func RunRecipe(t *testing.T, filename, recipe string, farm *FakeFarm, opts ...app.Option) *HarnessResult {
	t.Helper()
	return RunRecipeWithContext(context.Background(), t, filename, recipe, farm, opts...)
}

// RunRecipeWithContext is RunRecipe with a caller-provided context.
func RunRecipeWithContext(ctx context.Context, t *testing.T, filename, recipe string, farm *FakeFarm, opts ...app.Option) *HarnessResult {
	t.Helper()

	path := filepath.Join(t.TempDir(), filename)
	require.NoError(t, os.WriteFile(path, []byte(recipe), 0o644))

	cfg, err := app.NewConfig(app.Config{
		RecipePath:   path,
		LogLevel:     "debug",
		LogFormat:    "text",
		PollInterval: monitor.DefaultInterval,
		PollTimeout:  monitor.DefaultTimeout,
	})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	opts = append([]app.Option{app.WithAPI(farm)}, opts...)

	var testApp *app.App
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				panicErr = r
			}
		}()
		testApp = app.NewApp(logBuffer, cfg, opts...)
	}()
	if panicErr != nil {
		return &HarnessResult{
			LogOutput: logBuffer.String(),
			Err:       fmt.Errorf("application startup panicked | %v", panicErr),
			Farm:      farm,
		}
	}

	runErr := testApp.Run(ctx)

	if os.Getenv("DEVICEFARM_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Err:       runErr,
		App:       testApp,
		Farm:      farm,
	}
}
