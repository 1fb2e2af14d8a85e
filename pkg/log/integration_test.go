package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/treeviz/pkg/errors"
)

// TestLoggerInterface tests the TestLogger implementation of Logger
func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationBuild)
	testLogger.Warn("warning message", ErrorCodeKey, ErrorInvalidInput)
	testLogger.Error("error message", fmt.Errorf("test error"), ErrorCodeKey, ErrorEmptyData)

	require.NotEmpty(t, buffer.String())

	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		assert.True(t, testLogger.ContainsMessage(msg), "missing %q", msg)
	}
	assert.True(t, testLogger.ContainsField("key1", "value1"))
	assert.True(t, testLogger.ContainsField("number", 42.0))
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "test error"))
	assert.True(t, testLogger.ContainsField(ErrorCodeKey, ErrorEmptyData))
}

func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "DecisionTree",
		ComponentKey, "builder",
	)
	contextLogger.Info("node split", NodeIDKey, 1, ThresholdKey, 5.5)

	assert.True(t, testLogger.ContainsField(ModelNameKey, "DecisionTree"))
	assert.True(t, testLogger.ContainsField(ComponentKey, "builder"))
	assert.True(t, testLogger.ContainsField(NodeIDKey, 1.0))
	assert.True(t, testLogger.ContainsField(ThresholdKey, 5.5))
}

func TestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, testLogger.Enabled(ctx, LevelInfo))
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	assert.False(t, testLogger.ContainsMessage("this should not appear"))
	assert.True(t, testLogger.ContainsMessage("this should appear"))
}

func TestLoggerProviderIntegration(t *testing.T) {
	provider, buffer := NewTestLoggerProvider(LevelDebug)

	provider.GetLogger().Info("provider test message")
	provider.GetLoggerWithName("viz").Info("named logger message")

	out := buffer.String()
	assert.Contains(t, out, "provider test message")
	assert.Contains(t, out, "named logger message")
	assert.Contains(t, out, `"ml.component":"viz"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"verbose", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(&buf, LevelInfo).With(ModelNameKey, "DecisionTree")

	logger.Debug("hidden")
	logger.Info("tree built", SamplesKey, 4, EventKey, "done")
	logger.Error("build failed", errors.NewValidationError("max_depth", "must be >= 0", -1))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var info map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &info))
	assert.Equal(t, "info", info["level"])
	assert.Equal(t, "tree built", info["message"])
	assert.Equal(t, "DecisionTree", info[ModelNameKey])
	assert.Equal(t, 4.0, info[SamplesKey])

	var failed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &failed))
	assert.Contains(t, failed["error"], "max_depth")

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
	assert.False(t, NewNopLogger().Enabled(context.Background(), LevelError))
}

func TestSlogLoggerStacktrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(&buf, LevelDebug, true)

	logger.Error("classification failed", errors.NewDimensionError("Classify", 3, 1, 1))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["severity"])
	assert.Equal(t, "classification failed", entry["message"])
	assert.NotEmpty(t, entry[StacktraceAttrKey])
}

func TestSetLoggerRoutesWarnings(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(NewZerologLogger(&buf, LevelDebug))
	defer SetLogger(nil)

	errors.Warn(errors.NewDegenerateTreeWarning("max_depth is 0", 4, 0.5))

	assert.Contains(t, buf.String(), `"type":"DegenerateTreeWarning"`)
	assert.Contains(t, buf.String(), `"level":"warn"`)

	testLogger, _ := NewTestLogger(LevelDebug)
	SetLogger(testLogger)
	errors.Warn(errors.NewDegenerateTreeWarning("min_samples_split exceeds samples", 3, 0.4))
	assert.True(t, testLogger.ContainsField(ErrorTypeKey, "*errors.DegenerateTreeWarning"))
	assert.Same(t, testLogger, GetLogger())
}

func TestConcurrentLogging(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			testLogger.With(ComponentKey, fmt.Sprintf("worker-%d", id)).Info("classified", PredsKey, id)
		}(i)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}
