package errors

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewModelError(t *testing.T) {
	tests := []struct {
		name     string
		op       string
		kind     string
		err      error
		wantMsg  string
		hasStack bool
	}{
		{
			name:     "with original error",
			op:       "BuildTreeStepwise",
			kind:     "empty dataset",
			err:      ErrEmptyData,
			wantMsg:  "treeviz: BuildTreeStepwise: empty dataset: empty data",
			hasStack: true,
		},
		{
			name:     "without original error",
			op:       "Classify",
			kind:     "no tree",
			err:      nil,
			wantMsg:  "treeviz: Classify: no tree",
			hasStack: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewModelError(tt.op, tt.kind, tt.err)

			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			// スタックトレースの存在確認
			if tt.hasStack {
				formatted := fmt.Sprintf("%+v", err)
				if !strings.Contains(formatted, "errors_test.go") {
					t.Error("Expected stack trace to contain test file name")
				}
			}

			var modelErr *ModelError
			if !As(err, &modelErr) {
				t.Error("Error should be castable to *ModelError")
			}

			if tt.err != nil && !Is(err, tt.err) {
				t.Error("ModelError should unwrap to the original error")
			}
		})
	}
}

func TestNewDimensionError(t *testing.T) {
	tests := []struct {
		name string
		axis int
		want string
	}{
		{"rows", 0, "treeviz: Fit: dimension mismatch on axis 0 (rows). Expected 10, got 8"},
		{"features", 1, "treeviz: Fit: dimension mismatch on axis 1 (features). Expected 10, got 8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewDimensionError("Fit", 10, 8, tt.axis)
			if err.Error() != tt.want {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.want)
			}

			var dimErr *DimensionError
			if !As(err, &dimErr) {
				t.Fatal("Error should be castable to *DimensionError")
			}
			if dimErr.Expected != 10 || dimErr.Got != 8 {
				t.Errorf("unexpected fields: %+v", dimErr)
			}
		})
	}
}

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("DecisionTreeClassifier", "Predict")

	want := "treeviz: DecisionTreeClassifier: this model is not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("max_depth", "must be >= 0", -1)

	want := "treeviz: validation failed for parameter 'max_depth': must be >= 0 (got: -1)"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var valErr *ValidationError
	if !As(err, &valErr) {
		t.Fatal("Error should be castable to *ValidationError")
	}
	if valErr.ParamName != "max_depth" {
		t.Errorf("ParamName = %q, want max_depth", valErr.ParamName)
	}
}

func TestNewValueError(t *testing.T) {
	err := NewValueError("SetParams", "criterion: log_loss")

	if err.Error() != "treeviz: SetParams: criterion: log_loss" {
		t.Errorf("unexpected message %q", err.Error())
	}

	var valErr *ValueError
	if !As(err, &valErr) {
		t.Error("Error should be castable to *ValueError")
	}
}

func TestNumericalInstabilityError(t *testing.T) {
	err := CheckFinite("BuildTreeStepwise", []float64{1, 2, 3, 4, 5, 6, nan()}, 7)
	if err == nil {
		t.Fatal("expected an error for NaN input")
	}

	var numErr *NumericalInstabilityError
	if !As(err, &numErr) {
		t.Fatal("Error should be castable to *NumericalInstabilityError")
	}
	if numErr.Index != 7 {
		t.Errorf("Index = %d, want 7", numErr.Index)
	}
	// 5件を超える値は省略される
	if !strings.Contains(err.Error(), "...") {
		t.Errorf("expected truncated values in %q", err.Error())
	}

	if err := CheckFinite("BuildTreeStepwise", []float64{0, -1.5, 1e300}, 0); err != nil {
		t.Errorf("finite values should pass, got %v", err)
	}
	if err := CheckScalar("threshold", inf(), 0); err == nil {
		t.Error("expected an error for +Inf")
	}
}

func TestSafeDivide(t *testing.T) {
	if got := SafeDivide(1, 0); got != 0 {
		t.Errorf("SafeDivide(1, 0) = %v, want 0", got)
	}
	if got := SafeDivide(3, 2); got != 1.5 {
		t.Errorf("SafeDivide(3, 2) = %v, want 1.5", got)
	}
}

func TestDegenerateTreeWarning(t *testing.T) {
	w := NewDegenerateTreeWarning("max_depth is 0", 4, 0.5)

	want := "root forced to a leaf with impurity 0.5000 over 4 samples: max_depth is 0"
	if w.Error() != want {
		t.Errorf("Error() = %v, want %v", w.Error(), want)
	}

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Warn().EmbedObject(w).Msg("warning")
	if !strings.Contains(buf.String(), `"type":"DegenerateTreeWarning"`) {
		t.Errorf("zerolog output missing type: %s", buf.String())
	}
}

func TestWarnRouting(t *testing.T) {
	var handled []error
	SetWarningHandler(func(w error) { handled = append(handled, w) })
	defer SetWarningHandler(func(error) {})

	Warn(NewDegenerateTreeWarning("test", 1, 0.1))
	if len(handled) != 1 {
		t.Fatalf("expected warning handler to be called once, got %d", len(handled))
	}

	// zerolog関数が設定されている場合はそちらが優先される
	var routed int
	SetZerologWarnFunc(func(error) { routed++ })
	defer SetZerologWarnFunc(nil)

	Warn(NewDegenerateTreeWarning("test", 1, 0.1))
	if routed != 1 || len(handled) != 1 {
		t.Errorf("expected zerolog routing, got routed=%d handled=%d", routed, len(handled))
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Fit", 10, 0)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}

	expectedMsg := "in Fit: expected 10, got 0"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}

func TestErrorChaining(t *testing.T) {
	err1 := fmt.Errorf("base error")
	err2 := Wrap(err1, "wrapped once")
	err3 := NewModelError("Operation", "failed", err2)

	if !strings.Contains(err3.Error(), "base error") {
		t.Error("Expected error chain to contain base error")
	}

	formatted := fmt.Sprintf("%+v", err3)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected detailed error to contain stack trace")
	}
}
