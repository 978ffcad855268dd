// Agrismart - Crop Recommendation and Yield Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/agrismart

package predict

import (
	"context"
	"errors"
	"fmt"
	"sync"

	onnxruntime "github.com/yalue/onnxruntime_go"
)

// Tensor names produced by skl2onnx exports.
const (
	ONNXInputName       = "float_input"
	ONNXRegressorOutput = "variable"
	ONNXClassOutput     = "output_label"
)

var runtimeMu sync.Mutex

// InitRuntime initializes the onnxruntime environment once. libraryPath may
// be empty to use the platform default shared library.
func InitRuntime(libraryPath string) error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if onnxruntime.IsInitialized() {
		return nil
	}
	if libraryPath != "" {
		onnxruntime.SetSharedLibraryPath(libraryPath)
	}
	if err := onnxruntime.InitializeEnvironment(); err != nil {
		return fmt.Errorf("initialize ONNX runtime: %w", err)
	}
	return nil
}

// ShutdownRuntime releases the onnxruntime environment if it was initialized.
func ShutdownRuntime() error {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()

	if !onnxruntime.IsInitialized() {
		return nil
	}
	return onnxruntime.DestroyEnvironment()
}

// ONNXModel runs a single-input, single-output ONNX graph.
type ONNXModel struct {
	mu         sync.Mutex
	session    *onnxruntime.DynamicAdvancedSession
	kind       string
	outputName string
	width      int
}

// LoadONNXRegressor opens a regression graph with a [1,1] float output.
func LoadONNXRegressor(path string) (*ONNXModel, error) {
	return loadONNX(path, KindRegressor, ONNXRegressorOutput)
}

// LoadONNXClassifier opens a classification graph with an int64 label output.
func LoadONNXClassifier(path string) (*ONNXModel, error) {
	return loadONNX(path, KindClassifier, ONNXClassOutput)
}

func loadONNX(path, kind, output string) (*ONNXModel, error) {
	if !onnxruntime.IsInitialized() {
		return nil, errors.New("ONNX runtime is not initialized")
	}

	inputs, _, err := onnxruntime.GetInputOutputInfo(path)
	if err != nil {
		return nil, fmt.Errorf("inspect ONNX model: %w", err)
	}
	width := 0
	for _, in := range inputs {
		if in.Name != ONNXInputName {
			continue
		}
		// A dynamic feature axis is reported as -1
		if dims := in.Dimensions; len(dims) == 2 && dims[1] > 0 {
			width = int(dims[1])
		}
	}

	options, err := onnxruntime.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer func() { _ = options.Destroy() }()

	session, err := onnxruntime.NewDynamicAdvancedSession(path,
		[]string{ONNXInputName}, []string{output}, options)
	if err != nil {
		return nil, fmt.Errorf("load ONNX model: %w", err)
	}

	return &ONNXModel{
		session:    session,
		kind:       kind,
		outputName: output,
		width:      width,
	}, nil
}

// Width returns the static feature count of the graph input, or 0 when the
// axis is dynamic.
func (m *ONNXModel) Width() int {
	return m.width
}

// PredictValue runs a regression graph.
func (m *ONNXModel) PredictValue(ctx context.Context, x []float64) (float64, error) {
	if m.kind != KindRegressor {
		return 0, fmt.Errorf("ONNX model is a %s, not a regressor", m.kind)
	}
	out := make([]float32, 1)
	if err := m.run(ctx, x, out, onnxruntime.NewShape(1, 1)); err != nil {
		return 0, err
	}
	return float64(out[0]), nil
}

// PredictClass runs a classification graph.
func (m *ONNXModel) PredictClass(ctx context.Context, x []float64) (int, error) {
	if m.kind != KindClassifier {
		return 0, fmt.Errorf("ONNX model is a %s, not a classifier", m.kind)
	}
	out := make([]int64, 1)
	if err := m.run(ctx, x, out, onnxruntime.NewShape(1)); err != nil {
		return 0, err
	}
	return int(out[0]), nil
}

func (m *ONNXModel) run(ctx context.Context, x []float64, out any, shape onnxruntime.Shape) error {
	if m.width > 0 {
		if err := CheckWidth(m.width, x); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	input := make([]float32, len(x))
	for i, v := range x {
		input[i] = float32(v)
	}
	inTensor, err := onnxruntime.NewTensor(onnxruntime.NewShape(1, int64(len(x))), input)
	if err != nil {
		return fmt.Errorf("create input tensor: %w", err)
	}
	defer func() { _ = inTensor.Destroy() }()

	var outTensor onnxruntime.Value
	switch data := out.(type) {
	case []float32:
		t, err := onnxruntime.NewTensor(shape, data)
		if err != nil {
			return fmt.Errorf("create output tensor: %w", err)
		}
		outTensor = t
	case []int64:
		t, err := onnxruntime.NewTensor(shape, data)
		if err != nil {
			return fmt.Errorf("create output tensor: %w", err)
		}
		outTensor = t
	default:
		return fmt.Errorf("unsupported output buffer %T", out)
	}
	defer func() { _ = outTensor.Destroy() }()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return errors.New("ONNX session is closed")
	}
	if err := m.session.Run([]onnxruntime.Value{inTensor}, []onnxruntime.Value{outTensor}); err != nil {
		return fmt.Errorf("ONNX inference: %w", err)
	}
	return nil
}

// Close destroys the session. Further predictions fail.
func (m *ONNXModel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	err := m.session.Destroy()
	m.session = nil
	return err
}
