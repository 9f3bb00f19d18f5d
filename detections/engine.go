package detections

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/driveguard/drowsiness-detection-service/models"
)

var (
	// ErrModelUnavailable is reported when the classifier failed to load
	// at startup and the service runs degraded.
	ErrModelUnavailable = errors.New("model not loaded")

	// ErrEmptyOutput is reported when an invocation produced no output
	// data; the policy folds it into the fail-safe label.
	ErrEmptyOutput = errors.New("empty model output")
)

// Inferencer runs the classifier over one prepared input tensor and
// returns the raw probability.
type Inferencer interface {
	Infer(tensor []float32) (float32, error)
}

// modelSession is the bind-invoke-read surface of one loaded classifier.
type modelSession interface {
	inputData() []float32
	run() error
	outputData() []float32
	destroy()
}

type ortSession struct {
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

func (s *ortSession) inputData() []float32  { return s.input.GetData() }
func (s *ortSession) run() error            { return s.session.Run() }
func (s *ortSession) outputData() []float32 { return s.output.GetData() }

func (s *ortSession) destroy() {
	if s.session != nil {
		s.session.Destroy()
	}
	if s.input != nil {
		s.input.Destroy()
	}
	if s.output != nil {
		s.output.Destroy()
	}
}

// Engine owns the single shared classifier session. The underlying
// interpreter is not safe for concurrent invocation, so the whole
// bind-invoke-read sequence is one critical section; every request
// serializes through it while the rest of the pipeline runs in parallel.
type Engine struct {
	mu    sync.Mutex
	sess  modelSession
	shape models.InputShape

	metricsMu  sync.Mutex
	inferences int64
	failures   int64
	lockWait   time.Duration
}

// EngineMetrics is a point-in-time snapshot of the engine counters.
type EngineMetrics struct {
	TotalInferences int64
	TotalFailures   int64
	LockWait        time.Duration
}

// NewEngine loads the classifier at modelPath and pre-binds its input and
// output tensors. The model's declared input shape is read from the
// artifact itself and governs the preprocessor's resize target.
func NewEngine(modelPath string) (*Engine, error) {
	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("inspect model: %w", err)
	}
	if len(inputs) == 0 || len(outputs) == 0 {
		return nil, errors.New("model declares no input or output")
	}

	dims := inputs[0].Dimensions
	if len(dims) != 4 {
		return nil, fmt.Errorf("unexpected model input rank: %v", dims)
	}
	shape := models.InputShape{
		Height:   int(dims[1]),
		Width:    int(dims[2]),
		Channels: int(dims[3]),
	}
	if shape.Elements() <= 0 {
		return nil, fmt.Errorf("invalid model input shape: %v", dims)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer options.Destroy()

	options.SetIntraOpNumThreads(runtime.NumCPU())
	options.SetInterOpNumThreads(runtime.NumCPU())

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(
		1, int64(shape.Height), int64(shape.Width), int64(shape.Channels)))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputs[0].Dimensions)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{inputs[0].Name},
		[]string{outputs[0].Name},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &Engine{
		sess:  &ortSession{session: session, input: inputTensor, output: outputTensor},
		shape: shape,
	}, nil
}

// Infer binds tensor to the session input, invokes the classifier and
// reads back the scalar probability. A length mismatch with the declared
// shape is a programming error, not a recoverable condition.
func (e *Engine) Infer(tensor []float32) (float32, error) {
	if len(tensor) != e.shape.Elements() {
		return 0, fmt.Errorf("input tensor has %d elements, model expects %d",
			len(tensor), e.shape.Elements())
	}

	waitStart := time.Now()
	e.mu.Lock()
	wait := time.Since(waitStart)
	defer e.mu.Unlock()

	copy(e.sess.inputData(), tensor)
	if err := e.sess.run(); err != nil {
		e.record(wait, true)
		return 0, fmt.Errorf("model inference: %w", err)
	}

	out := e.sess.outputData()
	if len(out) == 0 {
		e.record(wait, true)
		return 0, ErrEmptyOutput
	}

	e.record(wait, false)
	return out[0], nil
}

// Shape returns the model's declared input shape.
func (e *Engine) Shape() models.InputShape {
	return e.shape
}

func (e *Engine) Destroy() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess.destroy()
}

func (e *Engine) record(wait time.Duration, failed bool) {
	e.metricsMu.Lock()
	defer e.metricsMu.Unlock()
	e.inferences++
	if failed {
		e.failures++
	}
	e.lockWait += wait
}

func (e *Engine) Metrics() EngineMetrics {
	e.metricsMu.Lock()
	defer e.metricsMu.Unlock()
	return EngineMetrics{
		TotalInferences: e.inferences,
		TotalFailures:   e.failures,
		LockWait:        e.lockWait,
	}
}
