package detections

import (
	"errors"
	"image"
	"math"
	"sync/atomic"
	"testing"

	"github.com/driveguard/drowsiness-detection-service/models"
)

type stubLocator struct {
	roi image.Image
	ok  bool
}

func (l stubLocator) CropEyes(image.Image) (image.Image, bool) {
	return l.roi, l.ok
}

type stubEngine struct {
	prob  float32
	probs []float32 // consumed before prob when non-empty
	err   error
	calls int32
}

func (e *stubEngine) Infer([]float32) (float32, error) {
	n := atomic.AddInt32(&e.calls, 1)
	if e.err != nil {
		return 0, e.err
	}
	if int(n) <= len(e.probs) {
		return e.probs[n-1], nil
	}
	return e.prob, nil
}

var testShape = models.InputShape{Height: 24, Width: 24, Channels: 3}

func testPipeline(locator EyeLocator, engine Inferencer) *Pipeline {
	return &Pipeline{
		Locator:  locator,
		Engine:   engine,
		Smoother: NewSmoothingWindow(SmoothingWindowSize),
		Shape:    testShape,
	}
}

func testFrame() image.Image {
	return image.NewNRGBA(image.Rect(0, 0, 64, 64))
}

func predict(t *testing.T, p *Pipeline) models.Verdict {
	t.Helper()
	v, err := p.Predict(testFrame(), &models.ProcessingTimings{})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	return v
}

func TestPredictNoEyesIsDrowsy(t *testing.T) {
	engine := &stubEngine{prob: 0.1}
	p := testPipeline(stubLocator{ok: false}, engine)

	v := predict(t, p)

	if v.Label != models.LabelDrowsy {
		t.Errorf("label = %q, want Drowsy", v.Label)
	}
	if atomic.LoadInt32(&engine.calls) != 0 {
		t.Error("inference ran despite absent eye region")
	}
	if p.Smoother.Len() != 0 {
		t.Error("absence pushed a value into the smoothing window")
	}
}

func TestPredictModelUnavailable(t *testing.T) {
	p := testPipeline(stubLocator{roi: testFrame(), ok: true}, nil)

	_, err := p.Predict(testFrame(), &models.ProcessingTimings{})
	if !errors.Is(err, ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
}

func TestPredictEmptyOutputIsDrowsy(t *testing.T) {
	p := testPipeline(stubLocator{roi: testFrame(), ok: true}, &stubEngine{err: ErrEmptyOutput})

	v := predict(t, p)

	if v.Label != models.LabelDrowsy {
		t.Errorf("label = %q, want Drowsy (fail-safe)", v.Label)
	}
	if p.Smoother.Len() != 0 {
		t.Error("failed inference pushed a value into the smoothing window")
	}
}

func TestPredictThresholdIsStrict(t *testing.T) {
	// A smoothed mean of exactly 0.5 stays Awake.
	p := testPipeline(stubLocator{roi: testFrame(), ok: true}, &stubEngine{prob: 0.5})
	if v := predict(t, p); v.Label != models.LabelAwake {
		t.Errorf("label at mean 0.5 = %q, want Awake", v.Label)
	}

	p = testPipeline(stubLocator{roi: testFrame(), ok: true}, &stubEngine{prob: 0.50001})
	if v := predict(t, p); v.Label != models.LabelDrowsy {
		t.Errorf("label at mean 0.50001 = %q, want Drowsy", v.Label)
	}
}

func TestPredictSmoothsAcrossFrames(t *testing.T) {
	engine := &stubEngine{probs: []float32{0.2, 0.8, 0.6}}
	p := testPipeline(stubLocator{roi: testFrame(), ok: true}, engine)

	predict(t, p)
	predict(t, p)
	v := predict(t, p)

	want := (0.2 + 0.8 + 0.6) / 3
	if math.Abs(float64(v.Smoothed)-want) > 1e-4 {
		t.Errorf("smoothed = %v, want %v", v.Smoothed, want)
	}
	if v.Label != models.LabelDrowsy {
		t.Errorf("label = %q, want Drowsy for smoothed mean %v", v.Label, v.Smoothed)
	}
	if v.Probability != 0.6 {
		t.Errorf("raw probability = %v, want 0.6", v.Probability)
	}
}
