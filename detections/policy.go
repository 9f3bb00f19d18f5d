package detections

import (
	"image"
	"log"
	"time"

	"github.com/driveguard/drowsiness-detection-service/models"
)

// Pipeline wires the eye locator, the classifier and the shared smoothing
// window into the per-frame decision policy.
type Pipeline struct {
	Locator  EyeLocator
	Engine   Inferencer // nil when the model failed to load
	Smoother *SmoothingWindow
	Shape    models.InputShape
}

// Predict classifies one frame.
//
// An undetectable eye region and a malformed classifier output both fall
// back to the Drowsy label (worst-case bias); neither pushes anything into
// the smoothing window. An unloaded model is reported as
// ErrModelUnavailable rather than folded into a label.
func (p *Pipeline) Predict(frame image.Image, timings *models.ProcessingTimings) (models.Verdict, error) {
	if p.Engine == nil {
		return models.Verdict{}, ErrModelUnavailable
	}

	locateStart := time.Now()
	roi, ok := p.Locator.CropEyes(frame)
	timings.Locate = time.Since(locateStart)
	if !ok {
		return models.Verdict{Label: models.LabelDrowsy}, nil
	}

	prepStart := time.Now()
	tensor := PrepareInput(roi, p.Shape)
	timings.Preprocess = time.Since(prepStart)

	inferStart := time.Now()
	prob, err := p.Engine.Infer(tensor)
	timings.Inference = time.Since(inferStart)
	if err != nil {
		// Fail safe: an unreadable model output counts as drowsy.
		log.Printf("inference failed, assuming drowsy: %v", err)
		return models.Verdict{Label: models.LabelDrowsy}, nil
	}

	smoothed := p.Smoother.PushAndMean(prob)

	verdict := models.Verdict{
		Label:       models.LabelAwake,
		Probability: prob,
		Smoothed:    smoothed,
	}
	if smoothed > DrowsyThreshold {
		verdict.Label = models.LabelDrowsy
	}
	return verdict, nil
}
