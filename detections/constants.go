package detections

const (
	// Face cascade parameters: 10% scale step, 10% window shift, raw
	// detections merged at 0.2 IoU and kept above the quality cutoff.
	FaceScaleFactor = 1.1
	FaceShiftFactor = 0.1
	FaceIoU         = 0.2
	FaceQualityMin  = 5.0

	// DefaultMinFaceSize filters spurious detections smaller than 30px.
	DefaultMinFaceSize = 30

	// EyePerturbs is the number of perturbed runs of the eye localizer.
	EyePerturbs = 50

	// EyeScaleRatio and the eye seed offsets below place the localizer's
	// starting points at the canonical eye positions within a face box.
	EyeScaleRatio    = 0.25
	EyeRowOffset     = 0.075
	LeftEyeColRatio  = 0.175
	RightEyeColRatio = 0.185

	// SmoothingWindowSize is the number of recent frames averaged before
	// the drowsy/awake decision.
	SmoothingWindowSize = 5

	// DrowsyThreshold: a smoothed probability strictly above this value is
	// labeled drowsy.
	DrowsyThreshold = 0.5
)
