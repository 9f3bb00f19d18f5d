package models

import "time"

// Label is the binary classification result for one frame.
type Label string

const (
	LabelAwake  Label = "Awake"
	LabelDrowsy Label = "Drowsy"
)

// EyeRegion is a rectangle within a face sub-image. Coordinates are
// relative to the face crop, not the full frame.
type EyeRegion struct {
	X      int
	Y      int
	Width  int
	Height int
}

// InputShape is the classifier's declared input layout: one NHWC batch of
// Height x Width pixels with Channels channels.
type InputShape struct {
	Height   int
	Width    int
	Channels int
}

// Elements returns the tensor length for a batch of one.
func (s InputShape) Elements() int {
	return s.Height * s.Width * s.Channels
}

// Verdict is the outcome of classifying one frame. Probability is the raw
// classifier output and Smoothed the rolling mean it contributed to; both
// are zero when no inference ran.
type Verdict struct {
	Label       Label
	Probability float32
	Smoothed    float32
}

type ProcessingTimings struct {
	RequestID   string
	ImageDecode time.Duration
	Locate      time.Duration
	Preprocess  time.Duration
	Inference   time.Duration
	Total       time.Duration
}
