package detections

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/driveguard/drowsiness-detection-service/models"
)

// PrepareInput turns a zoomed eye-region crop into the classifier's input
// tensor: resize to the declared resolution with area interpolation,
// normalize to [0,1] float32, replicate the gray channel when the model
// expects three, and lay the result out NHWC with a batch of one. The
// returned slice always has exactly shape.Elements() entries.
func PrepareInput(roi image.Image, shape models.InputShape) []float32 {
	resized := imaging.Resize(roi, shape.Width, shape.Height, imaging.Box)

	tensor := make([]float32, shape.Elements())
	for y := 0; y < shape.Height; y++ {
		for x := 0; x < shape.Width; x++ {
			// The crop is grayscale, so any channel carries the value.
			r, _, _, _ := resized.At(x, y).RGBA()
			v := float32(r>>8) / 255.0

			base := (y*shape.Width + x) * shape.Channels
			for c := 0; c < shape.Channels; c++ {
				tensor[base+c] = v
			}
		}
	}
	return tensor
}
