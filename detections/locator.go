package detections

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"

	"github.com/driveguard/drowsiness-detection-service/models"
)

// EyeLocator finds the merged two-eye region of the first detected face
// and returns it zoomed to twice the classifier resolution. ok is false
// when no face or fewer than two eyes are detectable; that is an absence,
// never an error.
type EyeLocator interface {
	CropEyes(frame image.Image) (roi image.Image, ok bool)
}

// CascadeLocator implements EyeLocator with pigo cascades: a frontal-face
// classifier for the face rectangle and the pupil localizer for the eyes.
type CascadeLocator struct {
	face    *pigo.Pigo
	eyes    *pigo.PuplocCascade
	shape   models.InputShape
	minFace int
}

// NewCascadeLocator loads the "facefinder" and "puploc" cascade binaries
// from cascadeDir. shape is the classifier input resolution the zoomed
// crop is sized against.
func NewCascadeLocator(cascadeDir string, shape models.InputShape, minFace int) (*CascadeLocator, error) {
	if minFace <= 0 {
		minFace = DefaultMinFaceSize
	}

	faceData, err := os.ReadFile(filepath.Join(cascadeDir, "facefinder"))
	if err != nil {
		return nil, fmt.Errorf("read face cascade: %w", err)
	}
	face, err := pigo.NewPigo().Unpack(faceData)
	if err != nil {
		return nil, fmt.Errorf("unpack face cascade: %w", err)
	}

	eyeData, err := os.ReadFile(filepath.Join(cascadeDir, "puploc"))
	if err != nil {
		return nil, fmt.Errorf("read eye cascade: %w", err)
	}
	eyes, err := pigo.NewPuplocCascade().UnpackCascade(eyeData)
	if err != nil {
		return nil, fmt.Errorf("unpack eye cascade: %w", err)
	}

	return &CascadeLocator{
		face:    face,
		eyes:    eyes,
		shape:   shape,
		minFace: minFace,
	}, nil
}

func (l *CascadeLocator) CropEyes(frame image.Image) (image.Image, bool) {
	gray := imaging.Grayscale(frame)
	bounds := gray.Bounds()
	cols, rows := bounds.Dx(), bounds.Dy()

	params := pigo.CascadeParams{
		MinSize:     l.minFace,
		MaxSize:     max(cols, rows),
		ShiftFactor: FaceShiftFactor,
		ScaleFactor: FaceScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(gray),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := l.face.RunCascade(params, 0.0)
	dets = l.face.ClusterDetections(dets, FaceIoU)

	// First face in returned order wins; there is no scoring policy.
	face, ok := firstFace(dets)
	if !ok {
		return nil, false
	}
	faceRect := detectionRect(face).Intersect(image.Rect(0, 0, cols, rows))
	if faceRect.Empty() {
		return nil, false
	}

	eyes := l.locateEyes(face, faceRect, params.ImageParams)
	if len(eyes) < 2 {
		return nil, false
	}

	// First two candidates only; extras are discarded. Order left to
	// right by x, swapping the whole records.
	left, right := orderLeftRight(eyes[0], eyes[1])
	merged := mergeEyeRegions(left, right)

	eyeRect := image.Rect(merged.X, merged.Y, merged.X+merged.Width, merged.Y+merged.Height).
		Intersect(image.Rect(0, 0, faceRect.Dx(), faceRect.Dy()))
	if eyeRect.Empty() {
		return nil, false
	}

	faceROI := imaging.Crop(gray, faceRect)
	eyeROI := imaging.Crop(faceROI, eyeRect)

	// Zoom to 2x the model resolution for better detail before the final
	// downscale in the preprocessor.
	zoomed := imaging.Resize(eyeROI, l.shape.Width*2, l.shape.Height*2, imaging.Linear)
	return zoomed, true
}

// locateEyes runs the pupil localizer seeded at the canonical left/right
// eye positions of the face and converts each hit into a face-relative
// square EyeRegion.
func (l *CascadeLocator) locateEyes(face pigo.Detection, faceRect image.Rectangle, img pigo.ImageParams) []models.EyeRegion {
	scale := float32(face.Scale)
	seeds := []pigo.Puploc{
		{
			Row:      face.Row - int(EyeRowOffset*scale),
			Col:      face.Col - int(LeftEyeColRatio*scale),
			Scale:    scale * EyeScaleRatio,
			Perturbs: EyePerturbs,
		},
		{
			Row:      face.Row - int(EyeRowOffset*scale),
			Col:      face.Col + int(RightEyeColRatio*scale),
			Scale:    scale * EyeScaleRatio,
			Perturbs: EyePerturbs,
		},
	}

	eyes := make([]models.EyeRegion, 0, len(seeds))
	for _, seed := range seeds {
		loc := l.eyes.RunDetector(seed, img, 0.0, false)
		if loc == nil || loc.Scale <= 0 {
			continue
		}
		side := int(loc.Scale)
		eyes = append(eyes, models.EyeRegion{
			X:      loc.Col - side/2 - faceRect.Min.X,
			Y:      loc.Row - side/2 - faceRect.Min.Y,
			Width:  side,
			Height: side,
		})
	}
	return eyes
}

func firstFace(dets []pigo.Detection) (pigo.Detection, bool) {
	for _, d := range dets {
		if d.Q >= FaceQualityMin {
			return d, true
		}
	}
	return pigo.Detection{}, false
}

// detectionRect converts a center/scale detection into a rectangle.
func detectionRect(d pigo.Detection) image.Rectangle {
	half := d.Scale / 2
	return image.Rect(d.Col-half, d.Row-half, d.Col+half, d.Row+half)
}

// mergeEyeRegions spans a single rectangle over a left-to-right ordered
// pair of eyes.
func mergeEyeRegions(left, right models.EyeRegion) models.EyeRegion {
	return models.EyeRegion{
		X:      left.X,
		Y:      min(left.Y, right.Y),
		Width:  right.X + right.Width - left.X,
		Height: max(left.Height, right.Height),
	}
}

func orderLeftRight(a, b models.EyeRegion) (models.EyeRegion, models.EyeRegion) {
	if a.X > b.X {
		return b, a
	}
	return a, b
}
