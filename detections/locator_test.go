package detections

import (
	"testing"

	"github.com/driveguard/drowsiness-detection-service/models"
)

func TestMergeEyeRegions(t *testing.T) {
	left := models.EyeRegion{X: 10, Y: 20, Width: 12, Height: 14}
	right := models.EyeRegion{X: 40, Y: 18, Width: 16, Height: 10}

	merged := mergeEyeRegions(left, right)

	if merged.X != 10 {
		t.Errorf("X = %d, want 10", merged.X)
	}
	if merged.Y != 18 {
		t.Errorf("Y = %d, want 18 (min of eye Ys)", merged.Y)
	}
	if want := right.X + right.Width - left.X; merged.Width != want {
		t.Errorf("Width = %d, want %d", merged.Width, want)
	}
	if merged.Height != 14 {
		t.Errorf("Height = %d, want 14 (max of eye heights)", merged.Height)
	}
}

func TestMergeOrderInvariance(t *testing.T) {
	a := models.EyeRegion{X: 42, Y: 25, Width: 11, Height: 9}
	b := models.EyeRegion{X: 8, Y: 22, Width: 13, Height: 12}

	l1, r1 := orderLeftRight(a, b)
	l2, r2 := orderLeftRight(b, a)

	if l1 != l2 || r1 != r2 {
		t.Fatalf("ordering depends on input order: (%v,%v) vs (%v,%v)", l1, r1, l2, r2)
	}
	if mergeEyeRegions(l1, r1) != mergeEyeRegions(l2, r2) {
		t.Fatal("merged rectangle depends on detection order")
	}
}

func TestOrderLeftRightSwapsWholeRecords(t *testing.T) {
	a := models.EyeRegion{X: 50, Y: 5, Width: 7, Height: 8}
	b := models.EyeRegion{X: 10, Y: 6, Width: 9, Height: 11}

	left, right := orderLeftRight(a, b)

	if left != b || right != a {
		t.Fatalf("orderLeftRight(%v, %v) = %v, %v", a, b, left, right)
	}
}
