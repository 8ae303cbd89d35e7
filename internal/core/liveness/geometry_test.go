package liveness

import (
	"testing"

	"github.com/your-org/idverify/internal/core/face"
)

func landmarksWithEyesNose(leftX, rightX, noseX, leftY, rightY float32) [face.LandmarkCount]face.Point {
	var lm [face.LandmarkCount]face.Point
	lm[36] = face.Point{X: leftX, Y: leftY}
	lm[45] = face.Point{X: rightX, Y: rightY}
	lm[30] = face.Point{X: noseX, Y: 0}
	return lm
}

func TestEstimateYawFrontFacing(t *testing.T) {
	lm := landmarksWithEyesNose(40, 60, 50, 0, 0) // nose centered between eyes
	yaw, poor := estimateYaw(lm)
	if poor {
		t.Fatal("expected a reliable yaw estimate")
	}
	if yaw != 0 {
		t.Errorf("yaw = %f, want 0", yaw)
	}
}

func TestEstimateYawTurnedLeft(t *testing.T) {
	lm := landmarksWithEyesNose(40, 60, 40, 0, 0) // nose shifted toward the left eye
	yaw, poor := estimateYaw(lm)
	if poor {
		t.Fatal("expected a reliable yaw estimate")
	}
	if yaw >= 0 {
		t.Errorf("yaw = %f, want negative (left turn)", yaw)
	}
}

func TestEstimateYawPoorWhenEyesTooClose(t *testing.T) {
	lm := landmarksWithEyesNose(50, 55, 52, 0, 0) // eye distance 5 < minEyeDistance
	_, poor := estimateYaw(lm)
	if !poor {
		t.Error("expected poor=true for a too-small eye distance")
	}
}

func TestEstimateYawClampsToFortyFive(t *testing.T) {
	lm := landmarksWithEyesNose(40, 60, 200, 0, 0) // extreme nose offset
	yaw, poor := estimateYaw(lm)
	if poor {
		t.Fatal("expected a reliable yaw estimate")
	}
	if yaw != 45 {
		t.Errorf("yaw = %f, want clamped to 45", yaw)
	}
}

func TestFaceQualityBelowIdealSizeStaysInRange(t *testing.T) {
	// bbox 100x150 on a 500x500 frame: area ratio 0.06 (below 0.1, so not
	// the ideal size band), aspect 0.667 (in [0.6,1.0]), eyes level.
	q := faceQuality(100, 150, 500, 500, 10, 10)
	if q <= 0 || q > 1 {
		t.Errorf("faceQuality out of [0,1]: %f", q)
	}
}

func TestFaceQualityPenalizesTiltedEyes(t *testing.T) {
	level := faceQuality(150, 200, 500, 500, 10, 10)
	tilted := faceQuality(150, 200, 500, 500, 10, 40)
	if tilted >= level {
		t.Errorf("tilted-eye quality (%f) should be lower than level-eye quality (%f)", tilted, level)
	}
}

func TestFaceQualityExportedWrapper(t *testing.T) {
	lm := landmarksWithEyesNose(40, 60, 50, 5, 5)
	bbox := [4]float32{10, 10, 110, 160}
	got := FaceQuality(bbox, 500, 500, lm)
	want := faceQuality(100, 150, 500, 500, 5, 5)
	if got != want {
		t.Errorf("FaceQuality = %f, want %f", got, want)
	}
}

func TestAngleScoreFront(t *testing.T) {
	if got := angleScore(Front, 0); got != 1.0 {
		t.Errorf("angleScore(Front, 0) = %f, want 1.0", got)
	}
	if got := angleScore(Front, 18); got != 0.5 {
		t.Errorf("angleScore(Front, 18) = %f, want 0.5", got)
	}
	if got := angleScore(Front, 40); got != 0 {
		t.Errorf("angleScore(Front, 40) = %f, want 0", got)
	}
}

func TestAngleScoreSideWrongDirection(t *testing.T) {
	// Left pose target is -20; a positive yaw is the wrong direction.
	if got := angleScore(Left, 20); got != 0.1 {
		t.Errorf("angleScore(Left, 20) = %f, want 0.1", got)
	}
}

func TestAngleScoreSideCorrectDirectionBoosted(t *testing.T) {
	// Right pose target is 20; yaw 22 is diff<=10 (score 1.0) with abs
	// yaw >= 15, the boost multiplies but clamps at 1.0.
	if got := angleScore(Right, 22); got != 1.0 {
		t.Errorf("angleScore(Right, 22) = %f, want 1.0", got)
	}
}
