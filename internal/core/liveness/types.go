// Package liveness implements the pose capture orchestrator and analyzer
// (C5+C6): the 3-pose challenge, per-pose geometry, cross-pose
// consistency, the static-attack heuristic, and liveness fusion.
package liveness

import (
	"time"

	"github.com/your-org/idverify/internal/core/face"
)

// Pose identifies one of the three fixed challenge poses.
type Pose string

const (
	Front Pose = "front"
	Left  Pose = "left"
	Right Pose = "right"
)

// targetYaw is the expected yaw angle, in degrees, for each pose.
var targetYaw = map[Pose]float64{
	Front: 0,
	Left:  -20,
	Right: 20,
}

// Order is the fixed pose challenge sequence.
var Order = []Pose{Front, Left, Right}

// Sample is one captured pose frame's analysis inputs: its timestamp, the
// detected face's landmarks, quality score, detector confidence, and
// descriptor.
type Sample struct {
	Pose       Pose
	Timestamp  time.Time
	Landmarks  [face.LandmarkCount]face.Point
	Quality    float64
	Confidence float64
	Descriptor []float32
	Poor       bool // eye distance below the minimum for a reliable yaw estimate
}

// PoseResult is the per-pose geometry analysis.
type PoseResult struct {
	Pose       Pose
	Yaw        float64
	Quality    float64
	Confidence float64
	AngleScore float64
	Poor       bool
}

// Result is the fused outcome of a completed 3-pose challenge.
type Result struct {
	Poses            []PoseResult
	DetectionRate    float64
	MeanQuality      float64
	MeanConfidence   float64
	Consistency      float64
	AngleScore       float64
	StaticSuspected  bool
	Score            float64
	IsLive           bool
}
