package liveness

import (
	"math"
	"time"
)

const (
	consistencyMaxDistance = 1.0
	tooConsistentThreshold = 0.97
	tooFastGap             = 800 * time.Millisecond
	noVarianceThreshold    = 0.002
	totalWeightDivisor     = 5.5
	staticSuspectThreshold = 0.5
	fusionThreshold        = 0.7
)

// Analyze runs C6 over the 3 captured pose samples, in fixed Order: per-pose
// geometry, cross-pose consistency, the static-attack heuristic, and
// liveness fusion.
func Analyze(samples []Sample) Result {
	poses := make([]PoseResult, 0, len(samples))
	var qualities []float64
	var confidences []float64
	for _, s := range samples {
		yaw, poor := 0.0, s.Poor
		if !poor {
			yaw, poor = estimateYawFromSample(s)
		}
		poses = append(poses, PoseResult{
			Pose:       s.Pose,
			Yaw:        yaw,
			Quality:    s.Quality,
			Confidence: s.Confidence,
			AngleScore: angleScore(s.Pose, yaw),
			Poor:       poor,
		})
		qualities = append(qualities, s.Quality)
		confidences = append(confidences, s.Confidence)
	}

	detectionRate := float64(len(samples)) / float64(len(Order))
	meanQuality := mean(qualities)
	meanConfidence := mean(confidences)

	consistency := consistencyScore(samples)

	var angleSum float64
	for _, p := range poses {
		angleSum += p.AngleScore
	}
	meanAngle := 0.0
	if len(poses) > 0 {
		meanAngle = angleSum / float64(len(poses))
	}

	staticSuspected := isStaticSuspected(samples, poses, consistency, qualities)

	score := 0.3*detectionRate + 0.2*meanQuality + 0.1*meanConfidence + 0.2*consistency + 0.2*meanAngle
	if staticSuspected {
		score *= 0.5
	}

	return Result{
		Poses:           poses,
		DetectionRate:   detectionRate,
		MeanQuality:     meanQuality,
		MeanConfidence:  meanConfidence,
		Consistency:     consistency,
		AngleScore:      meanAngle,
		StaticSuspected: staticSuspected,
		Score:           score,
		IsLive:          score >= fusionThreshold && !staticSuspected,
	}
}

func estimateYawFromSample(s Sample) (float64, bool) {
	return estimateYaw(s.Landmarks)
}

// consistencyScore computes the cross-pose anti-impersonation score: one
// minus the average pairwise Euclidean distance among valid descriptors,
// clamped to consistencyMaxDistance. Fewer than two valid descriptors
// yields zero.
func consistencyScore(samples []Sample) float64 {
	var descriptors [][]float32
	for _, s := range samples {
		if len(s.Descriptor) > 0 {
			descriptors = append(descriptors, s.Descriptor)
		}
	}
	if len(descriptors) < 2 {
		return 0
	}

	var total float64
	var pairs int
	for i := 0; i < len(descriptors); i++ {
		for j := i + 1; j < len(descriptors); j++ {
			total += descriptorDistance(descriptors[i], descriptors[j])
			pairs++
		}
	}
	avg := total / float64(pairs)
	if avg > consistencyMaxDistance {
		avg = consistencyMaxDistance
	}
	return 1 - avg
}

func descriptorDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sumSq float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sumSq += d * d
	}
	return math.Sqrt(sumSq)
}

// isStaticSuspected implements the §4.4 weighted static-attack heuristic.
func isStaticSuspected(samples []Sample, poses []PoseResult, consistency float64, qualities []float64) bool {
	var totalWeight float64

	if consistency > tooConsistentThreshold {
		totalWeight += 2.0
	}

	perfect := 0
	for _, p := range poses {
		diff := p.Yaw - targetYaw[p.Pose]
		if diff < 0 {
			diff = -diff
		}
		if diff < 5 {
			perfect++
		}
	}
	switch {
	case perfect >= 3:
		totalWeight += 1.5
	case perfect >= 2:
		totalWeight += 1.0
	}

	if meanInterPoseGap(samples) < tooFastGap {
		totalWeight += 1.0
	}

	if variance(qualities) < noVarianceThreshold {
		totalWeight += 1.0
	}

	return totalWeight/totalWeightDivisor > staticSuspectThreshold
}

func meanInterPoseGap(samples []Sample) time.Duration {
	if len(samples) < 2 {
		return time.Hour // no two samples to compare; cannot be "too fast"
	}
	var total time.Duration
	var gaps int
	for i := 1; i < len(samples); i++ {
		gap := samples[i].Timestamp.Sub(samples[i-1].Timestamp)
		if gap < 0 {
			gap = -gap
		}
		total += gap
		gaps++
	}
	return total / time.Duration(gaps)
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func variance(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	m := mean(vs)
	var sumSq float64
	for _, v := range vs {
		d := v - m
		sumSq += d * d
	}
	return sumSq / float64(len(vs))
}
