package liveness

import "github.com/your-org/idverify/internal/core/face"

const minEyeDistance = 10

// estimateYaw implements the landmark-36/45/30 yaw approximation. Returns
// poor=true if the eye distance is too small for a reliable estimate.
func estimateYaw(landmarks [face.LandmarkCount]face.Point) (yaw float64, poor bool) {
	leftEye := landmarks[36]
	rightEye := landmarks[45]
	nose := landmarks[30]

	eyeCenterX := (float64(leftEye.X) + float64(rightEye.X)) / 2
	eyeDistance := float64(rightEye.X) - float64(leftEye.X)
	if eyeDistance < 0 {
		eyeDistance = -eyeDistance
	}
	if eyeDistance < minEyeDistance {
		return 0, true
	}

	noseOffset := float64(nose.X) - eyeCenterX
	yaw = (noseOffset / eyeDistance) * 45.0
	if yaw > 45 {
		yaw = 45
	}
	if yaw < -45 {
		yaw = -45
	}
	return yaw, false
}

// faceQuality scores a detected face 0..1 as the mean of size ratio,
// aspect ratio, and eye level sub-scores.
func faceQuality(bboxW, bboxH, imgW, imgH float64, leftEyeY, rightEyeY float64) float64 {
	sizeRatio := (bboxW * bboxH) / (imgW * imgH)
	sizeScore := 0.5
	if sizeRatio >= 0.1 && sizeRatio <= 0.4 {
		sizeScore = 1.0
	}

	aspect := bboxW / bboxH
	aspectScore := 0.5
	if aspect >= 0.6 && aspect <= 1.0 {
		aspectScore = 1.0
	}

	deltaY := leftEyeY - rightEyeY
	if deltaY < 0 {
		deltaY = -deltaY
	}
	eyeLevelScore := 1 - deltaY/20
	if eyeLevelScore < 0 {
		eyeLevelScore = 0
	}

	return (sizeScore + aspectScore + eyeLevelScore) / 3
}

// FaceQuality scores a single detected face 0..1 from its bounding box and
// eye landmarks, for a vision worker to attach to a pose capture's Sample
// before it reaches Analyze.
func FaceQuality(bbox [4]float32, imgW, imgH int, landmarks [face.LandmarkCount]face.Point) float64 {
	bboxW := float64(bbox[2] - bbox[0])
	bboxH := float64(bbox[3] - bbox[1])
	return faceQuality(bboxW, bboxH, float64(imgW), float64(imgH), float64(landmarks[36].Y), float64(landmarks[45].Y))
}

// angleScore scores one pose's yaw against its target per the §4.4 bands.
func angleScore(pose Pose, yaw float64) float64 {
	target := targetYaw[pose]
	diff := yaw - target
	if diff < 0 {
		diff = -diff
	}

	if pose == Front {
		switch {
		case diff <= 10:
			return 1.0
		case diff <= 15:
			return 0.8
		case diff <= 20:
			return 0.5
		case diff <= 30:
			return 0.2
		default:
			return 0
		}
	}

	// Side pose: direction must match sign of the target.
	sameDirection := (target < 0 && yaw < 0) || (target > 0 && yaw > 0)
	if !sameDirection {
		return 0.1
	}

	var score float64
	switch {
	case diff <= 10:
		score = 1.0
	case diff <= 15:
		score = 0.8
	case diff <= 25:
		score = 0.6
	case diff <= 35:
		score = 0.3
	default:
		score = 0.1
	}

	absYaw := yaw
	if absYaw < 0 {
		absYaw = -absYaw
	}
	if absYaw >= 15 {
		score *= 1.1
		if score > 1.0 {
			score = 1.0
		}
	}
	return score
}
