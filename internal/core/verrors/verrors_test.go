package verrors_test

import (
	"errors"
	"testing"

	"github.com/your-org/idverify/internal/core/verrors"
)

func TestErrorMessageWithoutCause(t *testing.T) {
	err := verrors.New(verrors.MrzUnreadable, "could not recover text")
	want := "mrz_unreadable: could not recover text"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorMessageWithCause(t *testing.T) {
	cause := errors.New("tesseract init failed")
	err := verrors.Wrap(verrors.OcrBackendMissing, "ocr unavailable", cause)
	want := "ocr_backend_missing: ocr unavailable: tesseract init failed"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestLivenessFailureCarriesReason(t *testing.T) {
	err := verrors.LivenessFailure("static_attack")
	if err.Kind != verrors.LivenessFailed {
		t.Errorf("Kind = %v, want LivenessFailed", err.Kind)
	}
	if err.Reason != "static_attack" {
		t.Errorf("Reason = %q, want static_attack", err.Reason)
	}
}

func TestMismatchFailureCarriesDistance(t *testing.T) {
	err := verrors.MismatchFailure(0.83)
	if err.Kind != verrors.FaceMismatch {
		t.Errorf("Kind = %v, want FaceMismatch", err.Kind)
	}
	if err.Distance != 0.83 {
		t.Errorf("Distance = %f, want 0.83", err.Distance)
	}
}

func TestRetryableKinds(t *testing.T) {
	retryable := []verrors.Kind{
		verrors.Transient, verrors.VideoTimeout, verrors.MrzUnreadable,
		verrors.NoFaceOnDocument, verrors.LivenessFailed, verrors.StaticAttackSuspected,
		verrors.FaceMismatch, verrors.CameraPermissionDenied, verrors.NoCamera,
		verrors.OcrBackendMissing, verrors.MrzUnparseable, verrors.DescriptorInvalid,
	}
	for _, k := range retryable {
		if !verrors.Retryable(verrors.New(k, "x")) {
			t.Errorf("Retryable(%v) = false, want true", k)
		}
	}

	notRetryable := []verrors.Kind{
		verrors.ModelLoadFailure,
	}
	for _, k := range notRetryable {
		if verrors.Retryable(verrors.New(k, "x")) {
			t.Errorf("Retryable(%v) = true, want false", k)
		}
	}
}

func TestRetryableNonTaxonomyError(t *testing.T) {
	if verrors.Retryable(errors.New("plain error")) {
		t.Error("a non-taxonomy error should never be retryable")
	}
}
