package mrz

import (
	"testing"
	"time"
)

func td3Sample() RawLines {
	return RawLines{
		"P<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<<<<<<<<<",
		"L898902C36UTO7408122F1204159ZE184226B<<<<<10",
	}
}

func TestParseTD3ValidRecord(t *testing.T) {
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	rec, err := parseTD3(td3Sample(), now)
	if err != nil {
		t.Fatalf("parseTD3 error: %v", err)
	}
	if rec.FirstName != "ANNA MARIA" {
		t.Errorf("FirstName = %q, want ANNA MARIA", rec.FirstName)
	}
	if rec.LastName != "ERIKSSON" {
		t.Errorf("LastName = %q, want ERIKSSON", rec.LastName)
	}
	if rec.IDNumber != "L898902C3" {
		t.Errorf("IDNumber = %q, want L898902C3", rec.IDNumber)
	}
	if rec.DateOfBirth != "1974-08-12" {
		t.Errorf("DateOfBirth = %q, want 1974-08-12", rec.DateOfBirth)
	}
	if rec.Gender != "F" {
		t.Errorf("Gender = %q, want F", rec.Gender)
	}
	if rec.ExpiryDate != "2012-04-15" {
		t.Errorf("ExpiryDate = %q, want 2012-04-15", rec.ExpiryDate)
	}
	if rec.Nationality != "UTO" {
		t.Errorf("Nationality = %q, want UTO", rec.Nationality)
	}
	if len(rec.ChecksumReport.Warnings) != 0 {
		t.Errorf("expected no checksum warnings, got %v", rec.ChecksumReport.Warnings)
	}
}

func TestParseTD3WrongLineCount(t *testing.T) {
	_, err := parseTD3(RawLines{"ONLYONELINE"}, time.Now())
	if err == nil {
		t.Fatal("expected error for wrong line count")
	}
}

func TestParseTD3ChecksumMismatchIsWarningNotError(t *testing.T) {
	lines := td3Sample()
	// Corrupt the document-number check digit without touching its length.
	corrupted := []byte(lines[1])
	corrupted[9] = '9'
	lines[1] = string(corrupted)

	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	rec, err := parseTD3(lines, now)
	if err != nil {
		t.Fatalf("parseTD3 should not error on checksum mismatch: %v", err)
	}
	if len(rec.ChecksumReport.Warnings) == 0 {
		t.Error("expected a checksum warning for the corrupted document number")
	}
}
