package mrz

import (
	"testing"
	"time"
)

func td2Sample() RawLines {
	return RawLines{
		"I<UTOERIKSSON<<ANNA<MARIA<<<<<<<<<<<",
		"L898902C36UTO7408122F1204159<<<<<<<<",
	}
}

func TestParseTD2ValidRecord(t *testing.T) {
	now := time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC)
	rec, err := parseTD2(td2Sample(), now)
	if err != nil {
		t.Fatalf("parseTD2 error: %v", err)
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
	if rec.FirstName != "ANNA MARIA" {
		t.Errorf("FirstName = %q, want ANNA MARIA", rec.FirstName)
	}
	if rec.LastName != "ERIKSSON" {
		t.Errorf("LastName = %q, want ERIKSSON", rec.LastName)
	}
	if len(rec.ChecksumReport.Warnings) != 0 {
		t.Errorf("expected no checksum warnings, got %v", rec.ChecksumReport.Warnings)
	}
}

func TestParseTD2WrongLineCount(t *testing.T) {
	_, err := parseTD2(RawLines{"ONE"}, time.Now())
	if err == nil {
		t.Fatal("expected error for wrong line count")
	}
}
