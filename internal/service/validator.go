package service

import (
	"math"
	"strconv"
	"strings"

	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/models"
)

const (
	MinGlucose = 40
	MaxGlucose = 600
	MinHbA1c   = 0
	MaxHbA1c   = 20
)

// RawReading is a reading as submitted by the user. Optional fields are nil
// or blank when not provided.
type RawReading struct {
	Glucose string
	Insulin *string
	HbA1c   *string
	Note    *string
}

// Reading is a validated and normalized reading.
type Reading struct {
	GlucoseLevel int
	InsulinUnits *float64
	HbA1c        *float64
	Note         *string
}

// ValidateReading checks glucose, insulin and HbA1c in that order and
// returns the first failure.
func ValidateReading(raw RawReading) (Reading, error) {
	g, ok := parseNumber(raw.Glucose)
	if !ok || g < MinGlucose || g > MaxGlucose {
		return Reading{}, apperrors.ErrOutOfRangeGlucose
	}

	insulin, err := ValidateInsulin(raw.Insulin)
	if err != nil {
		return Reading{}, err
	}

	hba1c, err := validateHbA1c(raw.HbA1c)
	if err != nil {
		return Reading{}, err
	}

	return Reading{
		GlucoseLevel: int(math.Round(g)),
		InsulinUnits: insulin,
		HbA1c:        hba1c,
		Note:         NormalizeNote(raw.Note),
	}, nil
}

// ValidateInsulin returns nil for a missing or blank value.
func ValidateInsulin(raw *string) (*float64, error) {
	if isBlank(raw) {
		return nil, nil
	}
	v, ok := parseNumber(*raw)
	if !ok || v < 0 {
		return nil, apperrors.ErrInvalidInsulin
	}
	return &v, nil
}

func validateHbA1c(raw *string) (*float64, error) {
	if isBlank(raw) {
		return nil, nil
	}
	v, ok := parseNumber(*raw)
	if !ok || v < MinHbA1c || v > MaxHbA1c {
		return nil, apperrors.ErrInvalidHbA1c
	}
	return &v, nil
}

// NormalizeNote trims the note, maps empty to nil and truncates to
// models.MaxNoteLength characters.
func NormalizeNote(raw *string) *string {
	if raw == nil {
		return nil
	}
	note := strings.TrimSpace(*raw)
	if note == "" {
		return nil
	}
	if runes := []rune(note); len(runes) > models.MaxNoteLength {
		note = strings.TrimSpace(string(runes[:models.MaxNoteLength]))
	}
	return &note
}

func isBlank(raw *string) bool {
	return raw == nil || strings.TrimSpace(*raw) == ""
}

// parseNumber accepts finite decimal numbers only. A comma decimal separator
// is accepted since readings are often typed with one.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.Replace(s, ",", ".", 1)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
