package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/logger"
	"github.com/pageza/glucolink/backend/internal/models"
	"github.com/pageza/glucolink/backend/internal/repository"
	"github.com/pageza/glucolink/backend/internal/types"
)

// Period is a report window.
type Period string

const (
	PeriodAll       Period = "all"
	Period7Days     Period = "7d"
	Period30Days    Period = "30d"
	PeriodThisMonth Period = "this_month"
)

// ParsePeriod reads a query value. Empty means all.
func ParsePeriod(raw string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, Period7Days, Period30Days, PeriodThisMonth:
		return p, nil
	default:
		return "", apperrors.ErrInvalidPeriod
	}
}

// Since returns the start of the window ending at now, or nil for all.
// Windows are computed in UTC so month boundaries do not depend on the
// server's zone.
func (p Period) Since(now time.Time) *time.Time {
	now = now.UTC()
	var t time.Time
	switch p {
	case Period7Days:
		t = now.AddDate(0, 0, -7)
	case Period30Days:
		t = now.AddDate(0, 0, -30)
	case PeriodThisMonth:
		t = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	default:
		return nil
	}
	return &t
}

// ReportSummary aggregates the readings of a report window.
type ReportSummary struct {
	Count                    int            `json:"count"`
	AvgGlucose               int            `json:"avg_glucose"`
	MinGlucose               int            `json:"min_glucose"`
	MaxGlucose               int            `json:"max_glucose"`
	TotalInsulin             float64        `json:"total_insulin"`
	AvgInsulinPerApplication float64        `json:"avg_insulin_per_application"`
	LatestHbA1c              *float64       `json:"latest_hba1c"`
	StatusCounts             map[string]int `json:"status_counts"`
}

// DailyBucket is the per-day glucose average.
type DailyBucket struct {
	Date       string `json:"date"`
	Count      int    `json:"count"`
	AvgGlucose int    `json:"avg_glucose"`
}

// Report is a patient's readings over a period.
type Report struct {
	PatientID   uuid.UUID                     `json:"patient_id"`
	PatientName string                        `json:"patient_name"`
	Period      Period                        `json:"period"`
	From        *time.Time                    `json:"from,omitempty"`
	GeneratedAt time.Time                     `json:"generated_at"`
	Summary     ReportSummary                 `json:"summary"`
	Daily       []DailyBucket                 `json:"daily"`
	Records     []types.GlucoseRecordResponse `json:"records"`
}

// ReportArchive stores a rendered report and returns a download URL.
type ReportArchive interface {
	Archive(ctx context.Context, objectKey, contentType string, body []byte) (string, error)
}

// ReportService builds glucose reports for readable patients.
type ReportService struct {
	profiles  repository.ProfileStore
	records   repository.GlucoseStore
	access    Authorizer
	archive   ReportArchive
	urlExpiry time.Duration
	now       func() time.Time
}

var _ IReportService = (*ReportService)(nil)

// NewReportService creates a ReportService. archive may be nil, in which
// case Archive fails with ErrArchiveDisabled.
func NewReportService(profiles repository.ProfileStore, records repository.GlucoseStore, access Authorizer, archive ReportArchive, urlExpiry time.Duration) *ReportService {
	return &ReportService{
		profiles:  profiles,
		records:   records,
		access:    access,
		archive:   archive,
		urlExpiry: urlExpiry,
		now:       time.Now,
	}
}

// Build authorizes the caller and assembles the report for targetUserID.
func (s *ReportService) Build(ctx context.Context, principal types.Principal, targetUserID uuid.UUID, period Period) (*Report, error) {
	if err := s.access.Authorize(ctx, principal, targetUserID); err != nil {
		return nil, err
	}

	profile, err := s.profiles.FindProfileByUserID(ctx, targetUserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	since := period.Since(now)
	records, err := s.records.QueryGlucoseRecords(ctx, targetUserID, since)
	if err != nil {
		return nil, err
	}

	report := &Report{
		PatientID:   targetUserID,
		PatientName: profile.FullName,
		Period:      period,
		From:        since,
		GeneratedAt: now,
		Summary:     summarize(records),
		Daily:       dailyBuckets(records),
		Records:     make([]types.GlucoseRecordResponse, 0, len(records)),
	}
	for i := range records {
		report.Records = append(report.Records, types.NewGlucoseRecordResponse(&records[i], ClassifyGlucose(records[i].GlucoseLevel)))
	}
	return report, nil
}

// summarize expects records newest first.
func summarize(records []models.GlucoseRecord) ReportSummary {
	sum := ReportSummary{Count: len(records), StatusCounts: map[string]int{}}
	if len(records) == 0 {
		return sum
	}

	total := 0
	sum.MinGlucose, sum.MaxGlucose = records[0].GlucoseLevel, records[0].GlucoseLevel
	for _, r := range records {
		total += r.GlucoseLevel
		if r.GlucoseLevel < sum.MinGlucose {
			sum.MinGlucose = r.GlucoseLevel
		}
		if r.GlucoseLevel > sum.MaxGlucose {
			sum.MaxGlucose = r.GlucoseLevel
		}
		if r.InsulinUnits != nil {
			sum.TotalInsulin += *r.InsulinUnits
		}
		if sum.LatestHbA1c == nil && r.HbA1c != nil {
			v := *r.HbA1c
			sum.LatestHbA1c = &v
		}
		sum.StatusCounts[ClassifyGlucose(r.GlucoseLevel)]++
	}
	sum.AvgGlucose = int(math.Round(float64(total) / float64(len(records))))
	sum.AvgInsulinPerApplication = roundOne(sum.TotalInsulin / float64(len(records)))
	sum.TotalInsulin = roundOne(sum.TotalInsulin)
	return sum
}

// dailyBuckets groups by UTC day, oldest first.
func dailyBuckets(records []models.GlucoseRecord) []DailyBucket {
	buckets := []DailyBucket{}
	totals := []int{}
	for i := len(records) - 1; i >= 0; i-- {
		day := records[i].CreatedAt.UTC().Format(time.DateOnly)
		n := len(buckets)
		if n == 0 || buckets[n-1].Date != day {
			buckets = append(buckets, DailyBucket{Date: day})
			totals = append(totals, 0)
			n++
		}
		buckets[n-1].Count++
		totals[n-1] += records[i].GlucoseLevel
	}
	for i := range buckets {
		buckets[i].AvgGlucose = int(math.Round(float64(totals[i]) / float64(buckets[i].Count)))
	}
	return buckets
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}

var csvHeader = []string{"measured_at", "glucose_level", "status", "insulin_units", "hba1c", "note"}

// WriteCSV renders the report's records, newest first.
func WriteCSV(w io.Writer, report *Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range report.Records {
		row := []string{
			r.MeasuredAt.UTC().Format(time.RFC3339),
			strconv.Itoa(r.GlucoseLevel),
			r.Status,
			formatOptional(r.InsulinUnits),
			formatOptional(r.HbA1c),
			"",
		}
		if r.Note != nil {
			row[5] = neutralizeFormula(*r.Note)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// neutralizeFormula prefixes cells that spreadsheet tools would evaluate as
// formulas with a single quote.
func neutralizeFormula(cell string) string {
	if cell != "" && strings.ContainsRune("=+-@\t\r", rune(cell[0])) {
		return "'" + cell
	}
	return cell
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Archive renders the report as CSV, uploads it and returns a presigned URL.
func (s *ReportService) Archive(ctx context.Context, principal types.Principal, targetUserID uuid.UUID, period Period) (*types.ArchiveResponse, error) {
	if s.archive == nil {
		return nil, apperrors.ErrArchiveDisabled
	}

	report, err := s.Build(ctx, principal, targetUserID, period)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, report); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	key := fmt.Sprintf("reports/%s/%s-%s.csv", targetUserID, period, report.GeneratedAt.Format("20060102T150405Z"))
	url, err := s.archive.Archive(ctx, key, "text/csv", buf.Bytes())
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrorTypeUnavailable, "ARCHIVE_FAILED", "could not archive the report, please try again")
	}

	logger.Info("report archived", "user_id", principal.UserID, "patient_id", targetUserID, "object_key", key)
	return &types.ArchiveResponse{
		URL:       url,
		ObjectKey: key,
		ExpiresAt: report.GeneratedAt.Add(s.urlExpiry),
	}, nil
}
