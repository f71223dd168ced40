package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/glucolink/backend/internal/apperrors"
	"github.com/pageza/glucolink/backend/internal/service"
	"github.com/pageza/glucolink/backend/internal/testhelpers"
	"github.com/pageza/glucolink/backend/internal/types"
)

type fakeArchive struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakeArchive) Archive(_ context.Context, key, contentType string, body []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.key, f.contentType, f.body = key, contentType, body
	return "https://example.com/" + key, nil
}

func TestParsePeriod(t *testing.T) {
	p, err := service.ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, service.PeriodAll, p)

	p, err = service.ParsePeriod("This_Month")
	require.NoError(t, err)
	assert.Equal(t, service.PeriodThisMonth, p)

	_, err = service.ParsePeriod("90d")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPeriod)
}

func TestPeriodSince(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	assert.Nil(t, service.PeriodAll.Since(now))
	assert.Equal(t, time.Date(2024, 3, 8, 10, 30, 0, 0, time.UTC), *service.Period7Days.Since(now))
	assert.Equal(t, time.Date(2024, 2, 14, 10, 30, 0, 0, time.UTC), *service.Period30Days.Since(now))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *service.PeriodThisMonth.Since(now))
}

func TestPeriodSinceIgnoresServerZone(t *testing.T) {
	brt := time.FixedZone("BRT", -3*60*60)
	// 22:00 on Feb 29 in UTC-3 is already March 1 in UTC.
	now := time.Date(2024, 2, 29, 22, 0, 0, 0, brt)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *service.PeriodThisMonth.Since(now))
	assert.Equal(t, time.Date(2024, 2, 23, 1, 0, 0, 0, time.UTC), *service.Period7Days.Since(now))
}

func TestThisMonthWindowMatchesForListAndReport(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	p := testhelpers.CreatePatient(t, db, "Maria")
	testhelpers.AddReading(t, db, p, 110, nil, time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC))
	testhelpers.AddReading(t, db, p, 120, nil, time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC))

	clock := func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.FixedZone("BRT", -3*60*60))
	}
	access := service.NewAccessResolver(store)
	records := service.NewGlucoseService(store, access)
	records.SetClock(clock)
	reports := service.NewReportService(store, store, access, nil, 0)
	reports.SetClock(clock)

	listed, err := records.ListRecords(ctx, principalOf(p), p.UserID, service.PeriodThisMonth)
	require.NoError(t, err)
	report, err := reports.Build(ctx, principalOf(p), p.UserID, service.PeriodThisMonth)
	require.NoError(t, err)

	require.Len(t, listed, 1)
	require.Len(t, report.Records, 1)
	assert.Equal(t, listed[0].ID, report.Records[0].ID)
	assert.Equal(t, 110, report.Records[0].GlucoseLevel)
}

func TestBuildReportSummary(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	p := testhelpers.CreatePatient(t, db, "Maria")
	g := testhelpers.CreateGuardian(t, db, "G")
	testhelpers.Link(t, db, g, p)

	day1 := time.Now().UTC().AddDate(0, 0, -2).Truncate(24 * time.Hour).Add(8 * time.Hour)
	day2 := day1.Add(24 * time.Hour)
	testhelpers.AddReading(t, db, p, 60, testhelpers.Float(2), day1)
	testhelpers.AddReading(t, db, p, 101, nil, day1.Add(4*time.Hour))
	last := testhelpers.AddReading(t, db, p, 250, testhelpers.Float(5.5), day2)
	require.NoError(t, db.Model(last).Update("hba1c", 7.1).Error)

	access := service.NewAccessResolver(store)
	reports := service.NewReportService(store, store, access, nil, 0)

	report, err := reports.Build(ctx, principalOf(g), p.UserID, service.PeriodAll)
	require.NoError(t, err)
	assert.Equal(t, "Maria", report.PatientName)
	assert.Nil(t, report.From)

	s := report.Summary
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 137, s.AvgGlucose)
	assert.Equal(t, 60, s.MinGlucose)
	assert.Equal(t, 250, s.MaxGlucose)
	assert.Equal(t, 7.5, s.TotalInsulin)
	assert.Equal(t, 2.5, s.AvgInsulinPerApplication)
	require.NotNil(t, s.LatestHbA1c)
	assert.Equal(t, 7.1, *s.LatestHbA1c)
	assert.Equal(t, 1, s.StatusCounts[service.StatusLow])
	assert.Equal(t, 1, s.StatusCounts[service.StatusNormal])
	assert.Equal(t, 1, s.StatusCounts[service.StatusVeryHigh])

	require.Len(t, report.Daily, 2)
	assert.Equal(t, day1.Format(time.DateOnly), report.Daily[0].Date)
	assert.Equal(t, 2, report.Daily[0].Count)
	assert.Equal(t, 81, report.Daily[0].AvgGlucose)
	assert.Equal(t, 250, report.Daily[1].AvgGlucose)

	require.Len(t, report.Records, 3)
	assert.Equal(t, 250, report.Records[0].GlucoseLevel)
	assert.Equal(t, service.StatusVeryHigh, report.Records[0].Status)
}

func TestBuildReportEmptyAndDenied(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	p := testhelpers.CreatePatient(t, db, "P")
	g := testhelpers.CreateGuardian(t, db, "G")
	reports := service.NewReportService(store, store, service.NewAccessResolver(store), nil, 0)

	report, err := reports.Build(ctx, principalOf(p), p.UserID, service.Period7Days)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Summary.Count)
	assert.Empty(t, report.Daily)
	assert.NotNil(t, report.From)

	_, err = reports.Build(ctx, principalOf(g), p.UserID, service.PeriodAll)
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
}

func TestWriteCSV(t *testing.T) {
	db, store := setupStore(t)
	p := testhelpers.CreatePatient(t, db, "P")
	rec := testhelpers.AddReading(t, db, p, 180, testhelpers.Float(3.5), testhelpers.HoursAgo(1))
	require.NoError(t, db.Model(rec).Update("note", "after, lunch").Error)
	reports := service.NewReportService(store, store, service.NewAccessResolver(store), nil, 0)

	report, err := reports.Build(context.Background(), principalOf(p), p.UserID, service.PeriodAll)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, service.WriteCSV(&buf, report))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "measured_at", rows[0][0])
	assert.Equal(t, []string{"180", "high", "3.5", "", "after, lunch"}, rows[1][1:])
}

func TestWriteCSVNeutralizesFormulas(t *testing.T) {
	report := &service.Report{}
	for _, note := range []string{`=HYPERLINK("http://evil","x")`, "+1", "-2", "@SUM(A1)", "fine"} {
		n := note
		report.Records = append(report.Records, types.GlucoseRecordResponse{GlucoseLevel: 100, Status: service.StatusNormal, Note: &n})
	}

	var buf bytes.Buffer
	require.NoError(t, service.WriteCSV(&buf, report))
	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)

	notes := make([]string, 0, 5)
	for _, row := range rows[1:] {
		notes = append(notes, row[5])
	}
	assert.Equal(t, []string{`'=HYPERLINK("http://evil","x")`, "'+1", "'-2", "'@SUM(A1)", "fine"}, notes)
}

func TestArchiveReport(t *testing.T) {
	db, store := setupStore(t)
	ctx := context.Background()
	p := testhelpers.CreatePatient(t, db, "P")
	testhelpers.AddReading(t, db, p, 120, nil, testhelpers.HoursAgo(1))
	access := service.NewAccessResolver(store)

	disabled := service.NewReportService(store, store, access, nil, 0)
	_, err := disabled.Archive(ctx, principalOf(p), p.UserID, service.PeriodAll)
	assert.ErrorIs(t, err, apperrors.ErrArchiveDisabled)

	archive := &fakeArchive{}
	reports := service.NewReportService(store, store, access, archive, 15*time.Minute)
	resp, err := reports.Archive(ctx, principalOf(p), p.UserID, service.Period30Days)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", archive.contentType)
	assert.True(t, strings.HasPrefix(archive.key, "reports/"+p.UserID.String()+"/30d-"))
	assert.Equal(t, "https://example.com/"+archive.key, resp.URL)
	assert.Contains(t, string(archive.body), "120")

	failing := service.NewReportService(store, store, access, &fakeArchive{err: errors.New("s3 down")}, time.Minute)
	_, err = failing.Archive(ctx, principalOf(p), p.UserID, service.PeriodAll)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeUnavailable, apperrors.As(err).Type)
}
