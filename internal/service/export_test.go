package service

import "time"

func (s *GlucoseService) SetClock(now func() time.Time) { s.now = now }

func (s *ReportService) SetClock(now func() time.Time) { s.now = now }
