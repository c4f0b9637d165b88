package services

import (
	"time"

	"car-scraper/models"
	"car-scraper/utils"
)

// ReportService accumulates per-cycle statistics and logs them at the end
// of the cycle.
type ReportService struct {
	logger *utils.Logger
}

func NewReportService(logger *utils.Logger) *ReportService {
	return &ReportService{logger: logger}
}

// Start opens a report for a new cycle.
func (s *ReportService) Start(cycleID string) *models.CycleReport {
	return &models.CycleReport{
		CycleID:          cycleID,
		StartedAt:        time.Now(),
		NotifiedBySource: make(map[models.Source]int),
	}
}

// RecordNotified adds a successfully delivered listing to the report.
func (s *ReportService) RecordNotified(r *models.CycleReport, l models.Listing) {
	r.Notified++
	r.NotifiedBySource[l.Source]++

	price := ExtractPrice(l.RawPrice)
	if price <= 0 {
		return
	}
	if r.MinPrice == 0 || price < r.MinPrice {
		r.MinPrice = price
	}
	if price > r.MaxPrice {
		r.MaxPrice = price
	}
}

// Finish stamps the report and logs its totals.
func (s *ReportService) Finish(r *models.CycleReport) {
	r.FinishedAt = time.Now()

	s.logger.Info("[report] cycle %s: accepted %d | notified %d | failed %d | persisted %t | took %v",
		r.CycleID, r.Accepted, r.Notified, r.Failed, r.Persisted, r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))

	for _, src := range []models.Source{models.SourceDrom, models.SourceAutoRu, models.SourceAvito} {
		if n := r.NotifiedBySource[src]; n > 0 {
			s.logger.Info("[report]   %-10s %d new", src, n)
		}
	}
	if r.MinPrice > 0 {
		s.logger.Info("[report]   price range %s-%s", groupThousands(r.MinPrice), groupThousands(r.MaxPrice))
	}
}
