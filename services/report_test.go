package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"car-scraper/models"
	"car-scraper/utils"
)

func TestReportCounts(t *testing.T) {
	svc := NewReportService(utils.Discard())
	r := svc.Start("c1")

	svc.RecordNotified(r, models.Listing{Source: models.SourceDrom, RawPrice: "400 000"})
	svc.RecordNotified(r, models.Listing{Source: models.SourceDrom, RawPrice: "320 000"})
	svc.RecordNotified(r, models.Listing{Source: models.SourceAutoRu, RawPrice: "480 000"})

	assert.Equal(t, 3, r.Notified)
	assert.Equal(t, 2, r.NotifiedBySource[models.SourceDrom])
	assert.Equal(t, 1, r.NotifiedBySource[models.SourceAutoRu])
	assert.Equal(t, 320000, r.MinPrice)
	assert.Equal(t, 480000, r.MaxPrice)
}

func TestReportIgnoresUnpricedForRange(t *testing.T) {
	svc := NewReportService(utils.Discard())
	r := svc.Start("c1")

	svc.RecordNotified(r, models.Listing{Source: models.SourceAvito, RawPrice: ""})

	assert.Equal(t, 1, r.Notified)
	assert.Zero(t, r.MinPrice)
	assert.Zero(t, r.MaxPrice)
}

func TestReportFinishLogs(t *testing.T) {
	var out bytes.Buffer
	svc := NewReportService(utils.NewLoggerTo(&out, &out))
	r := svc.Start("c42")
	svc.RecordNotified(r, models.Listing{Source: models.SourceAvito, RawPrice: "410 000"})

	svc.Finish(r)

	assert.False(t, r.FinishedAt.IsZero())
	assert.Contains(t, out.String(), "cycle c42")
	assert.Contains(t, out.String(), "Avito.ru")
	assert.Contains(t, out.String(), "410,000-410,000")
}
