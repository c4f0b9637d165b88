package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"car-scraper/models"
	"car-scraper/notifier"
	"car-scraper/storage"
	"car-scraper/utils"
)

// Collector yields the new listings of one site that pass the filter.
type Collector interface {
	Source() models.Source
	Collect(ctx context.Context, seen *utils.SeenSet, filter *Filter) []models.Listing
}

// Phase names the step a cycle is in.
type Phase string

const (
	PhaseIdle       Phase = "Idle"
	PhaseNotifying  Phase = "Notifying"
	PhasePersisting Phase = "Persisting"
)

// FetchingPhase is the phase while src is being scraped.
func FetchingPhase(src models.Source) Phase {
	return Phase("Fetching(" + src.String() + ")")
}

// Orchestrator runs scrape-and-notify cycles. It owns the seen-set: an ID is
// added only after its notification was delivered, and the whole set is
// saved once at the end of each cycle.
type Orchestrator struct {
	collectors []Collector
	filter     *Filter
	notifier   notifier.Notifier
	store      storage.SeenStore
	seen       *utils.SeenSet
	reports    *ReportService
	logger     *utils.Logger

	mu    sync.Mutex
	phase Phase
}

// NewOrchestrator wires the cycle dependencies. collectors run in the order
// given.
func NewOrchestrator(collectors []Collector, filter *Filter, n notifier.Notifier, store storage.SeenStore, seen *utils.SeenSet, logger *utils.Logger) *Orchestrator {
	return &Orchestrator{
		collectors: collectors,
		filter:     filter,
		notifier:   n,
		store:      store,
		seen:       seen,
		reports:    NewReportService(logger),
		logger:     logger.With("orchestrator"),
		phase:      PhaseIdle,
	}
}

// Phase reports the step the current cycle is in.
func (o *Orchestrator) Phase() Phase {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.phase
}

func (o *Orchestrator) setPhase(p Phase) {
	o.mu.Lock()
	o.phase = p
	o.mu.Unlock()
	o.logger.Debug("phase -> %s", p)
}

// Seen exposes the seen-set.
func (o *Orchestrator) Seen() *utils.SeenSet {
	return o.seen
}

// RunCycle scrapes every site, notifies new accepted listings, sends a
// summary when anything was notified and persists the seen-set. A panic
// anywhere in the cycle is recovered and returned as an error after a
// best-effort error notification.
func (o *Orchestrator) RunCycle(ctx context.Context) (report *models.CycleReport, err error) {
	report = o.reports.Start(uuid.NewString())
	persisted := false

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cycle %s: panic: %v", report.CycleID, r)
			o.logger.Error("%v", err)
			if !persisted {
				o.persist(ctx, report)
			}
			o.sendBestEffort(ctx, FormatCycleError(err))
			o.reports.Finish(report)
		}
		o.setPhase(PhaseIdle)
	}()

	o.logger.Info("cycle %s started, %d ids already seen", report.CycleID, o.seen.Size())

	var accepted []models.Listing
	for _, c := range o.collectors {
		o.setPhase(FetchingPhase(c.Source()))
		found := c.Collect(ctx, o.seen, o.filter)
		o.logger.Info("%s: %d accepted", c.Source(), len(found))
		accepted = append(accepted, found...)
	}
	report.Accepted = len(accepted)

	o.setPhase(PhaseNotifying)
	for _, l := range accepted {
		if o.seen.Contains(l.ID) {
			continue
		}
		if err := o.notifier.Send(ctx, FormatListing(l)); err != nil {
			report.Failed++
			o.logger.Error("notify %s %s: %v", l.Source, l.ID, err)
			continue
		}
		o.seen.Add(l.ID)
		o.reports.RecordNotified(report, l)
	}

	if report.Notified > 0 {
		o.logger.Info("sent %d new listings", report.Notified)
		o.sendBestEffort(ctx, FormatSummary(report, o.filter.Config()))
	} else {
		o.logger.Info("no new listings")
	}

	persisted = true
	o.persist(ctx, report)

	o.reports.Finish(report)
	return report, nil
}

// persist saves the seen-set. Failures are logged and the in-memory set is
// kept, so the next cycle tries again with everything.
func (o *Orchestrator) persist(ctx context.Context, report *models.CycleReport) {
	o.setPhase(PhasePersisting)
	if err := o.store.Save(context.WithoutCancel(ctx), o.seen.IDs()); err != nil {
		o.logger.Error("persist seen-set: %v", err)
		return
	}
	report.Persisted = true
}

func (o *Orchestrator) sendBestEffort(ctx context.Context, text string) {
	if err := o.notifier.Send(context.WithoutCancel(ctx), text); err != nil {
		o.logger.Error("notify: %v", err)
	}
}
