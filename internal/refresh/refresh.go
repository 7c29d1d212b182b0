// Package refresh periodically re-runs the analysis pipeline for every
// active campaign against every connected integration on the campaign's
// platform, keeping stored run summaries current without manual requests.
package refresh

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"marketpulse/app"
	"marketpulse/domain/core"
	"marketpulse/domain/normalize"
	"marketpulse/internal"
	"marketpulse/models"
	"marketpulse/ports"
)

// Scheduler drives periodic refresh cycles. At most one run is in flight
// per (campaign, integration) pair at any time; a pair still running when
// the next tick fires is skipped, not queued.
type Scheduler struct {
	campaigns    ports.CampaignRepository
	integrations ports.IntegrationRepository
	analysis     *app.AnalysisService
	interval     time.Duration
	workers      int
	logger       *internal.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewScheduler creates a refresh scheduler
func NewScheduler(
	campaigns ports.CampaignRepository,
	integrations ports.IntegrationRepository,
	analysis *app.AnalysisService,
	interval time.Duration,
	workers int,
	logger *internal.Logger,
) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Scheduler{
		campaigns:    campaigns,
		integrations: integrations,
		analysis:     analysis,
		interval:     interval,
		workers:      workers,
		logger:       logger,
		inFlight:     make(map[string]struct{}),
	}
}

// Run blocks until ctx is cancelled, firing a refresh cycle every
// interval. The first cycle runs immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("refresh scheduler started: interval=%s workers=%d", s.interval, s.workers)

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("refresh cycle failed: %v", err)
		}
		select {
		case <-ctx.Done():
			s.logger.Info("refresh scheduler stopping")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce executes a single refresh cycle. Per-pair failures are logged
// and do not abort the rest of the cycle; only listing failures do.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	campaigns, err := s.campaigns.List(ctx)
	if err != nil {
		return fmt.Errorf("refresh: list campaigns: %w", err)
	}
	integrations, err := s.integrations.ListConnected(ctx)
	if err != nil {
		return fmt.Errorf("refresh: list integrations: %w", err)
	}

	pairs := matchPairs(campaigns, integrations)
	if len(pairs) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, p := range pairs {
		p := p
		if !s.claim(p) {
			s.logger.Debug("refresh: pair %s still running, skipping", p.key())
			continue
		}
		g.Go(func() error {
			defer s.release(p)
			_, _, err := s.analysis.AnalyzeStored(gctx, p.campaign, p.integration, nil)
			if err != nil {
				s.logger.Warn("refresh: campaign %s via %s failed: %v", p.campaign, p.integration, err)
			}
			return nil
		})
	}

	return g.Wait()
}

type pair struct {
	campaign    core.CampaignID
	integration core.IntegrationID
}

func (p pair) key() string {
	return p.campaign.String() + "/" + p.integration.String()
}

func (s *Scheduler) claim(p pair) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[p.key()]; busy {
		return false
	}
	s.inFlight[p.key()] = struct{}{}
	return true
}

func (s *Scheduler) release(p pair) {
	s.mu.Lock()
	delete(s.inFlight, p.key())
	s.mu.Unlock()
}

// matchPairs joins active campaigns to connected integrations on
// canonical platform name.
func matchPairs(campaigns []models.Campaign, integrations []models.Integration) []pair {
	var pairs []pair
	for _, c := range campaigns {
		if c.Status != models.CampaignActive {
			continue
		}
		platform := normalize.PlatformName(c.Platform)
		for _, i := range integrations {
			if normalize.PlatformName(i.Platform) == platform {
				pairs = append(pairs, pair{campaign: c.ID, integration: i.ID})
			}
		}
	}
	return pairs
}
