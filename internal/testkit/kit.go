// Package testkit provides in-memory adapters and table fixtures for
// tests. Nothing here touches a database or the network.
package testkit

import (
	"context"
	"sort"
	"sync"

	"marketpulse/domain/core"
	"marketpulse/domain/table"
	"marketpulse/models"
	"marketpulse/ports"
)

// InMemoryCampaignRepository is a map-backed campaign store
type InMemoryCampaignRepository struct {
	mu    sync.RWMutex
	items map[core.CampaignID]models.Campaign
}

// NewInMemoryCampaignRepository creates an empty campaign store
func NewInMemoryCampaignRepository() *InMemoryCampaignRepository {
	return &InMemoryCampaignRepository{items: make(map[core.CampaignID]models.Campaign)}
}

func (r *InMemoryCampaignRepository) Create(_ context.Context, c *models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[c.ID] = *c
	return nil
}

func (r *InMemoryCampaignRepository) GetByID(_ context.Context, id core.CampaignID) (*models.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, core.NewNotFoundError("campaign", id.String())
	}
	copied := c
	return &copied, nil
}

func (r *InMemoryCampaignRepository) List(_ context.Context) ([]models.Campaign, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Campaign, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryCampaignRepository) Update(_ context.Context, c *models.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[c.ID]; !ok {
		return core.NewNotFoundError("campaign", c.ID.String())
	}
	r.items[c.ID] = *c
	return nil
}

func (r *InMemoryCampaignRepository) Delete(_ context.Context, id core.CampaignID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return core.NewNotFoundError("campaign", id.String())
	}
	delete(r.items, id)
	return nil
}

// InMemoryIntegrationRepository is a map-backed integration store
type InMemoryIntegrationRepository struct {
	mu    sync.RWMutex
	items map[core.IntegrationID]models.Integration
}

// NewInMemoryIntegrationRepository creates an empty integration store
func NewInMemoryIntegrationRepository() *InMemoryIntegrationRepository {
	return &InMemoryIntegrationRepository{items: make(map[core.IntegrationID]models.Integration)}
}

func (r *InMemoryIntegrationRepository) Create(_ context.Context, i *models.Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[i.ID] = *i
	return nil
}

func (r *InMemoryIntegrationRepository) GetByID(_ context.Context, id core.IntegrationID) (*models.Integration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.items[id]
	if !ok {
		return nil, core.NewNotFoundError("integration", id.String())
	}
	copied := i
	return &copied, nil
}

func (r *InMemoryIntegrationRepository) List(_ context.Context) ([]models.Integration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Integration, 0, len(r.items))
	for _, i := range r.items {
		out = append(out, i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *InMemoryIntegrationRepository) ListConnected(ctx context.Context) ([]models.Integration, error) {
	all, _ := r.List(ctx)
	out := all[:0]
	for _, i := range all {
		if i.Status == models.IntegrationConnected {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *InMemoryIntegrationRepository) Update(_ context.Context, i *models.Integration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[i.ID]; !ok {
		return core.NewNotFoundError("integration", i.ID.String())
	}
	r.items[i.ID] = *i
	return nil
}

func (r *InMemoryIntegrationRepository) Delete(_ context.Context, id core.IntegrationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return core.NewNotFoundError("integration", id.String())
	}
	delete(r.items, id)
	return nil
}

// InMemoryRunRepository is a slice-backed run store
type InMemoryRunRepository struct {
	mu   sync.RWMutex
	runs []models.AnalysisRun
}

// NewInMemoryRunRepository creates an empty run store
func NewInMemoryRunRepository() *InMemoryRunRepository {
	return &InMemoryRunRepository{}
}

func (r *InMemoryRunRepository) Create(_ context.Context, run *models.AnalysisRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, *run)
	return nil
}

func (r *InMemoryRunRepository) ListByCampaign(_ context.Context, id core.CampaignID, limit int) ([]models.AnalysisRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.AnalysisRun
	for i := len(r.runs) - 1; i >= 0 && len(out) < limit; i-- {
		if r.runs[i].CampaignID == id {
			out = append(out, r.runs[i])
		}
	}
	return out, nil
}

func (r *InMemoryRunRepository) Latest(_ context.Context, campaign core.CampaignID, integration core.IntegrationID) (*models.AnalysisRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := len(r.runs) - 1; i >= 0; i-- {
		if r.runs[i].CampaignID == campaign && r.runs[i].IntegrationID == integration {
			copied := r.runs[i]
			return &copied, nil
		}
	}
	return nil, core.ErrRunNotFound
}

// StaticTableSource serves a fixed table for every integration, or a
// per-integration table when set. Err, when non-nil, wins.
type StaticTableSource struct {
	Table  table.RawTable
	Tables map[core.IntegrationID]table.RawTable
	Err    error
}

func (s *StaticTableSource) Fetch(_ context.Context, id core.IntegrationID) (table.RawTable, error) {
	if s.Err != nil {
		return table.RawTable{}, s.Err
	}
	if t, ok := s.Tables[id]; ok {
		return t, nil
	}
	return s.Table, nil
}

var _ ports.CampaignRepository = (*InMemoryCampaignRepository)(nil)
var _ ports.IntegrationRepository = (*InMemoryIntegrationRepository)(nil)
var _ ports.RunRepository = (*InMemoryRunRepository)(nil)
var _ ports.TableSource = (*StaticTableSource)(nil)
