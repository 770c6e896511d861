// Package memory keeps every entity of the earnings engine in process
// memory. It backs the "memory" storage driver and the use case tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"campaign-earnings/internal/core/domain"
)

type pairKey struct {
	campaignID uuid.UUID
	creatorID  uuid.UUID
}

type txKey struct{}

type state struct {
	campaigns    map[uuid.UUID]domain.Campaign
	applications map[uuid.UUID]domain.Application
	links        map[uuid.UUID]domain.ContentLink
	tracking     map[pairKey]domain.CampaignViewTracking
}

func (s state) clone() state {
	return state{
		campaigns:    maps.Clone(s.campaigns),
		applications: maps.Clone(s.applications),
		links:        maps.Clone(s.links),
		tracking:     maps.Clone(s.tracking),
	}
}

// Store holds all rows behind a single mutex. A transaction holds the mutex
// for its whole duration and restores a snapshot when it fails.
type Store struct {
	mu sync.Mutex
	state
}

func NewStore() *Store {
	return &Store{state: state{
		campaigns:    map[uuid.UUID]domain.Campaign{},
		applications: map[uuid.UUID]domain.Application{},
		links:        map[uuid.UUID]domain.ContentLink{},
		tracking:     map[pairKey]domain.CampaignViewTracking{},
	}}
}

// WithinTx implements port.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.state.clone()
	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock takes the store mutex unless ctx already runs inside a transaction
// of this store.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// PutCampaign stores a campaign projection. Campaigns are owned by another
// service; this is how they reach the memory driver.
func (s *Store) PutCampaign(c domain.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns[c.ID] = c
}

func (s *Store) Applications() *ApplicationRepository { return &ApplicationRepository{s: s} }
func (s *Store) ContentLinks() *ContentLinkRepository { return &ContentLinkRepository{s: s} }
func (s *Store) Campaigns() *CampaignRepository       { return &CampaignRepository{s: s} }
func (s *Store) ViewTracking() *ViewTrackingRepository {
	return &ViewTrackingRepository{s: s}
}
