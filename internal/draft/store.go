package draft

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"washbooking/internal/domain"
)

var ErrNotFound = errors.New("draft not found")

// Store holds in-progress booking drafts. Drafts are deliberately not
// persisted: an abandoned wizard is swept after a TTL and a process restart
// starts everyone over, matching the lifetime of the client-side flow.
type Store interface {
	Create(ctx context.Context, customerID, workerID, serviceID string) (*domain.BookingDraft, error)
	Get(ctx context.Context, id string) (*domain.BookingDraft, error)
	Apply(ctx context.Context, id string, patch domain.DraftPatch) (*domain.BookingDraft, error)
	Delete(ctx context.Context, id string) error
	ExpireStaleBefore(ctx context.Context, deadline time.Time) (int, error)
}

type MemoryStore struct {
	mu         sync.RWMutex
	drafts     map[string]*domain.BookingDraft
	byCustomer map[string]string
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		drafts:     make(map[string]*domain.BookingDraft),
		byCustomer: make(map[string]string),
		now:        time.Now,
	}
}

// Create starts a fresh draft at step 1. A customer gets exactly one active
// draft: re-entering the wizard replaces whatever was left behind, so a new
// attempt never sees stale fields from an abandoned one.
func (s *MemoryStore) Create(ctx context.Context, customerID, workerID, serviceID string) (*domain.BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.byCustomer[customerID]; ok {
		delete(s.drafts, old)
	}

	now := s.now()
	d := &domain.BookingDraft{
		ID:               uuid.NewString(),
		CustomerID:       customerID,
		WorkerID:         workerID,
		ServiceID:        serviceID,
		Step:             domain.StepFirst,
		SelectedServices: []string{},
		PaymentMethod:    domain.PaymentCash,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.drafts[d.ID] = d
	s.byCustomer[customerID] = d.ID
	return cloneDraft(d), nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.BookingDraft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDraft(d), nil
}

// Apply shallow-merges the patch into the draft. Nil patch fields leave the
// stored value alone; set fields replace it wholesale (last writer wins).
func (s *MemoryStore) Apply(ctx context.Context, id string, patch domain.DraftPatch) (*domain.BookingDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrNotFound
	}

	if patch.WorkerID != nil {
		d.WorkerID = *patch.WorkerID
	}
	if patch.ServiceID != nil {
		d.ServiceID = *patch.ServiceID
	}
	if patch.Step != nil {
		d.Step = *patch.Step
	}
	if patch.Date != nil {
		d.Date = *patch.Date
	}
	if patch.Time != nil {
		d.Time = *patch.Time
	}
	if patch.VehicleType != nil {
		d.VehicleType = *patch.VehicleType
	}
	if patch.VehicleMake != nil {
		d.VehicleMake = *patch.VehicleMake
	}
	if patch.VehicleModel != nil {
		d.VehicleModel = *patch.VehicleModel
	}
	if patch.VehicleYear != nil {
		d.VehicleYear = *patch.VehicleYear
	}
	if patch.VehicleColor != nil {
		d.VehicleColor = *patch.VehicleColor
	}
	if patch.LicensePlate != nil {
		d.LicensePlate = *patch.LicensePlate
	}
	if patch.SelectedServices != nil {
		d.SelectedServices = append([]string(nil), patch.SelectedServices...)
	}
	if patch.ServicesTotal != nil {
		d.ServicesTotal = *patch.ServicesTotal
	}
	if patch.EstimatedDuration != nil {
		d.EstimatedDuration = *patch.EstimatedDuration
	}
	if patch.Address != nil {
		d.Address = *patch.Address
	}
	if patch.Coordinates != nil {
		c := *patch.Coordinates
		d.Coordinates = &c
	}
	if patch.PaymentMethod != nil {
		d.PaymentMethod = *patch.PaymentMethod
	}
	if patch.SpecialInstructions != nil {
		d.SpecialInstructions = *patch.SpecialInstructions
	}
	if patch.FinalPrice != nil {
		d.FinalPrice = *patch.FinalPrice
	}

	d.UpdatedAt = s.now()
	return cloneDraft(d), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return ErrNotFound
	}
	delete(s.drafts, id)
	if s.byCustomer[d.CustomerID] == id {
		delete(s.byCustomer, d.CustomerID)
	}
	return nil
}

// ExpireStaleBefore drops drafts not touched since deadline and reports how
// many were removed.
func (s *MemoryStore) ExpireStaleBefore(ctx context.Context, deadline time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, d := range s.drafts {
		if d.UpdatedAt.Before(deadline) {
			delete(s.drafts, id)
			if s.byCustomer[d.CustomerID] == id {
				delete(s.byCustomer, d.CustomerID)
			}
			removed++
		}
	}
	return removed, nil
}

func cloneDraft(d *domain.BookingDraft) *domain.BookingDraft {
	c := *d
	c.SelectedServices = append([]string(nil), d.SelectedServices...)
	if d.Coordinates != nil {
		coords := *d.Coordinates
		c.Coordinates = &coords
	}
	return &c
}

var _ Store = (*MemoryStore)(nil)
