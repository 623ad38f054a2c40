package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"washbooking/internal/domain"
	"washbooking/internal/draft"
)

var ErrStepMismatch = errors.New("input does not match the current wizard step")

// ValidationError carries every field that failed the current step's checks
// so the client can show them all at once.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid or missing fields: " + strings.Join(e.Fields, ", ")
}

type WizardUseCase interface {
	Start(ctx context.Context, input StartInput) (*domain.BookingDraft, error)
	Get(ctx context.Context, id string) (*domain.BookingDraft, error)
	Continue(ctx context.Context, id string, input StepInput) (*domain.BookingDraft, error)
	Back(ctx context.Context, id string) (*domain.BookingDraft, error)
	Abandon(ctx context.Context, id string) error
}

type Catalog interface {
	ResolveSelection(ctx context.Context, keys []string, vehicleType domain.VehicleType) (*domain.Selection, error)
}

type WizardService struct {
	drafts  draft.Store
	catalog Catalog
	logger  *zap.Logger
}

func NewWizardService(drafts draft.Store, catalog Catalog, logger *zap.Logger) *WizardService {
	return &WizardService{drafts: drafts, catalog: catalog, logger: logger}
}

type StartInput struct {
	CustomerID string `json:"customer_id"`
	WorkerID   string `json:"worker_id"`
	ServiceID  string `json:"service_id"`
}

type ScheduleInput struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type VehicleInput struct {
	Type  domain.VehicleType `json:"type"`
	Make  string             `json:"make"`
	Model string             `json:"model"`
	Year  int                `json:"year"`
	Color string             `json:"color"`
	Plate string             `json:"plate"`
}

type ServicesInput struct {
	Keys                []string `json:"keys"`
	SpecialInstructions string   `json:"special_instructions"`
}

type LocationInput struct {
	Address     string              `json:"address"`
	Coordinates *domain.Coordinates `json:"coordinates"`
}

type PaymentInput struct {
	Method domain.PaymentMethod `json:"method"`
}

// StepInput carries the slice of data for exactly one step. Step must match
// the draft's current position; the wizard rejects out-of-order entry.
type StepInput struct {
	Step     int            `json:"step"`
	Schedule *ScheduleInput `json:"schedule,omitempty"`
	Vehicle  *VehicleInput  `json:"vehicle,omitempty"`
	Services *ServicesInput `json:"services,omitempty"`
	Location *LocationInput `json:"location,omitempty"`
	Payment  *PaymentInput  `json:"payment,omitempty"`
}

func (s *WizardService) Start(ctx context.Context, input StartInput) (*domain.BookingDraft, error) {
	var missing []string
	if input.CustomerID == "" {
		missing = append(missing, "customer_id")
	}
	if input.WorkerID == "" {
		missing = append(missing, "worker_id")
	}
	if input.ServiceID == "" {
		missing = append(missing, "service_id")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	d, err := s.drafts.Create(ctx, input.CustomerID, input.WorkerID, input.ServiceID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("wizard started", zap.String("draft_id", d.ID), zap.String("customer_id", d.CustomerID))
	return d, nil
}

func (s *WizardService) Get(ctx context.Context, id string) (*domain.BookingDraft, error) {
	return s.drafts.Get(ctx, id)
}

// Continue validates the submitted slice against the draft's current step,
// merges it and advances. A failed validation leaves the draft untouched.
func (s *WizardService) Continue(ctx context.Context, id string, input StepInput) (*domain.BookingDraft, error) {
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Step != d.Step {
		return nil, fmt.Errorf("%w: draft is at step %d, got %d", ErrStepMismatch, d.Step, input.Step)
	}

	var patch domain.DraftPatch
	switch d.Step {
	case domain.StepSchedule:
		patch, err = s.schedulePatch(input.Schedule)
	case domain.StepVehicle:
		patch, err = s.vehiclePatch(input.Vehicle)
	case domain.StepServices:
		patch, err = s.servicesPatch(ctx, input.Services, d.VehicleType)
	case domain.StepLocation:
		patch, err = s.locationPatch(input.Location)
	case domain.StepPayment:
		patch, err = s.paymentPatch(input.Payment)
	default:
		return nil, fmt.Errorf("draft %s has invalid step %d", d.ID, d.Step)
	}
	if err != nil {
		return nil, err
	}

	next := d.Step
	if next < domain.StepLast {
		next++
	}
	patch.Step = &next

	updated, err := s.drafts.Apply(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("wizard step completed", zap.String("draft_id", id), zap.Int("step", d.Step))
	return updated, nil
}

// Back moves one step towards the start without touching collected fields.
func (s *WizardService) Back(ctx context.Context, id string) (*domain.BookingDraft, error) {
	d, err := s.drafts.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Step <= domain.StepFirst {
		return d, nil
	}
	prev := d.Step - 1
	return s.drafts.Apply(ctx, id, domain.DraftPatch{Step: &prev})
}

func (s *WizardService) Abandon(ctx context.Context, id string) error {
	return s.drafts.Delete(ctx, id)
}

func (s *WizardService) schedulePatch(in *ScheduleInput) (domain.DraftPatch, error) {
	if in == nil {
		return domain.DraftPatch{}, &ValidationError{Fields: []string{"date", "time"}}
	}
	var bad []string
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		bad = append(bad, "date")
	}
	if _, err := time.Parse("15:04", in.Time); err != nil {
		bad = append(bad, "time")
	}
	if len(bad) > 0 {
		return domain.DraftPatch{}, &ValidationError{Fields: bad}
	}
	return domain.DraftPatch{Date: &in.Date, Time: &in.Time}, nil
}

func (s *WizardService) vehiclePatch(in *VehicleInput) (domain.DraftPatch, error) {
	if in == nil || !in.Type.Valid() {
		return domain.DraftPatch{}, &ValidationError{Fields: []string{"vehicle_type"}}
	}
	return domain.DraftPatch{
		VehicleType:  &in.Type,
		VehicleMake:  &in.Make,
		VehicleModel: &in.Model,
		VehicleYear:  &in.Year,
		VehicleColor: &in.Color,
		LicensePlate: &in.Plate,
	}, nil
}

func (s *WizardService) servicesPatch(ctx context.Context, in *ServicesInput, vehicleType domain.VehicleType) (domain.DraftPatch, error) {
	if in == nil || len(in.Keys) == 0 {
		return domain.DraftPatch{}, &ValidationError{Fields: []string{"selected_services"}}
	}

	keys := dedupe(in.Keys)
	selection, err := s.catalog.ResolveSelection(ctx, keys, vehicleType)
	if err != nil {
		return domain.DraftPatch{}, err
	}

	// Prices are locked in here. The total is not revalidated against the
	// live catalog at submission time.
	total := selection.Total
	return domain.DraftPatch{
		SelectedServices:    keys,
		ServicesTotal:       &total,
		EstimatedDuration:   &selection.DurationMinutes,
		FinalPrice:          &total,
		SpecialInstructions: &in.SpecialInstructions,
	}, nil
}

func (s *WizardService) locationPatch(in *LocationInput) (domain.DraftPatch, error) {
	if in == nil || strings.TrimSpace(in.Address) == "" {
		return domain.DraftPatch{}, &ValidationError{Fields: []string{"address"}}
	}
	if c := in.Coordinates; c != nil {
		if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
			return domain.DraftPatch{}, &ValidationError{Fields: []string{"coordinates"}}
		}
	}
	patch := domain.DraftPatch{Address: &in.Address}
	if in.Coordinates != nil {
		patch.Coordinates = in.Coordinates
	}
	return patch, nil
}

func (s *WizardService) paymentPatch(in *PaymentInput) (domain.DraftPatch, error) {
	if in == nil || !in.Method.Valid() {
		return domain.DraftPatch{}, &ValidationError{Fields: []string{"payment_method"}}
	}
	if !in.Method.Enabled() {
		return domain.DraftPatch{}, fmt.Errorf("payment method %q is not available yet", in.Method)
	}
	return domain.DraftPatch{PaymentMethod: &in.Method}, nil
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

var _ WizardUseCase = (*WizardService)(nil)
