package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wizard steps, in the order the customer walks through them.
const (
	StepSchedule = 1
	StepVehicle  = 2
	StepServices = 3
	StepLocation = 4
	StepPayment  = 5

	StepFirst = StepSchedule
	StepLast  = StepPayment
)

type VehicleType string

const (
	VehicleSedan       VehicleType = "sedan"
	VehicleSUV         VehicleType = "suv"
	VehicleHatchback   VehicleType = "hatchback"
	VehicleVan         VehicleType = "van"
	VehicleTruck       VehicleType = "truck"
	VehicleMotorcycle  VehicleType = "motorcycle"
	VehicleMoto49      VehicleType = "motor 49 CC"
	VehicleMotoPlus49  VehicleType = "motor plus 49 CC"
)

func (v VehicleType) Valid() bool {
	switch v {
	case VehicleSedan, VehicleSUV, VehicleHatchback, VehicleVan, VehicleTruck,
		VehicleMotorcycle, VehicleMoto49, VehicleMotoPlus49:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
	PaymentWallet PaymentMethod = "wallet"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobile, PaymentWallet:
		return true
	}
	return false
}

// Enabled reports whether the method can actually be charged.
// Only cash is wired up for now.
func (m PaymentMethod) Enabled() bool {
	return m == PaymentCash
}

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// BookingDraft accumulates everything the wizard collects before
// submission. It lives in memory only; a restart loses in-progress drafts.
type BookingDraft struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	WorkerID   string `json:"worker_id"`
	ServiceID  string `json:"service_id"`

	Step int `json:"step"`

	Date string `json:"date"` // 2006-01-02
	Time string `json:"time"` // 15:04

	VehicleType  VehicleType `json:"vehicle_type"`
	VehicleMake  string      `json:"vehicle_make,omitempty"`
	VehicleModel string      `json:"vehicle_model,omitempty"`
	VehicleYear  int         `json:"vehicle_year,omitempty"`
	VehicleColor string      `json:"vehicle_color,omitempty"`
	LicensePlate string      `json:"license_plate,omitempty"`

	SelectedServices  []string        `json:"selected_services"`
	ServicesTotal     decimal.Decimal `json:"services_total"`
	EstimatedDuration int             `json:"estimated_duration"` // minutes

	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`

	PaymentMethod       PaymentMethod `json:"payment_method"`
	SpecialInstructions string        `json:"special_instructions,omitempty"`

	FinalPrice decimal.Decimal `json:"final_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DraftPatch is a partial update applied to a draft. Nil fields are left
// untouched; last writer wins, the store does no validation of its own.
type DraftPatch struct {
	WorkerID  *string
	ServiceID *string

	Step *int

	Date *string
	Time *string

	VehicleType  *VehicleType
	VehicleMake  *string
	VehicleModel *string
	VehicleYear  *int
	VehicleColor *string
	LicensePlate *string

	SelectedServices  []string
	ServicesTotal     *decimal.Decimal
	EstimatedDuration *int

	Address     *string
	Coordinates *Coordinates

	PaymentMethod       *PaymentMethod
	SpecialInstructions *string

	FinalPrice *decimal.Decimal
}
