package validators

import (
	"time"
)

type VehicleCreateRequest struct {
	Model      string `json:"model" validate:"required,min=2,max=60"`
	Plate      string `json:"plate" validate:"required,plate"`
	OdometerKm int    `json:"odometer_km" validate:"min=0"`
	FuelLevel  string `json:"fuel_level" validate:"omitempty,fuel_level"`
}

type VehicleUpdateRequest struct {
	Model      string `json:"model" validate:"omitempty,min=2,max=60"`
	Plate      string `json:"plate" validate:"omitempty,plate"`
	OdometerKm *int   `json:"odometer_km" validate:"omitempty,min=0"`
}

// CheckoutRequest carries the validated primitive inputs of the checkout
// form. Photos and signature arrive as base64 data URLs produced by the form
// layer's compression step.
type CheckoutRequest struct {
	Driver         string          `json:"driver" validate:"required,min=2,max=80"`
	Commessa       string          `json:"commessa" validate:"omitempty,max=40"`
	OdometerKm     int             `json:"odometer_km" validate:"min=0"`
	FuelLevel      string          `json:"fuel_level" validate:"required,fuel_level"`
	ExpectedReturn *time.Time      `json:"expected_return"`
	BookingID      string          `json:"booking_id" validate:"omitempty,object_id"`
	Checklist      map[string]bool `json:"checklist" validate:"required"`
	Damages        string          `json:"damages" validate:"omitempty,max=2000"`
	Notes          string          `json:"notes" validate:"omitempty,max=2000"`
	DamagePhotos   []string        `json:"damage_photos" validate:"omitempty,max=10"`
	SignalPhotos   []string        `json:"signal_photos" validate:"omitempty,max=10"`
	Signature      string          `json:"signature" validate:"required"`
}

type CheckinRequest struct {
	OdometerKm   int             `json:"odometer_km" validate:"min=0"`
	FuelLevel    string          `json:"fuel_level" validate:"required,fuel_level"`
	Checklist    map[string]bool `json:"checklist" validate:"required"`
	Damages      string          `json:"damages" validate:"omitempty,max=2000"`
	Notes        string          `json:"notes" validate:"omitempty,max=2000"`
	DamagePhotos []string        `json:"damage_photos" validate:"omitempty,max=10"`
	SignalPhotos []string        `json:"signal_photos" validate:"omitempty,max=10"`
	Signature    string          `json:"signature" validate:"required"`
}

func ValidateVehicleCreate(req *VehicleCreateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateVehicleUpdate(req *VehicleUpdateRequest) ValidationErrors {
	return ValidateStruct(req)
}

func ValidateCheckout(req *CheckoutRequest) ValidationErrors {
	errs := ValidateStruct(req)
	errs = append(errs, validateChecklistKeys(req.Checklist)...)
	return errs
}

func ValidateCheckin(req *CheckinRequest) ValidationErrors {
	errs := ValidateStruct(req)
	errs = append(errs, validateChecklistKeys(req.Checklist)...)
	return errs
}
