package validators

import "time"

type BookingCreateRequest struct {
	VehicleID string    `json:"vehicle_id" validate:"required,object_id"`
	Driver    string    `json:"driver" validate:"required,min=2,max=80"`
	Commessa  string    `json:"commessa" validate:"omitempty,max=40"`
	PickupAt  time.Time `json:"pickup_at" validate:"required"`
	ReturnAt  time.Time `json:"return_at" validate:"required"`
}

type BookingUpdateRequest struct {
	Driver   string    `json:"driver" validate:"required,min=2,max=80"`
	Commessa string    `json:"commessa" validate:"omitempty,max=40"`
	PickupAt time.Time `json:"pickup_at" validate:"required"`
	ReturnAt time.Time `json:"return_at" validate:"required"`
}

func ValidateBookingCreate(req *BookingCreateRequest) ValidationErrors {
	errs := ValidateStruct(req)
	errs = append(errs, validateBookingWindow(req.PickupAt, req.ReturnAt)...)
	return errs
}

func ValidateBookingUpdate(req *BookingUpdateRequest) ValidationErrors {
	errs := ValidateStruct(req)
	errs = append(errs, validateBookingWindow(req.PickupAt, req.ReturnAt)...)
	return errs
}

func validateBookingWindow(pickup, ret time.Time) ValidationErrors {
	if pickup.IsZero() || ret.IsZero() {
		return nil
	}
	if !pickup.Before(ret) {
		return ValidationErrors{{
			Field:   "pickup_at",
			Message: "Pickup must precede the expected return",
		}}
	}
	return nil
}
