package validators

// LogReviseRequest revises a past log entry. A fresh signature is mandatory:
// revising an already-signed record without re-signing would falsify it.
type LogReviseRequest struct {
	OdometerKm int             `json:"odometer_km" validate:"min=0"`
	FuelLevel  string          `json:"fuel_level" validate:"required,fuel_level"`
	Notes      string          `json:"notes" validate:"omitempty,max=2000"`
	NewDamage  string          `json:"new_damage" validate:"omitempty,max=2000"`
	Checklist  map[string]bool `json:"checklist" validate:"required"`
	Signature  string          `json:"signature" validate:"required"`
}

func ValidateLogRevise(req *LogReviseRequest) ValidationErrors {
	errs := ValidateStruct(req)
	errs = append(errs, validateChecklistKeys(req.Checklist)...)
	return errs
}
