package models

// ChecklistItem is one of the fixed onboard items verified at every movement.
type ChecklistItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// ChecklistCatalog is the fixed, ordered catalog of required onboard items.
var ChecklistCatalog = []ChecklistItem{
	{ID: "libretto", Label: "Libretto Circolazione"},
	{ID: "assicurazione", Label: "Certificato Assicurazione"},
	{ID: "card", Label: "Carta Carburante"},
	{ID: "telepass", Label: "Dispositivo Telepass"},
	{ID: "manuale", Label: "Manuale Uso e Manutenzione"},
	{ID: "giubbino", Label: "Giubbino Catarifrangente"},
	{ID: "triangolo", Label: "Triangolo"},
}

// FuelLevels is the fixed ordered set of reportable fuel levels.
var FuelLevels = []string{"Riserva", "1/4", "1/2", "3/4", "Pieno"}

func IsValidFuelLevel(level string) bool {
	for _, l := range FuelLevels {
		if l == level {
			return true
		}
	}
	return false
}

func IsValidChecklistItem(id string) bool {
	for _, item := range ChecklistCatalog {
		if item.ID == id {
			return true
		}
	}
	return false
}

// MissingChecklistItems returns, in catalog order, the ids of the items not
// ticked as present in the submitted checklist. Items absent from the map
// count as missing.
func MissingChecklistItems(checklist map[string]bool) []string {
	missing := []string{}
	for _, item := range ChecklistCatalog {
		if !checklist[item.ID] {
			missing = append(missing, item.ID)
		}
	}
	return missing
}

// PrefilledChecklist builds the checklist presented on the next checkout
// form: every item present except those recorded missing at the last checkin,
// which come pre-unchecked.
func PrefilledChecklist(missing []string) map[string]bool {
	prefilled := make(map[string]bool, len(ChecklistCatalog))
	for _, item := range ChecklistCatalog {
		prefilled[item.ID] = true
	}
	for _, id := range missing {
		prefilled[id] = false
	}
	return prefilled
}
