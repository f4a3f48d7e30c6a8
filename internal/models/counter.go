package models

// Counter is the single document backing the trip id sequence. Count is only
// ever mutated through an atomic increment.
type Counter struct {
	ID    string `json:"id" bson:"_id"`
	Count int64  `json:"count" bson:"count"`
}

// CounterTrips is the id of the counter document that mints trip identifiers.
const CounterTrips = "trips"
