package interfaces

import "context"

// CounterRepository backs the trip id sequence. NextValue must increment and
// read the named counter inside a single atomic read-modify-write, so two
// racing checkouts can never observe the same value. A missing counter starts
// from zero.
type CounterRepository interface {
	NextValue(ctx context.Context, name string) (int64, error)
}
