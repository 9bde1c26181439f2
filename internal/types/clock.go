package types

import "time"

// Clock is an injectable time source so cache expiry can be tested
// deterministically instead of reading the wall clock directly.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// RealClock returns a Clock backed by the system wall clock
func RealClock() Clock {
	return realClock{}
}
