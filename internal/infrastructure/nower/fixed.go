package nower

import "time"

type fixedNower struct {
	t time.Time
}

// NewFixed создаёт реализацию, всегда возвращающую заданное время.
// Используется в тестах для детерминированных расчётов.
func NewFixed(t time.Time) Nower {
	return &fixedNower{t: t}
}

// Now возвращает зафиксированное время.
func (n *fixedNower) Now() time.Time {
	return n.t
}
