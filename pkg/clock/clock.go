package clock

import (
	"sync"
	"time"
)

// Clock - источник текущего времени. Сервисы никогда не вызывают time.Now напрямую.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// System возвращает часы на основе time.Now.
func System() Clock { return systemClock{} }

func (systemClock) Now() time.Time { return time.Now() }

// Fixed - управляемые часы для тестов и пересчёта.
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	f.t = t
	f.mu.Unlock()
}

func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}
