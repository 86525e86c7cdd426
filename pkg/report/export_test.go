package report

import "time"

// SetProgressStart backdates the throttle clock so tests can step over the
// 10 second interval without sleeping.
func (s *Sink) SetProgressStart(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progressFrom = t
}
