package tracker

import (
	"sort"
	"time"
)

// AddMeasurement appends a body measurement and returns its id.
// Several measurements on the same date are fine. A missing date defaults to
// now in UTC so that dates keep sorting as strings.
func (s *Store) AddMeasurement(m BodyMeasurement) string {
	if m.ID == "" {
		m.ID = s.NewID()
	}
	if m.Date == "" {
		m.Date = s.Now().UTC().Format(time.RFC3339)
	}

	s.mu.Lock()
	s.measurements = append(s.measurements, m.Clone())
	s.mu.Unlock()

	s.notify(ChangeMeasurements)
	return m.ID
}

func (s *Store) DeleteMeasurement(id string) bool {
	s.mu.Lock()
	for i := range s.measurements {
		if s.measurements[i].ID == id {
			s.measurements = append(s.measurements[:i], s.measurements[i+1:]...)
			s.mu.Unlock()
			s.notify(ChangeMeasurements)
			return true
		}
	}
	s.mu.Unlock()
	return false
}

// Measurements returns the measurements in insertion order.
func (s *Store) Measurements() []BodyMeasurement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMeasurements(s.measurements)
}

// SortedMeasurements returns the measurements ordered by date, then insertion.
func (s *Store) SortedMeasurements() []BodyMeasurement {
	ms := s.Measurements()
	sort.SliceStable(ms, func(i, j int) bool {
		return ms[i].Date < ms[j].Date
	})
	return ms
}

// LatestMeasurement returns the most recent measurement by date.
func (s *Store) LatestMeasurement() (BodyMeasurement, bool) {
	ms := s.SortedMeasurements()
	if len(ms) == 0 {
		return BodyMeasurement{}, false
	}
	return ms[len(ms)-1], true
}
