package models

import (
	"strings"
	"time"
)

// Snapshot is an immutable, indexed view of a Document. A snapshot that
// failed to load carries LoadError and no records.
type Snapshot struct {
	Document
	LoadError string
	Source    string
	LoadedAt  time.Time

	flightIdx  map[string]int
	airportIdx map[string]int
}

func NewSnapshot(doc Document, source string, loadedAt time.Time) *Snapshot {
	s := &Snapshot{
		Document:   doc,
		Source:     source,
		LoadedAt:   loadedAt,
		flightIdx:  make(map[string]int, len(doc.Flights)),
		airportIdx: make(map[string]int, len(doc.Airports)),
	}
	for i, f := range doc.Flights {
		if _, dup := s.flightIdx[f.ID]; !dup {
			s.flightIdx[f.ID] = i
		}
	}
	for i, a := range doc.Airports {
		code := strings.ToUpper(a.Code)
		if _, dup := s.airportIdx[code]; !dup {
			s.airportIdx[code] = i
		}
	}
	return s
}

func ErrorSnapshot(loadErr, source string, at time.Time) *Snapshot {
	s := NewSnapshot(Document{}, source, at)
	s.LoadError = loadErr
	return s
}

func (s *Snapshot) Loaded() bool {
	return s != nil && s.LoadError == ""
}

func (s *Snapshot) FlightByID(id string) (Flight, bool) {
	i, ok := s.flightIdx[id]
	if !ok {
		return Flight{}, false
	}
	return s.Flights[i], true
}

func (s *Snapshot) AirportByCode(code string) (Airport, bool) {
	i, ok := s.airportIdx[strings.ToUpper(code)]
	if !ok {
		return Airport{}, false
	}
	return s.Airports[i], true
}

// CrewByName matches case-insensitively on the full name.
func (s *Snapshot) CrewByName(name string) (CrewMember, bool) {
	for _, c := range s.CrewMembers {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return CrewMember{}, false
}

func (s *Snapshot) UserByUsername(username string) (User, bool) {
	for _, u := range s.Users {
		if u.Username == username {
			return u, true
		}
	}
	return User{}, false
}

// Counts returns the number of records per section.
func (s *Snapshot) Counts() map[string]int {
	return map[string]int{
		"users":        len(s.Users),
		"crew_members": len(s.CrewMembers),
		"aircraft":     len(s.Aircraft),
		"flights":      len(s.Flights),
		"schedules":    len(s.Schedules),
		"shifts":       len(s.Shifts),
		"airports":     len(s.Airports),
	}
}
