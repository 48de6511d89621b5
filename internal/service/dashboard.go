package service

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/crewscheduler/backend/internal/chatbot"
	"github.com/crewscheduler/backend/internal/models"
)

type Dashboard struct {
	User       models.User         `json:"user"`
	CrewMember *models.CrewMember  `json:"crew_member"`
	Schedule   []DashboardEntry    `json:"schedule"`
	Conflicts  []ShiftConflict     `json:"conflicts"`
	Stats      Stats               `json:"stats"`
	Crew       []models.CrewMember `json:"crew"`
	Error      string              `json:"error,omitempty"`
}

type DashboardEntry struct {
	Kind         string     `json:"kind"`
	Start        *time.Time `json:"start"`
	Date         string     `json:"date"`
	Status       string     `json:"status"`
	ShiftType    string     `json:"shift_type,omitempty"`
	StartTime    string     `json:"start_time,omitempty"`
	EndTime      string     `json:"end_time,omitempty"`
	Location     string     `json:"location,omitempty"`
	FlightNumber string     `json:"flight_number,omitempty"`
	Route        string     `json:"route,omitempty"`
	Role         string     `json:"role,omitempty"`
	AircraftID   string     `json:"aircraft_id,omitempty"`
	DistanceKm   *float64   `json:"distance_km,omitempty"`
}

type ShiftConflict struct {
	Date    string `json:"date"`
	Message string `json:"message"`
}

type Stats struct {
	TotalFlightsToday int       `json:"total_flights_today"`
	ActiveCrew        int       `json:"active_crew"`
	FlightsOnTime     int       `json:"flights_on_time"`
	MaintenanceDue    int       `json:"maintenance_due"`
	LastUpdated       time.Time `json:"last_updated"`
}

// BuildDashboard assembles the signed-in user's view of snap. Only admins
// receive the crew roster.
func BuildDashboard(snap *models.Snapshot, user models.User, now time.Time, loc *time.Location) Dashboard {
	d := Dashboard{
		User:      user,
		Schedule:  []DashboardEntry{},
		Conflicts: []ShiftConflict{},
		Crew:      []models.CrewMember{},
	}
	if !snap.Loaded() {
		if snap != nil {
			d.Error = snap.LoadError
		}
		return d
	}

	d.Stats = buildStats(snap, now)
	if user.Role == "admin" {
		d.Crew = append(d.Crew, snap.CrewMembers...)
	}

	crew, ok := matchCrew(snap, user)
	if !ok {
		return d
	}
	d.CrewMember = &crew

	var shifts []models.Shift
	for _, e := range chatbot.EntriesForCrew(snap, crew.ID, loc) {
		d.Schedule = append(d.Schedule, toDashboardEntry(snap, e))
		if e.Kind == chatbot.EntryShift {
			shifts = append(shifts, e.Shift)
		}
	}
	d.Conflicts = append(d.Conflicts, ShiftOverlaps(shifts)...)
	return d
}

// matchCrew finds the crew record by exact name, then by an email that
// starts with the username.
func matchCrew(snap *models.Snapshot, user models.User) (models.CrewMember, bool) {
	for _, c := range snap.CrewMembers {
		if (user.Name != "" && c.Name == user.Name) ||
			(user.Username != "" && strings.HasPrefix(c.Email, user.Username)) {
			return c, true
		}
	}
	return models.CrewMember{}, false
}

func toDashboardEntry(snap *models.Snapshot, e chatbot.Entry) DashboardEntry {
	out := DashboardEntry{Kind: string(e.Kind)}
	if !e.At.IsZero() {
		at := e.At
		out.Start = &at
		out.Date = at.Format("2006-01-02")
	}
	switch e.Kind {
	case chatbot.EntryShift:
		out.Date = e.Shift.ShiftDate
		out.Status = e.Shift.Status
		out.ShiftType = e.Shift.ShiftType
		out.StartTime = e.Shift.StartTime
		out.EndTime = e.Shift.EndTime
		out.Location = e.Shift.Location
	case chatbot.EntryFlight:
		f := e.Flight
		out.Status = f.Status
		out.FlightNumber = f.FlightNumber
		out.Route = f.Origin + " → " + f.Destination
		out.Role = e.Assignment.Role
		out.AircraftID = f.AircraftID
		if km, ok := RouteDistanceKm(snap, f.Origin, f.Destination); ok {
			out.DistanceKm = &km
		}
	}
	return out
}

// RouteDistanceKm is the great-circle distance between two airports of the
// snapshot, rounded to 0.1 km.
func RouteDistanceKm(snap *models.Snapshot, origin, destination string) (float64, bool) {
	a, ok := snap.AirportByCode(origin)
	if !ok {
		return 0, false
	}
	b, ok := snap.AirportByCode(destination)
	if !ok {
		return 0, false
	}
	km := a.Coordinates.DistanceKm(b.Coordinates)
	return math.Round(km*10) / 10, true
}

// ShiftOverlaps reports shifts on the same date whose time ranges overlap:
// start1 <= start2 < end1 or start1 < end2 <= end1. Shifts with
// unparseable times are skipped.
func ShiftOverlaps(shifts []models.Shift) []ShiftConflict {
	var out []ShiftConflict
	for i := 0; i < len(shifts); i++ {
		for j := i + 1; j < len(shifts); j++ {
			a, b := shifts[i], shifts[j]
			if a.ShiftDate != b.ShiftDate {
				continue
			}
			s1, e1, ok1 := clockRange(a)
			s2, e2, ok2 := clockRange(b)
			if !ok1 || !ok2 {
				continue
			}
			if (!s2.Before(s1) && s2.Before(e1)) || (s1.Before(e2) && !e2.After(e1)) {
				out = append(out, ShiftConflict{
					Date:    a.ShiftDate,
					Message: fmt.Sprintf("Overlapping shifts: %s and %s", a.ShiftType, b.ShiftType),
				})
			}
		}
	}
	return out
}

func clockRange(s models.Shift) (time.Time, time.Time, bool) {
	start, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.Parse("15:04", s.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func buildStats(snap *models.Snapshot, now time.Time) Stats {
	st := Stats{LastUpdated: snap.LoadedAt}
	today := now.Format("2006-01-02")
	for _, f := range snap.Flights {
		if strings.HasPrefix(f.DepartureTime, today) {
			st.TotalFlightsToday++
		}
		if f.Status == models.FlightScheduled {
			st.FlightsOnTime++
		}
	}
	for _, c := range snap.CrewMembers {
		if c.Status == "available" {
			st.ActiveCrew++
		}
	}
	for _, a := range snap.Aircraft {
		if a.Status == models.AircraftMaintenance {
			st.MaintenanceDue++
		}
	}
	return st
}
