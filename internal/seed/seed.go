// Package seed generates a sample crew-scheduling dataset relative to a
// given day.
package seed

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/crewscheduler/backend/internal/models"
)

const (
	FlightCount    = 50
	ScheduledCount = 20
	ShiftCount     = 30

	isoLayout  = "2006-01-02T15:04:05"
	dateLayout = "2006-01-02"
)

var ErrExists = errors.New("output file already exists")

type route struct {
	origin, destination string
	hours               float64
}

var routes = []route{
	{"LAX", "JFK", 5.5},
	{"JFK", "LAX", 6.0},
	{"LAX", "ORD", 4.0},
	{"ORD", "LAX", 4.5},
	{"JFK", "LHR", 7.5},
	{"LHR", "JFK", 8.0},
	{"LAX", "NRT", 11.5},
	{"NRT", "LAX", 10.0},
	{"ORD", "FRA", 8.5},
	{"FRA", "ORD", 9.0},
}

type shiftTemplate struct {
	kind, start, end string
}

var shiftTemplates = []shiftTemplate{
	{"Morning", "06:00", "14:00"},
	{"Afternoon", "14:00", "22:00"},
	{"Night", "22:00", "06:00"},
	{"Standby", "08:00", "16:00"},
}

var openShiftRoles = [][]string{
	{"steward", "flight attendant"},
	{"ground_crew", "ramp agent"},
	{"pilot", "first officer"},
}

// Generate builds the dataset. The same now and seed give the same data.
func Generate(now time.Time, seed uint64) models.Document {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	doc := models.Document{
		Users:       users(),
		CrewMembers: crewMembers(),
		Aircraft:    aircraft(),
		Airports:    airports(),
	}
	doc.Flights = flights(rng, day, doc.Aircraft)
	doc.Schedules = schedules(rng, doc.Flights, doc.CrewMembers)
	doc.Shifts = shifts(rng, day, doc.CrewMembers)
	return doc
}

func users() []models.User {
	return []models.User{
		{Username: "admin", Password: "admin123", Name: "System Administrator", Role: "admin", Email: "admin@airline.com"},
		{Username: "pilot1", Password: "pilot123", Name: "Captain Sarah Johnson", Role: "pilot", Email: "s.johnson@airline.com"},
		{Username: "pilot2", Password: "pilot123", Name: "First Officer Mike Chen", Role: "pilot", Email: "m.chen@airline.com"},
		{Username: "crew1", Password: "crew123", Name: "Flight Attendant Lisa Wong", Role: "steward", Email: "l.wong@airline.com"},
		{Username: "ground1", Password: "ground123", Name: "Ground Crew Chief Tom Brown", Role: "ground_crew", Email: "t.brown@airline.com"},
	}
}

func crewMembers() []models.CrewMember {
	return []models.CrewMember{
		{ID: "CREW001", Name: "Captain Sarah Johnson", Role: "pilot", Status: "available", BaseLocation: "LAX", Email: "s.johnson@airline.com", Phone: "+1-555-0101"},
		{ID: "CREW002", Name: "First Officer Mike Chen", Role: "pilot", Status: "available", BaseLocation: "LAX", Email: "m.chen@airline.com", Phone: "+1-555-0102"},
		{ID: "CREW003", Name: "Captain Emma Rodriguez", Role: "pilot", Status: "on_duty", BaseLocation: "JFK", Email: "e.rodriguez@airline.com", Phone: "+1-555-0103"},
		{ID: "CREW004", Name: "Flight Attendant Lisa Wong", Role: "steward", Status: "available", BaseLocation: "LAX", Email: "l.wong@airline.com", Phone: "+1-555-0104"},
		{ID: "CREW005", Name: "Captain Lisa Thompson", Role: "pilot", Status: "available", BaseLocation: "ORD", Email: "l.thompson@airline.com", Phone: "+1-555-0105"},
		{ID: "CREW006", Name: "First Officer James Wilson", Role: "pilot", Status: "sick_leave", BaseLocation: "ORD", Email: "j.wilson@airline.com", Phone: "+1-555-0106"},
		{ID: "CREW007", Name: "Ground Crew Chief Tom Brown", Role: "ground_crew", Status: "available", BaseLocation: "LAX", Email: "t.brown@airline.com", Phone: "+1-555-0107"},
	}
}

func aircraft() []models.Aircraft {
	return []models.Aircraft{
		{ID: "AC001", Registration: "N123AA", Type: "B737", Model: "Boeing 737-800", Status: models.AircraftActive, Location: "LAX"},
		{ID: "AC002", Registration: "N456BB", Type: "A320", Model: "Airbus A320-200", Status: models.AircraftActive, Location: "LAX"},
		{ID: "AC003", Registration: "N789CC", Type: "B777", Model: "Boeing 777-300ER", Status: models.AircraftActive, Location: "JFK"},
		{ID: "AC004", Registration: "N321DD", Type: "A321", Model: "Airbus A321-200", Status: models.AircraftMaintenance, Location: "ORD"},
	}
}

func airports() []models.Airport {
	return []models.Airport{
		{Code: "LAX", Name: "Los Angeles International Airport", City: "Los Angeles", Country: "USA", Timezone: "America/Los_Angeles", Coordinates: models.Coordinates{Lat: 33.9425, Lon: -118.4081}},
		{Code: "JFK", Name: "John F. Kennedy International Airport", City: "New York", Country: "USA", Timezone: "America/New_York", Coordinates: models.Coordinates{Lat: 40.6413, Lon: -73.7781}},
		{Code: "ORD", Name: "O'Hare International Airport", City: "Chicago", Country: "USA", Timezone: "America/Chicago", Coordinates: models.Coordinates{Lat: 41.9742, Lon: -87.9073}},
		{Code: "LHR", Name: "London Heathrow Airport", City: "London", Country: "UK", Timezone: "Europe/London", Coordinates: models.Coordinates{Lat: 51.4700, Lon: -0.4543}},
		{Code: "NRT", Name: "Narita International Airport", City: "Tokyo", Country: "Japan", Timezone: "Asia/Tokyo", Coordinates: models.Coordinates{Lat: 35.7720, Lon: 140.3929}},
		{Code: "FRA", Name: "Frankfurt Airport", City: "Frankfurt", Country: "Germany", Timezone: "Europe/Berlin", Coordinates: models.Coordinates{Lat: 50.0379, Lon: 8.5622}},
	}
}

var flightStatuses = []string{models.FlightScheduled, "confirmed", models.FlightDelayed, models.FlightCancelled}

func flights(rng *rand.Rand, day time.Time, fleet []models.Aircraft) []models.Flight {
	var active []string
	for _, a := range fleet {
		if a.Status == models.AircraftActive {
			active = append(active, a.ID)
		}
	}
	out := make([]models.Flight, 0, FlightCount)
	for i := range FlightCount {
		r := routes[rng.IntN(len(routes))]
		dep := day.AddDate(0, 0, 1+rng.IntN(30)).
			Add(time.Duration(6+rng.IntN(17))*time.Hour + time.Duration(15*rng.IntN(4))*time.Minute)
		arr := dep.Add(time.Duration(r.hours * float64(time.Hour)))
		f := models.Flight{
			ID:            fmt.Sprintf("FL%d", 1000+i),
			FlightNumber:  fmt.Sprintf("AA%d", 1000+i),
			Origin:        r.origin,
			Destination:   r.destination,
			DepartureTime: dep.Format(isoLayout),
			ArrivalTime:   arr.Format(isoLayout),
			AircraftID:    active[rng.IntN(len(active))],
			Status:        flightStatuses[rng.IntN(len(flightStatuses))],
		}
		if f.Status == models.FlightDelayed {
			f.DelayReason = "Late inbound aircraft"
		}
		out = append(out, f)
	}
	return out
}

// schedules pairs an available captain with an available first officer on
// each of the first ScheduledCount flights.
func schedules(rng *rand.Rand, fls []models.Flight, crew []models.CrewMember) []models.Schedule {
	var captains, officers []models.CrewMember
	for _, c := range crew {
		if c.Status != "available" || c.Role != "pilot" {
			continue
		}
		switch {
		case strings.HasPrefix(c.Name, "Captain"):
			captains = append(captains, c)
		case strings.HasPrefix(c.Name, "First Officer"):
			officers = append(officers, c)
		}
	}
	if len(captains) == 0 || len(officers) == 0 {
		return []models.Schedule{}
	}

	n := min(ScheduledCount, len(fls))
	out := make([]models.Schedule, 0, n)
	for i, f := range fls[:n] {
		dep, _ := time.Parse(isoLayout, f.DepartureTime)
		arr, _ := time.Parse(isoLayout, f.ArrivalTime)
		start := dep.Add(-time.Hour).Format(isoLayout)
		end := arr.Add(30 * time.Minute).Format(isoLayout)
		out = append(out, models.Schedule{
			ID:       fmt.Sprintf("SCH%d", 1000+i),
			FlightID: f.ID,
			CrewAssignments: []models.CrewAssignment{
				{CrewID: captains[rng.IntN(len(captains))].ID, Role: "Captain", DutyStart: start, DutyEnd: end},
				{CrewID: officers[rng.IntN(len(officers))].ID, Role: "First Officer", DutyStart: start, DutyEnd: end},
			},
			Status: "confirmed",
			Notes:  "Regular scheduled flight " + f.FlightNumber,
		})
	}
	return out
}

var shiftStatuses = []string{"scheduled", "confirmed", "completed"}
var shiftLocations = []string{"LAX", "JFK", "ORD"}

// shifts leaves every fifth shift open so the pickup board has entries.
func shifts(rng *rand.Rand, day time.Time, crew []models.CrewMember) []models.Shift {
	out := make([]models.Shift, 0, ShiftCount)
	for i := range ShiftCount {
		tpl := shiftTemplates[rng.IntN(len(shiftTemplates))]
		date := day.AddDate(0, 0, 1+rng.IntN(15)).Format(dateLayout)
		s := models.Shift{
			ID:        fmt.Sprintf("SH%d", 1000+i),
			ShiftDate: date,
			ShiftType: tpl.kind,
			StartTime: tpl.start,
			EndTime:   tpl.end,
			Location:  shiftLocations[rng.IntN(len(shiftLocations))],
			Notes:     fmt.Sprintf("%s shift at %s", tpl.kind, date),
		}
		if i%5 == 4 {
			roles := openShiftRoles[(i/5)%len(openShiftRoles)]
			s.Status = "open"
			s.RequiredRoles = roles
			s.PayRate = decimal.NewNullDecimal(decimal.NewFromFloat(42.5 + float64(rng.IntN(4))*10))
		} else {
			id := crew[rng.IntN(len(crew))].ID
			s.CrewID = &id
			s.Status = shiftStatuses[rng.IntN(len(shiftStatuses))]
		}
		out = append(out, s)
	}
	return out
}

// Validate checks that every section the assistant reads is present and
// that crew and aircraft records carry their identifying fields.
func Validate(doc models.Document) error {
	var err error
	sections := []struct {
		name string
		n    int
	}{
		{"users", len(doc.Users)},
		{"crew_members", len(doc.CrewMembers)},
		{"aircraft", len(doc.Aircraft)},
		{"flights", len(doc.Flights)},
		{"schedules", len(doc.Schedules)},
		{"airports", len(doc.Airports)},
	}
	for _, s := range sections {
		if s.n == 0 {
			err = multierr.Append(err, fmt.Errorf("missing required section: %s", s.name))
		}
	}
	for _, c := range doc.CrewMembers {
		if c.ID == "" || c.Name == "" || c.Role == "" || c.Status == "" {
			err = multierr.Append(err, fmt.Errorf("crew member %q missing id, name, role or status", c.ID))
		}
	}
	for _, a := range doc.Aircraft {
		if a.ID == "" || a.Registration == "" || a.Type == "" || a.Status == "" {
			err = multierr.Append(err, fmt.Errorf("aircraft %q missing id, registration, type or status", a.ID))
		}
	}
	return err
}

// Write validates doc and stores it as indented JSON. An existing file is
// only replaced when force is set.
func Write(path string, doc models.Document, force bool) error {
	if err := Validate(doc); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, ErrExists)
		}
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

