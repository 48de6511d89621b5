package chatbot

import (
	"fmt"
	"sort"
	"time"

	"github.com/crewscheduler/backend/internal/models"
)

type EntryKind string

const (
	EntryShift  EntryKind = "shift"
	EntryFlight EntryKind = "flight"
)

// Entry is one item on a crew member's timeline: a shift, or a flight the
// member is assigned to through a schedule.
type Entry struct {
	Kind       EntryKind
	At         time.Time
	Shift      models.Shift
	Flight     models.Flight
	Assignment models.CrewAssignment
}

// Entries returns the timeline of the crew member whose name matches
// name, sorted by start time. Unknown names yield no entries.
func Entries(snap *models.Snapshot, name string, loc *time.Location) []Entry {
	crew, ok := snap.CrewByName(name)
	if !ok {
		return nil
	}
	return EntriesForCrew(snap, crew.ID, loc)
}

func EntriesForCrew(snap *models.Snapshot, crewID string, loc *time.Location) []Entry {
	var out []Entry
	for _, s := range snap.Shifts {
		if s.Assigned() && *s.CrewID == crewID {
			out = append(out, Entry{Kind: EntryShift, At: shiftStart(s, loc), Shift: s})
		}
	}
	for _, sc := range snap.Schedules {
		for _, a := range sc.CrewAssignments {
			if a.CrewID != crewID {
				continue
			}
			f, ok := snap.FlightByID(sc.FlightID)
			if !ok {
				continue
			}
			out = append(out, Entry{Kind: EntryFlight, At: flightDeparture(f, loc), Flight: f, Assignment: a})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

type Conflict struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// ConflictWindow is the minimum spacing between two duties.
const ConflictWindow = 2 * time.Hour

// DetectConflicts reports every pair (i, j), i < j, whose start times are
// less than ConflictWindow apart. Pairs are not merged into ranges, so
// three mutually close entries produce three conflicts.
func DetectConflicts(entries []Entry) []Conflict {
	var out []Conflict
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			a, b := entries[i], entries[j]
			if !within(a.At, b.At, ConflictWindow) {
				continue
			}
			out = append(out, Conflict{
				Date:        a.At.Format("2006-01-02"),
				Type:        "Time overlap",
				Description: fmt.Sprintf("%s and %s too close together", a.Kind, b.Kind),
			})
		}
	}
	return out
}
