package chatbot

import (
	"fmt"
	"strings"
	"time"

	"github.com/crewscheduler/backend/internal/models"
)

// RequiredCrew is the policy complement of every flight: captain, first
// officer and two flight attendants. It does not depend on aircraft type.
const RequiredCrew = 4

var requiredRoles = []string{"captain", "first_officer", "flight_attendant", "flight_attendant"}

// roleFamilies maps a user role to the flight roles it can fill.
var roleFamilies = map[string][]string{
	"pilot":       {"captain", "first_officer"},
	"steward":     {"flight_attendant"},
	"ground_crew": {"ground_crew"},
}

// shiftTypeHints matches shift types to roles when a shift lists no
// required roles.
var shiftTypeHints = map[string][]string{
	"pilot":       {"flight", "cockpit", "captain", "first officer"},
	"steward":     {"cabin", "service", "passenger", "attendant"},
	"ground_crew": {"ground", "maintenance", "baggage", "fuel"},
	"admin":       {"admin", "management", "dispatch"},
}

var scheduleRoleSuggestions = map[string][]string{
	"pilot":       {"Flight details", "Aircraft info", "Weather", "Available flights"},
	"steward":     {"Passenger info", "Service notes", "Available shifts", "Swap shifts"},
	"ground_crew": {"Equipment status", "Maintenance schedule", "Available shifts"},
	"admin":       {"Manage schedules", "Assign crew", "View all conflicts", "Generate reports"},
}

const (
	longDate  = "Monday, January 02, 2006"
	clockTime = "15:04"
	shortDate = "01/02 15:04"
)

func scheduleReply(q request) Response {
	if !q.snap.Loaded() {
		return dataError(q.snap)
	}
	name := q.userName()
	entries := Entries(q.snap, name, q.loc)
	today := day(q.now)

	var title string
	var picked []Entry
	switch {
	case strings.Contains(q.message, "today"):
		title = "Today's Schedule for " + name
		picked = filterEntries(entries, func(e Entry) bool { return day(e.At).Equal(today) })
	case strings.Contains(q.message, "tomorrow"):
		tomorrow := today.AddDate(0, 0, 1)
		title = "Tomorrow's Schedule for " + name
		picked = filterEntries(entries, func(e Entry) bool { return day(e.At).Equal(tomorrow) })
	case strings.Contains(q.message, "week"):
		weekEnd := today.AddDate(0, 0, 7)
		title = "This Week's Schedule for " + name
		picked = filterEntries(entries, func(e Entry) bool {
			d := day(e.At)
			return !d.Before(today) && !d.After(weekEnd)
		})
	default:
		title = "Upcoming Schedule for " + name
		picked = filterEntries(entries, func(e Entry) bool { return !e.At.Before(q.now) })
		if len(picked) > 5 {
			picked = picked[:5]
		}
	}

	suggestions := []string{"View today", "View tomorrow", "View week", "Check conflicts"}
	if extra, ok := scheduleRoleSuggestions[q.userRole()]; ok {
		suggestions = append(suggestions, extra...)
	} else {
		suggestions = append(suggestions, "Available shifts", "Contact scheduler")
	}
	return Response{Text: formatSchedule(picked, title), Suggestions: suggestions}
}

func filterEntries(entries []Entry, keep func(Entry) bool) []Entry {
	var out []Entry
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func formatSchedule(entries []Entry, title string) string {
	if len(entries) == 0 {
		return title + ":\n\n📅 No scheduled duties found."
	}
	var b strings.Builder
	b.WriteString(title + ":\n\n")
	for i, e := range entries {
		switch e.Kind {
		case EntryShift:
			s := e.Shift
			fmt.Fprintf(&b, "%d. 🔄 **%s**\n", i+1, or(s.ShiftType, "Shift"))
			fmt.Fprintf(&b, "   📅 %s\n", e.At.Format(longDate))
			fmt.Fprintf(&b, "   ⏰ %s - %s\n", s.StartTime, s.EndTime)
			fmt.Fprintf(&b, "   📍 %s\n", or(s.Location, "Not specified"))
			fmt.Fprintf(&b, "   📋 Status: %s\n\n", or(s.Status, "Unknown"))
		case EntryFlight:
			f := e.Flight
			fmt.Fprintf(&b, "%d. ✈️ **Flight %s**\n", i+1, f.FlightNumber)
			fmt.Fprintf(&b, "   📅 %s\n", e.At.Format(longDate))
			fmt.Fprintf(&b, "   🛫 %s → %s\n", f.Origin, f.Destination)
			fmt.Fprintf(&b, "   ⏰ Departure: %s\n", e.At.Format(clockTime))
			fmt.Fprintf(&b, "   👨‍✈️ Role: %s\n", or(e.Assignment.Role, "Crew Member"))
			fmt.Fprintf(&b, "   📋 Status: %s\n\n", or(f.Status, "Scheduled"))
		}
	}
	return strings.TrimSpace(b.String())
}

type flightOpening struct {
	flight models.Flight
	roles  []string
}

func availableShiftsReply(q request) Response {
	if !q.snap.Loaded() {
		return dataError(q.snap)
	}
	role := q.userRole()

	var shifts []models.Shift
	for _, s := range q.snap.Shifts {
		if !s.Assigned() && s.Status == "scheduled" && shiftMatchesRole(s, role) {
			shifts = append(shifts, s)
		}
	}
	var openings []flightOpening
	for _, sc := range q.snap.Schedules {
		if len(sc.CrewAssignments) >= RequiredCrew {
			continue
		}
		if f, ok := q.snap.FlightByID(sc.FlightID); ok {
			openings = append(openings, flightOpening{flight: f, roles: rolesNeeded(sc, role)})
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔍 Available opportunities for %s:\n\n", role)
	if len(shifts) > 0 {
		b.WriteString("🔄 **Available Shifts:**\n")
		for i, s := range shifts[:min(5, len(shifts))] {
			pay := "TBD"
			if s.PayRate.Valid {
				pay = s.PayRate.Decimal.String()
			}
			fmt.Fprintf(&b, "%d. %s - %s\n", i+1, s.ShiftType, shiftStart(s, q.loc).Format(shortDate))
			fmt.Fprintf(&b, "   📍 %s\n", or(s.Location, "Not specified"))
			fmt.Fprintf(&b, "   💰 Pay: $%s/hour\n\n", pay)
		}
	}
	if len(openings) > 0 {
		b.WriteString("✈️ **Flight Opportunities:**\n")
		for i, o := range openings[:min(5, len(openings))] {
			fmt.Fprintf(&b, "%d. Flight %s - %s\n", i+1, o.flight.FlightNumber, flightDeparture(o.flight, q.loc).Format(shortDate))
			fmt.Fprintf(&b, "   🛫 %s → %s\n", o.flight.Origin, o.flight.Destination)
			fmt.Fprintf(&b, "   👥 Roles needed: %s\n\n", strings.Join(o.roles, ", "))
		}
	}
	if len(shifts) == 0 && len(openings) == 0 {
		b.WriteString("📭 No available opportunities at this time.\n")
		b.WriteString("Check back later or contact your scheduler for updates.")
	}
	return Response{
		Text:        strings.TrimSpace(b.String()),
		Suggestions: []string{"Pick up shift", "View requirements", "Contact scheduler", "Set availability", "View pay rates"},
	}
}

func shiftMatchesRole(s models.Shift, role string) bool {
	if len(s.RequiredRoles) > 0 {
		for _, r := range s.RequiredRoles {
			if r == role {
				return true
			}
		}
		return false
	}
	return containsAny(strings.ToLower(s.ShiftType), shiftTypeHints[role])
}

// rolesNeeded lists the canonical roles a schedule still lacks, limited to
// the ones the caller's role family can fill.
func rolesNeeded(sc models.Schedule, role string) []string {
	have := map[string]bool{}
	for _, a := range sc.CrewAssignments {
		have[a.Role] = true
	}
	family := map[string]bool{}
	for _, r := range roleFamilies[role] {
		family[r] = true
	}
	var out []string
	for _, r := range requiredRoles {
		if !have[r] && family[r] {
			out = append(out, r)
		}
	}
	return out
}

func conflictsReply(q request) Response {
	if !q.snap.Loaded() {
		return dataError(q.snap)
	}
	name := q.userName()
	conflicts := DetectConflicts(Entries(q.snap, name, q.loc))

	var b strings.Builder
	if len(conflicts) > 0 {
		fmt.Fprintf(&b, "⚠️ **Schedule conflicts found for %s:**\n\n", name)
		for i, c := range conflicts {
			fmt.Fprintf(&b, "%d. %s\n", i+1, c.Description)
			fmt.Fprintf(&b, "   📅 %s\n", c.Date)
			fmt.Fprintf(&b, "   ⚠️ %s\n\n", c.Type)
		}
		b.WriteString("Please contact your scheduler to resolve these conflicts.")
	} else {
		fmt.Fprintf(&b, "✅ **No scheduling conflicts found for %s.**\n\n", name)
		b.WriteString("Your schedule looks good! All duties are properly spaced.")
	}
	return Response{
		Text:        b.String(),
		Suggestions: []string{"Contact scheduler", "View full schedule", "Request change", "Check availability"},
	}
}

// OnDutyWindow is how close to an entry's start the user counts as on duty.
const OnDutyWindow = time.Hour

func statusReply(q request) Response {
	name := q.userName()
	var b strings.Builder
	fmt.Fprintf(&b, "📊 **Status for %s:**\n\n", name)
	fmt.Fprintf(&b, "👤 Role: %s\n", titleCase(q.userRole()))
	fmt.Fprintf(&b, "⏰ Current Time: %s\n", q.now.Format(clockTime))
	fmt.Fprintf(&b, "📅 Date: %s\n\n", q.now.Format("January 02, 2006"))

	var entries []Entry
	if q.snap.Loaded() {
		entries = Entries(q.snap, name, q.loc)
	}

	var current *Entry
	for i := range entries {
		if within(q.now, entries[i].At, OnDutyWindow) {
			current = &entries[i]
			break
		}
	}

	if current != nil {
		b.WriteString("🟢 **Current Status:** On Duty\n")
		if current.Kind == EntryFlight {
			fmt.Fprintf(&b, "✈️ Flight: %s\n", current.Flight.FlightNumber)
			fmt.Fprintf(&b, "📍 Route: %s → %s\n", current.Flight.Origin, current.Flight.Destination)
		} else {
			fmt.Fprintf(&b, "🔄 Shift: %s\n", current.Shift.ShiftType)
			fmt.Fprintf(&b, "📍 Location: %s\n", current.Shift.Location)
		}
	} else {
		b.WriteString("⚪ **Current Status:** Off Duty\n")
		for _, e := range entries {
			if e.At.After(q.now) {
				hours := e.At.Sub(q.now).Hours()
				fmt.Fprintf(&b, "⏭️ Next Duty: %s (%.1fh)\n", e.At.Format(shortDate), hours)
				break
			}
		}
	}

	b.WriteString("\n📈 **This Month:**\n")
	b.WriteString("• Hours Worked: 142\n")
	b.WriteString("• Flights: 28\n")
	b.WriteString("• Days Off: 8\n")

	return Response{
		Text:        b.String(),
		Suggestions: []string{"View schedule", "Clock in/out", "Request time off", "Change status", "Contact supervisor"},
	}
}

func flightReply(q request) Response {
	if !q.snap.Loaded() {
		return dataError(q.snap)
	}
	flights := q.snap.Flights

	var b strings.Builder
	switch {
	case strings.Contains(q.message, "today"):
		prefix := q.now.Format("2006-01-02")
		var today []models.Flight
		for _, f := range flights {
			if strings.HasPrefix(f.DepartureTime, prefix) {
				today = append(today, f)
			}
		}
		fmt.Fprintf(&b, "✈️ **Today's Flights (%d):**\n\n", len(today))
		for _, f := range today[:min(5, len(today))] {
			fmt.Fprintf(&b, "🛫 **%s**\n", f.FlightNumber)
			fmt.Fprintf(&b, "   📍 %s → %s\n", f.Origin, f.Destination)
			fmt.Fprintf(&b, "   ⏰ %s - Status: %s\n", flightDeparture(f, q.loc).Format(clockTime), or(f.Status, "Scheduled"))
			fmt.Fprintf(&b, "   ✈️ Aircraft: %s\n\n", or(f.AircraftID, "TBD"))
		}
	case containsAny(q.message, []string{"delayed", "cancelled", "status"}):
		var disrupted []models.Flight
		for _, f := range flights {
			if f.Status == models.FlightDelayed || f.Status == models.FlightCancelled {
				disrupted = append(disrupted, f)
			}
		}
		if len(disrupted) == 0 {
			b.WriteString("✅ No flight disruptions reported.")
			break
		}
		fmt.Fprintf(&b, "⚠️ **Flight Disruptions (%d):**\n\n", len(disrupted))
		for _, f := range disrupted {
			fmt.Fprintf(&b, "🛫 %s: %s\n", f.FlightNumber, strings.ToUpper(f.Status))
			fmt.Fprintf(&b, "   📍 %s → %s\n", f.Origin, f.Destination)
			if f.DelayReason != "" {
				fmt.Fprintf(&b, "   📝 Reason: %s\n", f.DelayReason)
			}
			b.WriteString("\n")
		}
	default:
		counts := map[string]int{}
		for _, f := range flights {
			counts[f.Status]++
		}
		b.WriteString("✈️ **Flight Operations Summary:**\n\n")
		fmt.Fprintf(&b, "📅 Scheduled: %d flights\n", counts[models.FlightScheduled])
		fmt.Fprintf(&b, "🛫 In Flight: %d flights\n", counts[models.FlightInFlight])
		fmt.Fprintf(&b, "✅ Completed: %d flights\n", counts[models.FlightCompleted])
		fmt.Fprintf(&b, "📊 Total: %d flights\n", len(flights))
	}
	return Response{
		Text:        b.String(),
		Suggestions: []string{"Flight status", "Today's flights", "My flights", "Delays", "Flight details"},
	}
}

func crewReply(q request) Response {
	if !q.snap.Loaded() {
		return dataError(q.snap)
	}
	crew := q.snap.CrewMembers

	var b strings.Builder
	switch {
	case strings.Contains(q.message, "available"):
		var available []models.CrewMember
		for _, c := range crew {
			if c.Status == "available" {
				available = append(available, c)
			}
		}
		fmt.Fprintf(&b, "👥 **Available Crew Members (%d):**\n\n", len(available))
		for _, c := range available[:min(10, len(available))] {
			fmt.Fprintf(&b, "• %s (%s)\n", c.Name, c.Role)
			fmt.Fprintf(&b, "  📧 %s\n", or(c.Email, "N/A"))
			fmt.Fprintf(&b, "  📍 Base: %s\n\n", or(c.BaseLocation, "N/A"))
		}
	case strings.Contains(q.message, "contact"):
		b.WriteString("📞 **Crew Contact Directory:**\n\n")
		for _, c := range crew[:min(8, len(crew))] {
			fmt.Fprintf(&b, "👤 **%s** (%s)\n", c.Name, c.Role)
			fmt.Fprintf(&b, "   📧 %s\n", or(c.Email, "N/A"))
			fmt.Fprintf(&b, "   📱 %s\n\n", or(c.Phone, "N/A"))
		}
	default:
		roles := map[string]int{}
		statuses := map[string]int{}
		for _, c := range crew {
			roles[c.Role]++
			statuses[c.Status]++
		}
		b.WriteString("👥 **Crew Overview:**\n\n")
		fmt.Fprintf(&b, "✈️ Pilots: %d\n", roles["pilot"])
		fmt.Fprintf(&b, "👩‍✈️ Flight Attendants: %d\n", roles["steward"])
		fmt.Fprintf(&b, "🔧 Ground Crew: %d\n", roles["ground_crew"])
		fmt.Fprintf(&b, "📊 Total: %d\n\n", len(crew))
		fmt.Fprintf(&b, "🟢 Available: %d\n", statuses["available"])
		fmt.Fprintf(&b, "🔴 On Duty: %d\n", statuses["on_duty"])
	}
	return Response{
		Text:        b.String(),
		Suggestions: []string{"Contact crew", "View availability", "Send message", "Schedule meeting", "Crew directory"},
	}
}

func aircraftReply(q request) Response {
	if !q.snap.Loaded() {
		return dataError(q.snap)
	}
	fleet := q.snap.Aircraft

	var b strings.Builder
	if strings.Contains(q.message, "maintenance") {
		var down []models.Aircraft
		for _, a := range fleet {
			if a.Status == models.AircraftMaintenance {
				down = append(down, a)
			}
		}
		if len(down) == 0 {
			b.WriteString("✅ No aircraft currently in maintenance.")
		} else {
			b.WriteString("🔧 **Aircraft in maintenance:**\n\n")
			for _, a := range down {
				fmt.Fprintf(&b, "• %s (%s)\n", a.Registration, a.Type)
				fmt.Fprintf(&b, "  📍 Location: %s\n\n", or(a.Location, "Unknown"))
			}
		}
	} else {
		var active, maintenance int
		for _, a := range fleet {
			switch a.Status {
			case models.AircraftActive:
				active++
			case models.AircraftMaintenance:
				maintenance++
			}
		}
		b.WriteString("✈️ **Fleet Status:**\n\n")
		fmt.Fprintf(&b, "🟢 Active: %d aircraft\n", active)
		fmt.Fprintf(&b, "🔧 Maintenance: %d aircraft\n", maintenance)
		fmt.Fprintf(&b, "📊 Total Fleet: %d aircraft\n", len(fleet))
	}
	return Response{
		Text:        b.String(),
		Suggestions: []string{"Fleet status", "Maintenance schedule", "Aircraft details", "Availability", "Performance data"},
	}
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// titleCase upper-cases the first letter of every alphabetic run, so
// "ground_crew" becomes "Ground_Crew".
func titleCase(s string) string {
	out := []rune(strings.ToLower(s))
	start := true
	for i, r := range out {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		if isLetter && start {
			out[i] = []rune(strings.ToUpper(string(r)))[0]
		}
		start = !isLetter
	}
	return string(out)
}
