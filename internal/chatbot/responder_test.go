package chatbot

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crewscheduler/backend/internal/models"
)

type staticStore struct{ snap *models.Snapshot }

func (s staticStore) Snapshot() *models.Snapshot { return s.snap }

type panicStore struct{}

func (panicStore) Snapshot() *models.Snapshot { panic("boom") }

func strPtr(s string) *string { return &s }

var (
	pilot   = models.User{Username: "pilot1", Name: "Captain Sarah Johnson", Role: "pilot"}
	steward = models.User{Username: "steward1", Name: "Lisa Wong", Role: "steward"}
	admin   = models.User{Username: "admin", Name: "Ops Admin", Role: "admin"}
	clock   = time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
)

func fixture() *models.Snapshot {
	doc := models.Document{
		Users: []models.User{pilot, steward, admin},
		CrewMembers: []models.CrewMember{
			{ID: "CREW001", Name: "Captain Sarah Johnson", Role: "pilot", Status: "on_duty", BaseLocation: "LAX", Email: "s.johnson@airline.com", Phone: "+1-555-0101"},
			{ID: "CREW002", Name: "Lisa Wong", Role: "steward", Status: "available", BaseLocation: "JFK"},
			{ID: "CREW003", Name: "Mike Chen", Role: "ground_crew", Status: "available"},
		},
		Aircraft: []models.Aircraft{
			{ID: "AC001", Registration: "N123AA", Type: "B737", Status: models.AircraftActive, Location: "LAX"},
			{ID: "AC002", Registration: "N456AA", Type: "A320", Status: models.AircraftMaintenance, Location: "JFK"},
		},
		Flights: []models.Flight{
			{ID: "FL1", FlightNumber: "AA100", Origin: "LAX", Destination: "JFK", DepartureTime: "2025-06-02T11:00:00", AircraftID: "AC001", Status: models.FlightScheduled},
			{ID: "FL2", FlightNumber: "AA200", Origin: "JFK", Destination: "ORD", DepartureTime: "2025-06-02 11:30:00", Status: models.FlightDelayed, DelayReason: "Weather"},
			{ID: "FL3", FlightNumber: "AA300", Origin: "ORD", Destination: "LAX", DepartureTime: "2025-06-05T09:00:00Z", Status: models.FlightCompleted},
		},
		Schedules: []models.Schedule{
			{ID: "SCH1", FlightID: "FL1", CrewAssignments: []models.CrewAssignment{{CrewID: "CREW001", Role: "captain"}}},
			{ID: "SCH2", FlightID: "FL2", CrewAssignments: []models.CrewAssignment{{CrewID: "CREW001", Role: "first_officer"}}},
		},
		Shifts: []models.Shift{
			{ID: "SH1", CrewID: strPtr("CREW001"), ShiftDate: "2025-06-02", StartTime: "10:00", EndTime: "18:00", ShiftType: "Morning", Location: "LAX", Status: "scheduled"},
			{ID: "SH2", ShiftDate: "2025-06-03", StartTime: "14:00", EndTime: "22:00", ShiftType: "Cabin service", Location: "JFK", Status: "scheduled",
				RequiredRoles: []string{"steward"}, PayRate: decimal.NewNullDecimal(decimal.RequireFromString("42.5"))},
			{ID: "SH3", CrewID: strPtr(""), ShiftDate: "2025-06-04", StartTime: "08:00", EndTime: "16:00", ShiftType: "Baggage", Status: "scheduled"},
		},
	}
	return models.NewSnapshot(doc, "test", clock)
}

func newResponder(snap *models.Snapshot) *Responder {
	return New(staticStore{snap}, WithClock(func() time.Time { return clock }), WithLocation(time.UTC))
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"please update my schedule", IntentAdmin},
		{"emergency, assign a captain", IntentAdmin},
		{"urgent problem", IntentEmergency},
		{"I have a schedule conflict", IntentConflicts},
		{"show available shifts", IntentAvailableShifts},
		{"my schedule today", IntentSchedule},
		{"flight delays", IntentFlight},
		{"fleet overview", IntentAircraft},
		{"what's my status", IntentStatus},
		{"WEATHER please", IntentWeather},
		{"xyzzy", IntentDefault},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.message))
		})
	}
}

func TestRespondEmptyMessage(t *testing.T) {
	r := newResponder(fixture())
	for _, msg := range []string{"", "   ", "\n\t"} {
		resp := r.Respond(msg, pilot)
		assert.Equal(t, "Please type a message to get started! 😊", resp.Text)
		assert.Equal(t, []string{"My schedule", "Help", "Flight status"}, resp.Suggestions)
	}
}

func TestRespondSuggestionBound(t *testing.T) {
	r := newResponder(fixture())
	messages := []string{
		"my schedule", "my schedule today", "available shifts", "any conflict", "what's my status",
		"flight status", "crew", "fleet", "add crew", "weather", "pay", "overtime", "swap",
		"where", "contact", "airport", "vacation", "training", "emergency", "hello", "help", "xyzzy",
	}
	for _, user := range []models.User{pilot, steward, admin, {}} {
		for _, msg := range messages {
			resp := r.Respond(msg, user)
			assert.NotEmpty(t, resp.Text, msg)
			assert.NotEmpty(t, resp.Suggestions, msg)
			assert.LessOrEqual(t, len(resp.Suggestions), MaxSuggestions, msg)
		}
	}
}

func TestScheduleToday(t *testing.T) {
	doc := fixture().Document
	doc.Shifts = append(doc.Shifts, models.Shift{
		ID: "SH4", CrewID: strPtr("CREW001"), ShiftDate: "2025-06-03", StartTime: "18:00", EndTime: "23:00",
		ShiftType: "Evening", Location: "JFK", Status: "scheduled",
	})
	resp := newResponder(models.NewSnapshot(doc, "test", clock)).Respond("my schedule today", pilot)

	assert.Equal(t, IntentSchedule, resp.Intent)
	require.True(t, strings.HasPrefix(resp.Text, "Today's Schedule for Captain Sarah Johnson:\n\n"))
	assert.Contains(t, resp.Text, "1. 🔄 **Morning**\n   📅 Monday, June 02, 2025\n   ⏰ 10:00 - 18:00")
	assert.Contains(t, resp.Text, "2. ✈️ **Flight AA100**")
	assert.Contains(t, resp.Text, "   ⏰ Departure: 11:00\n   👨‍✈️ Role: captain")
	assert.Contains(t, resp.Text, "3. ✈️ **Flight AA200**")
	assert.NotContains(t, resp.Text, "\n\n\n")
	assert.NotContains(t, resp.Text, "Evening")
	assert.NotContains(t, resp.Text, "June 03")
	assert.NotContains(t, resp.Text, "4. ")
	assert.Equal(t, []string{"View today", "View tomorrow", "View week", "Check conflicts", "Flight details", "Aircraft info"}, resp.Suggestions)
}

func TestScheduleNoDuties(t *testing.T) {
	resp := newResponder(fixture()).Respond("my schedule tomorrow", steward)
	assert.Equal(t, "Tomorrow's Schedule for Lisa Wong:\n\n📅 No scheduled duties found.", resp.Text)
}

func TestStatusOnDuty(t *testing.T) {
	resp := newResponder(fixture()).Respond("what's my status", pilot)

	assert.Equal(t, IntentStatus, resp.Intent)
	assert.Contains(t, resp.Text, "👤 Role: Pilot\n⏰ Current Time: 10:30\n📅 Date: June 02, 2025")
	assert.Contains(t, resp.Text, "🟢 **Current Status:** On Duty\n🔄 Shift: Morning\n📍 Location: LAX\n")
	assert.Contains(t, resp.Text, "• Hours Worked: 142")
}

func TestStatusOnDutyForFlight(t *testing.T) {
	r := New(staticStore{fixture()}, WithLocation(time.UTC), WithClock(func() time.Time {
		return time.Date(2025, 6, 2, 11, 15, 0, 0, time.UTC)
	}))
	resp := r.Respond("what's my status", pilot)

	assert.Contains(t, resp.Text, "🟢 **Current Status:** On Duty\n✈️ Flight: AA100\n📍 Route: LAX → JFK\n")
	assert.NotContains(t, resp.Text, "🔄 Shift:")
}

func TestShiftWithoutStartTimeIsNeverOnDuty(t *testing.T) {
	shift := models.Shift{ID: "SH9", CrewID: strPtr("CREW002"), ShiftDate: "2025-06-02", ShiftType: "Standby", Location: "JFK"}
	assert.True(t, shiftStart(shift, time.UTC).IsZero())

	doc := fixture().Document
	doc.Shifts = append(doc.Shifts, shift)
	r := New(staticStore{models.NewSnapshot(doc, "test", clock)}, WithLocation(time.UTC), WithClock(func() time.Time {
		return time.Date(2025, 6, 2, 0, 30, 0, 0, time.UTC)
	}))
	resp := r.Respond("what's my status", steward)
	assert.Contains(t, resp.Text, "⚪ **Current Status:** Off Duty")

	resp = r.Respond("my schedule today", steward)
	assert.NotContains(t, resp.Text, "Standby")
}

func TestStatusOffDutyShowsNextDuty(t *testing.T) {
	snap := fixture()
	r := New(staticStore{snap}, WithLocation(time.UTC), WithClock(func() time.Time {
		return time.Date(2025, 6, 2, 7, 0, 0, 0, time.UTC)
	}))
	resp := r.Respond("what's my status", pilot)
	assert.Contains(t, resp.Text, "⚪ **Current Status:** Off Duty\n⏭️ Next Duty: 06/02 10:00 (3.0h)\n")
}

func TestStatusWithoutDataStillRenders(t *testing.T) {
	snap := models.ErrorSnapshot("❌ Error: data.json not found. Please ensure the data file exists.", "data.json", clock)
	resp := newResponder(snap).Respond("what's my status", pilot)
	assert.Contains(t, resp.Text, "⚪ **Current Status:** Off Duty")
}

func TestMissingDataIntents(t *testing.T) {
	const loadErr = "❌ Error: data.json not found. Please ensure the data file exists."
	r := newResponder(models.ErrorSnapshot(loadErr, "data.json", clock))

	for _, msg := range []string{"my schedule", "available shifts", "any conflict", "flight status", "crew", "fleet"} {
		resp := r.Respond(msg, pilot)
		assert.Equal(t, loadErr, resp.Text, msg)
		assert.Equal(t, []string{"Check data file", "Contact admin"}, resp.Suggestions, msg)
	}
}

func TestAdminGate(t *testing.T) {
	r := newResponder(fixture())
	for _, msg := range []string{"add crew Bob pilot", "delete everything", "assign me"} {
		for _, user := range []models.User{pilot, steward, {}} {
			resp := r.Respond(msg, user)
			assert.Equal(t, IntentAdmin, resp.Intent)
			assert.Equal(t, accessDeniedText, resp.Text)
		}
	}
	resp := r.Respond("add crew Bob pilot", admin)
	assert.Contains(t, resp.Text, "👨‍💼 **Administrative Functions:**")
}

func TestConflictsArePairwise(t *testing.T) {
	entries := Entries(fixture(), "captain sarah johnson", time.UTC)
	require.Len(t, entries, 3)

	want := []Conflict{
		{Date: "2025-06-02", Type: "Time overlap", Description: "shift and flight too close together"},
		{Date: "2025-06-02", Type: "Time overlap", Description: "shift and flight too close together"},
		{Date: "2025-06-02", Type: "Time overlap", Description: "flight and flight too close together"},
	}
	if diff := cmp.Diff(want, DetectConflicts(entries)); diff != "" {
		t.Errorf("DetectConflicts mismatch (-want +got):\n%s", diff)
	}

	resp := newResponder(fixture()).Respond("any conflict?", pilot)
	assert.Contains(t, resp.Text, "⚠️ **Schedule conflicts found for Captain Sarah Johnson:**")
	assert.True(t, strings.HasSuffix(resp.Text, "Please contact your scheduler to resolve these conflicts."))
}

func TestNoConflicts(t *testing.T) {
	resp := newResponder(fixture()).Respond("any conflict?", steward)
	assert.Equal(t, "✅ **No scheduling conflicts found for Lisa Wong.**\n\nYour schedule looks good! All duties are properly spaced.", resp.Text)
}

func TestUnparseableDateDoesNotConflictWithDatedEntry(t *testing.T) {
	entries := []Entry{{Kind: EntryShift}, {Kind: EntryShift, At: clock}}
	assert.Empty(t, DetectConflicts(entries))
}

func TestAvailableShiftsForSteward(t *testing.T) {
	resp := newResponder(fixture()).Respond("show available shifts", steward)

	assert.True(t, strings.HasPrefix(resp.Text, "🔍 Available opportunities for steward:\n\n🔄 **Available Shifts:**\n"))
	assert.Contains(t, resp.Text, "1. Cabin service - 06/03 14:00\n   📍 JFK\n   💰 Pay: $42.5/hour")
	assert.Contains(t, resp.Text, "1. Flight AA100 - 06/02 11:00\n   🛫 LAX → JFK\n   👥 Roles needed: flight_attendant, flight_attendant")
	assert.NotContains(t, resp.Text, "Baggage")
}

func TestAvailableShiftsByShiftType(t *testing.T) {
	ground := models.User{Name: "Mike Chen", Role: "ground_crew"}
	resp := newResponder(fixture()).Respond("open shifts", ground)
	assert.Contains(t, resp.Text, "1. Baggage - 06/04 08:00\n   📍 Not specified\n   💰 Pay: $TBD/hour")
}

func TestFlightViews(t *testing.T) {
	r := newResponder(fixture())

	// "today" routes to the schedule intent, so the today view is reached
	// directly.
	today := flightReply(request{message: "flights today", snap: fixture(), now: clock, loc: time.UTC})
	assert.Contains(t, today.Text, "✈️ **Today's Flights (2):**")
	assert.Contains(t, today.Text, "   ✈️ Aircraft: TBD")

	disrupted := r.Respond("flight delayed?", pilot)
	assert.Contains(t, disrupted.Text, "⚠️ **Flight Disruptions (1):**\n\n🛫 AA200: DELAYED\n   📍 JFK → ORD\n   📝 Reason: Weather\n")

	summary := r.Respond("flight", pilot)
	assert.Equal(t, "✈️ **Flight Operations Summary:**\n\n📅 Scheduled: 1 flights\n🛫 In Flight: 0 flights\n✅ Completed: 1 flights\n📊 Total: 3 flights\n", summary.Text)
}

func TestCrewAndFleet(t *testing.T) {
	r := newResponder(fixture())

	overview := r.Respond("crew", pilot)
	assert.Contains(t, overview.Text, "✈️ Pilots: 1\n👩‍✈️ Flight Attendants: 1\n🔧 Ground Crew: 1\n📊 Total: 3\n\n🟢 Available: 2\n🔴 On Duty: 1\n")

	available := r.Respond("crew available", pilot)
	assert.Contains(t, available.Text, "👥 **Available Crew Members (2):**")
	assert.Contains(t, available.Text, "• Mike Chen (ground_crew)\n  📧 N/A\n  📍 Base: N/A\n")

	fleet := r.Respond("fleet maintenance", pilot)
	assert.Contains(t, fleet.Text, "• N456AA (A320)\n  📍 Location: JFK\n")
}

func TestGreetingByHour(t *testing.T) {
	assert.Equal(t, "Good morning", greetingFor(0))
	assert.Equal(t, "Good morning", greetingFor(11))
	assert.Equal(t, "Good afternoon", greetingFor(12))
	assert.Equal(t, "Good afternoon", greetingFor(16))
	assert.Equal(t, "Good evening", greetingFor(17))

	resp := newResponder(fixture()).Respond("hello", steward)
	assert.True(t, strings.HasPrefix(resp.Text, "Good morning, Lisa Wong! ✈️"))
}

func TestPayTableFallsBackToGroundCrew(t *testing.T) {
	r := newResponder(fixture())
	assert.Contains(t, r.Respond("pay", pilot).Text, "⏰ Overtime Rate: $127.5/hour (1.5x)")
	assert.Contains(t, r.Respond("pay", models.User{Role: "dispatcher"}).Text, "💵 Base Rate: $25/hour")
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	resp := New(panicStore{}).Respond("my schedule", pilot)
	assert.Equal(t, "I encountered an error processing your request. Please try again or contact support.", resp.Text)
	assert.Equal(t, []string{"Help", "Contact support", "Try again"}, resp.Suggestions)
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Ground_Crew", titleCase("ground_crew"))
	assert.Equal(t, "Pilot", titleCase("PILOT"))
	assert.Equal(t, "User", titleCase("user"))
}
