package chatbot

import "strings"

type Intent string

const (
	IntentSchedule        Intent = "schedule"
	IntentFlight          Intent = "flight"
	IntentCrew            Intent = "crew"
	IntentStatus          Intent = "status"
	IntentWeather         Intent = "weather"
	IntentHelp            Intent = "help"
	IntentGreeting        Intent = "greeting"
	IntentAvailableShifts Intent = "available_shifts"
	IntentConflicts       Intent = "conflicts"
	IntentAircraft        Intent = "aircraft"
	IntentAirports        Intent = "airports"
	IntentTimeOff         Intent = "time_off"
	IntentTraining        Intent = "training"
	IntentEmergency       Intent = "emergency"
	IntentAdmin           Intent = "admin"
	IntentPay             Intent = "pay"
	IntentOvertime        Intent = "overtime"
	IntentSwap            Intent = "swap"
	IntentLocation        Intent = "location"
	IntentContact         Intent = "contact"
	IntentDefault         Intent = "default"
)

var keywords = map[Intent][]string{
	IntentSchedule:        {"schedule", "shift", "duty", "when", "time", "today", "tomorrow", "next", "my duties", "assigned", "roster", "work", "upcoming"},
	IntentFlight:          {"flight", "trip", "departure", "arrival", "gate", "aircraft", "plane", "takeoff", "landing", "route", "destination"},
	IntentCrew:            {"crew", "staff", "pilot", "steward", "ground", "team", "colleague", "captain", "first officer", "attendant", "members"},
	IntentStatus:          {"status", "available", "busy", "free", "working", "off", "duty status", "current status", "on duty", "off duty"},
	IntentWeather:         {"weather", "forecast", "rain", "wind", "storm", "clear", "conditions", "visibility", "temperature"},
	IntentHelp:            {"help", "how", "what", "explain", "guide", "instructions", "commands", "usage", "manual"},
	IntentGreeting:        {"hello", "hi", "good morning", "good afternoon", "good evening", "hey", "greetings", "howdy"},
	IntentAvailableShifts: {"available shifts", "open shifts", "pickup", "extra work", "overtime", "volunteer", "vacant", "need crew"},
	IntentConflicts:       {"conflict", "overlap", "double booking", "clash", "problem", "issue", "scheduling conflict"},
	IntentAircraft:        {"aircraft", "airplane", "plane", "fleet", "maintenance", "airworthy", "registration", "tail number"},
	IntentAirports:        {"airport", "destination", "origin", "hub", "base", "terminal", "gate", "runway"},
	IntentTimeOff:         {"time off", "vacation", "leave", "sick", "personal", "holiday", "absent", "pto", "break"},
	IntentTraining:        {"training", "recurrent", "certification", "license", "currency", "check ride", "simulator", "course"},
	IntentEmergency:       {"emergency", "urgent", "critical", "mayday", "pan pan", "alert", "help needed"},
	IntentAdmin:           {"add", "create", "remove", "delete", "update", "change", "assign", "unassign"},
	IntentPay:             {"pay", "salary", "wage", "payment", "payroll", "earnings", "compensation"},
	IntentOvertime:        {"overtime", "ot", "extra hours", "additional pay", "double time"},
	IntentSwap:            {"swap", "trade", "exchange", "switch", "change shift"},
	IntentLocation:        {"where", "location", "base", "station", "hangar", "terminal"},
	IntentContact:         {"contact", "phone", "email", "reach", "call", "message"},
}

// priority is the order in which the remaining intents are tried once the
// admin and emergency checks have not matched.
var priority = []Intent{
	IntentAvailableShifts,
	IntentConflicts,
	IntentSchedule,
	IntentFlight,
	IntentAircraft,
	IntentCrew,
	IntentStatus,
	IntentTimeOff,
	IntentTraining,
	IntentAirports,
	IntentWeather,
	IntentPay,
	IntentOvertime,
	IntentSwap,
	IntentLocation,
	IntentContact,
	IntentGreeting,
	IntentHelp,
}

// Classify maps a free-text message to an intent. Matching is plain
// substring containment on the lower-cased message, so short keywords
// such as "hi" or "ot" also match inside longer words.
func Classify(message string) Intent {
	msg := strings.ToLower(message)
	if containsAny(msg, keywords[IntentAdmin]) {
		return IntentAdmin
	}
	if containsAny(msg, keywords[IntentEmergency]) {
		return IntentEmergency
	}
	for _, intent := range priority {
		if containsAny(msg, keywords[intent]) {
			return intent
		}
	}
	return IntentDefault
}

func containsAny(msg string, words []string) bool {
	for _, w := range words {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}
