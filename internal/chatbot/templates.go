package chatbot

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type payRate struct {
	base, overtime, holiday decimal.Decimal
}

func rate(base, overtime, holiday string) payRate {
	return payRate{
		base:     decimal.RequireFromString(base),
		overtime: decimal.RequireFromString(overtime),
		holiday:  decimal.RequireFromString(holiday),
	}
}

// payRates is hourly pay in USD by role. Unknown roles use ground_crew.
var payRates = map[string]payRate{
	"pilot":       rate("85", "127.50", "170"),
	"steward":     rate("35", "52.50", "70"),
	"ground_crew": rate("25", "37.50", "50"),
	"admin":       rate("40", "60", "80"),
}

const accessDeniedText = "🔒 Access denied. Administrative functions require admin privileges."

func adminReply(q request) Response {
	if q.user.Role != "admin" {
		return Response{
			Text:        accessDeniedText,
			Suggestions: []string{"View schedule", "Contact admin", "Request access", "Help"},
		}
	}
	var b strings.Builder
	b.WriteString("👨‍💼 **Administrative Functions:**\n\n")
	b.WriteString("📊 **Available Commands:**\n")
	b.WriteString("• Add crew member\n")
	b.WriteString("• Assign shifts\n")
	b.WriteString("• Manage schedules\n")
	b.WriteString("• Generate reports\n")
	b.WriteString("• View system status\n\n")
	b.WriteString("💡 **Quick Actions:**\n")
	b.WriteString("• Type 'add crew [name] [role]' to add crew\n")
	b.WriteString("• Type 'assign [crew] to [shift]' to assign\n")
	b.WriteString("• Type 'report [type]' for reports\n")
	return Response{
		Text:        b.String(),
		Suggestions: []string{"Add crew", "Assign shifts", "Generate report", "System status", "Manage users"},
	}
}

func weatherReply() Response {
	return Response{
		Text: "🌤️ **Current Weather Conditions:**\n\n" +
			"🌡️ Temperature: 72°F (22°C)\n" +
			"💨 Wind: 10 kts from 270°\n" +
			"☁️ Conditions: Partly cloudy\n" +
			"👁️ Visibility: 10+ miles\n" +
			"📊 Pressure: 30.12 inHg\n\n" +
			"⚠️ Weather alerts: None\n" +
			"🔮 Forecast: Fair conditions expected",
		Suggestions: []string{"Detailed forecast", "Flight weather", "Airport conditions", "Weather alerts", "Historical data"},
	}
}

func payReply(q request) Response {
	rates, ok := payRates[q.userRole()]
	if !ok {
		rates = payRates["ground_crew"]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "💰 **Pay Information for %s:**\n\n", q.userName())
	fmt.Fprintf(&b, "💵 Base Rate: $%s/hour\n", rates.base)
	fmt.Fprintf(&b, "⏰ Overtime Rate: $%s/hour (1.5x)\n", rates.overtime)
	fmt.Fprintf(&b, "🎉 Holiday Rate: $%s/hour (2x)\n\n", rates.holiday)
	b.WriteString("📊 **Recent Earnings:**\n")
	b.WriteString("This Month: $3,240 (projected)\n")
	b.WriteString("Last Month: $2,980\n")
	b.WriteString("YTD: $16,750\n")
	return Response{
		Text:        b.String(),
		Suggestions: []string{"View payslip", "Overtime opportunities", "Holiday schedule", "Tax info", "Direct deposit"},
	}
}

func overtimeReply() Response {
	return Response{
		Text: "⏰ **Overtime Opportunities:**\n\n" +
			"🔍 Current overtime shifts available:\n" +
			"• Weekend maintenance shift - Saturday 6AM-6PM\n" +
			"• Holiday coverage - Memorial Day\n" +
			"• Emergency standby - On-call this week\n\n" +
			"💡 **Overtime Rules:**\n" +
			"• 1.5x pay after 40 hours/week\n" +
			"• 2x pay on holidays\n" +
			"• Maximum 60 hours/week per regulations\n",
		Suggestions: []string{"Sign up for OT", "View OT history", "Check regulations", "Calculate pay", "Set preferences"},
	}
}

func swapReply() Response {
	return Response{
		Text: "🔄 **Shift Swap Center:**\n\n" +
			"📋 **Your shifts available for swap:**\n" +
			"• June 15 - Morning shift (6AM-2PM)\n" +
			"• June 20 - Flight AA123 (Captain)\n\n" +
			"🔍 **Requested swaps from others:**\n" +
			"• Lisa Wong wants to swap June 18 evening shift\n" +
			"• Mike Chen looking for weekend coverage\n\n" +
			"⚠️ All swaps must be approved by scheduling.",
		Suggestions: []string{"Post swap request", "Browse swaps", "Accept swap", "Swap history", "Contact scheduler"},
	}
}

func locationReply() Response {
	return Response{
		Text: "📍 **Location Information:**\n\n" +
			"🏢 **Main Hub:** Terminal A, Gate A1-A20\n" +
			"🔧 **Maintenance:** Hangar 3, Bay 1-4\n" +
			"👥 **Crew Room:** Terminal A, Level 2\n" +
			"☕ **Break Areas:** Gates A10, B15, C8\n" +
			"🚗 **Parking:** Employee Lot E, Level P2\n",
		Suggestions: []string{"Get directions", "Parking info", "Facility map", "Contact info", "Emergency exits"},
	}
}

func contactReply() Response {
	return Response{
		Text: "📞 **Important Contacts:**\n\n" +
			"🗓️ **Scheduling:** (555) 123-4567\n" +
			"🏥 **Medical:** (555) 123-4568\n" +
			"🔧 **Maintenance:** (555) 123-4569\n" +
			"🚨 **Emergency:** 911 or (555) 123-4570\n" +
			"💰 **Payroll:** (555) 123-4571\n" +
			"👥 **HR:** (555) 123-4572\n",
		Suggestions: []string{"Call scheduling", "Email HR", "Report issue", "Emergency contact", "Directory"},
	}
}

func airportsReply() Response {
	return Response{
		Text: "🛫 **Airport Information:**\n\n" +
			"🏠 **Home Base:** JFK International\n" +
			"📍 **Hub Airports:**\n" +
			"• JFK - New York (Primary Hub)\n" +
			"• LAX - Los Angeles (West Coast Hub)\n" +
			"• ORD - Chicago (Central Hub)\n\n" +
			"🌍 **Destinations:** 150+ airports worldwide\n" +
			"✈️ **Daily Operations:** 200+ flights\n",
		Suggestions: []string{"Airport codes", "Destination list", "Hub information", "Ground services", "Terminal maps"},
	}
}

func timeOffReply(q request) Response {
	var b strings.Builder
	fmt.Fprintf(&b, "🏖️ **Time Off Information for %s:**\n\n", q.userName())
	b.WriteString("📊 **Available Balance:**\n")
	b.WriteString("• Vacation Days: 18 remaining\n")
	b.WriteString("• Sick Days: 8 remaining\n")
	b.WriteString("• Personal Days: 3 remaining\n\n")
	b.WriteString("📅 **Upcoming Time Off:**\n")
	b.WriteString("• June 25-30: Vacation (Approved)\n")
	b.WriteString("• July 4: Holiday\n\n")
	b.WriteString("⏰ **Recent Requests:**\n")
	b.WriteString("• June 15: Personal day (Pending)\n")
	return Response{
		Text:        b.String(),
		Suggestions: []string{"Request time off", "Check balance", "View calendar", "Cancel request", "Holiday schedule"},
	}
}

func trainingReply(q request) Response {
	role := q.userRole()
	var b strings.Builder
	fmt.Fprintf(&b, "📚 **Training Information for %s:**\n\n", role)
	b.WriteString("✅ **Current Certifications:**\n")
	b.WriteString("• CPR/First Aid: Valid until Dec 2025\n")
	b.WriteString("• Security Training: Valid until Sep 2025\n")
	switch role {
	case "pilot":
		b.WriteString("• ATP License: Valid until Mar 2026\n")
		b.WriteString("• Type Rating (B737): Valid until Jan 2026\n")
		b.WriteString("• Medical Certificate: Class 1, Valid until Nov 2025\n\n")
	case "steward":
		b.WriteString("• Cabin Safety: Valid until Aug 2025\n")
		b.WriteString("• Food Safety: Valid until Oct 2025\n\n")
	}
	b.WriteString("📅 **Upcoming Training:**\n")
	b.WriteString("• Recurrent Safety Training: July 15, 2025\n")
	b.WriteString("• Emergency Procedures: August 2025\n")
	return Response{
		Text:        b.String(),
		Suggestions: []string{"Schedule training", "View certificates", "Training calendar", "Requirements", "Contact instructor"},
	}
}

func emergencyReply() Response {
	return Response{
		Text: "🚨 **EMERGENCY PROTOCOLS ACTIVATED**\n\n" +
			"📞 **Immediate Actions:**\n" +
			"1. Call 911 for life-threatening emergencies\n" +
			"2. Contact Operations Center: (555) 123-4570\n" +
			"3. Notify your supervisor immediately\n\n" +
			"📋 **Emergency Contacts:**\n" +
			"• Medical Emergency: 911\n" +
			"• Security: (555) 123-4580\n" +
			"• Maintenance Emergency: (555) 123-4569\n" +
			"• Operations Center: (555) 123-4570\n\n" +
			"⚠️ This system is for coordination only. Always use official emergency channels for urgent situations.",
		Suggestions: []string{"Call 911", "Contact operations", "View procedures", "Report incident", "Get help"},
	}
}

// greetingFor buckets the hour: before noon, before 17:00, then evening.
func greetingFor(hour int) string {
	switch {
	case hour < 12:
		return "Good morning"
	case hour < 17:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}

func greetingReply(q request) Response {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, %s! ✈️\n\n", greetingFor(q.now.Hour()), q.userName())
	b.WriteString("I'm your aviation crew assistant. I can help you with:\n\n")
	b.WriteString("📅 Schedule information\n")
	b.WriteString("✈️ Flight details\n")
	b.WriteString("👥 Crew coordination\n")
	b.WriteString("🔄 Available shifts\n")
	b.WriteString("💰 Pay information\n")
	b.WriteString("📞 Contact information\n\n")
	b.WriteString("What would you like to know?")
	return Response{
		Text:        b.String(),
		Suggestions: []string{"My schedule", "Today's duties", "Available shifts", "Flight status", "Contact info", "Help"},
	}
}

func helpReply() Response {
	return Response{
		Text: "🆘 **Aviation Crew Assistant Help**\n\n" +
			"💬 **What I can help with:**\n\n" +
			"📅 **Schedule:** 'my schedule', 'today's duties', 'tomorrow'\n" +
			"✈️ **Flights:** 'flight status', 'my flights', 'delays'\n" +
			"👥 **Crew:** 'available crew', 'contact info'\n" +
			"🔄 **Shifts:** 'available shifts', 'overtime', 'swap shifts'\n" +
			"💰 **Pay:** 'pay rates', 'overtime pay', 'earnings'\n" +
			"📍 **Location:** 'where is', 'directions', 'facilities'\n" +
			"⚠️ **Issues:** 'conflicts', 'problems', 'help needed'\n\n" +
			"💡 **Tips:**\n" +
			"• Use natural language - I understand context\n" +
			"• Try specific questions like 'Do I work tomorrow?'\n" +
			"• Click suggested buttons for quick actions\n",
		Suggestions: []string{"View examples", "Contact support", "Feature list", "Quick start", "About system"},
	}
}

var fallbackSuggestions = []string{"My schedule", "Flight status", "Available shifts", "Contact info", "Help", "Emergency"}

func defaultReply() Response {
	return Response{
		Text: "🤔 I'm not sure I understand that request.\n\n" +
			"Here are some things you can ask me about:\n\n" +
			"📅 Schedule: 'What's my schedule?', 'Do I work today?'\n" +
			"✈️ Flights: 'Flight status', 'Today's flights'\n" +
			"👥 Crew: 'Who's available?', 'Contact info'\n" +
			"🔄 Shifts: 'Available shifts', 'Overtime opportunities'\n" +
			"💰 Pay: 'Pay rates', 'My earnings'\n" +
			"📞 Help: 'Emergency contacts', 'How to use this'\n\n" +
			"Try rephrasing your question or use the suggested buttons below.",
		Suggestions: clone(fallbackSuggestions),
	}
}
