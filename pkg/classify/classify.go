// Package classify assigns type, intent and urgency to cleaned message text
// using ordered keyword rule tables. Rules are evaluated top to bottom and
// the first match wins, which keeps every decision auditable; there is no
// statistical model anywhere in this package.
package classify

import (
	"strings"
	"time"

	"github.com/seeya29/SmartBrief/pkg/entities"
)

// Message types.
const (
	TypeMeeting  = "meeting"
	TypeReminder = "reminder"
	TypeNote     = "note"
	TypeTask     = "task"
	TypeQuestion = "question"
	TypeMessage  = "message"
)

// Intents.
const (
	IntentConfirmMeeting    = "confirm_meeting"
	IntentScheduleMeeting   = "schedule_meeting"
	IntentRescheduleMeeting = "reschedule_meeting"
	IntentCancelMeeting     = "cancel_meeting"
	IntentInformMeeting     = "inform_meeting"
	IntentReminder          = "reminder"
	IntentUrgentRequest     = "urgent_request"
	IntentRequest           = "request"
	IntentFollowUp          = "follow_up"
	IntentQuestion          = "question"
	IntentInformational     = "informational"
)

// Urgency levels.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Context flags.
const (
	FlagHasDate   = "has_date"
	FlagHasPerson = "has_person"
	FlagFollowUp  = "follow_up"
)

// Result is the classification of one message.
type Result struct {
	Type         string
	Intent       string
	Urgency      string
	ContextFlags []string
}

type keywordRule struct {
	keywords []string
	result   string
}

func (r keywordRule) matches(lower string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

var typeRules = []keywordRule{
	{[]string{"meeting", "meet", "appointment", "call", "schedule", "reschedule", "cancel", "talk", "chat"}, TypeMeeting},
	{[]string{"remind", "don't forget", "dont forget", "remember", "due", "deadline", "by eod", "eod", "by "}, TypeReminder},
	{[]string{"fyi", "for your information", "note", "heads up", "update"}, TypeNote},
	{[]string{"task", "todo", "action item", "assign", "please", "can you", "could you"}, TypeTask},
	{[]string{"question", "?", "ask", "clarify", "who", "what", "when", "where", "how", "why"}, TypeQuestion},
}

// "reschedule" is checked before "schedule" because the latter is a
// substring of the former.
var meetingIntentRules = []keywordRule{
	{[]string{"confirm", "confirmation"}, IntentConfirmMeeting},
	{[]string{"reschedule", "move", "postpone"}, IntentRescheduleMeeting},
	{[]string{"cancel"}, IntentCancelMeeting},
	{[]string{"schedule", "set up", "book"}, IntentScheduleMeeting},
}

var generalIntentRules = []keywordRule{
	{[]string{"urgent", "asap", "immediately", "high priority", "priority"}, IntentUrgentRequest},
	{[]string{"can you", "please", "could you", "send", "share", "help", "assign", "finish", "complete"}, IntentRequest},
	{[]string{"update", "any update", "follow up", "follow-up", "status"}, IntentFollowUp},
	{[]string{"question", "?", "how", "what", "why", "when", "where"}, IntentQuestion},
}

var urgencyKeywords = []string{"emergency", "critical", "urgent", "asap", "immediately", "high priority", "priority"}

var soonKeywords = []string{"soon", "tomorrow", "today", "eod", "end of day", "tonight"}

var reminderKeywords = []string{"reminder", "don't forget", "dont forget", "remember", "due", "deadline", "by eod", "eod"}

var followUpMarkers = []string{"following up", "follow up", "follow-up", "any update", "still waiting"}

// Classify determines type, intent, urgency and context flags for cleaned
// text. The anchor is the payload timestamp; isReply marks messages whose
// raw form carried reply-chain markers.
func Classify(text string, ents entities.Set, anchor time.Time, isReply bool) Result {
	lower := strings.ToLower(text)

	msgType := classifyType(lower)
	intent := classifyIntent(lower, msgType)
	urgency := classifyUrgency(lower, ents.When, anchor)

	var flags []string
	if ents.When != nil {
		flags = append(flags, FlagHasDate)
	}
	if ents.HasPerson() {
		flags = append(flags, FlagHasPerson)
	}
	if intent == IntentFollowUp || isReply || containsAny(lower, followUpMarkers) {
		flags = append(flags, FlagFollowUp)
	}

	return Result{Type: msgType, Intent: intent, Urgency: urgency, ContextFlags: flags}
}

func classifyType(lower string) string {
	for _, rule := range typeRules {
		if rule.matches(lower) {
			return rule.result
		}
	}
	return TypeMessage
}

func classifyIntent(lower, msgType string) string {
	if msgType == TypeMeeting {
		for _, rule := range meetingIntentRules {
			if rule.matches(lower) {
				return rule.result
			}
		}
		return IntentInformMeeting
	}
	if msgType == TypeReminder || containsAny(lower, reminderKeywords) {
		return IntentReminder
	}
	if msgType == TypeNote {
		return IntentInformational
	}
	for _, rule := range generalIntentRules {
		if rule.matches(lower) {
			return rule.result
		}
	}
	return IntentInformational
}

func classifyUrgency(lower string, when *time.Time, anchor time.Time) string {
	if containsAny(lower, urgencyKeywords) {
		return UrgencyHigh
	}
	if strings.Count(lower, "!") >= 3 {
		return UrgencyHigh
	}

	if when != nil {
		hours := when.Sub(anchor).Hours()
		switch {
		case hours <= 6:
			return UrgencyHigh
		case hours <= 48:
			return UrgencyMedium
		default:
			return UrgencyLow
		}
	}

	if containsAny(lower, soonKeywords) {
		return UrgencyMedium
	}
	return UrgencyLow
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
