// Package render produces the one-line human readable summary for a
// classified message. Phrasing is template-selected by intent and slots are
// dropped when the entity behind them is absent, so output is deterministic.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/seeya29/SmartBrief/pkg/classify"
	"github.com/seeya29/SmartBrief/pkg/entities"
)

var intentLeads = map[string]string{
	classify.IntentConfirmMeeting:    "User wants confirmation",
	classify.IntentScheduleMeeting:   "User wants to schedule",
	classify.IntentRescheduleMeeting: "User wants to reschedule",
	classify.IntentCancelMeeting:     "User wants to cancel",
	classify.IntentInformMeeting:     "User shares an update",
	classify.IntentReminder:          "User shares a reminder",
	classify.IntentUrgentRequest:     "User has an urgent request",
	classify.IntentRequest:           "User requests",
	classify.IntentFollowUp:          "User is following up",
	classify.IntentQuestion:          "User asks a question",
	classify.IntentInformational:     "User shares information",
}

// Render builds the summary line for a message of the given type and intent.
// The anchor is used to phrase the target date relative to the message
// ("today", "tomorrow", or an absolute date).
func Render(msgType, intent string, ents entities.Set, anchor time.Time) string {
	lead, ok := intentLeads[intent]
	if !ok {
		lead = "User message"
	}

	if msgType != classify.TypeMeeting {
		return lead + "."
	}

	var timePhrase, whenPhrase string
	if ents.When != nil {
		target := ents.When.UTC()
		switch dayDiff(anchor.UTC(), target) {
		case 0:
			whenPhrase = "today"
		case 1:
			whenPhrase = "tomorrow"
		default:
			whenPhrase = target.Format("on 2006-01-02")
		}

		hour12 := target.Hour() % 12
		if hour12 == 0 {
			hour12 = 12
		}
		meridiem := "AM"
		if target.Hour() >= 12 {
			meridiem = "PM"
		}
		timePhrase = fmt.Sprintf("%d", hour12)
		if target.Minute() != 0 {
			timePhrase += fmt.Sprintf(":%02d", target.Minute())
		}
		timePhrase += " " + meridiem
	}

	personPhrase := ""
	if ents.HasPerson() {
		personPhrase = " with " + strings.Join(ents.Person, ", ")
	}

	article := "about a"
	if intent == classify.IntentConfirmMeeting {
		article = "for a"
	}

	switch {
	case timePhrase != "" && whenPhrase != "":
		return fmt.Sprintf("%s %s %s meeting%s %s.", lead, article, timePhrase, personPhrase, whenPhrase)
	case timePhrase != "":
		return fmt.Sprintf("%s %s %s meeting%s.", lead, article, timePhrase, personPhrase)
	default:
		return fmt.Sprintf("%s %s meeting%s.", lead, article, personPhrase)
	}
}

// dayDiff counts whole calendar days between the anchor date and the target
// date, both taken in UTC.
func dayDiff(anchor, target time.Time) int {
	ay, am, ad := anchor.Date()
	ty, tm, td := target.Date()
	a := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
