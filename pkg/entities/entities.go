// Package entities extracts person names and date/time references from
// cleaned message text. All relative phrases are resolved against a
// caller-supplied anchor instant, so extraction is deterministic.
package entities

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Set holds the entities recognized in a single message.
type Set struct {
	Person []string
	When   *time.Time
}

// HasPerson reports whether at least one person name was found.
func (s Set) HasPerson() bool { return len(s.Person) > 0 }

// Extract scans cleaned text for person names and a date/time reference.
// Unresolvable phrases degrade to an empty person list and a nil When; the
// function never fails.
func Extract(text string, anchor time.Time) Set {
	return Set{
		Person: extractPeople(text),
		When:   extractWhen(text, anchor),
	}
}

// FormatUTC renders t as an ISO-8601 UTC timestamp with the Z suffix.
func FormatUTC(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}

var (
	connectorPattern = regexp.MustCompile(`\b(?:with|from|to|cc|attn)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
	honorificPattern = regexp.MustCompile(`\b(?:Mr\.|Mrs\.|Ms\.|Dr\.)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)*)`)
	capTokenPattern  = regexp.MustCompile(`\b[A-Z][a-z]+\b`)
)

// nameStoplist holds capitalized words that look like names but are not:
// weekdays, months, pronouns and common message vocabulary.
var nameStoplist = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
		"january", "february", "march", "april", "may", "june", "july",
		"august", "september", "october", "november", "december",
		"jan", "feb", "mar", "apr", "jun", "jul", "aug", "sep", "oct", "nov", "dec",
		"i", "he", "she", "it", "we", "you", "they",
		"hey", "hi", "hello", "dear", "please", "confirm", "today", "tomorrow",
		"tonight", "meeting", "pm", "am", "update", "subject", "let", "thanks",
		"regards", "reminder", "urgent", "asap", "eod", "ok", "sent", "best",
		"mr", "mrs", "ms", "dr",
	} {
		nameStoplist[w] = struct{}{}
	}
}

func extractPeople(text string) []string {
	var people []string
	seen := map[string]struct{}{}
	covered := map[string]struct{}{}
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, stop := nameStoplist[strings.ToLower(name)]; stop {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		people = append(people, name)
		for _, word := range strings.Fields(name) {
			covered[word] = struct{}{}
		}
	}

	for _, m := range connectorPattern.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, m := range honorificPattern.FindAllStringSubmatch(text, -1) {
		add(m[1])
	}
	for _, loc := range capTokenPattern.FindAllStringIndex(text, -1) {
		if atSentenceStart(text, loc[0]) {
			continue
		}
		tok := text[loc[0]:loc[1]]
		// Words already claimed by a multi-word name are not re-added.
		if _, ok := covered[tok]; ok {
			continue
		}
		add(tok)
	}
	return people
}

// atSentenceStart reports whether the token starting at pos opens the text
// or follows terminal punctuation, where capitalization carries no signal.
func atSentenceStart(text string, pos int) bool {
	for i := pos - 1; i >= 0; i-- {
		switch text[i] {
		case ' ', '\t', '\n':
			continue
		case '.', '!', '?', '"', '\'', '-', ':':
			return true
		default:
			return false
		}
	}
	return true
}

var weekdayNames = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// dayPartTimes maps vague day-part phrases to conventional clock times.
// Evaluated in order so "end of day" wins over a bare "eod" substring check.
var dayPartTimes = []struct {
	phrase string
	hour   int
	minute int
}{
	{"morning", 9, 0},
	{"afternoon", 15, 0},
	{"evening", 18, 0},
	{"tonight", 20, 0},
	{"end of day", 17, 0},
	{"eod", 17, 0},
}

var (
	relativePattern = regexp.MustCompile(`\bin\s+(\d+)\s+(minutes?|hours?|days?)\b`)
	clockPattern    = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\b`)
	isoDatePattern  = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	monthDayPattern = regexp.MustCompile(`\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+(\d{1,2})\b`)
)

var monthIndex = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

func extractWhen(text string, anchor time.Time) *time.Time {
	anchor = anchor.UTC()
	lower := strings.ToLower(text)

	dayOffset := 0
	hasDayMarker := false
	if strings.Contains(lower, "tomorrow") {
		dayOffset = 1
		hasDayMarker = true
	} else if strings.Contains(lower, "today") {
		hasDayMarker = true
	}

	// A weekday name resolves to its next occurrence strictly after the
	// anchor date; the same weekday means the following week.
	anchorIdx := (int(anchor.Weekday()) + 6) % 7
	for i, wd := range weekdayNames {
		if strings.Contains(lower, wd) {
			diff := (i - anchorIdx + 7) % 7
			if diff == 0 {
				diff = 7
			}
			dayOffset = diff
			hasDayMarker = true
			break
		}
	}

	for _, dp := range dayPartTimes {
		if strings.Contains(lower, dp.phrase) {
			t := atClock(anchor.AddDate(0, 0, dayOffset), dp.hour, dp.minute)
			return &t
		}
	}

	if m := relativePattern.FindStringSubmatch(lower); m != nil {
		val, _ := strconv.Atoi(m[1])
		var t time.Time
		switch {
		case strings.HasPrefix(m[2], "minute"):
			t = anchor.Add(time.Duration(val) * time.Minute)
		case strings.HasPrefix(m[2], "hour"):
			t = anchor.Add(time.Duration(val) * time.Hour)
		default:
			t = anchor.AddDate(0, 0, val)
		}
		return &t
	}

	// Only explicit clock times count: a bare number needs either minutes
	// or an am/pm marker before it is treated as a time.
	var clock []string
	for _, m := range clockPattern.FindAllStringSubmatch(text, -1) {
		if m[2] != "" || m[3] != "" {
			clock = m
			break
		}
	}
	if m := clock; m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		switch strings.ToLower(m[3]) {
		case "pm":
			if hour != 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		if hour > 23 || minute > 59 {
			return nil
		}
		t := atClock(anchor.AddDate(0, 0, dayOffset), hour, minute)
		// A bare time with no day qualifier means its next occurrence.
		if !hasDayMarker && !t.After(anchor) {
			t = t.AddDate(0, 0, 1)
		}
		return &t
	}

	if m := isoDatePattern.FindStringSubmatch(text); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return nil
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		return &t
	}

	if m := monthDayPattern.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[2])
		if day < 1 || day > 31 {
			return nil
		}
		t := time.Date(anchor.Year(), monthIndex[m[1]], day, 0, 0, 0, 0, time.UTC)
		return &t
	}

	return nil
}

func atClock(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
}
