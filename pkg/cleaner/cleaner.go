package cleaner

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Clean normalizes raw message text according to the conventions of the
// platform it came from. It is pure and never fails: empty or garbage input
// yields empty output. Unknown platforms get whitespace normalization only.
func Clean(platform, text string) string {
	switch normalizePlatform(platform) {
	case "whatsapp":
		t := stripEmoji(text)
		t = unifyPunctuation(t)
		t = collapseRepeats(t)
		return dedupWords(t)
	case "email":
		t := cleanEmail(text)
		t = unifyPunctuation(t)
		return collapseRepeats(t)
	case "instagram":
		t := cleanInstagram(text)
		return unifyPunctuation(t)
	default:
		return normalizeSpace(text)
	}
}

func normalizePlatform(platform string) string {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "whatsapp":
		return "whatsapp"
	case "email":
		return "email"
	case "instagram", "instagram dm", "ig", "insta":
		return "instagram"
	default:
		return ""
	}
}

var (
	urlPattern      = regexp.MustCompile(`https?://\S+|www\.\S+`)
	hashtagPattern  = regexp.MustCompile(`#[\w_]+`)
	onWrotePattern  = regexp.MustCompile(`(?i)^On .+ wrote:\s*$`)
	replyToPattern  = regexp.MustCompile(`(?i)\b(?:replying to|replied to)\b[:\s]*["']?([^"'.!?]+)`)
	htmlTagPattern  = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
	blockTagPattern = regexp.MustCompile(`(?i)</(?:p|div|li|h[1-6]|tr)>|<br\s*/?>`)
	spacePattern    = regexp.MustCompile(`\s+`)
)

var forwardedMarkers = []string{
	"Forwarded message",
	"Begin forwarded message",
	"-----Original Message-----",
	"----- Forwarded Message -----",
	"From:",
	"Sent:",
	"To:",
}

var signatureMarkers = []string{
	"--",
	"__",
	"Sent from my",
	"Regards",
	"Best",
	"Thanks",
}

// cleanEmail extracts the subject line, drops quoted/forwarded preambles and
// trailing signature blocks, and prepends the subject to what remains.
func cleanEmail(text string) string {
	if htmlTagPattern.MatchString(text) {
		text = htmlToText(text)
	}

	var (
		subject   string
		kept      []string
		signature bool
	)
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" {
			continue
		}
		if subject == "" && strings.HasPrefix(strings.ToLower(s), "subject:") {
			subject = strings.TrimSpace(s[len("subject:"):])
			continue
		}
		if strings.HasPrefix(s, ">") {
			continue
		}
		if hasAnyPrefix(s, forwardedMarkers) {
			continue
		}
		if onWrotePattern.MatchString(s) {
			continue
		}
		if hasAnyPrefix(s, signatureMarkers) {
			signature = true
		}
		if signature {
			continue
		}
		kept = append(kept, s)
	}

	body := normalizeSpace(strings.Join(kept, " "))
	if subject != "" {
		if body == "" {
			return subject
		}
		return subject + " - " + body
	}
	return body
}

func cleanInstagram(text string) string {
	replyContext := ""
	if m := replyToPattern.FindStringSubmatch(text); m != nil {
		replyContext = strings.TrimSpace(m[1])
	}

	text = urlPattern.ReplaceAllString(text, "")
	text = hashtagPattern.ReplaceAllString(text, "")
	text = normalizeSpace(text)

	if replyContext != "" && !strings.Contains(text, replyContext) {
		return "In reply to: " + replyContext + ". " + text
	}
	return text
}

// IsReply reports whether the raw text carries reply-chain markers: an
// explicit "replying to ..." reference, a Re:/Fwd: subject prefix, or a
// quoted "On ... wrote:" line.
func IsReply(text string) bool {
	if replyToPattern.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, "re:") || strings.Contains(lower, "fw:") || strings.Contains(lower, "fwd:") {
		return true
	}
	for _, line := range strings.Split(text, "\n") {
		if onWrotePattern.MatchString(strings.TrimSpace(line)) {
			return true
		}
	}
	return false
}

func htmlToText(text string) string {
	// Keep block boundaries as line breaks so the line-oriented passes
	// above still see the message structure.
	text = blockTagPattern.ReplaceAllString(text, "\n")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}
	doc.Find("script,style").Remove()
	return doc.Text()
}

func hasAnyPrefix(s string, markers []string) bool {
	for _, m := range markers {
		if strings.HasPrefix(s, m) {
			return true
		}
	}
	return false
}

func normalizeSpace(text string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}

var punctuationReplacer = strings.NewReplacer(
	"“", `"`,
	"”", `"`,
	"‘", "'",
	"’", "'",
	"—", "-",
	"–", "-",
	"…", "...",
)

func unifyPunctuation(text string) string {
	return normalizeSpace(punctuationReplacer.Replace(text))
}

// collapseRepeats shortens stuttered input: runs of the same terminal
// punctuation collapse to one mark, runs of three or more of any other rune
// collapse to two ("Helloooo" -> "Helloo").
func collapseRepeats(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		switch {
		case r == '!' || r == '?' || r == '.':
			if run == 1 {
				b.WriteRune(r)
			}
		default:
			if run <= 2 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// dedupWords collapses immediately repeated words, compared
// case-insensitively, keeping the first occurrence.
func dedupWords(text string) string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return ""
	}
	out := tokens[:1]
	for _, tok := range tokens[1:] {
		if !strings.EqualFold(tok, out[len(out)-1]) {
			out = append(out, tok)
		}
	}
	return strings.Join(out, " ")
}

// emojiRanges covers the pictographic blocks messaging apps emit.
var emojiRanges = [][2]rune{
	{0x1F600, 0x1F64F},
	{0x1F300, 0x1F5FF},
	{0x1F680, 0x1F6FF},
	{0x1F900, 0x1F9FF},
	{0x1F1E6, 0x1F1FF},
	{0x2600, 0x27BF},
	{0xFE00, 0xFE0F},
	{0x1F251, 0x1F251},
}

func stripEmoji(text string) string {
	return strings.Map(func(r rune) rune {
		for _, rng := range emojiRanges {
			if r >= rng[0] && r <= rng[1] {
				return -1
			}
		}
		return r
	}, text)
}
