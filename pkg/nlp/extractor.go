package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type BookingExtractor struct {
	intentPattern   *regexp.Regexp
	partyPatterns   []*regexp.Regexp
	namePattern     *regexp.Regexp
	forNamePattern  *regexp.Regexp
	phonePattern    *regexp.Regexp
	rangePattern    *regexp.Regexp
	atClockPattern  *regexp.Regexp
	meridiemPattern *regexp.Regexp
	clockPattern    *regexp.Regexp
	wordPattern     *regexp.Regexp

	now func() time.Time
}

func NewBookingExtractor() *BookingExtractor {
	return &BookingExtractor{
		intentPattern: regexp.MustCompile(`(?i)\b(book|booking|reservation|reserve|table)\b`),
		partyPatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)party of\s*(\d{1,2})`),
			regexp.MustCompile(`(?i)table for\s*(\d{1,2})`),
			regexp.MustCompile(`(?i)for\s*(\d{1,2})\s*(?:people|persons|guests)`),
			regexp.MustCompile(`(?i)(\d{1,2})\s*(?:people|persons|guests)`),
		},
		namePattern:     regexp.MustCompile(`(?i)(?:my name is|this is|i am|i'm|name is|name's)\s+([A-Za-z][A-Za-z'\-.]*(?:\s+[A-Za-z][A-Za-z'\-.]*){0,3})`),
		forNamePattern:  regexp.MustCompile(`(?i)for\s+([A-Za-z][A-Za-z'\-.]*(?:\s+[A-Za-z][A-Za-z'\-.]*){0,3})`),
		phonePattern:    regexp.MustCompile(`(\+?\d[\d\s\-\.]{6,14}\d)`),
		rangePattern:    regexp.MustCompile(`(?i)(?:from|between)\s+([^,;]+?)\s+(?:to|until|and)\s+([^,;.]+)`),
		atClockPattern:  regexp.MustCompile(`(?i)\bat\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)?\b`),
		meridiemPattern: regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)\b`),
		clockPattern:    regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)?\b`),
		wordPattern:     regexp.MustCompile(`(?i)\b(noon|midnight|morning|afternoon|evening|tonight)\b`),
		now:             time.Now,
	}
}

func (e *BookingExtractor) HasBookingIntent(text string) bool {
	return e.intentPattern.MatchString(text)
}

func (e *BookingExtractor) Extract(text string) BookingFields {
	fields := BookingFields{Notes: strings.TrimSpace(text)}

	fields.PartySize = e.extractPartySize(text)
	fields.CustomerName = e.extractName(text)
	fields.PhoneNumber = e.extractPhone(text)

	base := e.baseDate(text)
	start, end := e.extractTimes(text, base)
	if start != nil {
		fields.Date = start.Format("2006-01-02")
		fields.StartTime = start.Format("15:04")
	}
	if end != nil {
		fields.EndTime = end.Format("15:04")
	}

	return fields
}

func (e *BookingExtractor) extractPartySize(text string) int {
	for _, pattern := range e.partyPatterns {
		if m := pattern.FindStringSubmatch(text); len(m) > 1 {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n
			}
		}
	}
	return 0
}

func (e *BookingExtractor) extractName(text string) string {
	if m := e.namePattern.FindStringSubmatch(text); len(m) > 1 {
		return trimNameTail(m[1])
	}

	// "for NAME" is ambiguous with "for 2 people" and "for 9 pm"; reject
	// captures carrying digits or time words.
	if m := e.forNamePattern.FindStringSubmatch(text); len(m) > 1 {
		candidate := trimNameTail(m[1])
		lower := strings.ToLower(candidate)
		if candidate != "" && !strings.ContainsAny(candidate, "0123456789") &&
			!strings.Contains(lower, "people") && !strings.Contains(lower, "noon") &&
			!strings.Contains(lower, "tonight") && !strings.Contains(lower, "tomorrow") {
			return candidate
		}
	}

	return ""
}

// trimNameTail cuts the capture at the first filler word so "John and I'd
// like" becomes "John".
func trimNameTail(candidate string) string {
	stops := map[string]bool{
		"and": true, "for": true, "party": true, "at": true, "on": true,
		"we": true, "i": true, "i'd": true, "i'll": true, "please": true,
		"tonight": true, "tomorrow": true, "today": true,
	}

	words := strings.Fields(candidate)
	var kept []string
	for _, w := range words {
		if stops[strings.ToLower(strings.Trim(w, ".,"))] {
			break
		}
		kept = append(kept, strings.Trim(w, ".,"))
	}

	return strings.Join(kept, " ")
}

func (e *BookingExtractor) extractPhone(text string) string {
	m := e.phonePattern.FindString(text)
	if m == "" {
		return ""
	}

	digits := 0
	for _, r := range m {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 7 {
		return ""
	}

	return strings.TrimSpace(m)
}

func (e *BookingExtractor) baseDate(text string) time.Time {
	base := e.now()
	if strings.Contains(strings.ToLower(text), "tomorrow") {
		base = base.AddDate(0, 0, 1)
	}
	return time.Date(base.Year(), base.Month(), base.Day(), 0, 0, 0, 0, base.Location())
}

func (e *BookingExtractor) extractTimes(text string, base time.Time) (*time.Time, *time.Time) {
	var start, end *time.Time

	if m := e.rangePattern.FindStringSubmatch(text); len(m) > 2 {
		start = e.parseTimeFragment(m[1], base, text)
		end = e.parseTimeFragment(m[2], base, text)
	}

	// "at 7" or an explicit am/pm beats any bare digit, which is more
	// likely a party size.
	if start == nil {
		if m := e.atClockPattern.FindStringSubmatch(text); len(m) > 1 {
			start = e.parseClock(m, base, text)
		}
	}
	if start == nil {
		if m := e.meridiemPattern.FindStringSubmatch(text); len(m) > 1 {
			start = e.parseClock(m, base, text)
		}
	}
	if start == nil {
		if m := e.wordPattern.FindString(text); m != "" {
			start = e.parseTimeWord(m, base)
		}
	}

	if start != nil && end == nil {
		e2 := start.Add(2 * time.Hour)
		end = &e2
	}
	if start != nil && end != nil && !end.After(*start) {
		e2 := start.Add(2 * time.Hour)
		end = &e2
	}

	return start, end
}

func (e *BookingExtractor) parseTimeFragment(fragment string, base time.Time, fullText string) *time.Time {
	fragment = strings.TrimSpace(fragment)
	if fragment == "" {
		return nil
	}

	if t := e.parseTimeWord(fragment, base); t != nil {
		return t
	}
	if m := e.clockPattern.FindStringSubmatch(fragment); len(m) > 0 && m[1] != "" {
		return e.parseClock(m, base, fullText)
	}

	return nil
}

func (e *BookingExtractor) parseClock(m []string, base time.Time, fullText string) *time.Time {
	hh, err := strconv.Atoi(m[1])
	if err != nil || hh > 23 {
		return nil
	}

	mm := 0
	if m[2] != "" {
		mm, _ = strconv.Atoi(m[2])
	}
	if mm > 59 {
		return nil
	}

	meridiem := strings.ReplaceAll(strings.ToLower(m[3]), ".", "")
	switch meridiem {
	case "pm":
		if hh < 12 {
			hh += 12
		}
	case "am":
		if hh == 12 {
			hh = 0
		}
	default:
		// "tonight at 7" means 19:00, not breakfast
		lower := strings.ToLower(fullText)
		if hh < 12 && (strings.Contains(lower, "tonight") || strings.Contains(lower, "evening") || strings.Contains(lower, "dinner")) {
			hh += 12
		}
	}

	t := base.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
	return &t
}

func (e *BookingExtractor) parseTimeWord(word string, base time.Time) *time.Time {
	var hh int
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "noon":
		hh = 12
	case "midnight":
		hh = 0
	case "morning":
		hh = 9
	case "afternoon":
		hh = 15
	case "evening", "tonight":
		hh = 19
	default:
		return nil
	}

	t := base.Add(time.Duration(hh) * time.Hour)
	return &t
}
