package orchestrators

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"studio/internal/domain/calendar"
)

// ErrNoDateFound is returned when quick-add text names no recognizable date.
var ErrNoDateFound = errors.New("no date found in text")

var quickParser = newQuickParser()

func newQuickParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// clockMention matches the parts of a phrase that pin a time of day.
var clockMention = regexp.MustCompile(`(?i)\d{1,2}:\d{2}|\d{1,2}\s*(am|pm|a\.m\.|p\.m\.)|\bnoon\b|\bmidnight\b`)

// danglingWords are connectors left behind once the date phrase is cut out.
var danglingWords = map[string]bool{"at": true, "on": true, "by": true, "for": true}

// ParseQuickAdd turns free text like "Bisque firing tomorrow at 9am" into a
// creation input. Type and caller fields are left for the caller to fill.
// PRE: now carries the studio's location
// POST: Date is set; Time is set only when the text names a time of day
func ParseQuickAdd(text string, now time.Time) (CreateCalendarItemInput, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return CreateCalendarItemInput{}, calendar.ErrRejected
	}
	r, err := quickParser.Parse(text, now)
	if err != nil {
		return CreateCalendarItemInput{}, fmt.Errorf("parse %q: %w", text, err)
	}
	if r == nil {
		return CreateCalendarItemInput{}, ErrNoDateFound
	}

	in := CreateCalendarItemInput{
		Title: quickTitle(text[:r.Index] + " " + text[r.Index+len(r.Text):]),
		Date:  calendar.FormatDate(r.Time),
	}
	if clockMention.MatchString(r.Text) {
		in.Time = r.Time.Format(calendar.TimeLayout)
	}
	return in, nil
}

func quickTitle(rest string) string {
	words := strings.Fields(rest)
	for len(words) > 0 && danglingWords[strings.ToLower(words[len(words)-1])] {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}
