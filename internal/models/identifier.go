package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// IdentifierScheme is the numbering convention used to address the
// episodes of a show.
type IdentifierScheme string

// Known identifier schemes. The empty string means "unset": a show whose
// begin pointer was destroyed re-arms scheme detection by clearing the
// field entirely.
const (
	SchemeAuto     IdentifierScheme = "auto"
	SchemeEp       IdentifierScheme = "ep"
	SchemeSequence IdentifierScheme = "sequence"
	SchemeDate     IdentifierScheme = "date"
	SchemeID       IdentifierScheme = "id"
	SchemeSpecial  IdentifierScheme = "special"
)

// Valid returns true for schemes that may appear on ingested entities.
func (s IdentifierScheme) Valid() bool {
	switch s {
	case SchemeEp, SchemeSequence, SchemeDate, SchemeID, SchemeSpecial:
		return true
	}
	return false
}

// Concrete returns true if the scheme is locked to a specific numbering
// convention, i.e. not auto and not unset.
func (s IdentifierScheme) Concrete() bool {
	return s != SchemeAuto && s != ""
}

// Identity is a parsed, scheme-tagged episode or season identity.
// Season and Number are only meaningful for the ep and sequence schemes.
type Identity struct {
	Scheme     IdentifierScheme
	Identifier string
	Season     int
	Number     int
	SeasonPack bool
}

var (
	epIdentifierRe     = regexp.MustCompile(`(?i)^s(\d{1,4})e(\d{1,4})$`)
	seasonIdentifierRe = regexp.MustCompile(`(?i)^s(\d{1,4})$`)
	sequenceRe         = regexp.MustCompile(`^\d{1,9}$`)
	dateRe             = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// EpIdentifier renders the canonical identifier for an episode under the
// ep scheme, e.g. S01E02.
func EpIdentifier(season, number int) string {
	return fmt.Sprintf("S%02dE%02d", season, number)
}

// SeasonIdentifier renders the canonical identifier for a season pack,
// e.g. S01.
func SeasonIdentifier(season int) string {
	return fmt.Sprintf("S%02d", season)
}

// SequenceIdentifier renders the canonical identifier for an absolute
// sequence number.
func SequenceIdentifier(number int) string {
	return strconv.Itoa(number)
}

// ParseIdentity parses a user-supplied identifier string and infers its
// scheme: SxxEyy is ep, a bare Sxx is an ep season pack, a plain integer
// is sequence, and an ISO date is date. Anything else is rejected.
func ParseIdentity(s string) (Identity, error) {
	if m := epIdentifierRe.FindStringSubmatch(s); m != nil {
		season, _ := strconv.Atoi(m[1])
		number, _ := strconv.Atoi(m[2])
		return Identity{
			Scheme:     SchemeEp,
			Identifier: EpIdentifier(season, number),
			Season:     season,
			Number:     number,
		}, nil
	}
	if m := seasonIdentifierRe.FindStringSubmatch(s); m != nil {
		season, _ := strconv.Atoi(m[1])
		return Identity{
			Scheme:     SchemeEp,
			Identifier: SeasonIdentifier(season),
			Season:     season,
			SeasonPack: true,
		}, nil
	}
	if sequenceRe.MatchString(s) {
		number, err := strconv.Atoi(s)
		if err != nil || number < 0 {
			return Identity{}, fmt.Errorf("invalid sequence identifier %q", s)
		}
		return Identity{
			Scheme:     SchemeSequence,
			Identifier: SequenceIdentifier(number),
			Number:     number,
		}, nil
	}
	if dateRe.MatchString(s) {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return Identity{}, fmt.Errorf("invalid date identifier %q: %w", s, err)
		}
		return Identity{
			Scheme:     SchemeDate,
			Identifier: t.Format("2006-01-02"),
		}, nil
	}
	return Identity{}, fmt.Errorf("unrecognized identifier %q", s)
}
