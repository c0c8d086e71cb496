// Package quality parses and orders release quality strings.
//
// A quality string is a space-separated set of tokens naming a
// resolution ("720p") and/or a source ("webdl", "bluray"). Ordering is
// by resolution first, source second; unknown components rank lowest so
// an unlabeled release never beats a labeled one.
package quality

import (
	"fmt"
	"strings"
)

// Resolution ranks video resolutions from unknown (lowest) upwards.
type Resolution int

// Known resolutions in ascending order.
const (
	ResolutionUnknown Resolution = iota
	Resolution360p
	Resolution480p
	Resolution576p
	Resolution720p
	Resolution1080p
	Resolution2160p
)

// Source ranks release sources from unknown (lowest) upwards.
type Source int

// Known sources in ascending order of desirability.
const (
	SourceUnknown Source = iota
	SourceCam
	SourceTVRip
	SourceDVDRip
	SourceHDTV
	SourceWebRip
	SourceWebDL
	SourceBluRay
)

var resolutionTokens = map[string]Resolution{
	"360p":  Resolution360p,
	"480p":  Resolution480p,
	"576p":  Resolution576p,
	"720p":  Resolution720p,
	"1080p": Resolution1080p,
	"2160p": Resolution2160p,
	"4k":    Resolution2160p,
}

var sourceTokens = map[string]Source{
	"cam":    SourceCam,
	"tvrip":  SourceTVRip,
	"dvdrip": SourceDVDRip,
	"hdtv":   SourceHDTV,
	"webrip": SourceWebRip,
	"webdl":  SourceWebDL,
	"web-dl": SourceWebDL,
	"bluray": SourceBluRay,
	"bdrip":  SourceBluRay,
}

var resolutionNames = map[Resolution]string{
	Resolution360p:  "360p",
	Resolution480p:  "480p",
	Resolution576p:  "576p",
	Resolution720p:  "720p",
	Resolution1080p: "1080p",
	Resolution2160p: "2160p",
}

var sourceNames = map[Source]string{
	SourceCam:    "cam",
	SourceTVRip:  "tvrip",
	SourceDVDRip: "dvdrip",
	SourceHDTV:   "hdtv",
	SourceWebRip: "webrip",
	SourceWebDL:  "webdl",
	SourceBluRay: "bluray",
}

// Quality is a parsed quality value.
type Quality struct {
	Resolution Resolution
	Source     Source
}

// Unknown is the zero quality; it ranks below every known quality.
var Unknown = Quality{}

// Parse parses a quality string like "720p hdtv". Unrecognized tokens
// are an error; an empty string parses to Unknown.
func Parse(s string) (Quality, error) {
	q := Quality{}
	for _, token := range strings.Fields(strings.ToLower(s)) {
		if r, ok := resolutionTokens[token]; ok {
			q.Resolution = r
			continue
		}
		if src, ok := sourceTokens[token]; ok {
			q.Source = src
			continue
		}
		return Unknown, fmt.Errorf("unknown quality token %q", token)
	}
	return q, nil
}

// ParseLoose parses a quality string, ignoring unrecognized tokens.
// Used for observed release titles where extra tokens are expected.
func ParseLoose(s string) Quality {
	q := Quality{}
	for _, token := range strings.Fields(strings.ToLower(s)) {
		if r, ok := resolutionTokens[token]; ok && r > q.Resolution {
			q.Resolution = r
		}
		if src, ok := sourceTokens[token]; ok && src > q.Source {
			q.Source = src
		}
	}
	return q
}

// String renders the canonical form, e.g. "720p hdtv".
func (q Quality) String() string {
	parts := make([]string, 0, 2)
	if name, ok := resolutionNames[q.Resolution]; ok {
		parts = append(parts, name)
	}
	if name, ok := sourceNames[q.Source]; ok {
		parts = append(parts, name)
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, " ")
}

// IsUnknown reports whether no component was recognized.
func (q Quality) IsUnknown() bool {
	return q.Resolution == ResolutionUnknown && q.Source == SourceUnknown
}

// Compare returns a three-way ordering: resolution first, source second.
func (q Quality) Compare(other Quality) int {
	if q.Resolution != other.Resolution {
		if q.Resolution < other.Resolution {
			return -1
		}
		return 1
	}
	if q.Source != other.Source {
		if q.Source < other.Source {
			return -1
		}
		return 1
	}
	return 0
}

// Meets reports whether q satisfies the minimum requirement: every
// component of the requirement that is known must be met or exceeded.
func (q Quality) Meets(minimum Quality) bool {
	if minimum.Resolution != ResolutionUnknown && q.Resolution < minimum.Resolution {
		return false
	}
	if minimum.Source != SourceUnknown && q.Source < minimum.Source {
		return false
	}
	return true
}
