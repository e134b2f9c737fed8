package domain

import "strings"

// Grade is the school year a user studies in. Values are the pt-PT labels
// the tutoring webhooks expect in request payloads.
type Grade string

const (
	Grade7 Grade = "7º ano"
	Grade8 Grade = "8º ano"
	Grade9 Grade = "9º ano"
)

// DefaultGrade is used when a user has no grade configured and as the
// fallback webhook target for unknown grades.
const DefaultGrade = Grade7

func (g Grade) String() string {
	return string(g)
}

func (g Grade) Valid() bool {
	switch g {
	case Grade7, Grade8, Grade9:
		return true
	}
	return false
}

// ParseGrade accepts both the full label ("8º ano") and the bare year
// number ("8"), case-insensitively.
func ParseGrade(s string) (Grade, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "7", "7º ano":
		return Grade7, true
	case "8", "8º ano":
		return Grade8, true
	case "9", "9º ano":
		return Grade9, true
	}
	return "", false
}
