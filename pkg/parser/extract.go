package parser

import (
	"regexp"
	"time"

	"github.com/logsentinel/logsentinel/pkg/model"
)

// spaceClass is the Unicode whitespace set, not only ASCII.
const spaceClass = `\s\v\x1c-\x1f\x{85}\pZ`

var (
	levelTagPattern  = regexp.MustCompile(`^\[(\w+)\]`)
	requestIDPattern = regexp.MustCompile(`RequestId:[` + spaceClass + `]+([^` + spaceClass + `]+)`)
)

// LevelTag returns the word inside a leading bracketed tag such as "[ERROR]",
// whether or not it names a known level.
func LevelTag(message string) (string, bool) {
	matches := levelTagPattern.FindStringSubmatch(message)
	if len(matches) < 2 {
		return "", false
	}
	return matches[1], true
}

// ExtractLevel infers the level from a leading "[LEVEL]" tag. The tag must be
// an exact, case-sensitive level name; anything else yields LevelUnknown.
func ExtractLevel(message string) model.Level {
	tag, ok := LevelTag(message)
	if !ok {
		return model.LevelUnknown
	}
	level, ok := model.LevelFromName(tag)
	if !ok {
		return model.LevelUnknown
	}
	return level
}

// ExtractRequestID finds the token following "RequestId:" anywhere in the message.
func ExtractRequestID(message string) (string, bool) {
	matches := requestIDPattern.FindStringSubmatch(message)
	if len(matches) < 2 {
		return "", false
	}
	return matches[1], true
}

// TimestampFromMillis converts milliseconds since the Unix epoch to a UTC time.
func TimestampFromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
