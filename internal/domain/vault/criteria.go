// Package vault filters a user's password records and derives the summary
// views shown next to the list. Everything here is a pure function over a
// snapshot of records, safe to call concurrently.
package vault

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownBucket is returned when a bucket selector cannot be parsed.
var ErrUnknownBucket = errors.New("unknown bucket")

// StrengthBucket is the coarse, length-only strength selector used for filtering.
type StrengthBucket string

const (
	StrengthAll    StrengthBucket = "all"
	StrengthStrong StrengthBucket = "strong"
	StrengthWeak   StrengthBucket = "weak"
)

// AgeBucket selects records by days since creation.
type AgeBucket string

const (
	AgeAll    AgeBucket = "all"
	AgeRecent AgeBucket = "recent"
	AgeOlder  AgeBucket = "older"
)

// Bucket thresholds.
const (
	StrongMinLength = 12
	WeakMaxLength   = 8 // exclusive
	RecentMaxDays   = 7
)

// Criteria holds the active list filters. The zero value matches everything.
type Criteria struct {
	Search       string
	Categories   []string
	AccountTypes []string
	Strength     StrengthBucket
	Age          AgeBucket
}

// ParseStrengthBucket accepts "", "all", "strong" and "weak" in any case.
func ParseStrengthBucket(s string) (StrengthBucket, error) {
	switch StrengthBucket(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrengthAll:
		return StrengthAll, nil
	case StrengthStrong:
		return StrengthStrong, nil
	case StrengthWeak:
		return StrengthWeak, nil
	}
	return "", fmt.Errorf("%w: strength %q", ErrUnknownBucket, s)
}

// ParseAgeBucket accepts "", "all", "recent" and "older" in any case.
func ParseAgeBucket(s string) (AgeBucket, error) {
	switch AgeBucket(strings.ToLower(strings.TrimSpace(s))) {
	case "", AgeAll:
		return AgeAll, nil
	case AgeRecent:
		return AgeRecent, nil
	case AgeOlder:
		return AgeOlder, nil
	}
	return "", fmt.Errorf("%w: age %q", ErrUnknownBucket, s)
}
