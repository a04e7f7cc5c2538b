package vault

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oksasatya/passvault/internal/domain/entity"
)

// Filter returns the records matching every active criterion, in input order.
// The input slice is not modified.
func Filter(records []entity.PasswordRecord, c Criteria, now time.Time) []entity.PasswordRecord {
	term := strings.ToLower(c.Search)
	categories := toSet(c.Categories)
	accountTypes := toSet(c.AccountTypes)

	out := make([]entity.PasswordRecord, 0, len(records))
	for _, r := range records {
		if !matchesText(r, term) {
			continue
		}
		if !matchesSet(categories, r.CategoryName) {
			continue
		}
		if !matchesSet(accountTypes, r.AccountTypeName) {
			continue
		}
		if !matchesStrength(r.Secret, c.Strength) {
			continue
		}
		if !matchesAge(r.CreatedAt, now, c.Age) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matchesText(r entity.PasswordRecord, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{
		r.Title,
		r.Email,
		r.AccountTypeName,
		r.CategoryName,
		r.SubcategoryName,
		r.Description,
	} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func matchesSet(set map[string]struct{}, name string) bool {
	if len(set) == 0 {
		return true
	}
	if name == "" {
		return false
	}
	_, ok := set[name]
	return ok
}

func matchesStrength(secret string, b StrengthBucket) bool {
	switch b {
	case "", StrengthAll:
		return true
	case StrengthStrong:
		return isStrong(secret)
	case StrengthWeak:
		return isWeak(secret)
	default:
		return false
	}
}

func matchesAge(created, now time.Time, b AgeBucket) bool {
	switch b {
	case "", AgeAll:
		return true
	case AgeRecent:
		return isRecent(created, now)
	case AgeOlder:
		return !isRecent(created, now)
	default:
		return false
	}
}

func isStrong(secret string) bool { return utf8.RuneCountInString(secret) >= StrongMinLength }

func isWeak(secret string) bool { return utf8.RuneCountInString(secret) < WeakMaxLength }

func isRecent(created, now time.Time) bool { return DaysSince(created, now) <= RecentMaxDays }

// DaysSince returns whole 24h days elapsed from created to now, rounded down.
// A creation time in the future yields a negative count.
func DaysSince(created, now time.Time) int {
	d := now.Sub(created)
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

func toSet(values []string) map[string]struct{} {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
