package vault

import (
	"sort"
	"time"

	"github.com/oksasatya/passvault/internal/domain/entity"
)

// Stats are the aggregate counters shown above the password list.
type Stats struct {
	Total  int `json:"total"`
	Strong int `json:"strong"`
	Weak   int `json:"weak"`
	Recent int `json:"recent"`
}

// CategoryNames returns the distinct category names, sorted.
func CategoryNames(records []entity.PasswordRecord) []string {
	return uniqueSorted(records, func(r entity.PasswordRecord) string { return r.CategoryName })
}

// AccountTypeNames returns the distinct account type names, sorted.
func AccountTypeNames(records []entity.PasswordRecord) []string {
	return uniqueSorted(records, func(r entity.PasswordRecord) string { return r.AccountTypeName })
}

// Summarize counts records using the same bucket rules as Filter.
func Summarize(records []entity.PasswordRecord, now time.Time) Stats {
	s := Stats{Total: len(records)}
	for _, r := range records {
		if isStrong(r.Secret) {
			s.Strong++
		}
		if isWeak(r.Secret) {
			s.Weak++
		}
		if isRecent(r.CreatedAt, now) {
			s.Recent++
		}
	}
	return s
}

func uniqueSorted(records []entity.PasswordRecord, key func(entity.PasswordRecord) string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, r := range records {
		k := key(r)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
