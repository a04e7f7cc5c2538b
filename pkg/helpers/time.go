package helpers

import (
	"context"
	"fmt"
	"strings"
	"time"

	mailtpl "github.com/oksasatya/passvault/pkg/mailer/templates"
)

const localTimeLayout = "02 January 2006, 15:04 MST"

// LocalizeTimesIfPossible rewrites ExpiresAtText and Time into the timezone
// of data["IP"] when the resolver knows it.
func LocalizeTimesIfPossible(ctx context.Context, resolver mailtpl.GeoResolver, data map[string]any) {
	if resolver == nil {
		return
	}
	ipVal, ok := data["IP"]
	if !ok || fmt.Sprintf("%v", ipVal) == "" {
		return
	}
	g, err := resolver.Lookup(ctx, fmt.Sprintf("%v", ipVal))
	if err != nil || strings.TrimSpace(g.Timezone) == "" {
		return
	}
	loc, err := time.LoadLocation(g.Timezone)
	if err != nil {
		return
	}
	if v, ok := data["ExpiresAt"]; ok {
		if t, ok2 := parseTimeAny(v); ok2 {
			data["ExpiresAtText"] = t.In(loc).Format(localTimeLayout)
		}
	}
	if v, ok := data["TimeAt"]; ok {
		if t, ok2 := parseTimeAny(v); ok2 {
			data["Time"] = t.In(loc).Format(localTimeLayout)
		}
	}
}

func parseTimeAny(v any) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, !t.IsZero()
	}
	s := fmt.Sprintf("%v", v)
	layouts := []string{
		time.RFC3339,
		"2006-01-02 15:04:05 -0700 MST",
		"2006-01-02 15:04:05 -0700",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil && !t.IsZero() {
			return t, true
		}
	}
	return time.Time{}, false
}
