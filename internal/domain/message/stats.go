package message

import (
	"sort"
	"strings"
	"time"
)

const (
	UnknownPlatform = "Unknown"
	activityDays    = 7
	dayLayout       = "2006-01-02"
)

// PlatformCount is one platform bucket. A nil or empty Platform from the store
// is reported as UnknownPlatform.
type PlatformCount struct {
	Platform *string
	Count    int64
}

// PlatformStat is a platform bucket as reported to clients.
type PlatformStat struct {
	Platform string
	Count    int64
}

// DayCount is the number of messages on one UTC calendar day.
type DayCount struct {
	Date  string
	Count int64
}

// Stats aggregates the messages visible to one user.
type Stats struct {
	TotalMessages     int64
	AnalyzedMessages  int64
	PlatformBreakdown []PlatformStat
	RecentActivity    []DayCount
}

// activityWindowStart is midnight UTC of the oldest day in the activity window.
func activityWindowStart(now time.Time) time.Time {
	today := now.UTC().Truncate(24 * time.Hour)
	return today.AddDate(0, 0, -(activityDays - 1))
}

// buildRecentActivity buckets timestamps into exactly seven UTC days, oldest first.
func buildRecentActivity(now time.Time, timestamps []time.Time) []DayCount {
	start := activityWindowStart(now)
	days := make([]DayCount, activityDays)
	index := make(map[string]int, activityDays)
	for i := range days {
		date := start.AddDate(0, 0, i).Format(dayLayout)
		days[i] = DayCount{Date: date}
		index[date] = i
	}

	for _, ts := range timestamps {
		if i, ok := index[ts.UTC().Format(dayLayout)]; ok {
			days[i].Count++
		}
	}
	return days
}

// mergePlatformCounts folds null and blank platforms into UnknownPlatform and
// orders buckets by count desc, then name.
func mergePlatformCounts(rows []PlatformCount) []PlatformStat {
	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		name := UnknownPlatform
		if row.Platform != nil && strings.TrimSpace(*row.Platform) != "" {
			name = *row.Platform
		}
		totals[name] += row.Count
	}

	out := make([]PlatformStat, 0, len(totals))
	for name, count := range totals {
		out = append(out, PlatformStat{Platform: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Platform < out[j].Platform
	})
	return out
}
