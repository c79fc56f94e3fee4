package report

import (
	"sort"
	"time"

	"visit-report-service/internal/models"
)

// FilterPolicy selects what happens to rows between fetch and render.
type FilterPolicy string

const (
	// PolicyNone sends the row set exactly as fetched.
	PolicyNone FilterPolicy = "none"
	// PolicyRecent keeps the trailing window and sorts by visit time descending.
	PolicyRecent FilterPolicy = "recent"
)

// FilterRecent returns only rows whose timestamp falls within [now-window, now].
// Rows without a timestamp are excluded; filtering requires one.
func FilterRecent(rows []models.VisitRecord, now time.Time, window time.Duration) []models.VisitRecord {
	cutoff := now.Add(-window)
	filtered := make([]models.VisitRecord, 0, len(rows))
	for _, r := range rows {
		if r.VisitTimestamp == nil {
			continue
		}
		ts := *r.VisitTimestamp
		if ts.Before(cutoff) || ts.After(now) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// SortByVisitTime orders rows by timestamp descending. Rows without a
// timestamp sort after all timestamped rows; among those, a parseable
// visit date (dd/mm/yyyy) decides, else relative order is preserved.
func SortByVisitTime(rows []models.VisitRecord) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].VisitTimestamp, rows[j].VisitTimestamp
		switch {
		case a != nil && b != nil:
			return a.After(*b)
		case a != nil:
			return true
		case b != nil:
			return false
		}

		da, errA := time.Parse(models.VisitDateLayout, rows[i].VisitDate)
		db, errB := time.Parse(models.VisitDateLayout, rows[j].VisitDate)
		if errA != nil || errB != nil {
			return false
		}
		return da.After(db)
	})
}

// Apply runs the policy over a fresh copy of rows, leaving the input intact.
func (p FilterPolicy) Apply(rows []models.VisitRecord, now time.Time, window time.Duration) []models.VisitRecord {
	if p != PolicyRecent {
		return rows
	}
	out := FilterRecent(rows, now, window)
	SortByVisitTime(out)
	return out
}
