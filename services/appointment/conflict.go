package appointment

import (
	"strconv"
	"strings"

	"medagenda/models"
)

// TimeRange is a same-day wall-clock window expressed as "HH:MM" pairs.
type TimeRange struct {
	StartTime string
	EndTime   string
}

// TimeToMinutes converts an "HH:MM" time-of-day string to minutes since
// midnight. Empty or colon-less input yields 0; this permissive default keeps
// the function total for records with absent time fields.
func TimeToMinutes(t string) int {
	if t == "" || !strings.Contains(t, ":") {
		return 0
	}
	parts := strings.Split(t, ":")
	hours, _ := strconv.Atoi(parts[0])
	minutes, _ := strconv.Atoi(parts[1])
	return hours*60 + minutes
}

// FindConflicting returns the existing appointments whose windows intersect
// the candidate range, preserving input order. Boundaries are exclusive on
// both sides, so back-to-back appointments never collide. A candidate whose
// end does not come strictly after its start conflicts with nothing.
func FindConflicting(candidate TimeRange, existing []models.Appointment) []models.Appointment {
	start := TimeToMinutes(candidate.StartTime)
	end := TimeToMinutes(candidate.EndTime)
	if end <= start {
		return nil
	}

	var conflicts []models.Appointment
	for _, appt := range existing {
		s := TimeToMinutes(appt.StartTime)
		e := TimeToMinutes(appt.EndTime)
		// Covers total containment, partial overlap at either edge, and
		// envelopment in a single inequality pair.
		if start < e && end > s {
			conflicts = append(conflicts, appt)
		}
	}
	return conflicts
}
