package payoff

import "math"

// Downsample reduces schedule to at most maxPoints rows for charting. With
// maxPoints >= 2 the first and last months are always kept and the rest are
// evenly spaced; maxPoints == 1 keeps only the last month, which carries the
// final balances. A non-positive maxPoints, or a schedule already short
// enough, returns a copy of the whole schedule.
func Downsample(schedule []MonthSnapshot, maxPoints int) []MonthSnapshot {
	if maxPoints <= 0 || len(schedule) <= maxPoints {
		out := make([]MonthSnapshot, len(schedule))
		copy(out, schedule)
		return out
	}
	if maxPoints == 1 {
		return []MonthSnapshot{schedule[len(schedule)-1]}
	}

	last := len(schedule) - 1
	out := make([]MonthSnapshot, 0, maxPoints)
	for i := 0; i < maxPoints; i++ {
		j := int(math.Round(float64(i) * float64(last) / float64(maxPoints-1)))
		out = append(out, schedule[j])
	}
	return out
}
