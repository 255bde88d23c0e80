package aggregate

// Trend returns the period-over-period percentage change between two
// aggregated windows.
//
// When previous is non-zero the result is 100 * (current - previous) /
// previous. When both windows are zero the trend is a non-nil 0. When the
// previous window is zero and the current is not, growth is undefined; the
// sentinel for that case is nil, which marshals to JSON null. The dashboard
// renders null as "new" rather than attempting to draw Infinity.
func Trend(current, previous float64) *float64 {
	if previous == 0 {
		if current == 0 {
			zero := 0.0
			return &zero
		}
		return nil
	}
	change := round2(100 * (current - previous) / previous)
	return &change
}
