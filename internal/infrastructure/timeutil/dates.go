package timeutil

import "time"

// DateWindow is an inclusive span of calendar dates in YYYY-MM-DD form.
type DateWindow struct {
	Start string
	End   string
}

// HorizonSubWindows is the number of sub-windows the rolling booking
// horizon is split into. The calendar endpoint caps the span it returns
// per request at roughly a quarter of the horizon.
const HorizonSubWindows = 4

// horizonOffsets holds the day offsets of each sub-window relative to the
// anchor date. The windows are disjoint and together cover ~11 months,
// which is as far out as airlines publish fares.
var horizonOffsets = [HorizonSubWindows][2]int{
	{0, 90},
	{91, 180},
	{181, 270},
	{271, 330},
}

// HorizonWindows splits the rolling booking horizon into sub-windows
// anchored at the given date, normally today. Anchoring at a trip's
// reference date instead leaves near-term dates uncovered.
func HorizonWindows(anchor time.Time) [HorizonSubWindows]DateWindow {
	var windows [HorizonSubWindows]DateWindow
	for i, offsets := range horizonOffsets {
		windows[i] = DateWindow{
			Start: FormatDate(anchor.AddDate(0, 0, offsets[0])),
			End:   FormatDate(anchor.AddDate(0, 0, offsets[1])),
		}
	}
	return windows
}

// FormatDate formats a time as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
