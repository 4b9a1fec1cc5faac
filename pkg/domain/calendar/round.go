package calendar

import "time"

// searchDays bounds the forward scan for a working window: a full week plus
// the starting day.
const searchDays = 8

// Round moves t forward to the earliest instant on the resolution grid that
// falls inside a working window. The grid is anchored at local midnight.
// Round(Round(t)) == Round(t).
func (c *Calendar) Round(t time.Time) time.Time {
	loc := c.Location()
	res := c.TimingResolution()

	t = t.In(loc)
	year, month, day := t.Date()
	offset := time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
	aligned := ceilTo(offset, res)

	for i := 0; i < searchDays; i++ {
		midnight := time.Date(year, month, day+i, 0, 0, 0, 0, loc)
		for _, w := range c.Windows(DayKey(midnight.Weekday())) {
			start := ceilTo(time.Duration(w.Start)*time.Minute, res)
			end := time.Duration(w.End) * time.Minute

			candidate := max(aligned, start)
			if candidate <= end && candidate < 24*time.Hour {
				return atOffset(midnight, candidate)
			}
		}
		aligned = 0
	}

	// No working time at all; only grid alignment applies.
	return atOffset(time.Date(year, month, day, 0, 0, 0, 0, loc), ceilTo(offset, res))
}

// Round is the package level form of (*Calendar).Round.
func Round(t time.Time, cal *Calendar) time.Time {
	return cal.Round(t)
}

func ceilTo(d, res time.Duration) time.Duration {
	if rem := d % res; rem != 0 {
		return d + res - rem
	}
	return d
}

// atOffset builds the wall clock instant offset after midnight; time.Date
// normalizes overflow into the following day.
func atOffset(midnight time.Time, offset time.Duration) time.Time {
	y, m, d := midnight.Date()
	minutes := int(offset / time.Minute)
	return time.Date(y, m, d, 0, minutes, 0, 0, midnight.Location())
}
