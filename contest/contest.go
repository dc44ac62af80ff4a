// Package contest computes the recurring club sprint windows. All functions
// are pure; callers pass the instant they care about and get UTC windows
// anchored to weekday occurrences within that instant's month.
package contest

import "time"

// Window is one operating-event period. Both boundaries are inclusive.
type Window struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, boundaries included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// firstWeekday walks forward from the first of the month to the first
// occurrence of the target weekday.
func firstWeekday(year int, month time.Month, target time.Weekday) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != target {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func at(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
}

// Windows returns the four sprint windows for the given year and month:
//
//   - WES, the weekend sprintathon: second Saturday 1200Z, 36 hours.
//   - SKS, the straight key sprint: fourth Wednesday 0000Z, 2 hours.
//   - SKSE, the European sprint: first Thursday, 2000Z November through
//     February and 1900Z otherwise, 2 hours.
//   - SKSA, the Asia/Pacific sprint: second Friday, 1200Z March through
//     October and 1000Z otherwise, 2 hours.
//
// Out-of-range year/month is the caller's responsibility.
func Windows(year int, month time.Month) []Window {
	wesStart := at(firstWeekday(year, month, time.Saturday).AddDate(0, 0, 7), 12)
	sksStart := at(firstWeekday(year, month, time.Wednesday).AddDate(0, 0, 21), 0)

	skseHour := 19
	if month >= time.November || month <= time.February {
		skseHour = 20
	}
	skseStart := at(firstWeekday(year, month, time.Thursday), skseHour)

	sksaHour := 10
	if month >= time.March && month <= time.October {
		sksaHour = 12
	}
	sksaStart := at(firstWeekday(year, month, time.Friday).AddDate(0, 0, 7), sksaHour)

	return []Window{
		{Name: "WES", Start: wesStart, End: wesStart.Add(36 * time.Hour)},
		{Name: "SKS", Start: sksStart, End: sksStart.Add(2 * time.Hour)},
		{Name: "SKSE", Start: skseStart, End: skseStart.Add(2 * time.Hour)},
		{Name: "SKSA", Start: sksaStart, End: sksaStart.Add(2 * time.Hour)},
	}
}

// IsDuringContest reports whether the instant falls within any sprint window
// of its own year and month.
func IsDuringContest(t time.Time) bool {
	t = t.UTC()
	for _, w := range Windows(t.Year(), t.Month()) {
		if w.Contains(t) {
			return true
		}
	}
	return false
}
