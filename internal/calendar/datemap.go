package calendar

import (
	"coachpad/coaching-app/internal/domain"
)

// Coordinate addresses a day inside a program grid: WeekNumber is 1-based,
// DayNumber is 1-7 Monday-first.
type Coordinate struct {
	WeekNumber int
	DayNumber  int
}

// EffectiveStart resolves the date an assignment's week 1 / day 1 falls on:
// the explicit start date when the coach set one, otherwise the assignment
// date. Either way only the calendar-date part is used.
func EffectiveStart(a *domain.ProgramAssignment) Date {
	if a.StartDate != nil {
		return DateOf(*a.StartDate)
	}
	return DateOf(a.AssignedAt)
}

// MapDayToDate maps a (week, day) coordinate onto the calendar.
func MapDayToDate(a *domain.ProgramAssignment, weekNumber, dayNumber int) Date {
	return EffectiveStart(a).AddDays((weekNumber-1)*7 + (dayNumber - 1))
}

// MapDateToCoordinate inverts MapDayToDate. It returns nil for dates before
// the assignment starts; week numbers past the program's duration are still
// returned, because "week not found" is the caller's signal for no content.
func MapDateToCoordinate(a *domain.ProgramAssignment, date Date) *Coordinate {
	days := DaysBetween(EffectiveStart(a), date)
	if days < 0 {
		return nil
	}
	return &Coordinate{
		WeekNumber: days/7 + 1,
		DayNumber:  days%7 + 1,
	}
}

// findReplacement returns the replacement targeting the given date, if any.
// Replacement dates are stored as instants but compared as UTC calendar dates.
func findReplacement(replacements []domain.ProgramReplacement, date Date) *domain.ProgramReplacement {
	for i := range replacements {
		if UTCDateOf(replacements[i].ReplacedDate) == date {
			return &replacements[i]
		}
	}
	return nil
}

// resolvedDay is the outcome of resolving one assignment against one date.
type resolvedDay struct {
	day     *domain.Day
	program *domain.Program // the program the day came from (base or substitute)
	deleted bool            // a replacement removed the day outright
}

// resolveDay applies the full date-mapping pipeline for one assignment:
// replacement precedence first, then the week/day lookup. Every "not found"
// along the way yields an empty resolution, never an error.
func resolveDay(snap *Snapshot, a *domain.ProgramAssignment, date Date) resolvedDay {
	program := snap.Programs[a.ProgramID]
	coord := MapDateToCoordinate(a, date)

	// Replacements take precedence over the base schedule, so they are
	// checked before the base program is consulted at all.
	if rep := findReplacement(snap.Replacements[a.ID], date); rep != nil {
		if rep.SubstituteProgramID != nil && substituteCovers(rep, date) {
			sub := snap.Programs[*rep.SubstituteProgramID]
			if sub == nil {
				return resolvedDay{}
			}
			// The substitute's grid is anchored at the start of its own
			// date range, not at the assignment's start.
			subCoord := substituteCoordinate(rep, date)
			return resolvedDay{day: lookupDay(sub, subCoord), program: sub}
		}
		// No substitute content: the day was deleted (a lesson took its
		// place, or the slot was cleared).
		return resolvedDay{deleted: true}
	}

	if program == nil || coord == nil {
		return resolvedDay{}
	}
	return resolvedDay{day: lookupDay(program, coord), program: program}
}

func substituteCovers(rep *domain.ProgramReplacement, date Date) bool {
	if rep.SubstituteStart == nil || rep.SubstituteEnd == nil {
		return false
	}
	start := UTCDateOf(*rep.SubstituteStart)
	end := UTCDateOf(*rep.SubstituteEnd)
	return !date.Before(start) && !date.After(end)
}

func substituteCoordinate(rep *domain.ProgramReplacement, date Date) *Coordinate {
	days := DaysBetween(UTCDateOf(*rep.SubstituteStart), date)
	if days < 0 {
		return nil
	}
	return &Coordinate{WeekNumber: days/7 + 1, DayNumber: days%7 + 1}
}

func lookupDay(p *domain.Program, coord *Coordinate) *domain.Day {
	if coord == nil {
		return nil
	}
	week := p.FindWeek(coord.WeekNumber)
	if week == nil {
		return nil
	}
	return week.FindDay(coord.DayNumber)
}
