package calendar

import (
	"coachpad/coaching-app/internal/domain"

	"go.uber.org/zap"
)

// EntryKind distinguishes the two sources a day entry can come from.
type EntryKind string

const (
	EntryProgram EntryKind = "program"
	EntryRoutine EntryKind = "routine"
)

// DayEntry is one assignment's contribution to a calendar date: either a
// program day or a standalone routine assignment.
type DayEntry struct {
	Kind EntryKind `json:"kind"`

	AssignmentID string `json:"assignmentId,omitempty"`
	ProgramID    string `json:"programId,omitempty"`
	ProgramTitle string `json:"programTitle,omitempty"`

	RoutineAssignmentID string `json:"routineAssignmentId,omitempty"`
	RoutineID           string `json:"routineId,omitempty"`
	RoutineName         string `json:"routineName,omitempty"`

	IsRestDay         bool   `json:"isRestDay"`
	WarmupTitle       string `json:"warmupTitle,omitempty"`
	WarmupDescription string `json:"warmupDescription,omitempty"`

	Items               []Item `json:"items"`
	TotalDrills         int    `json:"totalDrills"`
	CompletedDrills     int    `json:"completedDrills"`
	ExpectedTimeMinutes int    `json:"expectedTimeMinutes"`
	Orphaned            int    `json:"orphaned,omitempty"`
}

// DayProjection is the merged view of one calendar date across all of a
// client's concurrent assignments. Day-level totals are sums over Entries;
// IsRestDay is true only if every contributing entry is a rest day.
type DayProjection struct {
	Date                string     `json:"date"`
	IsRestDay           bool       `json:"isRestDay"`
	TotalDrills         int        `json:"totalDrills"`
	CompletedDrills     int        `json:"completedDrills"`
	ExpectedTimeMinutes int        `json:"expectedTimeMinutes"`
	Orphaned            int        `json:"orphaned,omitempty"`
	Entries             []DayEntry `json:"programs"`
}

// DaySummary is the light view of one date: counts only, no items.
type DaySummary struct {
	Date            string `json:"date"`
	IsRestDay       bool   `json:"isRestDay"`
	TotalDrills     int    `json:"totalDrills"`
	CompletedDrills int    `json:"completedDrills"`
}

// Engine runs the projection pipeline. It is stateless; the logger is only
// used to flag orphaned references at debug level.
type Engine struct {
	log *zap.Logger
}

// NewEngine creates an engine. A nil logger is replaced with a no-op one.
func NewEngine(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// BuildCalendar projects every date in [from, to] (inclusive). Dates with no
// contributing program or routine are absent from the map; the caller decides
// whether to synthesize empty rest days (the light view does, this one does
// not).
func (e *Engine) BuildCalendar(snap *Snapshot, from, to Date) map[string]DayProjection {
	out := make(map[string]DayProjection)
	if snap == nil || to.Before(from) {
		return out
	}

	for date := from; !date.After(to); date = date.AddDays(1) {
		if proj, ok := e.projectDay(snap, date); ok {
			out[date.String()] = proj
		}
	}
	return out
}

// BuildLightCalendar is the summary surface: every date in range is present,
// and dates with no content default to a zero-count rest day. This view and
// the full one intentionally disagree on absent dates; callers must stick to
// one surface.
func (e *Engine) BuildLightCalendar(snap *Snapshot, from, to Date) map[string]DaySummary {
	out := make(map[string]DaySummary)
	if to.Before(from) {
		return out
	}

	full := e.BuildCalendar(snap, from, to)
	for date := from; !date.After(to); date = date.AddDays(1) {
		key := date.String()
		if proj, ok := full[key]; ok {
			out[key] = DaySummary{
				Date:            key,
				IsRestDay:       proj.IsRestDay,
				TotalDrills:     proj.TotalDrills,
				CompletedDrills: proj.CompletedDrills,
			}
			continue
		}
		out[key] = DaySummary{Date: key, IsRestDay: true}
	}
	return out
}

// ProjectDay returns the full projection for a single date. The boolean is
// false when nothing projects onto the date.
func (e *Engine) ProjectDay(snap *Snapshot, date Date) (DayProjection, bool) {
	return e.projectDay(snap, date)
}

func (e *Engine) projectDay(snap *Snapshot, date Date) (DayProjection, bool) {
	var entries []DayEntry

	for i := range snap.Assignments {
		a := &snap.Assignments[i]
		if !a.IsActive() {
			continue
		}
		if entry, ok := e.projectAssignment(snap, a, date); ok {
			entries = append(entries, entry)
		}
	}

	for i := range snap.RoutineAssignments {
		ra := &snap.RoutineAssignments[i]
		if date.Before(DateOf(ra.StartDate)) || date.After(DateOf(ra.EndDate)) {
			continue
		}
		entries = append(entries, e.projectRoutineAssignment(snap, ra, date))
	}

	if len(entries) == 0 {
		return DayProjection{}, false
	}
	return mergeEntries(date, entries), true
}

// projectAssignment runs date mapper -> expander -> resolver for one program
// assignment. A deleted day (replacement with no substitute) and a day the
// schedule simply doesn't reach both contribute nothing.
func (e *Engine) projectAssignment(snap *Snapshot, a *domain.ProgramAssignment, date Date) (DayEntry, bool) {
	resolved := resolveDay(snap, a, date)
	if resolved.deleted || resolved.day == nil {
		return DayEntry{}, false
	}

	items, orphaned := ExpandDay(resolved.day, snap.Routines)
	if orphaned > 0 {
		e.log.Debug("skipped orphaned routine references",
			zap.String("assignmentId", a.ID.Hex()),
			zap.String("date", date.String()),
			zap.Int("orphaned", orphaned))
	}

	rc := ResolveContext{AssignmentID: a.ID, Date: date}
	for i := range items {
		items[i].Completed = snap.Completions.Resolve(items[i], rc)
	}

	entry := DayEntry{
		Kind:              EntryProgram,
		AssignmentID:      a.ID.Hex(),
		ProgramID:         resolved.program.ID.Hex(),
		ProgramTitle:      resolved.program.Title,
		IsRestDay:         resolved.day.IsRestDay,
		WarmupTitle:       resolved.day.WarmupTitle,
		WarmupDescription: resolved.day.WarmupDescription,
		Items:             items,
		Orphaned:          orphaned,
	}
	fillEntryTotals(&entry)
	return entry, true
}

func (e *Engine) projectRoutineAssignment(snap *Snapshot, ra *domain.RoutineAssignment, date Date) DayEntry {
	entry := DayEntry{
		Kind:                EntryRoutine,
		RoutineAssignmentID: ra.ID.Hex(),
		RoutineID:           ra.RoutineID.Hex(),
	}

	routine := snap.Routines[ra.RoutineID]
	if routine == nil {
		// Routine deleted after assignment: skip-and-flag, never an error.
		entry.Orphaned = 1
		e.log.Debug("skipped orphaned routine assignment",
			zap.String("routineAssignmentId", ra.ID.Hex()),
			zap.String("date", date.String()))
		return entry
	}

	entry.RoutineName = routine.Name
	entry.Items = ExpandRoutineAssignment(ra, routine)
	rc := ResolveContext{Date: date}
	for i := range entry.Items {
		entry.Items[i].Completed = snap.Completions.Resolve(entry.Items[i], rc)
	}
	fillEntryTotals(&entry)
	return entry
}

// fillEntryTotals computes the per-entry counters. Expected time is the
// sets*2-minutes heuristic, an estimate rather than a measurement.
func fillEntryTotals(entry *DayEntry) {
	for _, item := range entry.Items {
		entry.TotalDrills++
		if item.Completed {
			entry.CompletedDrills++
		}
		entry.ExpectedTimeMinutes += item.Sets * 2
	}
}

// mergeEntries folds per-assignment entries into the day-level projection:
// counts are summed, and the day is a rest day only when every entry is.
func mergeEntries(date Date, entries []DayEntry) DayProjection {
	proj := DayProjection{
		Date:      date.String(),
		IsRestDay: true,
		Entries:   entries,
	}
	for _, entry := range entries {
		proj.TotalDrills += entry.TotalDrills
		proj.CompletedDrills += entry.CompletedDrills
		proj.ExpectedTimeMinutes += entry.ExpectedTimeMinutes
		proj.Orphaned += entry.Orphaned
		if !entry.IsRestDay {
			proj.IsRestDay = false
		}
	}
	return proj
}
