package calendar

import (
	"coachpad/coaching-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Snapshot is everything the engine needs to project one client's calendar.
// The calendar service loads it from the repositories in one pass; the engine
// never touches the database.
type Snapshot struct {
	ClientID primitive.ObjectID

	// All of the client's program assignments, active and closed. Closed
	// assignments are filtered out during aggregation.
	Assignments []domain.ProgramAssignment

	// Programs referenced by assignments or by replacement substitutions,
	// keyed by program ID. A missing entry is treated as no content.
	Programs map[primitive.ObjectID]*domain.Program

	// Routines referenced by routine-typed drills or routine assignments.
	// A missing entry is an orphaned reference, skipped and counted.
	Routines map[primitive.ObjectID]*domain.Routine

	// Replacements keyed by the assignment they override.
	Replacements map[primitive.ObjectID][]domain.ProgramReplacement

	RoutineAssignments []domain.RoutineAssignment

	Completions CompletionIndex
}
