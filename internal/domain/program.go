// internal/domain/program.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DrillType distinguishes an inline exercise drill from a routine reference.
type DrillType string

const (
	DrillTypeExercise DrillType = "exercise"
	DrillTypeRoutine  DrillType = "routine"
)

// Program is a coach-authored multi-week training program. Weeks, days and
// drills are embedded in the program document; each level still carries its
// own ObjectID because completion rows reference individual drills.
type Program struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID       primitive.ObjectID `bson:"coachId" json:"coachId"`
	Title         string             `bson:"title" json:"title"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	DurationWeeks int                `bson:"durationWeeks" json:"durationWeeks"`
	Weeks         []Week             `bson:"weeks" json:"weeks"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Week groups seven days. WeekNumber is 1-based.
type Week struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WeekNumber int                `bson:"weekNumber" json:"weekNumber"`
	Days       []Day              `bson:"days" json:"days"`
}

// Day is one training day within a week. DayNumber is 1-7, Monday-first.
type Day struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DayNumber         int                `bson:"dayNumber" json:"dayNumber"`
	IsRestDay         bool               `bson:"isRestDay" json:"isRestDay"`
	WarmupTitle       string             `bson:"warmupTitle,omitempty" json:"warmupTitle,omitempty"`
	WarmupDescription string             `bson:"warmupDescription,omitempty" json:"warmupDescription,omitempty"`
	Drills            []Drill            `bson:"drills" json:"drills"`
}

// Drill is a single entry inside a program day. It either defines an exercise
// inline or references a reusable Routine (Type == DrillTypeRoutine), in which
// case the routine's exercises are expanded at read time.
type Drill struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Type      DrillType           `bson:"type" json:"type"`
	RoutineID *primitive.ObjectID `bson:"routineId,omitempty" json:"routineId,omitempty"`
	Order     int                 `bson:"order" json:"order"`

	// Inline exercise fields (unused when Type == DrillTypeRoutine).
	Title      string `bson:"title,omitempty" json:"title,omitempty"`
	Sets       int    `bson:"sets,omitempty" json:"sets,omitempty"`
	Reps       string `bson:"reps,omitempty" json:"reps,omitempty"` // e.g. "8-12", "AMRAP"
	Tempo      string `bson:"tempo,omitempty" json:"tempo,omitempty"`
	VideoURL   string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	CoachNotes string `bson:"coachNotes,omitempty" json:"coachNotes,omitempty"`
}

// IsRoutineRef reports whether this drill must be expanded into the referenced
// routine's exercises.
func (d *Drill) IsRoutineRef() bool {
	return d.Type == DrillTypeRoutine && d.RoutineID != nil && *d.RoutineID != primitive.NilObjectID
}

// FindWeek returns the week with the given 1-based number, or nil. A missing
// week means "no content", never an error (past-duration dates resolve here).
func (p *Program) FindWeek(weekNumber int) *Week {
	for i := range p.Weeks {
		if p.Weeks[i].WeekNumber == weekNumber {
			return &p.Weeks[i]
		}
	}
	return nil
}

// FindDay returns the day with the given 1-7 number, or nil.
func (w *Week) FindDay(dayNumber int) *Day {
	for i := range w.Days {
		if w.Days[i].DayNumber == dayNumber {
			return &w.Days[i]
		}
	}
	return nil
}
