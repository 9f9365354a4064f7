package core

import (
	"math"
	"slices"
)

// Column names a well-known field with defined semantics.
type Column string

// Essential event columns.
const (
	ColEventID   Column = "eID"
	ColGameclock Column = "gameclock"
)

// Protected columns shared by events and teamsheets.
const (
	ColPlayerID      Column = "pID"
	ColJerseyID      Column = "jID"
	ColIndexID       Column = "xID"
	ColTeamID        Column = "tID"
	ColMatchID       Column = "mID"
	ColCompetitionID Column = "cID"
	ColFrameclock    Column = "frameclock"
	ColTimestamp     Column = "timestamp"
	ColMinute        Column = "minute"
	ColSecond        Column = "second"
	ColOutcome       Column = "outcome"
	ColAtX           Column = "at_x"
	ColAtY           Column = "at_y"
	ColToX           Column = "to_x"
	ColToY           Column = "to_y"
)

// ColPlayer is the essential teamsheet column holding player names.
const ColPlayer Column = "player"

// ColumnDefinition describes the meaning and permitted values of a column.
type ColumnDefinition struct {
	Definition string
	Kinds      []ValueKind
	// Ranged columns restrict numeric values to [Min, Max].
	Ranged   bool
	Min, Max float64
}

// InRange reports whether a non-null value satisfies the column's kind and range.
func (d ColumnDefinition) InRange(v Value) bool {
	if v.IsNull() {
		return true
	}
	if !slices.Contains(d.Kinds, v.Kind()) {
		return false
	}
	if !d.Ranged {
		return true
	}
	f, ok := v.Float()
	return ok && f >= d.Min && f <= d.Max
}

var (
	idKinds     = []ValueKind{KindNumber, KindString}
	numberKinds = []ValueKind{KindNumber}
	inf         = math.Inf(1)
)

// EssentialEventColumns must be present in every Events container.
var EssentialEventColumns = map[Column]ColumnDefinition{
	ColEventID: {
		Definition: "Event ID: number or string identifying the event type",
		Kinds:      idKinds,
	},
	ColGameclock: {
		Definition: "Elapsed time relative to segment start in seconds",
		Kinds:      numberKinds, Ranged: true, Min: 0, Max: inf,
	},
}

// ProtectedColumns are optional columns with defined semantics.
var ProtectedColumns = map[Column]ColumnDefinition{
	ColPlayerID: {
		Definition: "Player ID: number or string identifying a player",
		Kinds:      idKinds,
	},
	ColJerseyID: {
		Definition: "Jersey ID: a player's jersey number in a single observation",
		Kinds:      numberKinds, Ranged: true, Min: 0, Max: inf,
	},
	ColIndexID: {
		Definition: "Index ID: a player's zero-based entity index in the team's XY container",
		Kinds:      numberKinds, Ranged: true, Min: 0, Max: inf,
	},
	ColTeamID: {
		Definition: "Team ID: number or string identifying a team",
		Kinds:      idKinds,
	},
	ColMatchID: {
		Definition: "Match ID: number or string identifying a match",
		Kinds:      idKinds,
	},
	ColCompetitionID: {
		Definition: "Competition ID: number or string identifying a league or cup",
		Kinds:      idKinds,
	},
	ColFrameclock: {
		Definition: "Elapsed time relative to segment start in frames at a given framerate",
		Kinds:      numberKinds, Ranged: true, Min: 0, Max: inf,
	},
	ColTimestamp: {
		Definition: "Absolute timestamp of the event",
		Kinds:      []ValueKind{KindTime},
	},
	ColMinute: {
		Definition: "Minute of the segment the event took place",
		Kinds:      numberKinds, Ranged: true, Min: 0, Max: inf,
	},
	ColSecond: {
		Definition: "Second of the minute the event took place",
		Kinds:      numberKinds, Ranged: true, Min: 0, Max: inf,
	},
	ColOutcome: {
		Definition: "Result of the event: 1 successful, 0 unsuccessful",
		Kinds:      numberKinds, Ranged: true, Min: 0, Max: 1,
	},
	ColAtX: {Definition: "x position where the event took place", Kinds: numberKinds},
	ColAtY: {Definition: "y position where the event took place", Kinds: numberKinds},
	ColToX: {Definition: "x position where the event ended", Kinds: numberKinds},
	ColToY: {Definition: "y position where the event ended", Kinds: numberKinds},
}

// protectedOrder lists protected columns in presentation order.
var protectedOrder = []Column{
	ColPlayerID, ColJerseyID, ColIndexID, ColTeamID, ColMatchID, ColCompetitionID,
	ColFrameclock, ColTimestamp, ColMinute, ColSecond, ColOutcome,
	ColAtX, ColAtY, ColToX, ColToY,
}
