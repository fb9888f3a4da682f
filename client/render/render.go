// Package render turns a room board snapshot into display rows. It is
// pure: filtering, ordering and pending-edit overlays happen here, all
// writes go through the API.
package render

import (
	"sort"
	"strconv"

	turndown "github.com/turndownhq/turndown/sdk"
)

// Manager is the distinguished employee filter that sees every room.
const Manager = "Manager"

// Statuses in selector order. NextStatus cycles through them.
var Statuses = []string{
	"Dirty",
	"No Answer",
	"Stay Over",
	"Checked Out",
	"Clean",
}

// Row is one rendered line of the board.
type Row struct {
	Number      string
	Status      string
	AssignedTo  string
	Notes       string
	LastUpdated string
	Selected    bool
	// PendingNotes marks a draft the user typed but has not committed.
	// The draft text is already substituted into Notes.
	PendingNotes bool
}

// Options controls one render pass.
type Options struct {
	// Employee filters rows to that assignee. Manager and the empty
	// string see everything. Matching is exact and case sensitive.
	Employee string
	// Selected highlights one room number.
	Selected string
	// PendingNotes maps room number to an uncommitted notes draft. The
	// overlay survives re-renders so a snapshot push never wipes what
	// the user is typing.
	PendingNotes map[string]string
}

// Render produces the visible rows for a board snapshot.
func Render(rooms []turndown.Room, opts Options) []Row {
	visible := Visible(rooms, opts.Employee)

	sort.Slice(visible, func(i, j int) bool {
		return lessRoomNumber(visible[i].Number, visible[j].Number)
	})

	rows := make([]Row, len(visible))
	for i, room := range visible {
		notes := room.Notes
		pending := false
		if draft, ok := opts.PendingNotes[room.Number]; ok {
			notes = draft
			pending = true
		}

		rows[i] = Row{
			Number:       room.Number,
			Status:       room.Status,
			AssignedTo:   room.AssignedTo,
			Notes:        notes,
			LastUpdated:  room.LastUpdated.Format("15:04"),
			Selected:     room.Number == opts.Selected,
			PendingNotes: pending,
		}
	}

	return rows
}

// Visible applies the employee filter. Manager bypasses it entirely.
func Visible(rooms []turndown.Room, employee string) []turndown.Room {
	if employee == "" || employee == Manager {
		out := make([]turndown.Room, len(rooms))
		copy(out, rooms)
		return out
	}

	out := make([]turndown.Room, 0, len(rooms))
	for _, room := range rooms {
		if room.AssignedTo == employee {
			out = append(out, room)
		}
	}
	return out
}

// CountByStatus tallies visible rooms per status, in selector order.
func CountByStatus(rooms []turndown.Room, employee string) map[string]int {
	counts := make(map[string]int, len(Statuses))
	for _, room := range Visible(rooms, employee) {
		counts[room.Status]++
	}
	return counts
}

// NextStatus returns the status after cur in selector order, wrapping
// at the end. Unknown statuses reset to the first.
func NextStatus(cur string) string {
	for i, s := range Statuses {
		if s == cur {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return Statuses[0]
}

// lessRoomNumber orders numerically when both numbers parse as integers,
// lexically otherwise, so "2" sorts before "10" but "10A" still works.
func lessRoomNumber(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}
