package models

import "time"

// WindowStatus is the stored lifecycle column of a feedback window.
type WindowStatus string

const (
	WindowDraft  WindowStatus = "DRAFT"
	WindowOpen   WindowStatus = "OPEN"
	WindowClosed WindowStatus = "CLOSED"
)

// FeedbackWindow is a period during which students of one scope
// (program, branch, year, semester) may submit feedback.
type FeedbackWindow struct {
	ID           int64        `json:"id" db:"id"`
	Program      string       `json:"program" db:"program" example:"BTECH"`
	Branch       string       `json:"branch" db:"branch" example:"CSE"`
	Year         int          `json:"year" db:"year" example:"2"`
	Semester     int          `json:"semester" db:"semester" example:"3"`
	AcademicYear string       `json:"academicYear" db:"academic_year" example:"2024-25"`
	StartDate    time.Time    `json:"startDate" db:"start_date"`
	EndDate      time.Time    `json:"endDate" db:"end_date"`
	Status       WindowStatus `json:"status" db:"status" example:"OPEN"`
	PublishedBy  *int64       `json:"publishedBy,omitempty" db:"published_by"`
	PublishedAt  *time.Time   `json:"publishedAt,omitempty" db:"published_at"`
	ClosedAt     *time.Time   `json:"closedAt,omitempty" db:"closed_at"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
}

// WindowStateKind enumerates the effective states of a window at an instant.
type WindowStateKind string

const (
	StateDraft     WindowStateKind = "DRAFT"
	StateScheduled WindowStateKind = "SCHEDULED"
	StateOpen      WindowStateKind = "OPEN"
	StateClosed    WindowStateKind = "CLOSED"
)

// WindowState is the effective state of a window. At holds the instant that
// matters for the kind: opening time when scheduled, closing time when open,
// the time it closed when closed. It is zero for drafts.
type WindowState struct {
	Kind WindowStateKind `json:"kind"`
	At   *time.Time      `json:"at,omitempty"`
}

// AcceptingResponses reports whether students may submit right now.
func (s WindowState) AcceptingResponses() bool {
	return s.Kind == StateOpen
}

// State evaluates the window against now. An OPEN row whose end date has
// passed is reported closed even before the row is settled.
func (w *FeedbackWindow) State(now time.Time) WindowState {
	switch w.Status {
	case WindowDraft:
		return WindowState{Kind: StateDraft}
	case WindowClosed:
		at := w.EndDate
		if w.ClosedAt != nil {
			at = *w.ClosedAt
		}
		return WindowState{Kind: StateClosed, At: &at}
	}

	if now.Before(w.StartDate) {
		at := w.StartDate
		return WindowState{Kind: StateScheduled, At: &at}
	}
	if now.After(w.EndDate) {
		at := w.EndDate
		return WindowState{Kind: StateClosed, At: &at}
	}
	at := w.EndDate
	return WindowState{Kind: StateOpen, At: &at}
}

// WindowView is a window together with its evaluated state, as returned by
// the API.
type WindowView struct {
	FeedbackWindow
	State WindowState `json:"state"`
}

// View pairs w with its state at now.
func (w FeedbackWindow) View(now time.Time) WindowView {
	return WindowView{FeedbackWindow: w, State: w.State(now)}
}
