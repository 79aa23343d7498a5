package adminController

import (
	"context"
	"errors"
	"sync"

	. "applianceassist/internal/models"
)

var ErrSessionClosed = errors.New("notes edit session is closed")

// NotesEditSession holds a draft of one order's notes. Nothing reaches the
// store until Confirm; Cancel drops the draft.
type NotesEditSession struct {
	mu         sync.Mutex
	controller *AdminController
	orderID    string
	draft      string
	closed     bool
}

func (c *AdminController) BeginNotesEdit(order *ServiceRequest) *NotesEditSession {
	return &NotesEditSession{
		controller: c,
		orderID:    order.ID,
		draft:      order.Notes,
	}
}

func (s *NotesEditSession) OrderID() string {
	return s.orderID
}

func (s *NotesEditSession) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

func (s *NotesEditSession) SetDraft(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = notes
}

func (s *NotesEditSession) Confirm(ctx context.Context) (*ServiceRequest, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	draft := s.draft
	s.mu.Unlock()

	order, err := s.controller.UpdateNotes(ctx, s.orderID, draft)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return order, nil
}

func (s *NotesEditSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.draft = ""
}
