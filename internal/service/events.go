package service

import (
	"context"
	"strings"

	"github.com/Zero-Base-1/DonationTracker/internal/db"
	"github.com/Zero-Base-1/DonationTracker/internal/model"
)

type eventStore interface {
	ListEvents(ctx context.Context, createdBy *int64) ([]model.Event, error)
	GetEvent(ctx context.Context, id int64) (*model.Event, error)
	CreateEvent(ctx context.Context, in model.EventInput, createdBy int64) (int64, error)
	UpdateEvent(ctx context.Context, id int64, in model.EventInput) error
	DeleteEvent(ctx context.Context, id int64) error
}

type EventService struct {
	repo eventStore
}

func NewEventService(repo eventStore) *EventService {
	return &EventService{repo: repo}
}

func (s *EventService) List(ctx context.Context, viewer model.Identity) ([]model.Event, error) {
	return s.repo.ListEvents(ctx, scopeFor(viewer))
}

func (s *EventService) Get(ctx context.Context, viewer model.Identity, id int64) (*model.Event, error) {
	event, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !viewer.IsAdmin() && event.CreatedBy != viewer.ID {
		return nil, ErrNotFound
	}
	return event, nil
}

func (s *EventService) Create(ctx context.Context, viewer model.Identity, in model.EventInput) (int64, error) {
	if err := validateEvent(in); err != nil {
		return 0, err
	}
	return s.repo.CreateEvent(ctx, in, viewer.ID)
}

func (s *EventService) Update(ctx context.Context, viewer model.Identity, id int64, in model.EventInput) error {
	if err := validateEvent(in); err != nil {
		return err
	}
	if _, err := s.Get(ctx, viewer, id); err != nil {
		return err
	}
	return s.repo.UpdateEvent(ctx, id, in)
}

func (s *EventService) Delete(ctx context.Context, viewer model.Identity, id int64) error {
	if _, err := s.Get(ctx, viewer, id); err != nil {
		return err
	}
	return s.repo.DeleteEvent(ctx, id)
}

func validateEvent(in model.EventInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidInput
	}
	if !validDate(in.EventDate) {
		return ErrInvalidInput
	}
	return nil
}
