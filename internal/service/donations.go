package service

import (
	"context"
	"strings"
	"time"

	"github.com/Zero-Base-1/DonationTracker/internal/db"
	"github.com/Zero-Base-1/DonationTracker/internal/model"
)

type donationStore interface {
	ListDonations(ctx context.Context, createdBy *int64) ([]model.Donation, error)
	GetDonation(ctx context.Context, id int64) (*model.Donation, error)
	CreateDonation(ctx context.Context, in model.DonationInput, createdBy int64) (int64, error)
	UpdateDonation(ctx context.Context, id int64, in model.DonationInput) error
	DeleteDonation(ctx context.Context, id int64) error
}

// DonationService applies ownership scoping on top of the donation store:
// admins operate on all rows, everyone else only on rows they created.
type DonationService struct {
	repo donationStore
}

func NewDonationService(repo donationStore) *DonationService {
	return &DonationService{repo: repo}
}

func (s *DonationService) List(ctx context.Context, viewer model.Identity) ([]model.Donation, error) {
	return s.repo.ListDonations(ctx, scopeFor(viewer))
}

func (s *DonationService) Get(ctx context.Context, viewer model.Identity, id int64) (*model.Donation, error) {
	donation, err := s.repo.GetDonation(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !viewer.IsAdmin() && donation.CreatedBy != viewer.ID {
		return nil, ErrNotFound
	}
	return donation, nil
}

func (s *DonationService) Create(ctx context.Context, viewer model.Identity, in model.DonationInput) (int64, error) {
	if err := validateDonation(in); err != nil {
		return 0, err
	}
	return s.repo.CreateDonation(ctx, in, viewer.ID)
}

func (s *DonationService) Update(ctx context.Context, viewer model.Identity, id int64, in model.DonationInput) error {
	if err := validateDonation(in); err != nil {
		return err
	}
	if _, err := s.Get(ctx, viewer, id); err != nil {
		return err
	}
	return s.repo.UpdateDonation(ctx, id, in)
}

func (s *DonationService) Delete(ctx context.Context, viewer model.Identity, id int64) error {
	if _, err := s.Get(ctx, viewer, id); err != nil {
		return err
	}
	return s.repo.DeleteDonation(ctx, id)
}

func validateDonation(in model.DonationInput) error {
	if strings.TrimSpace(in.DonorName) == "" {
		return ErrInvalidInput
	}
	if !validDate(in.DonationDate) {
		return ErrInvalidInput
	}
	if in.Amount < 0 {
		return ErrInvalidInput
	}
	if strings.TrimSpace(in.Type) == "" {
		return ErrInvalidInput
	}
	return nil
}

func validDate(value string) bool {
	parsed, err := time.Parse("2006-01-02", value)
	return err == nil && parsed.Format("2006-01-02") == value
}

// scopeFor returns the created_by filter for a viewer: nil (all rows) for
// admins, the viewer's own id otherwise.
func scopeFor(viewer model.Identity) *int64 {
	if viewer.IsAdmin() {
		return nil
	}
	id := viewer.ID
	return &id
}
