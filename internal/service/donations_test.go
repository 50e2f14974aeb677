package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zero-Base-1/DonationTracker/internal/model"
)

type fakeDonationRepo struct {
	donations map[int64]*model.Donation
	nextID    int64
}

func newFakeDonationRepo() *fakeDonationRepo {
	return &fakeDonationRepo{donations: make(map[int64]*model.Donation)}
}

func (f *fakeDonationRepo) ListDonations(_ context.Context, createdBy *int64) ([]model.Donation, error) {
	var out []model.Donation
	for _, d := range f.donations {
		if createdBy == nil || d.CreatedBy == *createdBy {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDonationRepo) GetDonation(_ context.Context, id int64) (*model.Donation, error) {
	d, ok := f.donations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *d
	return &copied, nil
}

func (f *fakeDonationRepo) CreateDonation(_ context.Context, in model.DonationInput, createdBy int64) (int64, error) {
	f.nextID++
	f.donations[f.nextID] = &model.Donation{
		ID:           f.nextID,
		DonorName:    in.DonorName,
		DonationDate: in.DonationDate,
		Amount:       in.Amount,
		Type:         in.Type,
		EventID:      in.EventID,
		Notes:        in.Notes,
		CreatedBy:    createdBy,
	}
	return f.nextID, nil
}

func (f *fakeDonationRepo) UpdateDonation(_ context.Context, id int64, in model.DonationInput) error {
	d, ok := f.donations[id]
	if !ok {
		return pgx.ErrNoRows
	}
	d.DonorName = in.DonorName
	d.DonationDate = in.DonationDate
	d.Amount = in.Amount
	d.Type = in.Type
	d.EventID = in.EventID
	d.Notes = in.Notes
	return nil
}

func (f *fakeDonationRepo) DeleteDonation(_ context.Context, id int64) error {
	delete(f.donations, id)
	return nil
}

var (
	alice = model.Identity{ID: 1, Name: "Alice", Email: "alice@example.org", Role: model.RoleUser}
	bob   = model.Identity{ID: 2, Name: "Bob", Email: "bob@example.org", Role: model.RoleUser}
	root  = model.Identity{ID: 3, Name: "Admin", Email: "admin@donationtracker.local", Role: model.RoleAdmin}
)

func validDonation() model.DonationInput {
	return model.DonationInput{
		DonorName:    "Carol Donor",
		DonationDate: "2026-08-15",
		Amount:       120.50,
		Type:         "cash",
	}
}

func TestDonationOwnershipScoping(t *testing.T) {
	repo := newFakeDonationRepo()
	svc := NewDonationService(repo)

	id, err := svc.Create(context.Background(), alice, validDonation())
	require.NoError(t, err)

	// The owner and an admin can read it; another user cannot.
	_, err = svc.Get(context.Background(), alice, id)
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), root, id)
	assert.NoError(t, err)
	_, err = svc.Get(context.Background(), bob, id)
	assert.ErrorIs(t, err, ErrNotFound)

	// Same for mutation.
	err = svc.Delete(context.Background(), bob, id)
	assert.ErrorIs(t, err, ErrNotFound)
	err = svc.Delete(context.Background(), alice, id)
	assert.NoError(t, err)
}

func TestDonationListScoping(t *testing.T) {
	repo := newFakeDonationRepo()
	svc := NewDonationService(repo)

	_, err := svc.Create(context.Background(), alice, validDonation())
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), bob, validDonation())
	require.NoError(t, err)

	own, err := svc.List(context.Background(), alice)
	require.NoError(t, err)
	assert.Len(t, own, 1)

	all, err := svc.List(context.Background(), root)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDonationValidation(t *testing.T) {
	svc := NewDonationService(newFakeDonationRepo())

	cases := []struct {
		name   string
		mutate func(*model.DonationInput)
	}{
		{"empty donor", func(in *model.DonationInput) { in.DonorName = " " }},
		{"bad date", func(in *model.DonationInput) { in.DonationDate = "15/08/2026" }},
		{"impossible date", func(in *model.DonationInput) { in.DonationDate = "2026-02-30" }},
		{"negative amount", func(in *model.DonationInput) { in.Amount = -5 }},
		{"empty type", func(in *model.DonationInput) { in.Type = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validDonation()
			tc.mutate(&in)
			_, err := svc.Create(context.Background(), alice, in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
