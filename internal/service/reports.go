package service

import (
	"context"

	"github.com/Zero-Base-1/DonationTracker/internal/model"
)

const (
	recentLimit        = 5
	monthlyTotalMonths = 6
	activityFeedLimit  = 50
)

type reportStore interface {
	GetDonationStats(ctx context.Context, createdBy *int64) (*model.DonationStats, error)
	GetEventStats(ctx context.Context, createdBy *int64) (*model.EventStats, error)
	GetRecentDonations(ctx context.Context, createdBy *int64, limit int) ([]model.Donation, error)
	GetRecentEvents(ctx context.Context, createdBy *int64, limit int) ([]model.Event, error)
	GetMonthlyDonationTotals(ctx context.Context, createdBy *int64, months int) ([]model.MonthlyTotal, error)
	GetDonationTotalsByEvent(ctx context.Context, createdBy *int64) ([]model.EventTotal, error)
	GetDonationTotalsByType(ctx context.Context, createdBy *int64) ([]model.TypeTotal, error)
	ListUsers(ctx context.Context) ([]model.UserSummary, error)
	GetActivityFeed(ctx context.Context, limit int) ([]model.ActivityItem, error)
}

// ReportService assembles the dashboard, reports and admin views.
type ReportService struct {
	repo reportStore
}

func NewReportService(repo reportStore) *ReportService {
	return &ReportService{repo: repo}
}

func (s *ReportService) Dashboard(ctx context.Context, viewer model.Identity) (*model.DashboardResponse, error) {
	scope := scopeFor(viewer)

	donationStats, err := s.repo.GetDonationStats(ctx, scope)
	if err != nil {
		return nil, err
	}
	eventStats, err := s.repo.GetEventStats(ctx, scope)
	if err != nil {
		return nil, err
	}
	recentDonations, err := s.repo.GetRecentDonations(ctx, scope, recentLimit)
	if err != nil {
		return nil, err
	}
	recentEvents, err := s.repo.GetRecentEvents(ctx, scope, recentLimit)
	if err != nil {
		return nil, err
	}
	monthly, err := s.repo.GetMonthlyDonationTotals(ctx, scope, monthlyTotalMonths)
	if err != nil {
		return nil, err
	}

	return &model.DashboardResponse{
		Donations:       *donationStats,
		Events:          *eventStats,
		RecentDonations: recentDonations,
		RecentEvents:    recentEvents,
		MonthlyTotals:   monthly,
	}, nil
}

func (s *ReportService) Reports(ctx context.Context, viewer model.Identity) (*model.ReportsResponse, error) {
	scope := scopeFor(viewer)

	byEvent, err := s.repo.GetDonationTotalsByEvent(ctx, scope)
	if err != nil {
		return nil, err
	}
	byType, err := s.repo.GetDonationTotalsByType(ctx, scope)
	if err != nil {
		return nil, err
	}

	return &model.ReportsResponse{
		TotalsByEvent: byEvent,
		TotalsByType:  byType,
	}, nil
}

func (s *ReportService) Users(ctx context.Context) ([]model.UserSummary, error) {
	return s.repo.ListUsers(ctx)
}

func (s *ReportService) ActivityFeed(ctx context.Context) ([]model.ActivityItem, error) {
	return s.repo.GetActivityFeed(ctx, activityFeedLimit)
}
