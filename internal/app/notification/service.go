package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type Service interface {
	ListNotifications(ctx context.Context, userID uint64, limit, offset int) ([]*Notification, int64, error)
	MarkRead(ctx context.Context, userID, notificationID uint64) error
	MarkAllRead(ctx context.Context, userID uint64) (int64, error)
	GetPreferences(ctx context.Context, userID uint64) (*Preferences, error)
	UpdatePreferences(ctx context.Context, userID uint64, req UpdatePreferencesRequest) (*Preferences, error)
}

type service struct {
	repo   Repository
	logger *zap.SugaredLogger
}

func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger.Sugar(),
	}
}

func (s *service) ListNotifications(ctx context.Context, userID uint64, limit, offset int) ([]*Notification, int64, error) {
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	notifications, err := s.repo.GetByUserID(userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get notifications: %w", err)
	}

	unread, err := s.repo.CountUnread(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return notifications, unread, nil
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID uint64) error {
	return s.repo.MarkRead(userID, notificationID)
}

func (s *service) MarkAllRead(ctx context.Context, userID uint64) (int64, error) {
	updated, err := s.repo.MarkAllRead(userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return updated, nil
}

// GetPreferences returns the user's preference row, creating it with defaults
// on first access.
func (s *service) GetPreferences(ctx context.Context, userID uint64) (*Preferences, error) {
	return getOrCreatePreferences(s.repo, userID)
}

func (s *service) UpdatePreferences(ctx context.Context, userID uint64, req UpdatePreferencesRequest) (*Preferences, error) {
	prefs, err := getOrCreatePreferences(s.repo, userID)
	if err != nil {
		return nil, err
	}

	if req.CardAssigned != nil {
		prefs.CardAssigned = *req.CardAssigned
	}
	if req.CardMoved != nil {
		prefs.CardMoved = *req.CardMoved
	}
	if req.CardDueSoon != nil {
		prefs.CardDueSoon = *req.CardDueSoon
	}
	if req.CommentAdded != nil {
		prefs.CommentAdded = *req.CommentAdded
	}
	if req.MemberAdded != nil {
		prefs.MemberAdded = *req.MemberAdded
	}
	if req.BoardShared != nil {
		prefs.BoardShared = *req.BoardShared
	}
	if req.DigestFrequency != nil {
		switch *req.DigestFrequency {
		case DigestInstant, DigestHourly, DigestDaily, DigestWeekly:
			prefs.DigestFrequency = *req.DigestFrequency
		default:
			return nil, fmt.Errorf("invalid digest frequency %q", *req.DigestFrequency)
		}
	}

	if err := s.repo.SavePreferences(prefs); err != nil {
		return nil, fmt.Errorf("failed to save preferences: %w", err)
	}
	return prefs, nil
}
