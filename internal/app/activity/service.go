package activity

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taskboard/internal/providers/redis"
	"taskboard/internal/utils"

	"go.uber.org/zap"
)

// Notifier is the downstream fan-out engine. Implemented by the notification
// package; declared here so the recorder does not depend on it.
type Notifier interface {
	FanOut(ctx context.Context, record *Record) error
}

type Service interface {
	LogActivity(ctx context.Context, entry Entry) (*Record, error)
	GetBoardFeed(ctx context.Context, boardID uint64, page, limit int) ([]*FeedItem, int64, error)
	PurgeExpired(ctx context.Context) (int64, error)
	InvalidateFeedCache(boardID uint64)
}

type service struct {
	repo        Repository
	redisP      *redis.RedisProvider
	eventBus    *utils.EventBus
	notifier    Notifier
	logger      *zap.SugaredLogger
	cachePrefix string
	retention   time.Duration
}

func NewService(
	repo Repository,
	redisP *redis.RedisProvider,
	eventBus *utils.EventBus,
	notifier Notifier,
	logger *zap.Logger,
	retention time.Duration,
) Service {
	return &service{
		repo:        repo,
		redisP:      redisP,
		eventBus:    eventBus,
		notifier:    notifier,
		logger:      logger.Sugar(),
		cachePrefix: "activity:board",
		retention:   retention,
	}
}

// LogActivity appends one audit record and kicks off the notification fan-out
// in a detached goroutine. The record is the source of truth: once the insert
// commits, LogActivity succeeds no matter what the fan-out does.
func (s *service) LogActivity(ctx context.Context, entry Entry) (*Record, error) {
	if entry.Action == "" {
		return nil, fmt.Errorf("action type is required")
	}

	record := &Record{
		UserID:     entry.ActorID,
		ActionType: entry.Action.String(),
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		BoardID:    entry.BoardID,
		Metadata:   marshalMeta(entry.Metadata),
		CreatedAt:  time.Now().UTC(),
	}
	if entry.PreviousValues != nil {
		prev := marshalMeta(entry.PreviousValues)
		record.PreviousValues = &prev
	}
	if entry.NewValues != nil {
		next := marshalMeta(entry.NewValues)
		record.NewValues = &next
	}

	if err := s.repo.Create(record); err != nil {
		return nil, fmt.Errorf("failed to log activity: %w", err)
	}

	s.InvalidateFeedCache(record.BoardID)

	if s.eventBus != nil {
		s.eventBus.Publish("activity_logged", map[string]interface{}{
			"activity_id": record.ID,
			"board_id":    record.BoardID,
			"action_type": record.ActionType,
			"entity_type": record.EntityType,
			"entity_id":   record.EntityID,
			"user_id":     record.UserID,
			"timestamp":   record.CreatedAt.Unix(),
		})
	}

	if s.notifier != nil {
		go func(rec *Record) {
			defer func() {
				if p := recover(); p != nil {
					s.logger.Errorw("Notification fan-out panicked", "activity_id", rec.ID, "panic", p)
				}
			}()
			if err := s.notifier.FanOut(context.Background(), rec); err != nil {
				s.logger.Warnw("Notification fan-out failed",
					"activity_id", rec.ID,
					"action_type", rec.ActionType,
					"error", err,
				)
			}
		}(record)
	}

	return record, nil
}

func (s *service) GetBoardFeed(ctx context.Context, boardID uint64, page, limit int) ([]*FeedItem, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 50 {
		limit = 50
	}

	records, total, err := s.getBoardRecords(ctx, boardID, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get activity feed: %w", err)
	}

	now := time.Now().UTC()
	items := make([]*FeedItem, 0, len(records))
	for _, rec := range records {
		items = append(items, &FeedItem{
			Record:       rec,
			Message:      FormatMessage(rec),
			RelativeTime: FormatRelativeTime(rec.CreatedAt, now),
		})
	}
	return items, total, nil
}

func (s *service) getBoardRecords(ctx context.Context, boardID uint64, page, limit int) ([]*Record, int64, error) {
	var result struct {
		Records []*Record `json:"records"`
		Total   int64     `json:"total"`
	}

	cacheKey := fmt.Sprintf("%s:%d:page:%d:limit:%d", s.cachePrefix, boardID, page, limit)
	if s.redisP != nil {
		cachedData, err := s.redisP.Get(ctx, cacheKey).Result()
		if err == nil && cachedData != "" {
			if json.Unmarshal([]byte(cachedData), &result) == nil {
				return result.Records, result.Total, nil
			}
		}
	}

	records, total, err := s.repo.GetByBoardID(boardID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	if len(records) > 0 && s.redisP != nil {
		result.Records = records
		result.Total = total
		if data, err := json.Marshal(result); err == nil {
			s.redisP.SetEX(ctx, cacheKey, data, 5*time.Minute)
		}
	}
	return records, total, nil
}

func (s *service) InvalidateFeedCache(boardID uint64) {
	if s.redisP == nil {
		return
	}
	pattern := fmt.Sprintf("%s:%d:page:*", s.cachePrefix, boardID)
	deleted := s.redisP.DeleteByPattern(context.Background(), pattern)
	if deleted > 0 {
		s.logger.Debugw("Activity feed cache invalidated", "board_id", boardID, "deleted_keys", deleted)
	}
}

// PurgeExpired removes records older than the retention window. Runs on the
// bootstrap ticker, never on the write path.
func (s *service) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-s.retention)
	deleted, err := s.repo.DeleteOlderThan(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge activity log: %w", err)
	}
	if deleted > 0 {
		s.logger.Infow("Purged expired activity records", "deleted", deleted, "cutoff", cutoff)
	}
	return deleted, nil
}

func marshalMeta(m map[string]interface{}) string {
	if len(m) == 0 {
		return "{}"
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(data)
}
