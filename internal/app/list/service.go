package list

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"taskboard/internal/app/activity"
	"taskboard/internal/app/board"
	"taskboard/internal/providers/redis"

	"go.uber.org/zap"
)

var (
	ErrForbidden    = errors.New("not permitted")
	ErrCreateFailed = errors.New("failed to create list")
)

type Service interface {
	CreateList(ctx context.Context, actorID, boardID uint64, title string) (*List, error)
	GetLists(ctx context.Context, actorID, boardID uint64) ([]*List, error)
	GetListByID(ctx context.Context, listID uint64) (*List, error)
	RenameList(ctx context.Context, actorID, listID uint64, title string) (*List, error)
	MoveList(ctx context.Context, actorID, listID uint64, position int) error
	DeleteList(ctx context.Context, actorID, listID uint64) error
	InvalidateListsCache(boardID uint64)
}

type service struct {
	repo        Repository
	boardSvc    board.Service
	activitySvc activity.Service
	redisP      *redis.RedisProvider
	logger      *zap.SugaredLogger
	cachePrefix string
}

func NewService(
	repo Repository,
	boardSvc board.Service,
	activitySvc activity.Service,
	redisP *redis.RedisProvider,
	logger *zap.Logger,
) Service {
	return &service{
		repo:        repo,
		boardSvc:    boardSvc,
		activitySvc: activitySvc,
		redisP:      redisP,
		logger:      logger.Sugar(),
		cachePrefix: "lists:board",
	}
}

func (s *service) CreateList(ctx context.Context, actorID, boardID uint64, title string) (*List, error) {
	titleLength := utf8.RuneCountInString(title)
	if titleLength < 1 || titleLength > 99 {
		return nil, fmt.Errorf("list title must be between 1 and 99 characters, got %d", titleLength)
	}

	// Membership is checked before the transaction; the transaction body
	// holds no authorization logic.
	if err := s.checkAccess(boardID, actorID); err != nil {
		return nil, err
	}

	list := &List{
		BoardID: boardID,
		Title:   title,
	}
	if err := s.repo.CreateList(ctx, list); err != nil {
		s.logger.Errorw("List insert transaction failed", "board_id", boardID, "error", err)
		return nil, ErrCreateFailed
	}

	s.InvalidateListsCache(boardID)

	s.logActivity(ctx, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionListCreated,
		EntityType: "list",
		EntityID:   list.ID,
		BoardID:    boardID,
		Metadata:   map[string]interface{}{"title": list.Title},
		NewValues:  map[string]interface{}{"title": list.Title, "position": list.Position},
	})

	return list, nil
}

func (s *service) GetLists(ctx context.Context, actorID, boardID uint64) ([]*List, error) {
	if err := s.checkAccess(boardID, actorID); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s:%d", s.cachePrefix, boardID)
	if s.redisP != nil {
		cachedData, err := s.redisP.Get(ctx, cacheKey).Result()
		if err == nil && cachedData != "" {
			var lists []*List
			if json.Unmarshal([]byte(cachedData), &lists) == nil {
				return lists, nil
			}
		}
	}

	lists, err := s.repo.GetListsByBoardID(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lists: %w", err)
	}

	if len(lists) > 0 && s.redisP != nil {
		if data, err := json.Marshal(lists); err == nil {
			s.redisP.SetEX(ctx, cacheKey, data, 5*time.Minute)
		}
	}
	return lists, nil
}

func (s *service) GetListByID(ctx context.Context, listID uint64) (*List, error) {
	return s.repo.GetListByID(listID)
}

func (s *service) RenameList(ctx context.Context, actorID, listID uint64, title string) (*List, error) {
	titleLength := utf8.RuneCountInString(title)
	if titleLength < 1 || titleLength > 99 {
		return nil, fmt.Errorf("list title must be between 1 and 99 characters, got %d", titleLength)
	}

	list, err := s.repo.GetListByID(listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if err := s.checkAccess(list.BoardID, actorID); err != nil {
		return nil, err
	}

	previousTitle := list.Title
	if err := s.repo.RenameList(listID, title); err != nil {
		return nil, fmt.Errorf("failed to rename list: %w", err)
	}
	list.Title = title

	s.InvalidateListsCache(list.BoardID)

	s.logActivity(ctx, activity.Entry{
		ActorID:        actorID,
		Action:         activity.ActionListUpdated,
		EntityType:     "list",
		EntityID:       listID,
		BoardID:        list.BoardID,
		Metadata:       map[string]interface{}{"title": title},
		PreviousValues: map[string]interface{}{"title": previousTitle},
		NewValues:      map[string]interface{}{"title": title},
	})

	return list, nil
}

// MoveList stores the caller-computed position verbatim. Collisions with an
// existing sibling position are tolerated; reads break ties on created_at.
func (s *service) MoveList(ctx context.Context, actorID, listID uint64, position int) error {
	if position < 0 {
		return fmt.Errorf("position must not be negative, got %d", position)
	}

	list, err := s.repo.GetListByID(listID)
	if err != nil {
		return fmt.Errorf("failed to get list: %w", err)
	}
	if err := s.checkAccess(list.BoardID, actorID); err != nil {
		return err
	}

	previousPosition := list.Position
	if err := s.repo.MoveList(listID, position); err != nil {
		return fmt.Errorf("failed to move list: %w", err)
	}

	s.InvalidateListsCache(list.BoardID)

	s.logActivity(ctx, activity.Entry{
		ActorID:        actorID,
		Action:         activity.ActionListMoved,
		EntityType:     "list",
		EntityID:       listID,
		BoardID:        list.BoardID,
		Metadata:       map[string]interface{}{"title": list.Title},
		PreviousValues: map[string]interface{}{"position": previousPosition},
		NewValues:      map[string]interface{}{"position": position},
	})

	return nil
}

func (s *service) DeleteList(ctx context.Context, actorID, listID uint64) error {
	list, err := s.repo.GetListByID(listID)
	if err != nil {
		return fmt.Errorf("failed to get list: %w", err)
	}
	if err := s.checkAccess(list.BoardID, actorID); err != nil {
		return err
	}

	if err := s.repo.DeleteList(ctx, listID); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}

	s.InvalidateListsCache(list.BoardID)

	s.logActivity(ctx, activity.Entry{
		ActorID:        actorID,
		Action:         activity.ActionListDeleted,
		EntityType:     "list",
		EntityID:       listID,
		BoardID:        list.BoardID,
		Metadata:       map[string]interface{}{"title": list.Title},
		PreviousValues: map[string]interface{}{"title": list.Title, "position": list.Position},
	})

	return nil
}

func (s *service) InvalidateListsCache(boardID uint64) {
	if s.redisP == nil {
		return
	}
	cacheKey := fmt.Sprintf("%s:%d", s.cachePrefix, boardID)
	s.redisP.Del(context.Background(), cacheKey)
}

func (s *service) checkAccess(boardID, userID uint64) error {
	allowed, err := s.boardSvc.HasUserAccess(boardID, userID)
	if err != nil {
		return fmt.Errorf("failed to check board access: %w", err)
	}
	if !allowed {
		return ErrForbidden
	}
	return nil
}

func (s *service) logActivity(ctx context.Context, entry activity.Entry) {
	if s.activitySvc == nil {
		return
	}
	if _, err := s.activitySvc.LogActivity(ctx, entry); err != nil {
		s.logger.Warnw("Failed to log activity", "action", entry.Action, "board_id", entry.BoardID, "error", err)
	}
}
