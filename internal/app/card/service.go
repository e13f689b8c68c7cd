package card

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"taskboard/internal/app/activity"
	"taskboard/internal/app/board"
	"taskboard/internal/app/list"
	"taskboard/internal/providers/redis"

	"go.uber.org/zap"
)

var (
	ErrForbidden    = errors.New("not permitted")
	ErrCreateFailed = errors.New("failed to create card")
	ErrCrossBoard   = errors.New("target list belongs to a different board")
)

type Service interface {
	CreateCard(ctx context.Context, actorID, listID uint64, title, description string) (*Card, error)
	GetCards(ctx context.Context, actorID, listID uint64) ([]*Card, error)
	UpdateCard(ctx context.Context, actorID, cardID uint64, req UpdateCardRequest) (*Card, error)
	MoveCard(ctx context.Context, actorID, cardID, targetListID uint64, position int) error
	DeleteCard(ctx context.Context, actorID, cardID uint64) error
	InvalidateCardsCache(listID uint64)
}

type service struct {
	repo        Repository
	listSvc     list.Service
	boardSvc    board.Service
	activitySvc activity.Service
	redisP      *redis.RedisProvider
	logger      *zap.SugaredLogger
	cachePrefix string
}

func NewService(
	repo Repository,
	listSvc list.Service,
	boardSvc board.Service,
	activitySvc activity.Service,
	redisP *redis.RedisProvider,
	logger *zap.Logger,
) Service {
	return &service{
		repo:        repo,
		listSvc:     listSvc,
		boardSvc:    boardSvc,
		activitySvc: activitySvc,
		redisP:      redisP,
		logger:      logger.Sugar(),
		cachePrefix: "cards:list",
	}
}

func (s *service) CreateCard(ctx context.Context, actorID, listID uint64, title, description string) (*Card, error) {
	titleLength := utf8.RuneCountInString(title)
	if titleLength < 1 || titleLength > 199 {
		return nil, fmt.Errorf("card title must be between 1 and 199 characters, got %d", titleLength)
	}

	parent, err := s.listSvc.GetListByID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	// Membership is checked before the transaction opens.
	if err := s.checkAccess(parent.BoardID, actorID); err != nil {
		return nil, err
	}

	card := &Card{
		ListID:      listID,
		BoardID:     parent.BoardID,
		Title:       title,
		Description: description,
	}
	if err := s.repo.CreateCard(ctx, card); err != nil {
		s.logger.Errorw("Card insert transaction failed", "list_id", listID, "error", err)
		return nil, ErrCreateFailed
	}

	s.InvalidateCardsCache(listID)

	s.logActivity(ctx, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionCardCreated,
		EntityType: "card",
		EntityID:   card.ID,
		BoardID:    card.BoardID,
		Metadata:   map[string]interface{}{"title": card.Title},
		NewValues:  map[string]interface{}{"title": card.Title, "position": card.Position, "listId": card.ListID},
	})

	return card, nil
}

func (s *service) GetCards(ctx context.Context, actorID, listID uint64) ([]*Card, error) {
	parent, err := s.listSvc.GetListByID(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if err := s.checkAccess(parent.BoardID, actorID); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s:%d", s.cachePrefix, listID)
	if s.redisP != nil {
		cachedData, err := s.redisP.Get(ctx, cacheKey).Result()
		if err == nil && cachedData != "" {
			var cards []*Card
			if json.Unmarshal([]byte(cachedData), &cards) == nil {
				return cards, nil
			}
		}
	}

	cards, err := s.repo.GetCardsByListID(listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards: %w", err)
	}

	if len(cards) > 0 && s.redisP != nil {
		if data, err := json.Marshal(cards); err == nil {
			s.redisP.SetEX(ctx, cacheKey, data, 5*time.Minute)
		}
	}
	return cards, nil
}

func (s *service) UpdateCard(ctx context.Context, actorID, cardID uint64, req UpdateCardRequest) (*Card, error) {
	card, err := s.repo.GetCardByID(cardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	if err := s.checkAccess(card.BoardID, actorID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	previous := make(map[string]interface{})
	next := make(map[string]interface{})

	if req.Title != nil {
		titleLength := utf8.RuneCountInString(*req.Title)
		if titleLength < 1 || titleLength > 199 {
			return nil, fmt.Errorf("card title must be between 1 and 199 characters, got %d", titleLength)
		}
		updates["title"] = *req.Title
		previous["title"] = card.Title
		next["title"] = *req.Title
		card.Title = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
		previous["description"] = card.Description
		next["description"] = *req.Description
		card.Description = *req.Description
	}
	if req.DueDate != nil {
		updates["due_date"] = *req.DueDate
		if card.DueDate != nil {
			previous["dueDate"] = card.DueDate.Format(time.RFC3339)
		}
		next["dueDate"] = req.DueDate.Format(time.RFC3339)
		card.DueDate = req.DueDate
	}
	if req.AssignedTo != nil {
		updates["assigned_to"] = *req.AssignedTo
		if card.AssignedTo != nil {
			previous["assignedUserId"] = *card.AssignedTo
		}
		next["assignedUserId"] = *req.AssignedTo
		card.AssignedTo = req.AssignedTo
	}

	if len(updates) == 0 {
		return card, nil
	}

	if err := s.repo.UpdateCard(cardID, updates); err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}

	s.InvalidateCardsCache(card.ListID)

	metadata := map[string]interface{}{"title": card.Title}
	if req.AssignedTo != nil {
		metadata["assignedUserId"] = *req.AssignedTo
	}
	if card.DueDate != nil {
		metadata["dueDate"] = card.DueDate.Format(time.RFC3339)
	}

	s.logActivity(ctx, activity.Entry{
		ActorID:        actorID,
		Action:         activity.ActionCardUpdated,
		EntityType:     "card",
		EntityID:       cardID,
		BoardID:        card.BoardID,
		Metadata:       metadata,
		PreviousValues: previous,
		NewValues:      next,
	})

	return card, nil
}

// MoveCard stores the caller-computed target verbatim. Position collisions
// with an existing sibling are tolerated; reads break ties on created_at.
func (s *service) MoveCard(ctx context.Context, actorID, cardID, targetListID uint64, position int) error {
	if position < 0 {
		return fmt.Errorf("position must not be negative, got %d", position)
	}

	card, err := s.repo.GetCardByID(cardID)
	if err != nil {
		return fmt.Errorf("failed to get card: %w", err)
	}
	if err := s.checkAccess(card.BoardID, actorID); err != nil {
		return err
	}

	sourceList, err := s.listSvc.GetListByID(ctx, card.ListID)
	if err != nil {
		return fmt.Errorf("failed to get source list: %w", err)
	}
	targetList, err := s.listSvc.GetListByID(ctx, targetListID)
	if err != nil {
		return fmt.Errorf("failed to get target list: %w", err)
	}
	if targetList.BoardID != card.BoardID {
		return ErrCrossBoard
	}

	if err := s.repo.MoveCard(cardID, targetListID, position); err != nil {
		return fmt.Errorf("failed to move card: %w", err)
	}

	s.InvalidateCardsCache(card.ListID)
	s.InvalidateCardsCache(targetListID)

	metadata := map[string]interface{}{
		"title":    card.Title,
		"fromList": sourceList.Title,
		"toList":   targetList.Title,
	}
	if card.AssignedTo != nil {
		metadata["assignedUserId"] = *card.AssignedTo
	}

	s.logActivity(ctx, activity.Entry{
		ActorID:        actorID,
		Action:         activity.ActionCardMoved,
		EntityType:     "card",
		EntityID:       cardID,
		BoardID:        card.BoardID,
		Metadata:       metadata,
		PreviousValues: map[string]interface{}{"listId": card.ListID, "position": card.Position},
		NewValues:      map[string]interface{}{"listId": targetListID, "position": position},
	})

	return nil
}

func (s *service) DeleteCard(ctx context.Context, actorID, cardID uint64) error {
	card, err := s.repo.GetCardByID(cardID)
	if err != nil {
		return fmt.Errorf("failed to get card: %w", err)
	}
	if err := s.checkAccess(card.BoardID, actorID); err != nil {
		return err
	}

	if err := s.repo.DeleteCard(cardID); err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}

	s.InvalidateCardsCache(card.ListID)

	s.logActivity(ctx, activity.Entry{
		ActorID:        actorID,
		Action:         activity.ActionCardDeleted,
		EntityType:     "card",
		EntityID:       cardID,
		BoardID:        card.BoardID,
		Metadata:       map[string]interface{}{"title": card.Title},
		PreviousValues: map[string]interface{}{"title": card.Title, "listId": card.ListID, "position": card.Position},
	})

	return nil
}

func (s *service) InvalidateCardsCache(listID uint64) {
	if s.redisP == nil {
		return
	}
	cacheKey := fmt.Sprintf("%s:%d", s.cachePrefix, listID)
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
