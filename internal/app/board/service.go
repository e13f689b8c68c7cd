package board

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"taskboard/internal/app/activity"
	"taskboard/internal/app/user"

	"go.uber.org/zap"
)

var ErrForbidden = errors.New("not permitted")

type Service interface {
	CreateBoard(ctx context.Context, ownerID uint64, title string, description *string) (*Board, error)
	GetBoardByID(ctx context.Context, boardID, userID uint64) (*Board, error)
	GetBoardsForUser(ctx context.Context, userID uint64) ([]*Board, error)
	HasUserAccess(boardID, userID uint64) (bool, error)
	AddMember(ctx context.Context, actorID, boardID, memberUserID uint64, role string) (*Member, error)
	RemoveMember(ctx context.Context, actorID, boardID, memberUserID uint64) error
}

type service struct {
	repo        Repository
	userSvc     user.Service
	activitySvc activity.Service
	logger      *zap.SugaredLogger
}

func NewService(repo Repository, userSvc user.Service, activitySvc activity.Service, logger *zap.Logger) Service {
	return &service{
		repo:        repo,
		userSvc:     userSvc,
		activitySvc: activitySvc,
		logger:      logger.Sugar(),
	}
}

func (s *service) CreateBoard(ctx context.Context, ownerID uint64, title string, description *string) (*Board, error) {
	titleLength := utf8.RuneCountInString(title)
	if titleLength < 1 || titleLength > 99 {
		return nil, fmt.Errorf("board title must be between 1 and 99 characters, got %d", titleLength)
	}

	board := &Board{
		Title:       title,
		Description: description,
		OwnerID:     ownerID,
	}
	if err := s.repo.CreateBoard(board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	s.logActivity(ctx, activity.Entry{
		ActorID:    ownerID,
		Action:     activity.ActionBoardCreated,
		EntityType: "board",
		EntityID:   board.ID,
		BoardID:    board.ID,
		Metadata:   map[string]interface{}{"title": board.Title},
	})

	return board, nil
}

func (s *service) GetBoardByID(ctx context.Context, boardID, userID uint64) (*Board, error) {
	allowed, err := s.repo.HasUserAccess(boardID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check board access: %w", err)
	}
	if !allowed {
		return nil, ErrForbidden
	}
	return s.repo.GetBoardByID(boardID)
}

func (s *service) GetBoardsForUser(ctx context.Context, userID uint64) ([]*Board, error) {
	return s.repo.GetBoardsByUserID(userID)
}

func (s *service) HasUserAccess(boardID, userID uint64) (bool, error) {
	return s.repo.HasUserAccess(boardID, userID)
}

func (s *service) AddMember(ctx context.Context, actorID, boardID, memberUserID uint64, role string) (*Member, error) {
	board, err := s.repo.GetBoardByID(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	if board.OwnerID != actorID {
		return nil, ErrForbidden
	}

	if role == "" {
		role = "member"
	}

	member := &Member{
		BoardID: boardID,
		UserID:  memberUserID,
		Role:    role,
	}
	if err := s.repo.AddMember(member); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	memberName := ""
	if u, err := s.userSvc.GetUserByID(memberUserID); err == nil {
		memberName = u.Name
	}

	s.logActivity(ctx, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionMemberAdded,
		EntityType: "member",
		EntityID:   member.ID,
		BoardID:    boardID,
		Metadata: map[string]interface{}{
			"memberUserId": memberUserID,
			"memberName":   memberName,
			"boardTitle":   board.Title,
		},
	})

	return member, nil
}

func (s *service) RemoveMember(ctx context.Context, actorID, boardID, memberUserID uint64) error {
	board, err := s.repo.GetBoardByID(boardID)
	if err != nil {
		return fmt.Errorf("failed to get board: %w", err)
	}
	if board.OwnerID != actorID {
		return ErrForbidden
	}

	memberName := ""
	if u, err := s.userSvc.GetUserByID(memberUserID); err == nil {
		memberName = u.Name
	}

	if err := s.repo.RemoveMember(boardID, memberUserID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.logActivity(ctx, activity.Entry{
		ActorID:    actorID,
		Action:     activity.ActionMemberRemoved,
		EntityType: "member",
		EntityID:   memberUserID,
		BoardID:    boardID,
		Metadata: map[string]interface{}{
			"memberUserId": memberUserID,
			"memberName":   memberName,
			"boardTitle":   board.Title,
		},
	})

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
