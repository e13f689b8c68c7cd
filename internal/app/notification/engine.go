package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/app/activity"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Candidate is one prospective notification produced by recipient resolution,
// before the preference gate and duplicate suppression have run.
type Candidate struct {
	UserID   uint64
	Type     string
	Title    string
	Message  string
	Metadata map[string]interface{}
	Priority string
}

// ResolveRecipients maps one activity record to its candidate recipients.
// Pure: no I/O, deterministic. Unmapped action types yield no candidates,
// which is the normal case for most of the audit stream. The actor is never a
// recipient of their own action.
func ResolveRecipients(rec *activity.Record) []Candidate {
	var candidates []Candidate

	switch activity.ParseActionType(rec.ActionType) {
	case activity.ActionCardUpdated, activity.ActionCardAssigned:
		m := rec.CardMeta()
		if m.AssignedUserID != 0 {
			candidates = append(candidates, Candidate{
				UserID:   m.AssignedUserID,
				Type:     TypeCardAssigned,
				Title:    "Tarjeta asignada",
				Message:  fmt.Sprintf("Se te asignó la tarjeta «%s»", m.Title),
				Metadata: cardRef(rec),
				Priority: assignmentPriority(m),
			})
		}
	case activity.ActionCardMoved:
		m := rec.CardMeta()
		if m.AssignedUserID != 0 {
			candidates = append(candidates, Candidate{
				UserID:   m.AssignedUserID,
				Type:     TypeCardMoved,
				Title:    "Tarjeta movida",
				Message:  fmt.Sprintf("Tu tarjeta «%s» se movió de «%s» a «%s»", m.Title, m.FromList, m.ToList),
				Metadata: cardRef(rec),
				Priority: PriorityLow,
			})
		}
	case activity.ActionCommentCreated:
		m := rec.CommentMeta()
		if m.AssignedUserID != 0 {
			candidates = append(candidates, Candidate{
				UserID:   m.AssignedUserID,
				Type:     TypeCommentAdded,
				Title:    "Nuevo comentario",
				Message:  fmt.Sprintf("Nuevo comentario en la tarjeta «%s»", m.CardTitle),
				Metadata: cardRef(rec),
				Priority: PriorityNormal,
			})
		}
	case activity.ActionMemberAdded:
		m := rec.MemberMeta()
		if m.MemberUserID != 0 {
			candidates = append(candidates, Candidate{
				UserID:   m.MemberUserID,
				Type:     TypeMemberAdded,
				Title:    "Nuevo tablero",
				Message:  fmt.Sprintf("Te añadieron al tablero «%s»", m.BoardTitle),
				Metadata: map[string]interface{}{"boardId": rec.BoardID},
				Priority: PriorityNormal,
			})
		}
	case activity.ActionBoardUpdated:
		m := rec.BoardMeta()
		if m.MemberUserID != 0 {
			candidates = append(candidates, Candidate{
				UserID:   m.MemberUserID,
				Type:     TypeBoardShared,
				Title:    "Tablero compartido",
				Message:  fmt.Sprintf("El tablero «%s» se compartió contigo", m.Title),
				Metadata: map[string]interface{}{"boardId": rec.BoardID},
				Priority: PriorityNormal,
			})
		}
	}

	filtered := candidates[:0]
	for _, c := range candidates {
		if c.UserID != rec.UserID {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func cardRef(rec *activity.Record) map[string]interface{} {
	return map[string]interface{}{
		"boardId": rec.BoardID,
		"cardId":  rec.EntityID,
	}
}

// assignmentPriority bumps the priority when the assigned card is due within
// the next 24 hours.
func assignmentPriority(m activity.CardMeta) string {
	if m.DueDate == "" {
		return PriorityNormal
	}
	due, err := time.Parse(time.RFC3339, m.DueDate)
	if err != nil {
		return PriorityNormal
	}
	if until := time.Until(due); until > 0 && until < 24*time.Hour {
		return PriorityHigh
	}
	return PriorityNormal
}

// Engine turns activity records into notification rows: resolve recipients,
// gate on per-user preferences, suppress recent duplicates, persist. Each
// recipient is processed independently; one recipient's failure never touches
// another's outcome, and nothing here propagates back to the activity writer.
type Engine struct {
	repo        Repository
	logger      *zap.SugaredLogger
	dedupWindow time.Duration
}

func NewEngine(repo Repository, logger *zap.Logger, dedupWindow time.Duration) *Engine {
	return &Engine{
		repo:        repo,
		logger:      logger.Sugar(),
		dedupWindow: dedupWindow,
	}
}

// FanOut delivers one activity record to every resolved recipient. Delivery
// failures are logged per recipient and swallowed here, so this implementation
// always returns nil; the error in the activity.Notifier signature exists for
// other notifier implementations.
func (e *Engine) FanOut(ctx context.Context, rec *activity.Record) error {
	candidates := ResolveRecipients(rec)
	if len(candidates) == 0 {
		return nil
	}

	for _, c := range candidates {
		if err := e.deliver(ctx, rec, c); err != nil {
			e.logger.Warnw("Failed to deliver notification",
				"activity_id", rec.ID,
				"recipient_id", c.UserID,
				"type", c.Type,
				"error", err,
			)
		}
	}
	return nil
}

func (e *Engine) deliver(ctx context.Context, rec *activity.Record, c Candidate) error {
	prefs, err := getOrCreatePreferences(e.repo, c.UserID)
	if err != nil {
		return fmt.Errorf("failed to load preferences: %w", err)
	}

	// Non-instant digests suppress immediate delivery; batching is an
	// unimplemented path, not an error.
	if prefs.DigestFrequency != DigestInstant {
		e.logger.Debugw("Notification deferred to digest", "recipient_id", c.UserID, "digest", prefs.DigestFrequency)
		return nil
	}
	if !prefs.Allows(c.Type) {
		e.logger.Debugw("Notification suppressed by preference", "recipient_id", c.UserID, "type", c.Type)
		return nil
	}

	// Coarse dedup: keyed on (user, type) only, so two different cards firing
	// the same type inside the window collide. Accepted imprecision.
	since := time.Now().UTC().Add(-e.dedupWindow)
	exists, err := e.repo.ExistsRecent(c.UserID, c.Type, since)
	if err != nil {
		return fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if exists {
		e.logger.Debugw("Duplicate notification suppressed", "recipient_id", c.UserID, "type", c.Type)
		return nil
	}

	n := &Notification{
		UserID:     c.UserID,
		ActivityID: &rec.ID,
		Title:      c.Title,
		Message:    c.Message,
		Type:       c.Type,
		IsRead:     false,
		Priority:   c.Priority,
		CreatedAt:  time.Now().UTC(),
	}
	if len(c.Metadata) > 0 {
		if data, err := json.Marshal(c.Metadata); err == nil {
			meta := string(data)
			n.Metadata = &meta
		}
	}

	if err := e.repo.Create(n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func getOrCreatePreferences(repo Repository, userID uint64) (*Preferences, error) {
	prefs, err := repo.GetPreferences(userID)
	if err == nil {
		return prefs, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	prefs = DefaultPreferences(userID)
	if err := repo.CreatePreferences(prefs); err != nil {
		// Lost a race against a concurrent lazy create; re-read.
		if existing, readErr := repo.GetPreferences(userID); readErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return prefs, nil
}
