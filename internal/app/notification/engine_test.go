package notification

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"taskboard/internal/app/activity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepository struct {
	mu            sync.Mutex
	notifications []*Notification
	preferences   map[uint64]*Preferences
	nextID        uint64

	createErr      error
	prefsReadErr   error
	prefsCreateErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{preferences: make(map[uint64]*Preferences)}
}

func (f *fakeRepository) Create(n *Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	n.ID = f.nextID
	stored := *n
	f.notifications = append(f.notifications, &stored)
	return nil
}

func (f *fakeRepository) GetByUserID(userID uint64, limit, offset int) ([]*Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []*Notification
	for _, n := range f.notifications {
		if n.UserID == userID {
			matched = append(matched, n)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (f *fakeRepository) CountUnread(userID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) MarkRead(userID, notificationID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.ID == notificationID && n.UserID == userID {
			now := time.Now().UTC()
			n.IsRead = true
			n.ReadAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeRepository) MarkAllRead(userID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	var updated int64
	for _, n := range f.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = &now
			updated++
		}
	}
	return updated, nil
}

func (f *fakeRepository) ExistsRecent(userID uint64, notifType string, since time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.notifications {
		if n.UserID == userID && n.Type == notifType && n.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepository) GetPreferences(userID uint64) (*Preferences, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.prefsReadErr != nil {
		return nil, f.prefsReadErr
	}
	prefs, ok := f.preferences[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *prefs
	return &copied, nil
}

func (f *fakeRepository) CreatePreferences(p *Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.prefsCreateErr != nil {
		return f.prefsCreateErr
	}
	stored := *p
	f.preferences[p.UserID] = &stored
	return nil
}

func (f *fakeRepository) SavePreferences(p *Preferences) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *p
	f.preferences[p.UserID] = &stored
	return nil
}

func (f *fakeRepository) stored() []*Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*Notification(nil), f.notifications...)
}

func assignedCardRecord(actorID, assignedTo uint64) *activity.Record {
	return &activity.Record{
		ID:         41,
		UserID:     actorID,
		ActionType: activity.ActionCardAssigned.String(),
		EntityType: "card",
		EntityID:   11,
		BoardID:    7,
		Metadata:   `{"title":"Informe","assignedUserId":` + strconv.FormatUint(assignedTo, 10) + `}`,
	}
}

func TestResolveRecipientsCardAssigned(t *testing.T) {
	candidates := ResolveRecipients(assignedCardRecord(3, 7))

	require.Len(t, candidates, 1)
	assert.Equal(t, uint64(7), candidates[0].UserID)
	assert.Equal(t, TypeCardAssigned, candidates[0].Type)
	assert.Contains(t, candidates[0].Message, "Informe")
	assert.Equal(t, PriorityNormal, candidates[0].Priority)
}

func TestResolveRecipientsSkipsActor(t *testing.T) {
	assert.Empty(t, ResolveRecipients(assignedCardRecord(7, 7)))
}

func TestResolveRecipientsUnassignedCardYieldsNothing(t *testing.T) {
	rec := &activity.Record{
		UserID:     3,
		ActionType: activity.ActionCardUpdated.String(),
		EntityType: "card",
		Metadata:   `{"title":"Informe"}`,
	}
	assert.Empty(t, ResolveRecipients(rec))
}

func TestResolveRecipientsUnmappedActions(t *testing.T) {
	for _, action := range []activity.ActionType{
		activity.ActionBoardCreated,
		activity.ActionListCreated,
		activity.ActionListMoved,
		activity.ActionCardCreated,
		activity.ActionCardDeleted,
		activity.ActionMemberRemoved,
		activity.ActionUnknown,
	} {
		rec := &activity.Record{
			UserID:     3,
			ActionType: action.String(),
			EntityType: "card",
			Metadata:   `{"title":"Informe","assignedUserId":7,"memberUserId":7}`,
		}
		assert.Empty(t, ResolveRecipients(rec), "action %s should not notify", action)
	}
}

func TestResolveRecipientsDueSoonRaisesPriority(t *testing.T) {
	soon := time.Now().UTC().Add(2 * time.Hour).Format(time.RFC3339)
	rec := &activity.Record{
		UserID:     3,
		ActionType: activity.ActionCardAssigned.String(),
		EntityType: "card",
		EntityID:   11,
		BoardID:    7,
		Metadata:   `{"title":"Informe","assignedUserId":7,"dueDate":"` + soon + `"}`,
	}
	candidates := ResolveRecipients(rec)
	require.Len(t, candidates, 1)
	assert.Equal(t, PriorityHigh, candidates[0].Priority)
}

func TestResolveRecipientsDistantDueDateStaysNormal(t *testing.T) {
	later := time.Now().UTC().Add(72 * time.Hour).Format(time.RFC3339)
	rec := &activity.Record{
		UserID:     3,
		ActionType: activity.ActionCardAssigned.String(),
		EntityType: "card",
		Metadata:   `{"title":"Informe","assignedUserId":7,"dueDate":"` + later + `"}`,
	}
	candidates := ResolveRecipients(rec)
	require.Len(t, candidates, 1)
	assert.Equal(t, PriorityNormal, candidates[0].Priority)
}

func TestResolveRecipientsCardMoved(t *testing.T) {
	rec := &activity.Record{
		UserID:     3,
		ActionType: activity.ActionCardMoved.String(),
		EntityType: "card",
		EntityID:   11,
		BoardID:    7,
		Metadata:   `{"title":"Informe","assignedUserId":7,"fromList":"To Do","toList":"Done"}`,
	}
	candidates := ResolveRecipients(rec)
	require.Len(t, candidates, 1)
	assert.Equal(t, TypeCardMoved, candidates[0].Type)
	assert.Equal(t, PriorityLow, candidates[0].Priority)
	assert.Contains(t, candidates[0].Message, "To Do")
	assert.Contains(t, candidates[0].Message, "Done")
}

func TestResolveRecipientsMemberAdded(t *testing.T) {
	rec := &activity.Record{
		UserID:     3,
		ActionType: activity.ActionMemberAdded.String(),
		EntityType: "member",
		BoardID:    7,
		Metadata:   `{"memberUserId":7,"memberName":"Luis","boardTitle":"Proyecto demo"}`,
	}
	candidates := ResolveRecipients(rec)
	require.Len(t, candidates, 1)
	assert.Equal(t, TypeMemberAdded, candidates[0].Type)
	assert.Contains(t, candidates[0].Message, "Proyecto demo")
}

func TestResolveRecipientsBoardShared(t *testing.T) {
	rec := &activity.Record{
		UserID:     3,
		ActionType: activity.ActionBoardUpdated.String(),
		EntityType: "board",
		BoardID:    7,
		Metadata:   `{"title":"Proyecto demo","memberUserId":7}`,
	}
	candidates := ResolveRecipients(rec)
	require.Len(t, candidates, 1)
	assert.Equal(t, TypeBoardShared, candidates[0].Type)
}

func TestFanOutCreatesNotificationWithLazyPreferences(t *testing.T) {
	repo := newFakeRepository()
	engine := NewEngine(repo, zap.NewNop(), 5*time.Minute)

	err := engine.FanOut(context.Background(), assignedCardRecord(3, 7))
	require.NoError(t, err)

	stored := repo.stored()
	require.Len(t, stored, 1)
	assert.Equal(t, uint64(7), stored[0].UserID)
	assert.Equal(t, TypeCardAssigned, stored[0].Type)
	require.NotNil(t, stored[0].ActivityID)
	assert.Equal(t, uint64(41), *stored[0].ActivityID)
	require.NotNil(t, stored[0].Metadata)
	assert.Contains(t, *stored[0].Metadata, `"cardId":11`)

	// First delivery created the default preference row.
	prefs, err := repo.GetPreferences(7)
	require.NoError(t, err)
	assert.Equal(t, DigestInstant, prefs.DigestFrequency)
}

func TestFanOutRespectsPreferenceFlag(t *testing.T) {
	repo := newFakeRepository()
	prefs := DefaultPreferences(7)
	prefs.CardAssigned = false
	require.NoError(t, repo.CreatePreferences(prefs))

	engine := NewEngine(repo, zap.NewNop(), 5*time.Minute)
	require.NoError(t, engine.FanOut(context.Background(), assignedCardRecord(3, 7)))

	assert.Empty(t, repo.stored())
}

func TestFanOutDigestSuppressesImmediateDelivery(t *testing.T) {
	repo := newFakeRepository()
	prefs := DefaultPreferences(7)
	prefs.DigestFrequency = DigestDaily
	require.NoError(t, repo.CreatePreferences(prefs))

	engine := NewEngine(repo, zap.NewNop(), 5*time.Minute)
	require.NoError(t, engine.FanOut(context.Background(), assignedCardRecord(3, 7)))

	assert.Empty(t, repo.stored())
}

func TestFanOutSuppressesDuplicatesInsideWindow(t *testing.T) {
	repo := newFakeRepository()
	require.NoError(t, repo.Create(&Notification{
		UserID:    7,
		Type:      TypeCardAssigned,
		Title:     "Tarjeta asignada",
		Message:   "previa",
		CreatedAt: time.Now().UTC().Add(-time.Minute),
	}))

	engine := NewEngine(repo, zap.NewNop(), 5*time.Minute)
	require.NoError(t, engine.FanOut(context.Background(), assignedCardRecord(3, 7)))

	assert.Len(t, repo.stored(), 1)
}

func TestFanOutDeliversWhenDuplicateIsOutsideWindow(t *testing.T) {
	repo := newFakeRepository()
	require.NoError(t, repo.Create(&Notification{
		UserID:    7,
		Type:      TypeCardAssigned,
		Title:     "Tarjeta asignada",
		Message:   "previa",
		CreatedAt: time.Now().UTC().Add(-10 * time.Minute),
	}))

	engine := NewEngine(repo, zap.NewNop(), 5*time.Minute)
	require.NoError(t, engine.FanOut(context.Background(), assignedCardRecord(3, 7)))

	assert.Len(t, repo.stored(), 2)
}

func TestFanOutSwallowsDeliveryErrors(t *testing.T) {
	repo := newFakeRepository()
	repo.createErr = errors.New("insert failed")

	engine := NewEngine(repo, zap.NewNop(), 5*time.Minute)
	assert.NoError(t, engine.FanOut(context.Background(), assignedCardRecord(3, 7)))
}

func TestFanOutSwallowsPreferenceReadErrors(t *testing.T) {
	repo := newFakeRepository()
	repo.prefsReadErr = errors.New("connection reset")

	engine := NewEngine(repo, zap.NewNop(), 5*time.Minute)
	assert.NoError(t, engine.FanOut(context.Background(), assignedCardRecord(3, 7)))
	assert.Empty(t, repo.stored())
}

// Losing the lazy-create race: the first read misses, the insert hits the
// unique constraint, the re-read returns the winner's row.
func TestGetOrCreatePreferencesSurvivesCreateRace(t *testing.T) {
	repo := newFakeRepository()
	winner := DefaultPreferences(7)
	winner.CardMoved = false
	require.NoError(t, repo.SavePreferences(winner))
	repo.prefsCreateErr = errors.New("duplicate key value violates unique constraint")

	prefs, err := getOrCreatePreferences(&racingRepository{fakeRepository: repo}, 7)
	require.NoError(t, err)
	assert.False(t, prefs.CardMoved)
}

// racingRepository fails the first preference read, then delegates.
type racingRepository struct {
	*fakeRepository
	reads int
}

func (r *racingRepository) GetPreferences(userID uint64) (*Preferences, error) {
	r.reads++
	if r.reads == 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.fakeRepository.GetPreferences(userID)
}
