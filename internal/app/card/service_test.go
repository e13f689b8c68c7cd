package card

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"taskboard/internal/app/activity"
	"taskboard/internal/app/board"
	"taskboard/internal/app/list"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepository struct {
	cards      map[uint64]*Card
	nextID     uint64
	createErr  error
	updateErrs map[uint64]error
	updated    map[uint64]map[string]interface{}
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		cards:   make(map[uint64]*Card),
		updated: make(map[uint64]map[string]interface{}),
	}
}

func (f *fakeRepository) CreateCard(ctx context.Context, card *Card) error {
	if f.createErr != nil {
		return f.createErr
	}
	position := 0
	for _, c := range f.cards {
		if c.ListID == card.ListID && c.Position >= position {
			position = c.Position + 1
		}
	}
	f.nextID++
	card.ID = f.nextID
	card.Position = position
	stored := *card
	f.cards[card.ID] = &stored
	return nil
}

func (f *fakeRepository) GetCardByID(id uint64) (*Card, error) {
	c, ok := f.cards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeRepository) GetCardsByListID(listID uint64) ([]*Card, error) {
	var cards []*Card
	for _, c := range f.cards {
		if c.ListID == listID {
			copied := *c
			cards = append(cards, &copied)
		}
	}
	return cards, nil
}

func (f *fakeRepository) UpdateCard(id uint64, updates map[string]interface{}) error {
	if err := f.updateErrs[id]; err != nil {
		return err
	}
	f.updated[id] = updates
	return nil
}

func (f *fakeRepository) MoveCard(id, listID uint64, position int) error {
	c, ok := f.cards[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	c.ListID = listID
	c.Position = position
	return nil
}

func (f *fakeRepository) DeleteCard(id uint64) error {
	delete(f.cards, id)
	return nil
}

type stubListService struct {
	list.Service
	lists map[uint64]*list.List
}

func (s *stubListService) GetListByID(ctx context.Context, listID uint64) (*list.List, error) {
	l, ok := s.lists[listID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

type stubBoardService struct {
	board.Service
	members map[uint64]bool
}

func (s *stubBoardService) HasUserAccess(boardID, userID uint64) (bool, error) {
	return s.members[userID], nil
}

type captureActivity struct {
	activity.Service
	entries []activity.Entry
}

func (c *captureActivity) LogActivity(ctx context.Context, entry activity.Entry) (*activity.Record, error) {
	c.entries = append(c.entries, entry)
	return &activity.Record{ID: uint64(len(c.entries))}, nil
}

type fixture struct {
	repo  *fakeRepository
	lists *stubListService
	log   *captureActivity
	svc   Service
}

// newFixture wires a board 7 owned by user 3 with the two lists used across
// these tests: 10 "To Do" and 11 "Done" on board 7, plus 20 on board 8.
func newFixture() *fixture {
	repo := newFakeRepository()
	lists := &stubListService{lists: map[uint64]*list.List{
		10: {ID: 10, BoardID: 7, Title: "To Do", Position: 0},
		11: {ID: 11, BoardID: 7, Title: "Done", Position: 1},
		20: {ID: 20, BoardID: 8, Title: "Ajeno", Position: 0},
	}}
	boards := &stubBoardService{members: map[uint64]bool{3: true}}
	log := &captureActivity{}
	return &fixture{
		repo:  repo,
		lists: lists,
		log:   log,
		svc:   NewService(repo, lists, boards, log, nil, zap.NewNop()),
	}
}

func TestCreateCardDeniedForNonMember(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateCard(context.Background(), 9, 10, "Informe", "")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, f.repo.cards)
}

func TestCreateCardTitleValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateCard(context.Background(), 3, 10, "", "")
	assert.Error(t, err)

	_, err = f.svc.CreateCard(context.Background(), 3, 10, strings.Repeat("x", 200), "")
	assert.Error(t, err)
}

func TestCreateCardAppendsAtEndOfList(t *testing.T) {
	f := newFixture()

	first, err := f.svc.CreateCard(context.Background(), 3, 10, "Primera", "")
	require.NoError(t, err)
	second, err := f.svc.CreateCard(context.Background(), 3, 10, "Segunda", "")
	require.NoError(t, err)
	other, err := f.svc.CreateCard(context.Background(), 3, 11, "Otra lista", "")
	require.NoError(t, err)

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, 0, other.Position)
	assert.Equal(t, uint64(7), first.BoardID)

	require.Len(t, f.log.entries, 3)
	assert.Equal(t, activity.ActionCardCreated, f.log.entries[0].Action)
}

func TestCreateCardRepoFailureReturnsGenericError(t *testing.T) {
	f := newFixture()
	f.repo.createErr = errors.New("could not serialize access due to concurrent update")

	_, err := f.svc.CreateCard(context.Background(), 3, 10, "Informe", "")
	assert.ErrorIs(t, err, ErrCreateFailed)
}

func TestMoveCardRejectsCrossBoardTarget(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateCard(context.Background(), 3, 10, "Informe", "")
	require.NoError(t, err)

	err = f.svc.MoveCard(context.Background(), 3, created.ID, 20, 0)
	assert.ErrorIs(t, err, ErrCrossBoard)

	unchanged, err := f.repo.GetCardByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), unchanged.ListID)
}

func TestMoveCardStoresTargetVerbatim(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateCard(context.Background(), 3, 10, "Informe", "")
	require.NoError(t, err)

	require.NoError(t, f.svc.MoveCard(context.Background(), 3, created.ID, 11, 5))

	moved, err := f.repo.GetCardByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(11), moved.ListID)
	assert.Equal(t, 5, moved.Position)

	last := f.log.entries[len(f.log.entries)-1]
	assert.Equal(t, activity.ActionCardMoved, last.Action)
	assert.Equal(t, "To Do", last.Metadata["fromList"])
	assert.Equal(t, "Done", last.Metadata["toList"])
	assert.Equal(t, 5, last.NewValues["position"])
}

func TestMoveCardRejectsNegativePosition(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateCard(context.Background(), 3, 10, "Informe", "")
	require.NoError(t, err)

	err = f.svc.MoveCard(context.Background(), 3, created.ID, 11, -1)
	assert.Error(t, err)
}

func TestUpdateCardWithoutFieldsIsNoOp(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateCard(context.Background(), 3, 10, "Informe", "")
	require.NoError(t, err)
	logged := len(f.log.entries)

	card, err := f.svc.UpdateCard(context.Background(), 3, created.ID, UpdateCardRequest{})
	require.NoError(t, err)

	assert.Equal(t, "Informe", card.Title)
	assert.Empty(t, f.repo.updated)
	assert.Len(t, f.log.entries, logged)
}

func TestUpdateCardAssignmentLogsMetadata(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateCard(context.Background(), 3, 10, "Informe", "")
	require.NoError(t, err)

	assignee := uint64(7)
	due := time.Now().UTC().Add(3 * time.Hour)
	updated, err := f.svc.UpdateCard(context.Background(), 3, created.ID, UpdateCardRequest{
		AssignedTo: &assignee,
		DueDate:    &due,
	})
	require.NoError(t, err)

	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, assignee, *updated.AssignedTo)

	last := f.log.entries[len(f.log.entries)-1]
	assert.Equal(t, activity.ActionCardUpdated, last.Action)
	assert.Equal(t, assignee, last.Metadata["assignedUserId"])
	assert.Equal(t, due.Format(time.RFC3339), last.Metadata["dueDate"])
	assert.Equal(t, "Informe", last.Metadata["title"])
}

func TestDeleteCardDeniedForNonMember(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateCard(context.Background(), 3, 10, "Informe", "")
	require.NoError(t, err)

	err = f.svc.DeleteCard(context.Background(), 9, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Len(t, f.repo.cards, 1)
}
