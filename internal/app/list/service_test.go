package list

import (
	"context"
	"errors"
	"strings"
	"testing"

	"taskboard/internal/app/activity"
	"taskboard/internal/app/board"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepository struct {
	lists     map[uint64]*List
	nextID    uint64
	createErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{lists: make(map[uint64]*List)}
}

func (f *fakeRepository) CreateList(ctx context.Context, list *List) error {
	if f.createErr != nil {
		return f.createErr
	}
	position := 0
	for _, l := range f.lists {
		if l.BoardID == list.BoardID && l.Position >= position {
			position = l.Position + 1
		}
	}
	f.nextID++
	list.ID = f.nextID
	list.Position = position
	stored := *list
	f.lists[list.ID] = &stored
	return nil
}

func (f *fakeRepository) GetListByID(id uint64) (*List, error) {
	l, ok := f.lists[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *l
	return &copied, nil
}

func (f *fakeRepository) GetListsByBoardID(boardID uint64) ([]*List, error) {
	var lists []*List
	for _, l := range f.lists {
		if l.BoardID == boardID {
			copied := *l
			lists = append(lists, &copied)
		}
	}
	return lists, nil
}

func (f *fakeRepository) RenameList(id uint64, title string) error {
	l, ok := f.lists[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.Title = title
	return nil
}

func (f *fakeRepository) MoveList(id uint64, position int) error {
	l, ok := f.lists[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	l.Position = position
	return nil
}

func (f *fakeRepository) DeleteList(ctx context.Context, id uint64) error {
	delete(f.lists, id)
	return nil
}

// stubBoardService grants access from a fixed membership table; everything
// else is unused by the list service.
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

func newTestService(repo Repository, boardSvc board.Service, activitySvc activity.Service) Service {
	return NewService(repo, boardSvc, activitySvc, nil, zap.NewNop())
}

func TestCreateListDeniedForNonMember(t *testing.T) {
	repo := newFakeRepository()
	boards := &stubBoardService{members: map[uint64]bool{3: true}}
	svc := newTestService(repo, boards, nil)

	_, err := svc.CreateList(context.Background(), 9, 7, "To Do")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, repo.lists)
}

func TestCreateListTitleValidation(t *testing.T) {
	repo := newFakeRepository()
	boards := &stubBoardService{members: map[uint64]bool{3: true}}
	svc := newTestService(repo, boards, nil)

	_, err := svc.CreateList(context.Background(), 3, 7, "")
	assert.Error(t, err)

	_, err = svc.CreateList(context.Background(), 3, 7, strings.Repeat("x", 100))
	assert.Error(t, err)
}

func TestCreateListAppendsAtEnd(t *testing.T) {
	repo := newFakeRepository()
	boards := &stubBoardService{members: map[uint64]bool{3: true}}
	log := &captureActivity{}
	svc := newTestService(repo, boards, log)

	first, err := svc.CreateList(context.Background(), 3, 7, "To Do")
	require.NoError(t, err)
	second, err := svc.CreateList(context.Background(), 3, 7, "Done")
	require.NoError(t, err)

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)

	require.Len(t, log.entries, 2)
	assert.Equal(t, activity.ActionListCreated, log.entries[0].Action)
	assert.Equal(t, uint64(7), log.entries[0].BoardID)
}

func TestCreateListRepoFailureReturnsGenericError(t *testing.T) {
	repo := newFakeRepository()
	repo.createErr = errors.New("could not serialize access due to concurrent update")
	boards := &stubBoardService{members: map[uint64]bool{3: true}}
	svc := newTestService(repo, boards, nil)

	_, err := svc.CreateList(context.Background(), 3, 7, "To Do")
	assert.ErrorIs(t, err, ErrCreateFailed)
}

func TestRenameListLogsPreviousTitle(t *testing.T) {
	repo := newFakeRepository()
	boards := &stubBoardService{members: map[uint64]bool{3: true}}
	log := &captureActivity{}
	svc := newTestService(repo, boards, log)

	created, err := svc.CreateList(context.Background(), 3, 7, "To Do")
	require.NoError(t, err)

	renamed, err := svc.RenameList(context.Background(), 3, created.ID, "Backlog")
	require.NoError(t, err)
	assert.Equal(t, "Backlog", renamed.Title)

	last := log.entries[len(log.entries)-1]
	assert.Equal(t, activity.ActionListUpdated, last.Action)
	assert.Equal(t, "To Do", last.PreviousValues["title"])
	assert.Equal(t, "Backlog", last.NewValues["title"])
}

func TestMoveListRejectsNegativePosition(t *testing.T) {
	repo := newFakeRepository()
	boards := &stubBoardService{members: map[uint64]bool{3: true}}
	svc := newTestService(repo, boards, nil)

	err := svc.MoveList(context.Background(), 3, 1, -1)
	assert.Error(t, err)
}

func TestMoveListStoresPositionVerbatim(t *testing.T) {
	repo := newFakeRepository()
	boards := &stubBoardService{members: map[uint64]bool{3: true}}
	svc := newTestService(repo, boards, nil)

	first, err := svc.CreateList(context.Background(), 3, 7, "To Do")
	require.NoError(t, err)
	second, err := svc.CreateList(context.Background(), 3, 7, "Done")
	require.NoError(t, err)

	// Colliding with the sibling's position is accepted; nothing is renumbered.
	require.NoError(t, svc.MoveList(context.Background(), 3, second.ID, first.Position))

	moved, err := repo.GetListByID(second.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Position, moved.Position)

	untouched, err := repo.GetListByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Position, untouched.Position)
}

func TestDeleteListDeniedForNonMember(t *testing.T) {
	repo := newFakeRepository()
	boards := &stubBoardService{members: map[uint64]bool{3: true}}
	svc := newTestService(repo, boards, nil)

	created, err := svc.CreateList(context.Background(), 3, 7, "To Do")
	require.NoError(t, err)

	err = svc.DeleteList(context.Background(), 9, created.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Len(t, repo.lists, 1)
}
