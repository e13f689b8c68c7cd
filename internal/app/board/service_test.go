package board

import (
	"context"
	"strings"
	"testing"

	"taskboard/internal/app/activity"
	"taskboard/internal/app/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeRepository struct {
	boards  map[uint64]*Board
	members map[uint64]map[uint64]*Member
	nextID  uint64
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		boards:  make(map[uint64]*Board),
		members: make(map[uint64]map[uint64]*Member),
	}
}

func (f *fakeRepository) CreateBoard(board *Board) error {
	f.nextID++
	board.ID = f.nextID
	stored := *board
	f.boards[board.ID] = &stored
	return nil
}

func (f *fakeRepository) GetBoardByID(id uint64) (*Board, error) {
	b, ok := f.boards[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeRepository) GetBoardsByUserID(userID uint64) ([]*Board, error) {
	var boards []*Board
	for _, b := range f.boards {
		if b.OwnerID == userID || f.members[b.ID][userID] != nil {
			copied := *b
			boards = append(boards, &copied)
		}
	}
	return boards, nil
}

func (f *fakeRepository) HasUserAccess(boardID, userID uint64) (bool, error) {
	b, ok := f.boards[boardID]
	if !ok {
		return false, nil
	}
	if b.OwnerID == userID {
		return true, nil
	}
	return f.members[boardID][userID] != nil, nil
}

func (f *fakeRepository) AddMember(member *Member) error {
	if f.members[member.BoardID] == nil {
		f.members[member.BoardID] = make(map[uint64]*Member)
	}
	f.nextID++
	member.ID = f.nextID
	stored := *member
	f.members[member.BoardID][member.UserID] = &stored
	return nil
}

func (f *fakeRepository) RemoveMember(boardID, userID uint64) error {
	delete(f.members[boardID], userID)
	return nil
}

func (f *fakeRepository) GetMember(boardID, userID uint64) (*Member, error) {
	m := f.members[boardID][userID]
	if m == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *m
	return &copied, nil
}

type stubUserService struct {
	users map[uint64]*user.User
}

func (s *stubUserService) GetUserByID(id uint64) (*user.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

type captureActivity struct {
	activity.Service
	entries []activity.Entry
}

func (c *captureActivity) LogActivity(ctx context.Context, entry activity.Entry) (*activity.Record, error) {
	c.entries = append(c.entries, entry)
	return &activity.Record{ID: uint64(len(c.entries))}, nil
}

func newTestService(repo Repository, log activity.Service) Service {
	users := &stubUserService{users: map[uint64]*user.User{
		3: {ID: 3, Name: "Ana", Email: "ana@example.com"},
		7: {ID: 7, Name: "Luis", Email: "luis@example.com"},
	}}
	return NewService(repo, users, log, zap.NewNop())
}

func TestCreateBoardValidatesTitle(t *testing.T) {
	svc := newTestService(newFakeRepository(), nil)

	_, err := svc.CreateBoard(context.Background(), 3, "", nil)
	assert.Error(t, err)

	_, err = svc.CreateBoard(context.Background(), 3, strings.Repeat("x", 100), nil)
	assert.Error(t, err)
}

func TestCreateBoardLogsActivity(t *testing.T) {
	repo := newFakeRepository()
	log := &captureActivity{}
	svc := newTestService(repo, log)

	created, err := svc.CreateBoard(context.Background(), 3, "Proyecto demo", nil)
	require.NoError(t, err)

	assert.Equal(t, uint64(3), created.OwnerID)
	require.Len(t, log.entries, 1)
	assert.Equal(t, activity.ActionBoardCreated, log.entries[0].Action)
	assert.Equal(t, created.ID, log.entries[0].BoardID)
}

func TestGetBoardByIDDeniedWithoutAccess(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, nil)

	created, err := svc.CreateBoard(context.Background(), 3, "Proyecto demo", nil)
	require.NoError(t, err)

	_, err = svc.GetBoardByID(context.Background(), created.ID, 9)
	assert.ErrorIs(t, err, ErrForbidden)

	board, err := svc.GetBoardByID(context.Background(), created.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, "Proyecto demo", board.Title)
}

func TestAddMemberOwnerOnly(t *testing.T) {
	repo := newFakeRepository()
	svc := newTestService(repo, nil)

	created, err := svc.CreateBoard(context.Background(), 3, "Proyecto demo", nil)
	require.NoError(t, err)

	_, err = svc.AddMember(context.Background(), 9, created.ID, 7, "")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAddMemberLogsMemberMetadata(t *testing.T) {
	repo := newFakeRepository()
	log := &captureActivity{}
	svc := newTestService(repo, log)

	created, err := svc.CreateBoard(context.Background(), 3, "Proyecto demo", nil)
	require.NoError(t, err)

	member, err := svc.AddMember(context.Background(), 3, created.ID, 7, "")
	require.NoError(t, err)
	assert.Equal(t, "member", member.Role)

	allowed, err := svc.HasUserAccess(created.ID, 7)
	require.NoError(t, err)
	assert.True(t, allowed)

	last := log.entries[len(log.entries)-1]
	assert.Equal(t, activity.ActionMemberAdded, last.Action)
	assert.Equal(t, uint64(7), last.Metadata["memberUserId"])
	assert.Equal(t, "Luis", last.Metadata["memberName"])
	assert.Equal(t, "Proyecto demo", last.Metadata["boardTitle"])
}

func TestRemoveMemberOwnerOnly(t *testing.T) {
	repo := newFakeRepository()
	log := &captureActivity{}
	svc := newTestService(repo, log)

	created, err := svc.CreateBoard(context.Background(), 3, "Proyecto demo", nil)
	require.NoError(t, err)
	_, err = svc.AddMember(context.Background(), 3, created.ID, 7, "")
	require.NoError(t, err)

	err = svc.RemoveMember(context.Background(), 7, created.ID, 7)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.RemoveMember(context.Background(), 3, created.ID, 7))

	allowed, err := svc.HasUserAccess(created.ID, 7)
	require.NoError(t, err)
	assert.False(t, allowed)

	last := log.entries[len(log.entries)-1]
	assert.Equal(t, activity.ActionMemberRemoved, last.Action)
}
