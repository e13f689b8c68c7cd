package activity

// ActionType is the closed set of <entity>.<verb> tags an activity record can
// carry. Data written by older or newer code may hold tags outside this set;
// ParseActionType maps those to ActionUnknown instead of failing, and every
// switch over ActionType carries an explicit fallback branch.
type ActionType string

const (
	ActionBoardCreated      ActionType = "board.created"
	ActionBoardUpdated      ActionType = "board.updated"
	ActionBoardDeleted      ActionType = "board.deleted"
	ActionListCreated       ActionType = "list.created"
	ActionListUpdated       ActionType = "list.updated"
	ActionListMoved         ActionType = "list.moved"
	ActionListDeleted       ActionType = "list.deleted"
	ActionCardCreated       ActionType = "card.created"
	ActionCardUpdated       ActionType = "card.updated"
	ActionCardMoved         ActionType = "card.moved"
	ActionCardAssigned      ActionType = "card.assigned"
	ActionCardDeleted       ActionType = "card.deleted"
	ActionCommentCreated    ActionType = "comment.created"
	ActionCommentDeleted    ActionType = "comment.deleted"
	ActionMemberAdded       ActionType = "member.added"
	ActionMemberRemoved     ActionType = "member.removed"
	ActionLabelAdded        ActionType = "label.added"
	ActionLabelRemoved      ActionType = "label.removed"
	ActionAttachmentAdded   ActionType = "attachment.added"
	ActionAttachmentRemoved ActionType = "attachment.removed"

	// ActionUnknown covers tags from data this code does not recognize.
	ActionUnknown ActionType = "unknown"
)

// AllActionTypes lists every known tag, in declaration order.
var AllActionTypes = []ActionType{
	ActionBoardCreated,
	ActionBoardUpdated,
	ActionBoardDeleted,
	ActionListCreated,
	ActionListUpdated,
	ActionListMoved,
	ActionListDeleted,
	ActionCardCreated,
	ActionCardUpdated,
	ActionCardMoved,
	ActionCardAssigned,
	ActionCardDeleted,
	ActionCommentCreated,
	ActionCommentDeleted,
	ActionMemberAdded,
	ActionMemberRemoved,
	ActionLabelAdded,
	ActionLabelRemoved,
	ActionAttachmentAdded,
	ActionAttachmentRemoved,
}

var knownActions = func() map[ActionType]bool {
	m := make(map[ActionType]bool, len(AllActionTypes))
	for _, a := range AllActionTypes {
		m[a] = true
	}
	return m
}()

func ParseActionType(s string) ActionType {
	if knownActions[ActionType(s)] {
		return ActionType(s)
	}
	return ActionUnknown
}

func (a ActionType) Known() bool {
	return knownActions[a]
}

func (a ActionType) String() string {
	return string(a)
}
