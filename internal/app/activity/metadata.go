package activity

import "encoding/json"

// Typed views over the free-form metadata blob. The formatter and the
// notification engine read metadata only through these; nothing else pokes at
// raw maps. A missing or malformed blob decodes to the zero view.

type CardMeta struct {
	Title          string `json:"title"`
	AssignedUserID uint64 `json:"assignedUserId"`
	FromList       string `json:"fromList"`
	ToList         string `json:"toList"`
	DueDate        string `json:"dueDate"`
	ActorName      string `json:"actorName"`
}

type ListMeta struct {
	Title     string `json:"title"`
	ActorName string `json:"actorName"`
}

type BoardMeta struct {
	Title        string `json:"title"`
	MemberUserID uint64 `json:"memberUserId"`
	ActorName    string `json:"actorName"`
}

type MemberMeta struct {
	MemberUserID uint64 `json:"memberUserId"`
	MemberName   string `json:"memberName"`
	BoardTitle   string `json:"boardTitle"`
	ActorName    string `json:"actorName"`
}

type CommentMeta struct {
	CardTitle      string `json:"cardTitle"`
	AssignedUserID uint64 `json:"assignedUserId"`
	Excerpt        string `json:"excerpt"`
	ActorName      string `json:"actorName"`
}

type LabelMeta struct {
	LabelName string `json:"labelName"`
	CardTitle string `json:"cardTitle"`
}

type AttachmentMeta struct {
	FileName  string `json:"fileName"`
	CardTitle string `json:"cardTitle"`
}

func (r *Record) CardMeta() CardMeta {
	var m CardMeta
	decodeMeta(r.Metadata, &m)
	return m
}

func (r *Record) ListMeta() ListMeta {
	var m ListMeta
	decodeMeta(r.Metadata, &m)
	return m
}

func (r *Record) BoardMeta() BoardMeta {
	var m BoardMeta
	decodeMeta(r.Metadata, &m)
	return m
}

func (r *Record) MemberMeta() MemberMeta {
	var m MemberMeta
	decodeMeta(r.Metadata, &m)
	return m
}

func (r *Record) CommentMeta() CommentMeta {
	var m CommentMeta
	decodeMeta(r.Metadata, &m)
	return m
}

func (r *Record) LabelMeta() LabelMeta {
	var m LabelMeta
	decodeMeta(r.Metadata, &m)
	return m
}

func (r *Record) AttachmentMeta() AttachmentMeta {
	var m AttachmentMeta
	decodeMeta(r.Metadata, &m)
	return m
}

func decodeMeta(raw string, out interface{}) {
	if raw == "" {
		return
	}
	_ = json.Unmarshal([]byte(raw), out)
}
