package activity

import (
	"fmt"
	"time"
)

// FormatMessage renders one activity record as a Spanish sentence fragment.
// Total over every ActionType; tags outside the known set fall back to a
// generic sentence instead of failing.
func FormatMessage(rec *Record) string {
	switch ParseActionType(rec.ActionType) {
	case ActionBoardCreated:
		return fmt.Sprintf("creó el tablero «%s»", rec.BoardMeta().Title)
	case ActionBoardUpdated:
		return fmt.Sprintf("actualizó el tablero «%s»", rec.BoardMeta().Title)
	case ActionBoardDeleted:
		return fmt.Sprintf("eliminó el tablero «%s»", rec.BoardMeta().Title)
	case ActionListCreated:
		return fmt.Sprintf("creó la lista «%s»", rec.ListMeta().Title)
	case ActionListUpdated:
		return fmt.Sprintf("actualizó la lista «%s»", rec.ListMeta().Title)
	case ActionListMoved:
		return fmt.Sprintf("movió la lista «%s»", rec.ListMeta().Title)
	case ActionListDeleted:
		return fmt.Sprintf("eliminó la lista «%s»", rec.ListMeta().Title)
	case ActionCardCreated:
		return fmt.Sprintf("creó la tarjeta «%s»", rec.CardMeta().Title)
	case ActionCardUpdated:
		return fmt.Sprintf("actualizó la tarjeta «%s»", rec.CardMeta().Title)
	case ActionCardMoved:
		m := rec.CardMeta()
		if m.FromList != "" || m.ToList != "" {
			return fmt.Sprintf("movió la tarjeta de «%s» a «%s»", m.FromList, m.ToList)
		}
		return fmt.Sprintf("movió la tarjeta «%s»", m.Title)
	case ActionCardAssigned:
		return fmt.Sprintf("asignó la tarjeta «%s»", rec.CardMeta().Title)
	case ActionCardDeleted:
		return fmt.Sprintf("eliminó la tarjeta «%s»", rec.CardMeta().Title)
	case ActionCommentCreated:
		return fmt.Sprintf("comentó en la tarjeta «%s»", rec.CommentMeta().CardTitle)
	case ActionCommentDeleted:
		return fmt.Sprintf("eliminó un comentario en la tarjeta «%s»", rec.CommentMeta().CardTitle)
	case ActionMemberAdded:
		return fmt.Sprintf("añadió a %s al tablero", rec.MemberMeta().MemberName)
	case ActionMemberRemoved:
		return fmt.Sprintf("quitó a %s del tablero", rec.MemberMeta().MemberName)
	case ActionLabelAdded:
		m := rec.LabelMeta()
		return fmt.Sprintf("añadió la etiqueta «%s» a la tarjeta «%s»", m.LabelName, m.CardTitle)
	case ActionLabelRemoved:
		m := rec.LabelMeta()
		return fmt.Sprintf("quitó la etiqueta «%s» de la tarjeta «%s»", m.LabelName, m.CardTitle)
	case ActionAttachmentAdded:
		return fmt.Sprintf("adjuntó «%s»", rec.AttachmentMeta().FileName)
	case ActionAttachmentRemoved:
		return fmt.Sprintf("eliminó el adjunto «%s»", rec.AttachmentMeta().FileName)
	default:
		return fmt.Sprintf("realizó una acción en %s", rec.EntityType)
	}
}

// FormatRelativeTime maps a timestamp to a coarse "hace ..." phrase relative
// to now. Deterministic given both arguments.
func FormatRelativeTime(t, now time.Time) string {
	elapsed := now.Sub(t)
	if elapsed < 0 {
		elapsed = 0
	}

	switch {
	case elapsed < time.Minute:
		return "hace un momento"
	case elapsed < time.Hour:
		return plural(int(elapsed.Minutes()), "minuto", "minutos")
	case elapsed < 24*time.Hour:
		return plural(int(elapsed.Hours()), "hora", "horas")
	case elapsed < 7*24*time.Hour:
		return plural(int(elapsed.Hours()/24), "día", "días")
	case elapsed < 30*24*time.Hour:
		return plural(int(elapsed.Hours()/(24*7)), "semana", "semanas")
	case elapsed < 365*24*time.Hour:
		return plural(int(elapsed.Hours()/(24*30)), "mes", "meses")
	default:
		return plural(int(elapsed.Hours()/(24*365)), "año", "años")
	}
}

func plural(n int, singular, pluralForm string) string {
	if n <= 1 {
		return fmt.Sprintf("hace 1 %s", singular)
	}
	return fmt.Sprintf("hace %d %s", n, pluralForm)
}
