package messaging

import "github.com/turndownhq/turndown/internal/domain"

const (
	AuditQueue      = "board_audit"
	DeadLetterQueue = "dead_letter_queue"
)

type BoardEventData struct {
	Event domain.BoardAuditLog `json:"event"`
}
