// Package bot turns inbound chat events into replies: directives go to the
// command router, links from members are checked against the allow-list.
package bot

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/javiermolinar/onduty/internal/command"
	"github.com/javiermolinar/onduty/internal/urlfilter"
)

// MemberStatus is the chat role of a plain participant.
const MemberStatus = "member"

const msgNotAllowed = "Only chat admins can change the roster."

// Event is one inbound chat message.
type Event struct {
	ChatID       string `json:"chat_id"`
	MessageID    string `json:"message_id"`
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	MemberStatus string `json:"member_status"`
	Text         string `json:"text"`
}

// Response tells the transport what to do with the event.
type Response struct {
	Reply  string `json:"reply,omitempty"`
	Delete bool   `json:"delete"`
}

// Handler processes events one at a time.
type Handler struct {
	mu         sync.Mutex
	router     *command.Router
	filter     *urlfilter.Filter
	memberOnly bool
	log        *zap.Logger
}

// NewHandler creates a handler. With memberOnly set, only messages from
// plain members are link-checked, admins and owners post freely, and plain
// members cannot run directives that change the roster or the sheet.
func NewHandler(router *command.Router, filter *urlfilter.Filter, memberOnly bool, log *zap.Logger) *Handler {
	if filter == nil {
		filter = urlfilter.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{router: router, filter: filter, memberOnly: memberOnly, log: log}
}

// Handle processes ev. Read-only directives are routed for every role;
// other text is link-checked.
func (h *Handler) Handle(ctx context.Context, ev Event) Response {
	h.mu.Lock()
	defer h.mu.Unlock()

	log := h.log.With(
		zap.String("chat_id", ev.ChatID),
		zap.String("user_id", ev.UserID),
		zap.String("username", ev.Username),
		zap.String("status", ev.MemberStatus),
	)
	log.Info("message received", zap.String("text", oneLine(ev.Text)))

	if h.router.IsDirective(ev.Text) {
		if h.memberOnly && ev.MemberStatus == MemberStatus && h.router.IsMutating(ev.Text) {
			log.Info("refusing roster change from member")
			return Response{Reply: msgNotAllowed}
		}
		reply := h.router.Handle(ctx, command.Request{
			ChatID: ev.ChatID,
			UserID: sender(ev),
			Text:   ev.Text,
		})
		return Response{Reply: reply}
	}

	if h.memberOnly && ev.MemberStatus != MemberStatus {
		return Response{}
	}

	if link, bad := h.filter.Prohibited(ev.Text); bad {
		log.Info("deleting message with prohibited link",
			zap.String("message_id", ev.MessageID),
			zap.String("link", link),
		)
		return Response{Delete: true}
	}
	return Response{}
}

// sender prefers the @username handle used in rosters.
func sender(ev Event) string {
	if ev.Username != "" {
		return "@" + strings.TrimPrefix(ev.Username, "@")
	}
	return ev.UserID
}

func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}
