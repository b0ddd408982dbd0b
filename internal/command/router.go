// Package command parses slash directives and applies them to the channel
// directory, the grid mirror and the query log.
package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/javiermolinar/onduty/internal/db"
	"github.com/javiermolinar/onduty/internal/roster"
	"github.com/javiermolinar/onduty/internal/sheet"
)

// DefaultDelimiter separates directive arguments.
const DefaultDelimiter = "$$$"

// QueryLog records raised queries.
type QueryLog interface {
	RaiseQuery(ctx context.Context, chatID, userID, text string, now time.Time) (*db.Query, error)
}

// Options configures a Router. Zero values fall back to defaults.
type Options struct {
	Delimiter string
	Location  *time.Location
	Now       func() time.Time
	Log       *zap.Logger
	// Sync mirrors mutations into the grid; nil disables the mirror.
	Sync *sheet.Synchronizer
	// Queries backs /raiseQuery; nil disables it.
	Queries QueryLog
}

// Request is one directive to route.
type Request struct {
	ChatID string
	UserID string
	Text   string
}

// Router dispatches directives. It is not safe for concurrent use; callers
// serialize Route calls.
type Router struct {
	dir      *roster.Directory
	repo     roster.Repository
	sync     *sheet.Synchronizer
	queries  QueryLog
	delim    string
	loc      *time.Location
	now      func() time.Time
	log      *zap.Logger
	catalog  []*command // declaration order, for help
	commands []*command // longest name first, for matching
}

// NewRouter creates a router over dir, persisting mutations to repo.
func NewRouter(dir *roster.Directory, repo roster.Repository, opts Options) *Router {
	r := &Router{
		dir:     dir,
		repo:    repo,
		sync:    opts.Sync,
		queries: opts.Queries,
		delim:   opts.Delimiter,
		loc:     opts.Location,
		now:     opts.Now,
		log:     opts.Log,
	}
	if r.delim == "" {
		r.delim = DefaultDelimiter
	}
	if r.loc == nil {
		r.loc = time.UTC
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}

	r.catalog = commands
	r.commands = append([]*command(nil), commands...)
	sort.SliceStable(r.commands, func(i, j int) bool {
		return len(r.commands[i].name) > len(r.commands[j].name)
	})
	return r
}

// CommandInfo describes one directive for listings and completion.
type CommandInfo struct {
	Name      string
	Doc       string
	TakesArgs bool
}

// Commands lists the directives in declaration order.
func (r *Router) Commands() []CommandInfo {
	infos := make([]CommandInfo, 0, len(r.catalog))
	for _, cmd := range r.catalog {
		infos = append(infos, CommandInfo{Name: cmd.name, Doc: cmd.doc, TakesArgs: cmd.arity.max > 0})
	}
	return infos
}

// Delimiter returns the argument delimiter in use.
func (r *Router) Delimiter() string {
	return r.delim
}

// Directory returns the directory the router mutates.
func (r *Router) Directory() *roster.Directory {
	return r.dir
}

// Now returns the current time in the router's zone.
func (r *Router) Now() time.Time {
	return r.now().In(r.loc)
}

// IsDirective reports whether text starts with a known command.
func (r *Router) IsDirective(text string) bool {
	cmd, _ := r.match(strings.TrimSpace(text))
	return cmd != nil
}

// IsMutating reports whether text is a directive that changes the
// directory or the sheet.
func (r *Router) IsMutating(text string) bool {
	cmd, _ := r.match(strings.TrimSpace(text))
	return cmd != nil && cmd.mutates
}

// Route handles raw on behalf of chatID and returns the reply text.
func (r *Router) Route(ctx context.Context, raw, chatID string) string {
	return r.Handle(ctx, Request{ChatID: chatID, Text: raw})
}

// Handle routes req. It never panics and never returns an empty reply.
func (r *Router) Handle(ctx context.Context, req Request) (reply string) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("panic while routing directive",
				zap.Any("panic", p),
				zap.String("chat_id", req.ChatID),
			)
			reply = fmt.Sprintf("An unexpected error occurred: %v", p)
		}
	}()

	text := strings.TrimSpace(req.Text)
	cmd, rest := r.match(text)
	if cmd == nil {
		return msgUnknownCommand
	}

	c := &call{
		chatID: req.ChatID,
		userID: req.UserID,
		args:   r.splitArgs(cmd, text, rest),
	}
	r.log.Debug("routing directive",
		zap.String("command", cmd.name),
		zap.String("chat_id", req.ChatID),
		zap.Int("args", len(c.args)),
	)
	if !cmd.arity.accepts(len(c.args)) {
		return r.usage(cmd)
	}
	return cmd.run(ctx, r, c)
}

// match finds the longest command name prefixing text. The name must be
// followed by the end of text, whitespace, a bot mention or the delimiter.
func (r *Router) match(text string) (*command, string) {
	for _, cmd := range r.commands {
		if !strings.HasPrefix(text, cmd.name) {
			continue
		}
		rest := text[len(cmd.name):]
		if rest == "" || strings.HasPrefix(rest, "@") || strings.HasPrefix(rest, r.delim) {
			return cmd, rest
		}
		if first, _ := utf8.DecodeRuneInString(rest); unicode.IsSpace(first) {
			return cmd, rest
		}
	}
	return nil, ""
}

// splitArgs splits text on the delimiter, trims and drops empty segments,
// then drops a leading segment that starts with the command name. Commands
// taking a single free-text argument also accept it inline after the name.
func (r *Router) splitArgs(cmd *command, text, rest string) []string {
	var args []string
	for _, part := range strings.Split(text, r.delim) {
		if part = strings.TrimSpace(part); part != "" {
			args = append(args, part)
		}
	}
	if len(args) > 0 && strings.HasPrefix(args[0], cmd.name) {
		args = args[1:]
	}

	if cmd.inline && len(args) == 0 {
		if inline := inlineArg(rest, r.delim); inline != "" {
			args = []string{inline}
		}
	}
	return args
}

// inlineArg returns the text after the command name and an optional bot
// mention, up to the first delimiter.
func inlineArg(rest, delim string) string {
	if strings.HasPrefix(rest, "@") {
		end := strings.IndexFunc(rest, unicode.IsSpace)
		if end < 0 {
			return ""
		}
		rest = rest[end:]
	}
	if i := strings.Index(rest, delim); i >= 0 {
		rest = rest[:i]
	}
	return strings.TrimSpace(rest)
}

// usage renders a command's usage text with the configured delimiter.
func (r *Router) usage(cmd *command) string {
	return strings.ReplaceAll(cmd.usage, DefaultDelimiter, r.delim)
}

// commit runs mutate and persists the directory. When persisting fails the
// in-memory directory is restored so it keeps matching the store.
func (r *Router) commit(ctx context.Context, mutate func() error) error {
	snapshot := r.dir.Clone()
	if err := mutate(); err != nil {
		r.dir.Restore(snapshot)
		return err
	}
	if r.repo == nil {
		return nil
	}
	if err := r.repo.Save(ctx, r.dir); err != nil {
		r.dir.Restore(snapshot)
		r.log.Error("saving channel directory", zap.Error(err))
		return fmt.Errorf("%w: %v", errSave, err)
	}
	return nil
}

// render mirrors one channel into the grid and returns the text to append
// to a successful reply, if any.
func (r *Router) render(ctx context.Context, channelID string) string {
	if r.sync == nil {
		return ""
	}
	if err := r.sync.RenderChannel(ctx, r.dir, channelID, true); err != nil {
		r.log.Warn("sheet update failed", zap.String("channel", channelID), zap.Error(err))
		return "\n" + msgSheetFailed + err.Error()
	}
	return ""
}
