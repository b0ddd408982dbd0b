package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/javiermolinar/onduty/internal/roster"
	"github.com/javiermolinar/onduty/internal/sheet"
)

// Reply texts shared across commands.
const (
	msgUnknownCommand  = "Unknown command. Please check your input and try again."
	msgNotList         = "Error: Timings must be provided as a JSON array."
	msgMissingKey      = "Error: Each timing must contain 'time', 'name', and 'user_id' keys."
	msgParsePrefix     = "Error parsing timings JSON: "
	msgNoChannels      = "No channels found."
	msgSheetFailed     = "Sheet update failed: "
	msgNoSheet         = "The sheet mirror is not configured."
	msgNoQueryLog      = "The query log is not configured."
	msgNoRoster        = "No duty roster is set up for this channel."
	msgNoTimings       = "No timings are configured for this channel."
	msgUpdateFailedFmt = "Failed to update channels: %v"
)

var errSave = errors.New("saving channels")

type arity struct {
	min, max int
}

func exactly(n int) arity { return arity{min: n, max: n} }

func (a arity) accepts(n int) bool { return n >= a.min && n <= a.max }

type call struct {
	chatID string
	userID string
	args   []string
}

type command struct {
	name    string
	arity   arity
	inline  bool
	mutates bool
	usage   string
	doc     string
	run     func(ctx context.Context, r *Router, c *call) string
}

var commands = []*command{
	{
		name:    "/updateChannels",
		arity:   exactly(3),
		mutates: true,
		usage:   "Invalid number of arguments for /updateChannels. Please use:\n" +
			`/updateChannels $$$ChannelName$$$ $$$Subject$$$ $$$[{"time":"...","name":"...","user_id":"..."}, ...]$$$`,
		doc: "Adds this channel or replaces its name, subject and timings.",
		run: runUpdateChannels,
	},
	{
		name:  "/listChannels",
		arity: exactly(0),
		usage: "Invalid number of arguments for /listChannels. Please use:\n/listChannels",
		doc:   "Lists every channel with its id, name and subject.",
		run:   runListChannels,
	},
	{
		name:    "/replaceGroupTimings",
		arity:   exactly(2),
		mutates: true,
		usage:   "Invalid number of arguments for /replaceGroupTimings. Please use:\n" +
			`/replaceGroupTimings $$$ChannelID$$$ $$$[{"time":"...","name":"...","user_id":"..."}, ...]$$$`,
		doc: "Replaces the timings of a channel and refreshes its sheet block.",
		run: runReplaceGroupTimings,
	},
	{
		name:    "/copyGroupTimings",
		arity:   exactly(2),
		mutates: true,
		usage:   "Invalid number of arguments for /copyGroupTimings. Please use:\n" +
			"/copyGroupTimings $$$TargetChannelID$$$ $$$SourceChannelID$$$",
		doc: "Copies the timings of the source channel onto the target channel.",
		run: runCopyGroupTimings,
	},
	{
		name:  "/getAllTimings",
		arity: exactly(0),
		usage: "Invalid number of arguments for /getAllTimings. Please use:\n/getAllTimings",
		doc:   "Shows the timings of every channel.",
		run:   runGetAllTimings,
	},
	{
		name:   "/getGroupTimings",
		arity:  exactly(1),
		inline: true,
		usage:  "Invalid number of arguments for /getGroupTimings. Please use:\n/getGroupTimings $$$ChannelID$$$",
		doc:    "Shows the timings of one channel.",
		run:    runGetGroupTimings,
	},
	{
		name:   "/getTimingsBySubject",
		arity:  exactly(1),
		inline: true,
		usage:  "Invalid number of arguments for /getTimingsBySubject. Please use:\n/getTimingsBySubject $$$Subject$$$",
		doc:    "Shows the timings of every channel of a subject.",
		run:    runGetTimingsBySubject,
	},
	{
		name:    "/setSubject",
		arity:   exactly(2),
		mutates: true,
		usage:   "Invalid number of arguments for /setSubject. Please use:\n" +
			"/setSubject $$$Subject$$$ $$$ChannelName$$$",
		doc: "Sets the subject of this channel, creating it with the given name if needed.",
		run: runSetSubject,
	},
	{
		name:    "/rebuildSheets",
		arity:   exactly(0),
		mutates: true,
		usage:   "Invalid number of arguments for /rebuildSheets. Please use:\n/rebuildSheets",
		doc:     "Clears every subject sheet and redraws all channel blocks.",
		run:     runRebuildSheets,
	},
	{
		name:    "/syncFromSheets",
		arity:   exactly(0),
		mutates: true,
		usage:   "Invalid number of arguments for /syncFromSheets. Please use:\n/syncFromSheets",
		doc:     "Reads every channel block back from the sheet and overwrites the stored timings.",
		run:     runSyncFromSheets,
	},
	{
		name:   "/onduty",
		arity:  arity{min: 0, max: 1},
		inline: true,
		usage:  "Invalid number of arguments for /onduty. Please use:\n/onduty or /onduty $$$ChannelID$$$",
		doc:    "Shows who is on duty now, or who is next.",
		run:    runOnDuty,
	},
	{
		name:   "/raiseQuery",
		arity:  exactly(1),
		inline: true,
		usage:  "Invalid number of arguments for /raiseQuery. Please use:\n/raiseQuery your question",
		doc:    "Logs a question and replies with its query id.",
		run:    runRaiseQuery,
	},
	{
		name:  "/help",
		arity: arity{min: 0, max: 0},
		usage: "Invalid number of arguments for /help. Please use:\n/help",
		doc:   "Lists the available commands.",
		run:   runHelp,
	},
	{
		name:   "/docs",
		arity:  exactly(1),
		inline: true,
		usage:  "Invalid number of arguments for /docs. Please use:\n/docs $$$CommandName$$$",
		doc:    "Explains one command.",
		run:    runDocs,
	},
}

// decodeError maps a DecodeTimings error to its reply text.
func decodeError(err error) string {
	var syntaxErr *roster.TimingsSyntaxError
	var valueErr *roster.TimingValueError
	switch {
	case errors.Is(err, roster.ErrTimingsNotList):
		return msgNotList
	case errors.Is(err, roster.ErrTimingMissingKey):
		return msgMissingKey
	case errors.As(err, &syntaxErr):
		return msgParsePrefix + syntaxErr.Err.Error()
	case errors.As(err, &valueErr):
		return "Error: " + valueErr.Error()
	default:
		return msgParsePrefix + err.Error()
	}
}

func runUpdateChannels(ctx context.Context, r *Router, c *call) string {
	name, subject := c.args[0], c.args[1]
	slots, err := roster.DecodeTimings(c.args[2])
	if err != nil {
		return decodeError(err)
	}

	var existed bool
	err = r.commit(ctx, func() error {
		_, existed = r.dir.Upsert(c.chatID, name, subject, slots)
		return nil
	})
	if err != nil {
		return fmt.Sprintf(msgUpdateFailedFmt, err)
	}
	r.log.Info("channel updated",
		zap.String("channel", c.chatID),
		zap.String("subject", subject),
		zap.Bool("existed", existed),
		zap.Int("timings", len(slots)),
	)

	status := "Channel added successfully."
	if existed {
		status = "Channel updated successfully."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nChannel Name: %s\nSubject: %s\nNew Doubt Timings:\n", status, name, subject)
	writeSlots(&b, slots)
	return b.String() + r.render(ctx, c.chatID)
}

func runListChannels(_ context.Context, r *Router, _ *call) string {
	channels := r.dir.List()
	if len(channels) == 0 {
		return msgNoChannels
	}
	var b strings.Builder
	b.WriteString("Channels:\n")
	for _, ch := range channels {
		fmt.Fprintf(&b, " - ID: %s, Name: %s, Subject: %s\n", ch.ID, ch.Name, ch.Subject)
	}
	return b.String()
}

func runReplaceGroupTimings(ctx context.Context, r *Router, c *call) string {
	id := c.args[0]
	slots, err := roster.DecodeTimings(c.args[1])
	if err != nil {
		return decodeError(err)
	}

	var ch *roster.Channel
	err = r.commit(ctx, func() error {
		var err error
		ch, err = r.dir.ReplaceTimings(id, slots)
		return err
	})
	switch {
	case errors.Is(err, roster.ErrChannelNotFound):
		return notFound(id)
	case err != nil:
		return fmt.Sprintf(msgUpdateFailedFmt, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Timings replaced for %s (%s).\nNew Doubt Timings:\n", ch.Name, ch.ID)
	writeSlots(&b, ch.Timings)
	return b.String() + r.render(ctx, id)
}

func runCopyGroupTimings(ctx context.Context, r *Router, c *call) string {
	targetID, sourceID := c.args[0], c.args[1]
	if r.dir.FindByID(targetID) == nil {
		return notFound(targetID)
	}
	if r.dir.FindByID(sourceID) == nil {
		return notFound(sourceID)
	}

	var target *roster.Channel
	err := r.commit(ctx, func() error {
		var err error
		target, err = r.dir.CopyTimings(targetID, sourceID)
		return err
	})
	if err != nil {
		return fmt.Sprintf(msgUpdateFailedFmt, err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Copied %d timings from %s to %s.\nNew Doubt Timings:\n", len(target.Timings), sourceID, targetID)
	writeSlots(&b, target.Timings)
	return b.String() + r.render(ctx, targetID)
}

func runGetAllTimings(_ context.Context, r *Router, _ *call) string {
	channels := r.dir.List()
	if len(channels) == 0 {
		return msgNoChannels
	}
	return dumpChannels(channels)
}

func runGetGroupTimings(_ context.Context, r *Router, c *call) string {
	ch := r.dir.FindByID(c.args[0])
	if ch == nil {
		return notFound(c.args[0])
	}
	return dumpChannels([]*roster.Channel{ch})
}

func runGetTimingsBySubject(_ context.Context, r *Router, c *call) string {
	channels := r.dir.FindBySubject(c.args[0])
	if len(channels) == 0 {
		return fmt.Sprintf("No channels found for subject '%s'.", c.args[0])
	}
	return dumpChannels(channels)
}

func runSetSubject(ctx context.Context, r *Router, c *call) string {
	subject, fallback := c.args[0], c.args[1]

	var (
		ch      *roster.Channel
		existed bool
	)
	err := r.commit(ctx, func() error {
		ch, existed = r.dir.SetSubject(c.chatID, subject, fallback)
		return nil
	})
	if err != nil {
		return fmt.Sprintf(msgUpdateFailedFmt, err)
	}

	reply := fmt.Sprintf("Subject of %s set to %s.", ch.Name, ch.Subject)
	if !existed {
		reply = fmt.Sprintf("Channel %s added with subject %s.", ch.Name, ch.Subject)
	}
	return reply + r.render(ctx, c.chatID)
}

func runRebuildSheets(ctx context.Context, r *Router, _ *call) string {
	if r.sync == nil {
		return msgNoSheet
	}
	outcomes := r.sync.Rebuild(ctx, r.dir)
	return summarize("Rebuilt", outcomes)
}

func runSyncFromSheets(ctx context.Context, r *Router, _ *call) string {
	if r.sync == nil {
		return msgNoSheet
	}

	var outcomes []sheet.Outcome
	err := r.commit(ctx, func() error {
		outcomes = r.sync.Reimport(ctx, r.dir)
		return nil
	})
	if err != nil {
		return fmt.Sprintf(msgUpdateFailedFmt, err)
	}
	return summarize("Reimported", outcomes)
}

func runOnDuty(_ context.Context, r *Router, c *call) string {
	id := c.chatID
	if len(c.args) == 1 {
		id = c.args[0]
	}
	ch := r.dir.FindByID(id)
	if ch == nil {
		return msgNoRoster
	}
	if len(ch.Timings) == 0 {
		return msgNoTimings
	}

	now := r.Now()
	a := roster.Resolve(ch, roster.TimeOfDayOf(now))

	var b strings.Builder
	if a.OnDuty() {
		b.WriteString("On duty now:\n")
		writeSlots(&b, a.Active)
		return b.String()
	}
	fmt.Fprintf(&b, "Nobody is on duty at %s.\nNext on duty:\n", roster.FormatTime(roster.TimeOfDayOf(now)))
	writeSlots(&b, a.Next)
	return b.String()
}

func runRaiseQuery(ctx context.Context, r *Router, c *call) string {
	if r.queries == nil {
		return msgNoQueryLog
	}
	q, err := r.queries.RaiseQuery(ctx, c.chatID, c.userID, c.args[0], r.Now())
	if err != nil {
		r.log.Error("raising query", zap.String("chat_id", c.chatID), zap.Error(err))
		return fmt.Sprintf("Failed to raise query: %v", err)
	}
	r.log.Info("query raised", zap.String("query_id", q.ID), zap.String("chat_id", c.chatID))
	return fmt.Sprintf("Your query has been raised. Query ID: %s", q.ID)
}

func runHelp(_ context.Context, r *Router, _ *call) string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, cmd := range r.catalog {
		fmt.Fprintf(&b, " %s - %s\n", cmd.name, cmd.doc)
	}
	b.WriteString("Use /docs <command> for details. Arguments are separated by " + r.delim + ".")
	return b.String()
}

func runDocs(_ context.Context, r *Router, c *call) string {
	name := c.args[0]
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	for _, cmd := range r.catalog {
		if strings.EqualFold(cmd.name, name) {
			usage := r.usage(cmd)
			if _, syntax, ok := strings.Cut(usage, "\n"); ok {
				usage = syntax
			}
			return fmt.Sprintf("%s\n%s\nUsage:\n%s", cmd.name, cmd.doc, usage)
		}
	}
	return fmt.Sprintf("No documentation for %s. Use /help to list commands.", c.args[0])
}
