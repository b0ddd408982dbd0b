package integration

import (
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/onduty/internal/bot"
	"github.com/javiermolinar/onduty/internal/config"
)

func TestOnDutyFollowsConfiguredOffset(t *testing.T) {
	// 04:00 UTC is 09:30 in +05:30 and 20:00 the previous day in -08:00.
	now := time.Date(2025, 1, 20, 4, 0, 0, 0, time.UTC)

	tests := []struct {
		offset string
		want   string
		absent string
	}{
		{"+05:30", "On duty now:", "Nobody is on duty"},
		{"+00:00", "Nobody is on duty at 4:00 AM.", "On duty now:"},
		{"-08:00", "Nobody is on duty at 8:00 PM.", "On duty now:"},
	}

	for _, tc := range tests {
		t.Run(tc.offset, func(t *testing.T) {
			loc, err := config.ParseUTCOffset(tc.offset)
			if err != nil {
				t.Fatalf("ParseUTCOffset(%q): %v", tc.offset, err)
			}
			s := newStack(t, now, loc)
			s.admin(t, bot.Event{
				ChatID: "-1001",
				Text:   "/updateChannels $$$Physics A$$$ $$$Physics$$$ $$$" + physicsTimings + "$$$",
			})

			resp := s.send(t, bot.Event{ChatID: "-1001", Text: "/onduty"})
			t.Logf("reply at %s: %q", tc.offset, resp.Reply)
			if !strings.Contains(resp.Reply, tc.want) {
				t.Errorf("expected %q in %q", tc.want, resp.Reply)
			}
			if strings.Contains(resp.Reply, tc.absent) {
				t.Errorf("did not expect %q in %q", tc.absent, resp.Reply)
			}
			if !strings.Contains(resp.Reply, "Asha") {
				t.Errorf("expected Asha as current or next mentor, got %q", resp.Reply)
			}
		})
	}
}
