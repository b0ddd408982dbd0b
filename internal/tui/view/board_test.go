package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/onduty/internal/roster"
)

func boardDirectory() *roster.Directory {
	return roster.NewDirectory(
		&roster.Channel{ID: "-1001", Name: "Physics A", Subject: "Physics", Timings: []roster.Slot{
			{Time: "09:00 AM - 12:00 PM", Name: "Asha", UserID: "@asha"},
			{Time: "12:00 PM - 03:00 PM", Name: "", UserID: "@ben"},
			{Time: "12:00 PM - 03:00 PM", Name: "Cara", UserID: "@cara"},
		}},
		&roster.Channel{ID: "-1002", Name: "Chemistry", Subject: "Chemistry", Timings: []roster.Slot{
			{Time: "4 PM - 6 PM", Name: "Dev", UserID: "@dev"},
		}},
		&roster.Channel{ID: "-1003", Subject: ""},
	)
}

func TestBuildBoard(t *testing.T) {
	rows := BuildBoard(boardDirectory(), roster.NewTimeOfDay(13, 0), "")
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	tests := []struct {
		idx     int
		state   State
		mentors string
		window  string
	}{
		{0, StateOnDuty, "@ben, Cara", "12:00 PM - 03:00 PM"},
		{1, StateNext, "Dev", "4 PM - 6 PM"},
		{2, StateIdle, "", ""},
	}
	for _, tc := range tests {
		r := rows[tc.idx]
		if r.State != tc.state {
			t.Errorf("row %d state = %v, want %v", tc.idx, r.State, tc.state)
		}
		if r.Mentors != tc.mentors {
			t.Errorf("row %d mentors = %q, want %q", tc.idx, r.Mentors, tc.mentors)
		}
		if r.Window != tc.window {
			t.Errorf("row %d window = %q, want %q", tc.idx, r.Window, tc.window)
		}
	}

	if rows[2].Name != "-1003" {
		t.Errorf("unnamed channel should show its id, got %q", rows[2].Name)
	}
	if got := rows[2].Cells()[1]; got != "-" {
		t.Errorf("missing subject cell = %q, want -", got)
	}
	if Count(rows, StateOnDuty) != 1 || Count(rows, StateNext) != 1 {
		t.Errorf("unexpected counts: on duty %d, next %d", Count(rows, StateOnDuty), Count(rows, StateNext))
	}
}

func TestBuildBoardFilter(t *testing.T) {
	d := boardDirectory()

	rows := BuildBoard(d, roster.NewTimeOfDay(13, 0), "  CHEM ")
	if len(rows) != 1 || rows[0].ChannelID != "-1002" {
		t.Fatalf("subject filter: got %+v", rows)
	}

	rows = BuildBoard(d, roster.NewTimeOfDay(13, 0), "-1003")
	if len(rows) != 1 || rows[0].ChannelID != "-1003" {
		t.Fatalf("id filter: got %+v", rows)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Physics", 10); got != "Physics" {
		t.Errorf("short string changed: %q", got)
	}
	got := Truncate("Organic Chemistry", 8)
	if lipgloss.Width(got) > 8 || !strings.HasSuffix(got, "…") {
		t.Errorf("Truncate = %q", got)
	}
	if Truncate("x", 0) != "" {
		t.Error("zero width should be empty")
	}
}

func TestRenderFooter(t *testing.T) {
	out := RenderFooter(FooterViewState{
		InnerW:     40,
		FooterH:    4,
		StatsText:  "2 on duty",
		PromptLine: "filter> phys",
		StatusText: "reloaded",
		HelpText:   "q quit",
		VAlign:     lipgloss.Top,
	})
	for _, want := range []string{"2 on duty", "filter> phys", "reloaded", "q quit"} {
		if !strings.Contains(out, want) {
			t.Errorf("footer missing %q: %q", want, out)
		}
	}
	if RenderFooter(FooterViewState{FooterH: 0}) != "" {
		t.Error("zero height footer should be empty")
	}
}
