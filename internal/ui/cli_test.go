package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/onduty/internal/config"
	"github.com/javiermolinar/onduty/internal/db"
	"github.com/javiermolinar/onduty/internal/roster"
	"github.com/javiermolinar/onduty/internal/sheet"
)

const testSnapshot = `{
  "channels": [
    {"id": "-1001", "name": "Physics A", "subject": "Physics", "timings": [
      {"time": "9 AM - 12 PM", "name": "Asha", "user_id": "@asha"},
      {"time": "12 PM - 3 PM", "name": "Ben", "user_id": "@ben"}
    ]},
    {"id": "-1002", "name": "Chem", "subject": "Chemistry", "timings": [
      {"time": "4 PM - 6 PM", "name": "Cara", "user_id": "@cara"}
    ]},
    {"id": "-1003", "name": "Bio", "subject": "", "timings": []}
  ]
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Bot.UTCOffset = "+00:00"
	cfg.Storage.Driver = config.DriverJSON
	cfg.Storage.SnapshotPath = filepath.Join(dir, "channels.json")
	cfg.Storage.SnapshotGlob = ""
	cfg.Storage.DBPath = filepath.Join(dir, "data", "onduty.db")
	cfg.Sheets.Backend = config.BackendMemory
	cfg.Bot.AllowedURLsGlob = filepath.Join(dir, "*_allowed_urls.txt")

	if err := os.WriteFile(cfg.Storage.SnapshotPath, []byte(testSnapshot), 0o644); err != nil {
		t.Fatalf("writing snapshot: %v", err)
	}
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	DisableColor()
	a := NewApp(cfg, nil)
	a.now = func() time.Time { return time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func run(t *testing.T, a *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a.root.SetOut(&out)
	a.root.SetErr(&out)
	a.root.SetArgs(args)
	err := a.root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	out, err := run(t, a, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "onduty dev") {
		t.Errorf("expected version line, got %q", out)
	}
}

func TestOnduty_SingleChannel(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	out, err := run(t, a, "onduty", "--chat", "-1001")
	if err != nil {
		t.Fatalf("onduty: %v", err)
	}
	if !strings.Contains(out, "on duty") || !strings.Contains(out, "Asha") {
		t.Errorf("expected Asha on duty at 10:00, got %q", out)
	}
	if strings.Contains(out, "Ben") {
		t.Errorf("Ben should not be listed at 10:00, got %q", out)
	}
}

func TestOnduty_AtAndSubject(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	out, err := run(t, a, "onduty", "--at", "1 PM", "--subject", "physics")
	if err != nil {
		t.Fatalf("onduty: %v", err)
	}
	if !strings.Contains(out, "Ben") {
		t.Errorf("expected Ben on duty at 1 PM, got %q", out)
	}
	if strings.Contains(out, "Chem") {
		t.Errorf("subject filter should exclude Chem, got %q", out)
	}
}

func TestOnduty_NextWhenNobodyActive(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	out, err := run(t, a, "onduty", "--", "-1002")
	if err != nil {
		t.Fatalf("onduty: %v", err)
	}
	if !strings.Contains(out, "next") || !strings.Contains(out, "Cara") {
		t.Errorf("expected Cara next, got %q", out)
	}
}

func TestOnduty_UnknownChannel(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	if _, err := run(t, a, "onduty", "--chat", "-9999"); err == nil {
		t.Error("expected error for unknown channel")
	}
	if _, err := run(t, a, "onduty", "--chat", "-1001", "--", "-1002"); err == nil {
		t.Error("expected error when two different channels are given")
	}
}

func TestOnduty_BadTime(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	if _, err := run(t, a, "onduty", "--at", "teatime"); err == nil {
		t.Error("expected error for unparseable --at")
	}
}

func TestChannels_GroupsBySubject(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	out, err := run(t, a, "channels")
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	physics := strings.Index(out, "=== Physics ===")
	chemistry := strings.Index(out, "=== Chemistry ===")
	none := strings.Index(out, "=== no subject ===")
	if physics < 0 || chemistry < 0 || none < 0 {
		t.Fatalf("missing subject headers in %q", out)
	}
	if !(physics < chemistry && chemistry < none) {
		t.Errorf("subjects out of order in %q", out)
	}
	if !strings.Contains(out, "-1003 Bio") {
		t.Errorf("expected channel without subject listed, got %q", out)
	}
}

func TestChannels_Verbose(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	out, err := run(t, a, "channels", "--subject", "Physics", "-v")
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	if !strings.Contains(out, "● 9 AM - 12 PM") {
		t.Errorf("expected active slot marker, got %q", out)
	}
	if strings.Contains(out, "Chemistry") {
		t.Errorf("subject filter should exclude Chemistry, got %q", out)
	}
}

func TestExec_UpdateChannelsPersists(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, cfg)

	directive := `/updateChannels $$$Maths A$$$ $$$Maths$$$ $$$[{"time":"9 AM - 10 AM","name":"Dev","user_id":"@dev"}]$$$`
	out, err := run(t, a, "exec", "--chat", "-1004", directive)
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if !strings.Contains(out, "Channel added successfully.") {
		t.Errorf("unexpected reply %q", out)
	}

	reloaded := newTestApp(t, cfg)
	out, err = run(t, reloaded, "onduty", "--chat", "-1004")
	if err != nil {
		t.Fatalf("onduty after exec: %v", err)
	}
	if !strings.Contains(out, "Dev") {
		t.Errorf("expected persisted channel, got %q", out)
	}
}

func TestExec_RejectsPlainText(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	if _, err := run(t, a, "exec", "hello there"); err == nil {
		t.Error("expected error for non-directive text")
	}
}

func TestExport_WritesSnapshot(t *testing.T) {
	cfg := testConfig(t)
	a := newTestApp(t, cfg)
	target := filepath.Join(t.TempDir(), "backup.json")

	out, err := run(t, a, "export", "--output", target)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "Exported 3 channels") {
		t.Errorf("unexpected output %q", out)
	}

	d, err := db.NewJSONStore(target, "").Load(context.Background())
	if err != nil {
		t.Fatalf("loading export: %v", err)
	}
	if d.Len() != 3 || d.FindByID("-1002").Name != "Chem" {
		t.Errorf("export did not round-trip: %d channels", d.Len())
	}
}

func TestImport_MergeAndReplace(t *testing.T) {
	cfg := testConfig(t)
	source := filepath.Join(t.TempDir(), "incoming.json")
	incoming := `{"channels": [
  {"id": "-1001", "name": "Physics B", "subject": "Physics", "timings": []},
  {"id": "-1005", "name": "Art", "subject": "Art", "timings": []}
]}`
	if err := os.WriteFile(source, []byte(incoming), 0o644); err != nil {
		t.Fatalf("writing source: %v", err)
	}

	a := newTestApp(t, cfg)
	out, err := run(t, a, "import", source)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(out, "(1 new, 1 replaced)") {
		t.Errorf("unexpected output %q", out)
	}
	if a.dir.Len() != 4 || a.dir.FindByID("-1001").Name != "Physics B" {
		t.Errorf("merge produced %d channels", a.dir.Len())
	}

	b := newTestApp(t, cfg)
	if _, err := run(t, b, "import", source, "--replace"); err != nil {
		t.Fatalf("import --replace: %v", err)
	}
	if b.dir.Len() != 2 {
		t.Errorf("expected 2 channels after replace, got %d", b.dir.Len())
	}
}

func TestImport_MissingFile(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	if _, err := run(t, a, "import", filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing snapshot")
	}
}

type failingRepo struct{}

func (failingRepo) Load(context.Context) (*roster.Directory, error) { return roster.NewDirectory(), nil }
func (failingRepo) Save(context.Context, *roster.Directory) error  { return errors.New("disk full") }
func (failingRepo) Close() error                                    { return nil }

func TestImportSnapshot_RestoresOnSaveFailure(t *testing.T) {
	source := filepath.Join(t.TempDir(), "incoming.json")
	if err := os.WriteFile(source, []byte(testSnapshot), 0o644); err != nil {
		t.Fatalf("writing source: %v", err)
	}
	dir := roster.NewDirectory(&roster.Channel{ID: "-7", Name: "Keep"})

	if _, _, err := importSnapshot(context.Background(), failingRepo{}, dir, source, true); err == nil {
		t.Fatal("expected save error")
	}
	if dir.Len() != 1 || dir.FindByID("-7") == nil {
		t.Errorf("directory not restored, has %d channels", dir.Len())
	}
}

func TestPreview_DryRun(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	out, err := run(t, a, "preview", "Physics")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, "=== Physics ===") || !strings.Contains(out, "Asha") {
		t.Errorf("expected Physics region with Asha, got %q", out)
	}
	if strings.Contains(out, "Cara") {
		t.Errorf("preview of Physics should not contain Chemistry rows, got %q", out)
	}
}

func TestPreview_UnknownSubject(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	out, err := run(t, a, "preview", "Art")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, "No region for this subject.") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRebuildThenReimport(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	out, err := run(t, a, "rebuild")
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if !strings.Contains(out, "Rebuilt 2 of 3 channels.") {
		t.Errorf("unexpected rebuild output %q", out)
	}

	out, err = run(t, a, "reimport", "--dry-run")
	if err != nil {
		t.Fatalf("reimport: %v", err)
	}
	if !strings.Contains(out, "Reimported 2 of 3 channels.") || !strings.Contains(out, "Dry run") {
		t.Errorf("unexpected reimport output %q", out)
	}
	if got := len(a.dir.FindByID("-1001").Timings); got != 2 {
		t.Errorf("expected timings kept after reimport, got %d", got)
	}
}

func TestRenderCells(t *testing.T) {
	if got := renderCells([][]string{{"", ""}, {"", ""}}); !strings.Contains(got, "(empty)") {
		t.Errorf("expected empty marker, got %q", got)
	}

	got := renderCells([][]string{
		{"Physics A", ""},
		{"9 AM - 12 PM", "Asha"},
		{"", ""},
	})
	for _, want := range []string{"A", "B", "Physics A", "Asha", "2"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in\n%s", want, got)
		}
	}
}

func TestPrintOutcomes(t *testing.T) {
	DisableColor()
	var buf bytes.Buffer
	failed := PrintOutcomes(&buf, "Rebuilt", []sheet.Outcome{
		{ChannelID: "-1", Name: "One", Status: sheet.StatusUpdated, Slots: 2},
		{ChannelID: "-2", Name: "Two", Status: sheet.StatusSkipped, Err: sheet.ErrNoSubject},
		{ChannelID: "-3", Name: "Three", Status: sheet.StatusFailed, Err: errors.New("quota")},
	})

	if failed != 1 {
		t.Errorf("expected 1 failure, got %d", failed)
	}
	out := buf.String()
	if !strings.Contains(out, "Rebuilt 1 of 3 channels.") {
		t.Errorf("unexpected summary %q", out)
	}
	if !strings.Contains(out, "Three (-3): quota") {
		t.Errorf("expected failure detail, got %q", out)
	}
}
