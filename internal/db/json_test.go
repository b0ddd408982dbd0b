package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/javiermolinar/onduty/internal/roster"
)

func TestJSONStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels_id_with_slots_info.json")
	store := NewJSONStore(path, "")
	ctx := context.Background()

	want := sampleDirectory()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertSameDirectory(t, got, want)
}

func TestJSONStore_LoadLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.json")
	doc := `{
    "channels": [
        {"id": -1001234, "name": "Physics", "subject": "Physics",
         "timings": [{"time": "11 AM - 2 PM", "name": "Het", "user_id": "@iamhet7"}]},
        {"id": "-1005", "name": "No timings", "subject": "Maths"}
    ]
}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewJSONStore(path, "").Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("got %d channels, want 2", got.Len())
	}
	if ch := got.FindByID("-1001234"); ch == nil || ch.Timings[0].UserID != "@iamhet7" {
		t.Errorf("numeric id channel not loaded correctly: %+v", ch)
	}
	if ch := got.FindByID("-1005"); ch == nil || ch.Timings == nil {
		t.Errorf("missing timings should load as empty: %+v", ch)
	}
}

func TestJSONStore_NumericIDSurvivesLoadMutateSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.json")
	doc := `{"channels": [{"id": 7, "name": "Seven", "subject": "Physics", "timings": []}]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewJSONStore(path, "")
	ctx := context.Background()

	d := LoadDirectory(ctx, store, zap.NewNop())
	if d.Len() != 1 || d.FindByID("7") == nil {
		t.Fatalf("snapshot with numeric id not loaded: %d channels", d.Len())
	}

	d.Upsert("8", "Eight", "Physics", nil)
	if err := store.Save(ctx, d); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Len() != 2 || got.FindByID("7").Name != "Seven" {
		t.Errorf("existing channel lost on save, have %d channels", got.Len())
	}
}

func TestJSONStore_MissingChannelsKeyIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "channels.json")
	if err := os.WriteFile(path, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewJSONStore(path, "").Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Len() != 0 {
		t.Errorf("expected empty directory, got %d", got.Len())
	}
}

func TestJSONStore_ResolvePicksGreatestName(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"channels-20250101.json", "channels-20250315.json", "channels-20250210.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(`{"channels":[]}`), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	store := NewJSONStore(filepath.Join(dir, "fallback.json"), filepath.Join(dir, "channels-*.json"))
	got, err := store.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if filepath.Base(got) != "channels-20250315.json" {
		t.Errorf("Resolve() = %s, want channels-20250315.json", got)
	}

	empty := NewJSONStore(filepath.Join(dir, "fallback.json"), filepath.Join(dir, "none-*.json"))
	got, err = empty.Resolve()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if filepath.Base(got) != "fallback.json" {
		t.Errorf("Resolve() = %s, want fallback.json", got)
	}
}

func TestLoadDirectory_FallsBackToEmpty(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte(`{"channels": [`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		repo roster.Repository
	}{
		{name: "missing file", repo: NewJSONStore(filepath.Join(dir, "missing.json"), "")},
		{name: "corrupt file", repo: NewJSONStore(corrupt, "")},
		{name: "nothing to resolve", repo: NewJSONStore("", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := LoadDirectory(context.Background(), tt.repo, zap.NewNop())
			if d == nil || d.Len() != 0 {
				t.Errorf("expected empty directory, got %v", d)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	sqlite := newTestRepo(t)

	repo, err := Open(DriverJSON, "x.json", "", nil)
	if err != nil {
		t.Fatalf("Open json failed: %v", err)
	}
	if _, ok := repo.(*JSONStore); !ok {
		t.Errorf("expected *JSONStore, got %T", repo)
	}

	repo, err = Open(DriverSQLite, "", "", sqlite)
	if err != nil || repo != sqlite {
		t.Errorf("Open sqlite = %v, %v", repo, err)
	}

	if _, err := Open(DriverSQLite, "", "", nil); err == nil {
		t.Error("expected error for sqlite driver without database")
	}
	if _, err := Open("mongo", "", "", nil); err == nil {
		t.Error("expected error for unknown driver")
	}
}

func TestMarshalSnapshot(t *testing.T) {
	data, err := MarshalSnapshot(sampleDirectory())
	if err != nil {
		t.Fatalf("MarshalSnapshot failed: %v", err)
	}
	for _, want := range []string{`"channels": [`, `"timings": [`, `"user_id": `} {
		if !strings.Contains(string(data), want) {
			t.Errorf("snapshot missing %s:\n%s", want, data)
		}
	}
}
