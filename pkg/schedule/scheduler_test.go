package schedule

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// recordingTrasher records trashed paths and optionally fails.
type recordingTrasher struct {
	trashed []string
	err     error
}

func (r *recordingTrasher) Trash(path string) error {
	if r.err != nil {
		return r.err
	}
	r.trashed = append(r.trashed, path)
	return os.Remove(path)
}

func writeTempFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestScheduler(t *testing.T, trasher Trasher) (*Scheduler, *Store, string) {
	t.Helper()
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "deletion_schedule.json"), nil)
	s := NewScheduler(store, trasher, nil, nil, nil)
	return s, store, dir
}

func TestRunOnceDeletesExpired(t *testing.T) {
	trasher := &recordingTrasher{}
	s, store, dir := newTestScheduler(t, trasher)

	expired := writeTempFile(t, dir, "old.txt")
	fresh := writeTempFile(t, dir, "new.txt")

	now := time.Now()
	if err := store.Add(expired, now.Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := store.Add(fresh, now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	if err := s.RunOnce(); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	if len(trasher.trashed) != 1 || trasher.trashed[0] != expired {
		t.Errorf("trashed = %v, want only the expired file", trasher.trashed)
	}

	remaining, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := remaining[expired]; ok {
		t.Error("expired entry should be removed from the schedule")
	}
	if _, ok := remaining[fresh]; !ok {
		t.Error("unexpired entry must stay scheduled")
	}
}

func TestRunOnceKeepsEntryOnTrashFailure(t *testing.T) {
	trasher := &recordingTrasher{err: os.ErrPermission}
	s, store, dir := newTestScheduler(t, trasher)

	expired := writeTempFile(t, dir, "old.txt")
	if err := store.Add(expired, time.Now().Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}

	if err := s.RunOnce(); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	remaining, _ := store.Load()
	if _, ok := remaining[expired]; !ok {
		t.Error("entry should stay scheduled for retry after a failed trash")
	}
}

func TestRunOnceMissingTargetGracePeriod(t *testing.T) {
	trasher := &recordingTrasher{}
	s, store, _ := newTestScheduler(t, trasher)

	gone := filepath.Join(t.TempDir(), "vanished.txt")
	if err := store.Add(gone, time.Now().Add(-time.Minute)); err != nil {
		t.Fatal(err)
	}

	// First scan: the file may just be mid-rename, keep the entry.
	if err := s.RunOnce(); err != nil {
		t.Fatal(err)
	}
	remaining, _ := store.Load()
	if _, ok := remaining[gone]; !ok {
		t.Fatal("missing target should survive the first scan")
	}

	// Second scan: still missing, drop it.
	if err := s.RunOnce(); err != nil {
		t.Fatal(err)
	}
	remaining, _ = store.Load()
	if _, ok := remaining[gone]; ok {
		t.Error("missing target should be dropped on the second scan")
	}
	if len(trasher.trashed) != 0 {
		t.Errorf("trashed = %v, want nothing for a missing target", trasher.trashed)
	}
}

func TestRunOnceRewritesUnparsableEntries(t *testing.T) {
	trasher := &recordingTrasher{}
	s, store, dir := newTestScheduler(t, trasher)

	// Load drops entries whose deadline does not parse; the scan must
	// rewrite the file so disk matches what was loaded.
	schedulePath := filepath.Join(dir, "deletion_schedule.json")
	if err := os.WriteFile(schedulePath, []byte(`{"/tmp/x.bin": "not-a-timestamp"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := s.RunOnce(); err != nil {
		t.Fatalf("RunOnce returned error: %v", err)
	}

	data, err := os.ReadFile(schedulePath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == `{"/tmp/x.bin": "not-a-timestamp"}` {
		t.Fatal("schedule file was not rewritten after the scan")
	}

	remaining, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := remaining["/tmp/x.bin"]; ok {
		t.Error("unparsable entry should not survive the rewrite")
	}
	if len(trasher.trashed) != 0 {
		t.Errorf("trashed = %v, want nothing", trasher.trashed)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "deletion_schedule.json"), nil)

	deadline := time.Date(2026, 9, 5, 10, 30, 0, 0, time.UTC)
	if err := store.Add("/downloads/tmp.bin", deadline); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatal(err)
	}
	if got := loaded["/downloads/tmp.bin"]; !got.Equal(deadline) {
		t.Errorf("loaded deadline = %v, want %v", got, deadline)
	}
}

func TestStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deletion_schedule.json")
	if err := os.WriteFile(path, []byte("nonsense"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore(path, nil)
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load on corrupt file returned error: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Load on corrupt file = %v, want empty", loaded)
	}
}

func TestDirTrasherMovesFile(t *testing.T) {
	dir := t.TempDir()
	trashDir := filepath.Join(dir, ".trash")
	trasher := NewDirTrasher(trashDir)

	path := writeTempFile(t, dir, "doomed.txt")
	if err := trasher.Trash(path); err != nil {
		t.Fatalf("Trash returned error: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("original file should be gone")
	}
	if _, err := os.Stat(filepath.Join(trashDir, "doomed.txt")); err != nil {
		t.Errorf("trashed file missing: %v", err)
	}
}

func TestDirTrasherResolvesCollisions(t *testing.T) {
	dir := t.TempDir()
	trashDir := filepath.Join(dir, ".trash")
	trasher := NewDirTrasher(trashDir)

	first := writeTempFile(t, dir, "doomed.txt")
	if err := trasher.Trash(first); err != nil {
		t.Fatal(err)
	}
	second := writeTempFile(t, dir, "doomed.txt")
	if err := trasher.Trash(second); err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(trashDir, "doomed_1.txt")); err != nil {
		t.Errorf("collision suffix missing: %v", err)
	}
}
