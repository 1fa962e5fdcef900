package router

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tidy-hq/vesta/pkg/classify"
	"tidy-hq/vesta/pkg/queue"
	"tidy-hq/vesta/pkg/rules"
	"tidy-hq/vesta/pkg/rules/engine"
	"tidy-hq/vesta/pkg/schedule"
)

func newTestRouter(t *testing.T) (*Router, *queue.Set, *schedule.Store) {
	t.Helper()
	dir := t.TempDir()
	queues := queue.NewSet(dir, nil)
	sched := schedule.NewStore(filepath.Join(dir, "deletion_schedule.json"), nil)
	rtr := New(queues, sched, classify.NewResolver(nil, nil), nil, nil, nil)
	return rtr, queues, sched
}

func decisionFor(action rules.Action) engine.Decision {
	rule := rules.Rule{Condition: "true", Action: action}
	return engine.Decision{Action: action, Rule: &rule, Matched: true}
}

func TestRouteMoveQueuesPendingEntry(t *testing.T) {
	rtr, queues, _ := newTestRouter(t)

	dec := decisionFor(rules.Action{Type: rules.ActionMove, TargetPath: "/sorted/{category}/{filename}"})
	vars := map[string]string{"category": "meme", "filename": "shot.png"}

	if err := rtr.Route(context.Background(), "/downloads/shot.png", dec, vars); err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	entries, err := queues.Pending.Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("pending queue has %d entries, want 1", len(entries))
	}
	entry := entries[0]
	if entry.TargetPath != "/sorted/meme/shot.png" {
		t.Errorf("target = %q, want resolved template", entry.TargetPath)
	}
	if entry.Type != "move" || entry.OriginalPath != "/downloads/shot.png" {
		t.Errorf("entry = %+v, want move of the original path", entry)
	}
	if entry.ID == "" {
		t.Error("entry should carry a generated ID")
	}
}

func TestRouteDirectoryTargetGetsFilename(t *testing.T) {
	rtr, queues, _ := newTestRouter(t)

	dec := decisionFor(rules.Action{Type: rules.ActionCopy, TargetPath: "/sorted/{category}"})
	vars := map[string]string{"category": "meme", "filename": "shot.png"}

	if err := rtr.Route(context.Background(), "/downloads/shot.png", dec, vars); err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	entries, _ := queues.Pending.Load()
	if len(entries) != 1 || entries[0].TargetPath != "/sorted/meme/shot.png" {
		t.Errorf("entries = %+v, want directory target extended with the filename", entries)
	}
}

func TestRouteUnresolvedTemplateDropsFile(t *testing.T) {
	rtr, queues, _ := newTestRouter(t)

	dec := decisionFor(rules.Action{Type: rules.ActionMove, TargetPath: "/sorted/{mystery}/{filename}"})
	vars := map[string]string{"filename": "shot.png"}

	if err := rtr.Route(context.Background(), "/downloads/shot.png", dec, vars); err == nil {
		t.Fatal("Route should fail when the template cannot be resolved")
	}

	entries, _ := queues.Pending.Load()
	if len(entries) != 0 {
		t.Errorf("pending queue has %d entries, want 0 after a dropped file", len(entries))
	}
}

func TestRouteEncryptQueuesBarePath(t *testing.T) {
	rtr, queues, _ := newTestRouter(t)

	dec := decisionFor(rules.Action{Type: rules.ActionEncrypt})
	if err := rtr.Route(context.Background(), "/downloads/secret.pdf", dec, nil); err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	paths, _ := queues.Encrypt.Load()
	if len(paths) != 1 || paths[0] != "/downloads/secret.pdf" {
		t.Errorf("encrypt queue = %v, want the bare path", paths)
	}
}

func TestRouteCompressResolutionIsNonFatal(t *testing.T) {
	rtr, queues, _ := newTestRouter(t)

	// The compress target template is informational; an unresolvable
	// placeholder must not block queueing.
	dec := decisionFor(rules.Action{Type: rules.ActionCompress, TargetPath: "/archives/{mystery}"})
	if err := rtr.Route(context.Background(), "/downloads/big.log", dec, map[string]string{}); err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	paths, _ := queues.Compress.Load()
	if len(paths) != 1 || paths[0] != "/downloads/big.log" {
		t.Errorf("compress queue = %v, want the bare path", paths)
	}
}

func TestRouteDeleteSchedulesDeadline(t *testing.T) {
	rtr, _, sched := newTestRouter(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rtr.now = func() time.Time { return now }

	dec := decisionFor(rules.Action{Type: rules.ActionDelete, Time: "3 days"})
	if err := rtr.Route(context.Background(), "/downloads/tmp.bin", dec, nil); err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	entries, err := sched.Load()
	if err != nil {
		t.Fatal(err)
	}
	deadline, ok := entries["/downloads/tmp.bin"]
	if !ok {
		t.Fatal("deletion schedule should contain the routed path")
	}
	if !deadline.Equal(now.Add(72 * time.Hour)) {
		t.Errorf("deadline = %v, want %v", deadline, now.Add(72*time.Hour))
	}
}

func TestRouteDeleteInvalidRetention(t *testing.T) {
	rtr, _, sched := newTestRouter(t)

	dec := decisionFor(rules.Action{Type: rules.ActionDelete, Time: "5 fortnights"})
	if err := rtr.Route(context.Background(), "/downloads/tmp.bin", dec, nil); err == nil {
		t.Fatal("Route should fail on an unparsable retention")
	}

	entries, _ := sched.Load()
	if len(entries) != 0 {
		t.Errorf("schedule = %v, want empty after a dropped delete", entries)
	}
}

func TestRouteNoActionIsNoop(t *testing.T) {
	rtr, queues, sched := newTestRouter(t)

	dec := engine.Decision{Action: rules.Action{Type: rules.ActionNone}}
	if err := rtr.Route(context.Background(), "/downloads/a.png", dec, nil); err != nil {
		t.Fatalf("Route returned error: %v", err)
	}

	entries, _ := queues.Pending.Load()
	schedEntries, _ := sched.Load()
	if len(entries) != 0 || len(schedEntries) != 0 {
		t.Error("no_action must not touch queues or schedule")
	}
}
