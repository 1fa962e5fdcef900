package classify

import (
	"context"
	"errors"
	"testing"

	"tidy-hq/vesta/pkg/rules"
)

// stubCollaborator returns canned answers and records which calls were
// made.
type stubCollaborator struct {
	appLabel   string
	imageLabel string
	titleValue string
	generated  map[string]string

	appErr   error
	imageErr error

	imageCalls int
}

func (s *stubCollaborator) ClassifyApplication(ctx context.Context, processName, windowTitle string, categories []string) (string, error) {
	return s.appLabel, s.appErr
}

func (s *stubCollaborator) ClassifyImage(ctx context.Context, imagePath string, categories []string) (string, error) {
	s.imageCalls++
	return s.imageLabel, s.imageErr
}

func (s *stubCollaborator) AnalyzeWindowTitle(ctx context.Context, title string) (string, error) {
	return s.titleValue, nil
}

func (s *stubCollaborator) GenerateValue(ctx context.Context, name string, vars map[string]string) (string, error) {
	if v, ok := s.generated[name]; ok {
		return v, nil
	}
	return "", errors.New("no value")
}

func TestResolveBuiltins(t *testing.T) {
	r := NewResolver(nil, nil)
	win := WindowInfo{ProcessName: "chrome.exe", WindowTitle: "Funny cats - Google Chrome"}

	vars := r.Resolve(context.Background(), "/downloads/Screenshot 4.PNG", win, nil)

	tests := []struct {
		name, want string
	}{
		{"filename", "Screenshot 4.PNG"},
		{"filetype", "png"},
		{"source_app", "chrome.exe"},
		{"window_title", "Funny cats - Google Chrome"},
	}
	for _, tt := range tests {
		if got := vars[tt.name]; got != tt.want {
			t.Errorf("vars[%q] = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestResolveDefaultsWithoutCollaborator(t *testing.T) {
	r := NewResolver(nil, nil)

	vars := r.Resolve(context.Background(), "/downloads/a.png", WindowInfo{}, nil)

	if vars["source_app"] != "unknown" {
		t.Errorf("source_app = %q, want %q", vars["source_app"], "unknown")
	}
	if vars["source_category"] != FallbackLabel {
		t.Errorf("source_category = %q, want fallback", vars["source_category"])
	}
	if vars["category"] != FallbackLabel {
		t.Errorf("category = %q, want fallback", vars["category"])
	}
}

func TestResolveBrowserReclassifiesFromImage(t *testing.T) {
	collab := &stubCollaborator{appLabel: "Browser", imageLabel: " Meme "}
	r := NewResolver(collab, nil)

	vars := r.Resolve(context.Background(), "/downloads/shot.png", WindowInfo{ProcessName: "chrome.exe"}, nil)

	if vars["source_category"] != "browser" {
		t.Errorf("source_category = %q, want %q (normalized)", vars["source_category"], "browser")
	}
	if vars["category"] != "meme" {
		t.Errorf("category = %q, want %q (image content wins for browsers)", vars["category"], "meme")
	}
	if collab.imageCalls != 1 {
		t.Errorf("ClassifyImage called %d times, want 1", collab.imageCalls)
	}
}

func TestResolveNonBrowserKeepsSourceCategory(t *testing.T) {
	collab := &stubCollaborator{appLabel: "game", imageLabel: "meme"}
	r := NewResolver(collab, nil)

	vars := r.Resolve(context.Background(), "/downloads/shot.png", WindowInfo{ProcessName: "doom.exe"}, nil)

	if vars["category"] != "game" {
		t.Errorf("category = %q, want the source category for non-browsers", vars["category"])
	}
	if collab.imageCalls != 0 {
		t.Errorf("ClassifyImage called %d times, want 0", collab.imageCalls)
	}
}

func TestResolveClassificationFailureFallsBack(t *testing.T) {
	collab := &stubCollaborator{appErr: errors.New("model offline")}
	r := NewResolver(collab, nil)

	vars := r.Resolve(context.Background(), "/downloads/a.png", WindowInfo{ProcessName: "x"}, nil)
	if vars["source_category"] != FallbackLabel {
		t.Errorf("source_category = %q, want fallback on classifier error", vars["source_category"])
	}
}

func TestResolveFillsTemplateVariables(t *testing.T) {
	collab := &stubCollaborator{
		appLabel:   "game",
		titleValue: "Doom Eternal",
		generated:  map[string]string{"project": "vesta"},
	}
	r := NewResolver(collab, nil)

	ruleSet := []rules.Rule{
		{Action: rules.Action{Type: rules.ActionMove, TargetPath: "~/Games/{game_name}/{filename}"}},
		{Action: rules.Action{Type: rules.ActionMove, TargetPath: "~/Work/{project}"}},
	}
	vars := r.Resolve(context.Background(), "/downloads/shot.png", WindowInfo{ProcessName: "doom.exe"}, ruleSet)

	if vars["game_name"] != "doom eternal" {
		t.Errorf("game_name = %q, want normalized title analysis", vars["game_name"])
	}
	if vars["project"] != "vesta" {
		t.Errorf("project = %q, want generated value", vars["project"])
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("~/Sorted/{category}/{filename}_{category}")
	want := []string{"category", "filename"}
	if len(got) != len(want) {
		t.Fatalf("Placeholders = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Placeholders[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolveTemplate(t *testing.T) {
	r := NewResolver(nil, nil)
	vars := map[string]string{"category": "meme", "filename": "shot.png"}

	got, err := r.ResolveTemplate(context.Background(), "C:/Sorted/{category}/{filename}", vars)
	if err != nil {
		t.Fatalf("ResolveTemplate returned error: %v", err)
	}
	if got != "C:/Sorted/meme/shot.png" {
		t.Errorf("ResolveTemplate = %q, want %q", got, "C:/Sorted/meme/shot.png")
	}
}

func TestResolveTemplateLastMileGeneration(t *testing.T) {
	collab := &stubCollaborator{generated: map[string]string{"topic": "cats"}}
	r := NewResolver(collab, nil)

	got, err := r.ResolveTemplate(context.Background(), "~/Notes/{topic}", map[string]string{})
	if err != nil {
		t.Fatalf("ResolveTemplate returned error: %v", err)
	}
	if got != "~/Notes/cats" {
		t.Errorf("ResolveTemplate = %q, want %q", got, "~/Notes/cats")
	}
}

func TestResolveTemplateUnresolved(t *testing.T) {
	r := NewResolver(nil, nil)

	_, err := r.ResolveTemplate(context.Background(), "~/Sorted/{mystery}", map[string]string{})
	if err == nil {
		t.Fatal("expected error for unresolved placeholder")
	}
	var unresolved *UnresolvedVariableError
	if !errors.As(err, &unresolved) {
		t.Fatalf("got %T, want *UnresolvedVariableError", err)
	}
	if unresolved.Variable != "mystery" {
		t.Errorf("unresolved variable = %q, want %q", unresolved.Variable, "mystery")
	}
}
