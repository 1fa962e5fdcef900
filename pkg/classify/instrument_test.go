package classify

import (
	"context"
	"testing"

	"tidy-hq/vesta/pkg/telemetry/metrics"
)

func TestInstrumentPassThrough(t *testing.T) {
	stub := &stubCollaborator{appLabel: "browser", imageLabel: "meme"}
	m := metrics.New("test", nil)

	wrapped := Instrument(stub, m)
	if wrapped == stub {
		t.Fatal("Instrument returned the collaborator unwrapped")
	}

	label, err := wrapped.ClassifyApplication(context.Background(), "chrome.exe", "Funny cats", []string{"browser"})
	if err != nil {
		t.Fatalf("ClassifyApplication returned error: %v", err)
	}
	if label != "browser" {
		t.Errorf("ClassifyApplication = %q, want %q", label, "browser")
	}
}

func TestInstrumentNilInputs(t *testing.T) {
	stub := &stubCollaborator{}
	if got := Instrument(nil, metrics.New("test", nil)); got != nil {
		t.Errorf("Instrument(nil, m) = %v, want nil", got)
	}
	if got := Instrument(stub, nil); got != Collaborator(stub) {
		t.Error("Instrument(c, nil) should return the collaborator unwrapped")
	}
}
