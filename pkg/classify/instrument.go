package classify

import (
	"context"
	"time"

	"tidy-hq/vesta/pkg/telemetry/metrics"
)

// Instrument wraps a collaborator so every call is recorded in m. A nil
// collaborator or nil metrics is returned unwrapped.
func Instrument(c Collaborator, m *metrics.Metrics) Collaborator {
	if c == nil || m == nil {
		return c
	}
	return &meteredCollaborator{next: c, metrics: m}
}

type meteredCollaborator struct {
	next    Collaborator
	metrics *metrics.Metrics
}

func (c *meteredCollaborator) ClassifyApplication(ctx context.Context, processName, windowTitle string, categories []string) (string, error) {
	start := time.Now()
	label, err := c.next.ClassifyApplication(ctx, processName, windowTitle, categories)
	c.metrics.ObserveClassifierCall("application", time.Since(start), err)
	return label, err
}

func (c *meteredCollaborator) ClassifyImage(ctx context.Context, imagePath string, categories []string) (string, error) {
	start := time.Now()
	label, err := c.next.ClassifyImage(ctx, imagePath, categories)
	c.metrics.ObserveClassifierCall("image", time.Since(start), err)
	return label, err
}

func (c *meteredCollaborator) AnalyzeWindowTitle(ctx context.Context, title string) (string, error) {
	start := time.Now()
	name, err := c.next.AnalyzeWindowTitle(ctx, title)
	c.metrics.ObserveClassifierCall("window_title", time.Since(start), err)
	return name, err
}

func (c *meteredCollaborator) GenerateValue(ctx context.Context, name string, vars map[string]string) (string, error) {
	start := time.Now()
	value, err := c.next.GenerateValue(ctx, name, vars)
	c.metrics.ObserveClassifierCall("generate", time.Since(start), err)
	return value, err
}
