package pipeline

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stackchart/pkg/chart"
	"github.com/matzehuels/stackchart/pkg/config"
	"github.com/matzehuels/stackchart/pkg/frame"
)

// Measure builds a chart from cfg, runs one update pass and snapshots it.
// Unless live is set, running transitions are completed first so the
// frame shows the settled layout.
func Measure(ctx context.Context, cfg *config.Config, live bool, logger *log.Logger) (*chart.Chart, *frame.Frame, error) {
	c, err := cfg.Build(logger)
	if err != nil {
		return nil, nil, fmt.Errorf("build chart: %w", err)
	}
	if err := c.Update(ctx); err != nil {
		return nil, nil, fmt.Errorf("update chart: %w", err)
	}
	if !live {
		c.CompleteAll()
	}
	return c, c.Snapshot(), nil
}
