package engine

import (
	"fmt"

	"github.com/leapstack-labs/processdata/internal/categories"
	"github.com/leapstack-labs/processdata/internal/frame"
)

// Clean expands the packed categories and removes duplicate rows.
func (e *Engine) Clean(merged *frame.Table) (*frame.Table, error) {
	cleaned, err := categories.Clean(merged, e.cfg.Categories)
	if err != nil {
		return nil, fmt.Errorf("failed to clean data: %w", err)
	}
	return cleaned, nil
}
