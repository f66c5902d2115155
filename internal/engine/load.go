package engine

import (
	"fmt"

	"github.com/leapstack-labs/processdata/internal/frame"
)

// Load reads both input files and inner-joins them on the id column.
func (e *Engine) Load() (*frame.Table, error) {
	messages, err := frame.ReadCSV(e.cfg.MessagesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	e.logger.Debug("loaded messages", "path", e.cfg.MessagesPath, "rows", messages.Len(), "columns", messages.Names())

	cats, err := frame.ReadCSV(e.cfg.CategoriesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	e.logger.Debug("loaded categories", "path", e.cfg.CategoriesPath, "rows", cats.Len())

	merged, err := frame.Merge(messages, cats, e.cfg.IDColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to merge messages and categories: %w", err)
	}
	e.logger.Debug("merged inputs", "on", e.cfg.IDColumn, "rows", merged.Len())
	return merged, nil
}
