package history

import (
	"fmt"

	"fileserver-go/internal/config"
	"fileserver-go/internal/fileserver"
)

// NewHistoryFromConfig creates a History implementation based on the config type.
func NewHistoryFromConfig(cfg config.HistoryConfig) (fileserver.History, error) {
	switch cfg.Type {
	case "memory", "":
		return NewMemoryHistory(), nil
	case "sqlite":
		h, err := NewSQLiteHistory()
		if err != nil {
			return nil, fmt.Errorf("creating sqlite history: %w", err)
		}
		return h, nil
	default:
		return nil, fmt.Errorf("unknown history type: %q", cfg.Type)
	}
}
