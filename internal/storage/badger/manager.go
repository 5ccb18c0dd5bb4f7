package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/parkguide/internal/common"
	"github.com/ternarybob/parkguide/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db     *BadgerDB
	park   interfaces.ParkStorage
	logger arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := &Manager{
		db:     db,
		park:   NewParkStorage(db, logger),
		logger: logger,
	}

	logger.Debug().Str("path", config.Path).Msg("Badger storage manager initialized")

	return manager, nil
}

// ParkStorage returns the Park storage interface
func (m *Manager) ParkStorage() interfaces.ParkStorage {
	return m.park
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
