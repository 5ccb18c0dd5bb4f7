package storage

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/parkguide/internal/common"
	"github.com/ternarybob/parkguide/internal/interfaces"
	"github.com/ternarybob/parkguide/internal/storage/badger"
)

// NewStorageManager creates a new storage manager based on config
func NewStorageManager(logger arbor.ILogger, config *common.Config) (interfaces.StorageManager, error) {
	if !config.Storage.Badger.Enabled {
		return nil, fmt.Errorf("record cache is disabled (storage.badger.enabled=false)")
	}
	return badger.NewManager(logger, &config.Storage.Badger)
}
