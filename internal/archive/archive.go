// Package archive keeps a copy of the portal in a SQL database.
package archive

import (
	"sync"

	"github.com/huangsam/peloton/internal/contract"
)

// ArchiveStoreManager manages the ArchiveStore instance.
type ArchiveStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	archive      contract.ArchiveStore
}

var _ contract.ArchiveManager = &ArchiveStoreManager{} // Compile-time check

// GetArchiveStore returns the ArchiveStore.
func (mgr *ArchiveStoreManager) GetArchiveStore() contract.ArchiveStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.archive
}
