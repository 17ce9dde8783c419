package archive

import (
	"context"

	"github.com/huangsam/peloton/internal/contract"
	"github.com/huangsam/peloton/schema"
	"github.com/stretchr/testify/mock"
)

// MockArchiveManager is a mock implementation of ArchiveManager for testing.
type MockArchiveManager struct {
	mock.Mock
}

var _ contract.ArchiveManager = &MockArchiveManager{} // Compile-time check

// GetArchiveStore implements the ArchiveManager interface.
func (m *MockArchiveManager) GetArchiveStore() contract.ArchiveStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ArchiveStore)
	return store
}

// MockArchiveStore is a mock implementation of ArchiveStore for testing.
type MockArchiveStore struct {
	mock.Mock
}

var _ contract.ArchiveStore = &MockArchiveStore{} // Compile-time check

// Save implements the ArchiveStore interface.
func (m *MockArchiveStore) Save(ctx context.Context, snap *schema.Snapshot) error {
	args := m.Called(ctx, snap)
	return args.Error(0)
}

// Load implements the ArchiveStore interface.
func (m *MockArchiveStore) Load(ctx context.Context) (*schema.Snapshot, error) {
	args := m.Called(ctx)
	snap, _ := args.Get(0).(*schema.Snapshot)
	return snap, args.Error(1)
}

// GetStatus implements the ArchiveStore interface.
func (m *MockArchiveStore) GetStatus() (schema.ArchiveStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ArchiveStatus), args.Error(1)
}

// Close implements the ArchiveStore interface.
func (m *MockArchiveStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
