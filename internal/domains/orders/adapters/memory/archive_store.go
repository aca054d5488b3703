package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/domain"
	"github.com/Apurer/go-inventory-dashboard/internal/domains/orders/ports"
)

var _ ports.ArchiveStore = (*ArchiveStore)(nil)

// ArchiveStore is an in-memory append-only archive collection.
type ArchiveStore struct {
	mu      sync.RWMutex
	records []domain.ArchivedOrderRecord
	ids     map[string]struct{}
}

func NewArchiveStore() *ArchiveStore {
	return &ArchiveStore{ids: map[string]struct{}{}}
}

func (s *ArchiveStore) Append(_ context.Context, record domain.ArchivedOrderRecord) error {
	if record.ArchiveID == "" {
		return errors.New("archive id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.ids[record.ArchiveID]; exists {
		return nil
	}
	s.ids[record.ArchiveID] = struct{}{}
	s.records = append(s.records, cloneArchive(record))
	return nil
}

func (s *ArchiveStore) FindByOrderID(_ context.Context, orderID int64) ([]domain.ArchivedOrderRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ArchivedOrderRecord, 0)
	for _, record := range s.records {
		if record.OrderID == orderID {
			out = append(out, cloneArchive(record))
		}
	}
	return out, nil
}

// Len reports how many records were appended.
func (s *ArchiveStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func cloneArchive(record domain.ArchivedOrderRecord) domain.ArchivedOrderRecord {
	record.Order = cloneRecords(record.Order)
	record.OrderItems = cloneRecords(record.OrderItems)
	record.Shipments = cloneRecords(record.Shipments)
	return record
}

func cloneRecords(in []domain.Record) []domain.Record {
	out := make([]domain.Record, 0, len(in))
	for _, r := range in {
		out = append(out, r.Clone())
	}
	return out
}
