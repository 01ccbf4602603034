package repo

import (
	"context"
	"sync"

	"codeeditor/internal/services/api/buildlogs/domain"
)

// Memory keeps the latest build per participation in process
// used when clickhouse is disabled
type Memory struct {
	mu     sync.RWMutex
	builds map[int64][]row
	ids    map[int64]string
}

// NewMemory returns an empty in process archive
func NewMemory() *Memory {
	return &Memory{builds: map[int64][]row{}, ids: map[int64]string{}}
}

// Append replaces the stored build of the participation
func (m *Memory) Append(_ context.Context, b domain.Build) error {
	rows := toRows(b)
	m.mu.Lock()
	m.builds[b.ParticipationID] = rows
	m.ids[b.ParticipationID] = b.BuildID
	m.mu.Unlock()
	return nil
}

// Latest returns a copy of the stored build
func (m *Memory) Latest(_ context.Context, participationID int64) (domain.Build, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.ids[participationID]
	if !ok {
		return domain.Build{}, false, nil
	}
	rows := m.builds[participationID]
	b := domain.Build{ParticipationID: participationID, BuildID: id}
	for _, r := range rows {
		b.ReceivedAt = r.ReceivedAt
		b.Lines = append(b.Lines, fromRow(r))
	}
	return b, true, nil
}
