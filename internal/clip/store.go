package clip

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"rolldepot/internal/schedule"
	"rolldepot/internal/tracks"
)

// ErrNoRecords means the pasted block was rejected wholesale: required
// headers missing or no row parsed.
var ErrNoRecords = errors.New("no importable records in pasted text")

// Store holds the clipboard record set with its depot/date indexes. The
// record set is replaced wholesale on each import; the depot/date indexes
// are seeds that only grow; track assignments survive through the injected
// side channel.
type Store struct {
	mu        sync.RWMutex
	records   []Record
	depotList []string
	dateList  []string

	Tracks tracks.Store
	Diag   schedule.Diag

	lastImported time.Time
}

func NewStore(trackStore tracks.Store, diag schedule.Diag) *Store {
	if trackStore == nil {
		trackStore = tracks.NewMemoryStore()
	}
	return &Store{Tracks: trackStore, Diag: diag}
}

// ImportFromText replaces the record set from one pasted block. Track
// assignments carried by the outgoing records are saved to the side channel
// before the set is cleared and restored by record ID afterwards.
func (s *Store) ImportFromText(ctx context.Context, text string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	diag := s.diag()

	assignments := make(map[string]string)
	for _, record := range s.records {
		if record.TargetTrack != "" {
			assignments[record.ID] = record.TargetTrack
		}
	}
	if len(assignments) > 0 {
		if err := s.Tracks.Save(ctx, assignments); err != nil {
			diag.Error("saving track assignments failed", map[string]any{
				"error": err.Error(),
			})
		} else {
			diag.Info("track assignments saved", map[string]any{
				"count": len(assignments),
			})
		}
	}

	s.records = nil

	result := ParseTabData(text, s.depotList, s.dateList)
	if len(result.Records) == 0 {
		diag.Warn("clipboard import rejected", map[string]any{
			"reason": "missing headers or no parseable rows",
		})
		return 0, ErrNoRecords
	}
	s.depotList = result.DepotList
	s.dateList = result.DateList

	now := time.Now()
	for _, record := range result.Records {
		s.upsertLocked(record, now)
	}

	saved, err := s.Tracks.Load(ctx)
	if err != nil {
		diag.Error("loading track assignments failed", map[string]any{
			"error": err.Error(),
		})
	} else {
		restored := 0
		for i := range s.records {
			if track, ok := saved[s.records[i].ID]; ok && track != "" {
				s.records[i].TargetTrack = track
				restored++
			}
		}
		if restored > 0 {
			diag.Info("track assignments restored", map[string]any{
				"count": restored,
			})
		}
	}

	s.lastImported = now
	diag.Info("clipboard import finished", map[string]any{
		"recordCount": len(s.records),
	})
	return len(s.records), nil
}

// upsertLocked inserts a record or, when the deterministic ID repeats inside
// one block, refreshes the existing entry.
func (s *Store) upsertLocked(record Record, now time.Time) {
	for i := range s.records {
		if s.records[i].ID == record.ID {
			record.CreatedAt = s.records[i].CreatedAt
			record.UpdatedAt = now
			s.records[i] = record
			return
		}
	}
	record.CreatedAt = now
	record.UpdatedAt = now
	s.records = append(s.records, record)
}

// UpdateRecord applies a track change to one record by ID.
func (s *Store) UpdateRecord(id string, targetTrack, startingTrack string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		if targetTrack != "" {
			s.records[i].TargetTrack = targetTrack
		}
		if startingTrack != "" {
			s.records[i].StartingTrack = startingTrack
		}
		s.records[i].UpdatedAt = time.Now()
		return true
	}
	return false
}

// Records returns a copy of the current record set.
func (s *Store) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Record(nil), s.records...)
}

// Depots returns the accumulated depot index, sorted.
func (s *Store) Depots() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]string(nil), s.depotList...)
	sort.Strings(out)
	return out
}

// Dates returns the accumulated date index, sorted.
func (s *Store) Dates() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]string(nil), s.dateList...)
	sort.Strings(out)
	return out
}

func (s *Store) diag() schedule.Diag {
	if s.Diag == nil {
		return schedule.SlogDiag{}
	}
	return s.Diag
}
