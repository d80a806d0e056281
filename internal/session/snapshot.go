package session

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"peerprep/interview/internal/models"
)

// SchemaVersion keys persisted snapshots so incompatible layouts are not loaded
const SchemaVersion = "interview.v1"

var ErrSchemaMismatch = errors.New("snapshot schema version mismatch")

// Snapshot is the whole repository state as persisted by a store
type Snapshot struct {
	SchemaVersion string                             `json:"schema_version" bson:"schema_version"`
	Order         []string                           `json:"order" bson:"order"`
	ActiveID      string                             `json:"active_id" bson:"active_id"`
	WelcomeBackID string                             `json:"welcome_back_id" bson:"welcome_back_id"`
	Records       map[string]*models.CandidateRecord `json:"records" bson:"records"`
	Revision      uint64                             `json:"revision" bson:"revision"`
	SavedAt       time.Time                          `json:"saved_at" bson:"saved_at"`
}

func (r *Repository) Snapshot() *Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := &Snapshot{
		SchemaVersion: SchemaVersion,
		Order:         append([]string(nil), r.order...),
		ActiveID:      r.activeID,
		WelcomeBackID: r.welcomeBackID,
		Records:       make(map[string]*models.CandidateRecord, len(r.records)),
		Revision:      r.revision,
		SavedAt:       r.clock.Now(),
	}
	for id, rec := range r.records {
		snap.Records[id] = rec.Clone()
	}
	return snap
}

// Restore replaces the repository contents with a snapshot. Ids in the order
// without a record are dropped, as are dangling active and welcome-back ids.
func (r *Repository) Restore(snap *Snapshot) error {
	if snap == nil {
		return nil
	}
	if snap.SchemaVersion != SchemaVersion {
		return fmt.Errorf("restore %q: %w", snap.SchemaVersion, ErrSchemaMismatch)
	}

	records := make(map[string]*models.CandidateRecord, len(snap.Records))
	for id, rec := range snap.Records {
		if rec == nil {
			continue
		}
		records[id] = rec.Clone()
	}

	order := make([]string, 0, len(snap.Order))
	seen := make(map[string]bool, len(snap.Order))
	for _, id := range snap.Order {
		if _, ok := records[id]; ok && !seen[id] {
			order = append(order, id)
			seen[id] = true
		}
	}
	var orphans []string
	for id := range records {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	order = append(order, orphans...)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = records
	r.order = order
	r.activeID = ""
	if _, ok := records[snap.ActiveID]; ok {
		r.activeID = snap.ActiveID
	}
	r.welcomeBackID = ""
	if _, ok := records[snap.WelcomeBackID]; ok {
		r.welcomeBackID = snap.WelcomeBackID
	}
	// keep the counter moving forward so an unchanged restore is not saved again as new
	if snap.Revision > r.revision {
		r.revision = snap.Revision
	}
	return nil
}
