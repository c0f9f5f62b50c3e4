// store.go
//
// Hierarchical chapter reporting service for the Ladies of the Fellowship dashboard
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of lofreports.
// lofreports is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// lofreports is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with lofreports.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

// Package store holds the organization and report state in memory and
// saves a full snapshot through a Persister after every mutation.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/localnerve/lofreports/internal/metrics"
	"github.com/localnerve/lofreports/internal/models"
	"github.com/sirupsen/logrus"
)

// Persister loads and saves the state document.
type Persister interface {
	// Load returns the stored snapshot, or nil when none was saved yet. A
	// document that exists but does not decode is reported with an error
	// matching models.ErrUnparseableState.
	Load(ctx context.Context) (*models.Snapshot, error)
	// Save stores the snapshot and returns the new document version.
	Save(ctx context.Context, snapshot models.Snapshot) (uint64, error)
}

// Options configures a Store.
type Options struct {
	Persister Persister
	Logger    *logrus.Entry
	Now       func() time.Time
}

// Store is the authoritative state. All readers get copies; writers hold the
// lock through the snapshot save so saved documents follow mutation order.
type Store struct {
	mu        sync.RWMutex
	persister Persister
	log       *logrus.Entry
	now       func() time.Time
	version   uint64

	users          []models.User
	districts      []models.District
	zones          []models.Zone
	areas          []models.Area
	chapters       []models.Chapter
	reportOrder    []models.ReportKey
	chapterReports map[models.ReportKey]models.ChapterReport
	eventReports   []models.EventReport
}

// New creates a store holding snapshot. Nothing is loaded or saved.
func New(opts Options, snapshot models.Snapshot) *Store {
	s := &Store{
		persister: opts.Persister,
		log:       opts.Logger,
		now:       opts.Now,
	}
	if s.log == nil {
		s.log = logrus.NewEntry(logrus.StandardLogger())
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.replace(snapshot)
	return s
}

// Open loads the persisted state. A missing or unparseable document falls
// back to the seed data, and so does every collection absent from a stored
// document. The resulting state is saved once. Any other load failure leaves
// the stored document alone: the store runs on seed data in memory and never
// saves for the rest of its life.
func Open(ctx context.Context, opts Options) (*Store, error) {
	s := New(opts, models.Snapshot{})
	seed, err := Seed(s.now())
	if err != nil {
		return nil, err
	}

	var loaded *models.Snapshot
	if s.persister != nil {
		loaded, err = s.persister.Load(ctx)
		switch {
		case err == nil:
		case errors.Is(err, models.ErrUnparseableState):
			s.log.WithError(err).Warn("stored state unparseable, starting from seed data")
			loaded = nil
		default:
			metrics.PersistenceFailures.Inc()
			s.log.WithError(err).Error("failed to read stored state, running in memory without saving")
			s.persister = nil
			loaded = nil
		}
	}

	state := seed
	if loaded != nil {
		state = mergeWithSeed(*loaded, seed)
	} else {
		s.log.Info("no stored state, starting from seed data")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(state)
	s.commit(ctx)
	return s, nil
}

func mergeWithSeed(loaded, seed models.Snapshot) models.Snapshot {
	if loaded.Users == nil {
		loaded.Users = seed.Users
	}
	if loaded.Districts == nil {
		loaded.Districts = seed.Districts
	}
	if loaded.Zones == nil {
		loaded.Zones = seed.Zones
	}
	if loaded.Areas == nil {
		loaded.Areas = seed.Areas
	}
	if loaded.Chapters == nil {
		loaded.Chapters = seed.Chapters
	}
	if loaded.ChapterReports == nil {
		loaded.ChapterReports = seed.ChapterReports
	}
	if loaded.EventReports == nil {
		loaded.EventReports = seed.EventReports
	}
	return loaded
}

// replace swaps in every collection of snapshot. Callers hold the write lock
// or own the store exclusively.
func (s *Store) replace(snapshot models.Snapshot) {
	s.users = append([]models.User(nil), snapshot.Users...)
	s.districts = append([]models.District(nil), snapshot.Districts...)
	s.zones = append([]models.Zone(nil), snapshot.Zones...)
	s.areas = append([]models.Area(nil), snapshot.Areas...)
	s.chapters = append([]models.Chapter(nil), snapshot.Chapters...)
	s.eventReports = append([]models.EventReport(nil), snapshot.EventReports...)

	s.chapterReports = make(map[models.ReportKey]models.ChapterReport, len(snapshot.ChapterReports))
	s.reportOrder = s.reportOrder[:0]
	for _, r := range snapshot.ChapterReports {
		key := r.Key()
		if _, exists := s.chapterReports[key]; !exists {
			s.reportOrder = append(s.reportOrder, key)
		}
		// a later duplicate of the same key wins, matching upsert semantics
		s.chapterReports[key] = r
	}
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() models.Snapshot {
	reports := make([]models.ChapterReport, 0, len(s.reportOrder))
	for _, key := range s.reportOrder {
		reports = append(reports, s.chapterReports[key])
	}
	return models.Snapshot{
		Users:          append([]models.User{}, s.users...),
		Chapters:       append([]models.Chapter{}, s.chapters...),
		Areas:          append([]models.Area{}, s.areas...),
		Zones:          append([]models.Zone{}, s.zones...),
		Districts:      append([]models.District{}, s.districts...),
		ChapterReports: reports,
		EventReports:   append([]models.EventReport{}, s.eventReports...),
	}
}

// Version is the document version of the last successful save.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// commit saves the current state. A failed save is logged and the in-memory
// state stays authoritative. Callers hold the write lock.
func (s *Store) commit(ctx context.Context) {
	if s.persister == nil {
		return
	}
	version, err := s.persister.Save(ctx, s.snapshotLocked())
	if err != nil {
		metrics.PersistenceFailures.Inc()
		s.log.WithError(err).Error("failed to save state document")
		return
	}
	s.version = version
}

// Restore replaces the whole state with snapshot and saves it.
func (s *Store) Restore(ctx context.Context, snapshot models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replace(snapshot)
	s.commit(ctx)
}
