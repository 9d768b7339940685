// This file is part of Gopherlink.
//
// Gopherlink is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopherlink is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopherlink.  If not, see <https://www.gnu.org/licenses/>.

// Package savestate keeps save-state slots for each cartridge in a pebble
// database. Slots are keyed by the checksum of the cartridge ROM so that a
// snapshot is never offered to the wrong game.
package savestate

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"

	"github.com/jetsetilly/gopherlink/curated"
	"github.com/jetsetilly/gopherlink/logger"
	"github.com/jetsetilly/gopherlink/snapshot"
)

// NumSlots is the number of save-state slots for each cartridge.
const NumSlots = 10

// List of error patterns.
const (
	StoreError = "savestate: %v"
	EmptySlot  = "savestate: slot %d is empty"
	BadSlot    = "savestate: slot %d does not exist"
)

// Store is the collection of save-state slots.
type Store struct {
	db  *pebble.DB
	log *logger.Logger
}

// Open the store in the directory. If fs is nil the operating system's
// filesystem is used.
func Open(dir string, fs vfs.FS, log *logger.Logger) (*Store, error) {
	if fs == nil {
		fs = vfs.Default
	}
	if log == nil {
		log = logger.Central()
	}

	db, err := pebble.Open(dir, &pebble.Options{FS: fs})
	if err != nil {
		return nil, curated.Errorf(StoreError, err)
	}

	return &Store{db: db, log: log}, nil
}

// Close the store.
func (st *Store) Close() error {
	if err := st.db.Close(); err != nil {
		return curated.Errorf(StoreError, err)
	}
	return nil
}

func key(checksum uint32, slot int) []byte {
	return []byte(fmt.Sprintf("slot/%08x/%d", checksum, slot))
}

// Save the snapshot to the slot for the cartridge. Any existing snapshot in
// the slot is replaced.
func (st *Store) Save(checksum uint32, slot int, s snapshot.Snapshot) error {
	if slot < 0 || slot >= NumSlots {
		return curated.Errorf(BadSlot, slot)
	}

	v := make([]byte, 8, 8+len(s))
	binary.LittleEndian.PutUint64(v, uint64(time.Now().UnixNano()))
	v = append(v, s...)

	if err := st.db.Set(key(checksum, slot), v, pebble.Sync); err != nil {
		return curated.Errorf(StoreError, err)
	}

	st.log.Logf(logger.Allow, "savestate", "saved slot %d (%d bytes)", slot, len(s))
	return nil
}

// Load the snapshot from the slot for the cartridge. Also returns the time the
// snapshot was saved.
func (st *Store) Load(checksum uint32, slot int) (snapshot.Snapshot, time.Time, error) {
	if slot < 0 || slot >= NumSlots {
		return nil, time.Time{}, curated.Errorf(BadSlot, slot)
	}

	v, closer, err := st.db.Get(key(checksum, slot))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, time.Time{}, curated.Errorf(EmptySlot, slot)
		}
		return nil, time.Time{}, curated.Errorf(StoreError, err)
	}
	defer closer.Close()

	if len(v) < 8 {
		return nil, time.Time{}, curated.Errorf(StoreError, curated.Errorf("slot %d is corrupted", slot))
	}

	saved := time.Unix(0, int64(binary.LittleEndian.Uint64(v[:8])))
	s := make(snapshot.Snapshot, len(v)-8)
	copy(s, v[8:])

	st.log.Logf(logger.Allow, "savestate", "loaded slot %d", slot)
	return s, saved, nil
}

// Delete the snapshot in the slot for the cartridge.
func (st *Store) Delete(checksum uint32, slot int) error {
	if slot < 0 || slot >= NumSlots {
		return curated.Errorf(BadSlot, slot)
	}
	if err := st.db.Delete(key(checksum, slot), pebble.Sync); err != nil {
		return curated.Errorf(StoreError, err)
	}
	return nil
}

// Used returns the slots that have a snapshot for the cartridge.
func (st *Store) Used(checksum uint32) ([]int, error) {
	var used []int
	for slot := range NumSlots {
		_, closer, err := st.db.Get(key(checksum, slot))
		if err != nil {
			if errors.Is(err, pebble.ErrNotFound) {
				continue
			}
			return nil, curated.Errorf(StoreError, err)
		}
		closer.Close()
		used = append(used, slot)
	}
	return used, nil
}
