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

package rewind

import (
	"sync"

	"github.com/jetsetilly/gopherlink/curated"
	"github.com/jetsetilly/gopherlink/hardware"
	"github.com/jetsetilly/gopherlink/snapshot"
	"github.com/jetsetilly/gopherlink/userinput"
)

// DesyncError is the error pattern for a history that can no longer be
// reconciled with the input from the peer.
const DesyncError = "rewind: desync: %v"

// DefaultCapacity is the number of states retained by a History unless
// otherwise specified. Five seconds of frames.
const DefaultCapacity = 300

// the smallest number of states a History can retain
const minCapacity = 2

// State is the record of a single frame. States are never modified once they
// have been added to the History.
type State struct {
	Frame uint64

	// the input applied to the main machine at the start of the frame
	Input userinput.Input

	// snapshots of the two machines at the start of the frame, before any
	// input was applied. the peer snapshot is nil if there is no peer machine
	Main snapshot.Snapshot
	Peer snapshot.Snapshot

	// the main machine was reset at the start of the frame
	Reset bool

	// the input applied to the peer machine during the most recent replay and
	// whether the peer machine was reset. valid only if HasRemote is true
	Remote    userinput.Input
	HasRemote bool
	PeerReset bool

	// the head state created by Merge(). it will be replaced by the next call
	// to AddState() for the same frame
	provisional bool
}

// Patch is input from the peer for a frame.
type Patch struct {
	Frame uint64
	Input userinput.Input

	// the peer reset its machine at the start of the frame. a reset patch
	// carries no input
	Reset bool
}

// History is the record of recent frames of a linked session. It is safe to
// use from multiple goroutines.
type History struct {
	crit sync.Mutex

	// circular array of states
	entries []State
	start   int
	count   int

	// patches waiting for the next Merge()
	patches []Patch

	// the instrumentation hook. events from the machines created during a
	// replay are forwarded to this function
	observer func(machine int, ev hardware.Event)
}

// NewHistory is the preferred method of initialisation for the History type.
func NewHistory(capacity int) (*History, error) {
	if capacity < minCapacity {
		return nil, curated.Errorf("rewind: %v", curated.Errorf("capacity of %d is too small", capacity))
	}
	return &History{
		entries: make([]State, capacity),
	}, nil
}

// Capacity returns the maximum number of states retained by the History.
func (h *History) Capacity() int {
	return len(h.entries)
}

// SetReplayObserver sets the function that is called for every event
// published by the machines recreated during Merge(). The machine argument is
// zero for the main machine and one for the peer machine.
func (h *History) SetReplayObserver(f func(machine int, ev hardware.Event)) {
	h.crit.Lock()
	defer h.crit.Unlock()
	h.observer = f
}

// Clear forgets all states and patches.
func (h *History) Clear() {
	h.crit.Lock()
	defer h.crit.Unlock()
	h.clear()
	h.patches = h.patches[:0]
}

func (h *History) clear() {
	for i := range h.entries {
		h.entries[i] = State{}
	}
	h.start = 0
	h.count = 0
}

// at returns a pointer to the i'th retained state, counting from the oldest.
func (h *History) at(i int) *State {
	return &h.entries[(h.start+i)%len(h.entries)]
}

func (h *History) last() *State {
	return h.at(h.count - 1)
}

func (h *History) append(s State) {
	if h.count > 0 {
		if l := h.last(); l.provisional && l.Frame == s.Frame {
			*l = s
			return
		}
	}

	if h.count == len(h.entries) {
		h.start = (h.start + 1) % len(h.entries)
		h.count--
	}
	h.count++
	*h.last() = s
}

// AddState records the input applied to the main machine at the start of the
// frame and the snapshots of both machines taken before the input was applied.
func (h *History) AddState(frame uint64, input userinput.Input, main snapshot.Snapshot, peer snapshot.Snapshot) {
	h.crit.Lock()
	defer h.crit.Unlock()
	h.append(State{
		Frame: frame,
		Input: input,
		Main:  main,
		Peer:  peer,
	})
}

// AddResetState is the same as AddState() except that the main machine is
// also reset at the start of the frame, before the input is applied.
func (h *History) AddResetState(frame uint64, input userinput.Input, main snapshot.Snapshot, peer snapshot.Snapshot) {
	h.crit.Lock()
	defer h.crit.Unlock()
	h.append(State{
		Frame: frame,
		Input: input,
		Main:  main,
		Peer:  peer,
		Reset: true,
	})
}

// AddSecondaryInput queues input from the peer for the next Merge(). Patches
// can be added in any order.
func (h *History) AddSecondaryInput(frame uint64, input userinput.Input) {
	h.crit.Lock()
	defer h.crit.Unlock()
	h.patches = append(h.patches, Patch{Frame: frame, Input: input})
}

// AddPeerReset queues a reset of the peer machine at the start of the frame
// for the next Merge().
func (h *History) AddPeerReset(frame uint64) {
	h.crit.Lock()
	defer h.crit.Unlock()
	h.patches = append(h.patches, Patch{Frame: frame, Reset: true})
}

// DiscardPatches forgets all patches waiting for the next Merge().
func (h *History) DiscardPatches() {
	h.crit.Lock()
	defer h.crit.Unlock()
	h.patches = h.patches[:0]
}

// Head returns the most recently added state.
func (h *History) Head() (State, bool) {
	h.crit.Lock()
	defer h.crit.Unlock()
	if h.count == 0 {
		return State{}, false
	}
	return *h.last(), true
}

// State returns the retained state for the frame.
func (h *History) State(frame uint64) (State, bool) {
	h.crit.Lock()
	defer h.crit.Unlock()
	if i := h.find(frame); i >= 0 {
		return *h.at(i), true
	}
	return State{}, false
}

// find the index of the retained state for the frame. returns -1 if there is
// no state for the frame. frames are in ascending order but need not be
// contiguous
func (h *History) find(frame uint64) int {
	lo, hi := 0, h.count-1
	for lo <= hi {
		m := (lo + hi) / 2
		s := h.at(m)
		switch {
		case s.Frame == frame:
			return m
		case s.Frame < frame:
			lo = m + 1
		default:
			hi = m - 1
		}
	}
	return -1
}

// truncate forgets the state at index i and every state after it
func (h *History) truncate(i int) {
	for j := i; j < h.count; j++ {
		*h.at(j) = State{}
	}
	h.count = i
}
