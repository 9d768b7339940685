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

// Timeline provides a summary of the current state of the history.
//
// Useful for presenting the range of frames that can still be corrected by
// input from the peer.
type Timeline struct {
	Frames      []uint64
	LocalInput  []bool
	RemoteInput []bool

	// the earliest and latest frames in the history
	AvailableStart uint64
	AvailableEnd   uint64

	// the number of patches waiting for the next Merge()
	Pending int
}

// GetTimeline returns a summary of the history.
func (h *History) GetTimeline() Timeline {
	h.crit.Lock()
	defer h.crit.Unlock()

	tl := Timeline{
		Frames:      make([]uint64, 0, h.count),
		LocalInput:  make([]bool, 0, h.count),
		RemoteInput: make([]bool, 0, h.count),
		Pending:     len(h.patches),
	}

	if h.count == 0 {
		return tl
	}

	tl.AvailableStart = h.at(0).Frame
	tl.AvailableEnd = h.last().Frame

	for i := 0; i < h.count; i++ {
		s := h.at(i)
		tl.Frames = append(tl.Frames, s.Frame)
		tl.LocalInput = append(tl.LocalInput, !s.Input.IsEmpty())
		tl.RemoteInput = append(tl.RemoteInput, s.HasRemote && !s.Remote.IsEmpty())
	}

	return tl
}
