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

// Package rewind keeps a frame indexed history of machine snapshots for a
// linked session and rebuilds that history when input from the peer arrives
// late.
//
// Every frame the frame driver adds a State to the History: the input applied
// by the local user and a snapshot of both machines taken before that input
// was applied. Input from the peer is queued as a Patch with
// AddSecondaryInput(). The next call to Merge() rewinds to the earliest
// affected frame, recreates both machines and replays every frame up to the
// most recent, applying local and remote input as it goes. The rebuilt
// history ends with a provisional head state from which the frame driver can
// restore its live machines.
//
// For any frame, the first input recorded for that frame is the input that is
// used. Later inputs for the same frame are ignored.
//
// The History is a ring of fixed capacity. A patch for a frame that has
// already been forgotten cannot be applied and Merge() will return a
// DesyncError.
package rewind
