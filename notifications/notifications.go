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

// Package notifications allow communication from an emulation session to the
// presentation layer. For example, the loss of the link to the peer is sent as
// a notification so that the user can be told.
package notifications

// Notice describes events that somehow change the presentation of the
// emulation.
type Notice string

// List of defined notifications.
const (
	// the emulation has started. the detail is the title of the cartridge
	NotifyEmulationStarted Notice = "NotifyEmulationStarted"
	NotifyEmulationStopped Notice = "NotifyEmulationStopped"
	NotifyEmulationPaused  Notice = "NotifyEmulationPaused"
	NotifyEmulationResumed Notice = "NotifyEmulationResumed"

	// the peer has loaded a game. the detail is the title of the cartridge
	NotifyPeerLoaded Notice = "NotifyPeerLoaded"

	// the link to the peer has been lost and the emulation has continued in
	// standalone mode
	NotifyLinkLost Notice = "NotifyLinkLost"

	// the history could not be reconciled with the input from the peer. the
	// detail is the error
	NotifyDesync Notice = "NotifyDesync"

	// save state notifications. the detail is the slot
	NotifySnapshotSaved  Notice = "NotifySnapshotSaved"
	NotifySnapshotLoaded Notice = "NotifySnapshotLoaded"
)

// Notify is implemented by anything that wants to receive notifications.
type Notify interface {
	Notify(notice Notice, detail string) error
}

// NotifyFunc allows a function to be used as a Notify implementation.
type NotifyFunc func(notice Notice, detail string) error

// Notify implements the Notify interface.
func (f NotifyFunc) Notify(notice Notice, detail string) error {
	return f(notice, detail)
}
