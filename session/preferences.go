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

package session

import (
	"fmt"

	"github.com/jetsetilly/gopherlink/hardware"
	"github.com/jetsetilly/gopherlink/prefs"
	"github.com/jetsetilly/gopherlink/rewind"
)

// DefaultSyncInterval is the number of frames a linked session can go without
// sending its input to the peer. Once more than this many frames have passed
// the input is sent even if it has not changed.
const DefaultSyncInterval = 5 * hardware.RefreshRate

// Preferences for a session. Values are read when a session is created, with
// the exception of FPS and Pacing which take effect immediately.
type Preferences struct {
	group *prefs.Group

	Rewind *rewind.Preferences

	// number of frames between unconditional sync messages
	SyncInterval prefs.Int

	// frame pacing. if Pacing is false the emulation runs as fast as
	// possible
	FPS    prefs.Float
	Pacing prefs.Bool
}

func (p *Preferences) String() string {
	return p.group.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{
		group:  prefs.NewGroup(),
		Rewind: rewind.NewPreferences(),
	}

	p.SyncInterval.SetHookPre(func(v prefs.Value) error {
		if v.(int) < 1 {
			return fmt.Errorf("session: sync interval must be at least one frame")
		}
		return nil
	})
	p.FPS.SetHookPre(func(v prefs.Value) error {
		if v.(float64) <= 0 {
			return fmt.Errorf("session: fps must be positive")
		}
		return nil
	})

	if err := p.group.Add("rewind.capacity", &p.Rewind.Capacity); err != nil {
		return nil, err
	}
	if err := p.group.Add("link.syncInterval", &p.SyncInterval); err != nil {
		return nil, err
	}
	if err := p.group.Add("limiter.fps", &p.FPS); err != nil {
		return nil, err
	}
	if err := p.group.Add("limiter.pacing", &p.Pacing); err != nil {
		return nil, err
	}

	err := p.SetDefaults()
	if err != nil {
		return nil, err
	}

	return p, nil
}

// SetDefaults reverts all preferences to their default values.
func (p *Preferences) SetDefaults() error {
	if err := p.Rewind.Capacity.Set(rewind.DefaultCapacity); err != nil {
		return err
	}
	if err := p.SyncInterval.Set(DefaultSyncInterval); err != nil {
		return err
	}
	if err := p.FPS.Set(float64(hardware.RefreshRate)); err != nil {
		return err
	}
	return p.Pacing.Set(true)
}

// ApplyCommandLine sets preferences from the most recent group in the
// command-line preferences stack.
func (p *Preferences) ApplyCommandLine() error {
	return p.group.ApplyCommandLine()
}
