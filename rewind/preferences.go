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
	"fmt"

	"github.com/jetsetilly/gopherlink/prefs"
)

// the largest capacity that can be set through the preferences. about a
// minute of frames
const maxCapacity = 3600

// Preferences for the rewind package. A change of capacity takes effect when
// the next History is created.
type Preferences struct {
	Capacity prefs.Int
}

func (p *Preferences) String() string {
	return fmt.Sprintf("capacity: %s", p.Capacity.String())
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type.
func NewPreferences() *Preferences {
	p := &Preferences{}
	p.Capacity.SetHookPre(func(v prefs.Value) error {
		if n := v.(int); n < minCapacity || n > maxCapacity {
			return fmt.Errorf("rewind: capacity must be between %d and %d", minCapacity, maxCapacity)
		}
		return nil
	})
	_ = p.Capacity.Set(DefaultCapacity)
	return p
}

// NewHistory creates a History with the preferred capacity.
func (p *Preferences) NewHistory() (*History, error) {
	return NewHistory(p.Capacity.Get().(int))
}
