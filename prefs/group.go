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

package prefs

import (
	"fmt"
	"sort"
	"strings"
)

// Group is a named collection of preference values.
type Group struct {
	entries map[string]pref
}

// NewGroup is the preferred method of initialisation for the Group type.
func NewGroup() *Group {
	return &Group{
		entries: make(map[string]pref),
	}
}

// Add preference value to the group. The key must be unique.
func (g *Group) Add(key string, p pref) error {
	if strings.Contains(key, "::") || strings.Contains(key, ";") {
		return fmt.Errorf("prefs: illegal key %q", key)
	}
	if _, ok := g.entries[key]; ok {
		return fmt.Errorf("prefs: duplicate key %q", key)
	}
	g.entries[key] = p
	return nil
}

// ApplyCommandLine sets every value in the group that has an entry in the most
// recent command-line group. Used entries are removed from the command-line
// group.
func (g *Group) ApplyCommandLine() error {
	for _, k := range g.keys() {
		if ok, v := GetCommandLinePref(k); ok {
			if err := g.entries[k].Set(v); err != nil {
				return fmt.Errorf("prefs: %s: %w", k, err)
			}
		}
	}
	return nil
}

// Reset all values in the group.
func (g *Group) Reset() error {
	for _, k := range g.keys() {
		if err := g.entries[k].Reset(); err != nil {
			return fmt.Errorf("prefs: %s: %w", k, err)
		}
	}
	return nil
}

func (g *Group) keys() []string {
	keys := make([]string, 0, len(g.entries))
	for k := range g.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns every entry in the group, one per line and sorted by key.
func (g *Group) String() string {
	s := strings.Builder{}
	for _, k := range g.keys() {
		s.WriteString(fmt.Sprintf("%s :: %s\n", k, g.entries[k]))
	}
	return s.String()
}
