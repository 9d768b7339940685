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
	"sync"
)

// the command line stack. each entry is a group of key/value pairs
var commandLineStack struct {
	crit   sync.Mutex
	groups []map[string]string
}

// PushCommandLineStack parses a preferences string and adds it as a new
// group. The format of the string is:
//
//	key::value; key::value
//
// Badly formed key/value pairs are ignored.
func PushCommandLineStack(prefs string) {
	commandLineStack.crit.Lock()
	defer commandLineStack.crit.Unlock()

	cl := make(map[string]string)
	for _, p := range strings.Split(prefs, ";") {
		k, v, ok := strings.Cut(p, "::")
		if !ok || strings.Contains(v, "::") {
			continue
		}
		cl[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}

	commandLineStack.groups = append(commandLineStack.groups, cl)
}

// PopCommandLineStack forgets the most recent group added by
// PushCommandLineStack().
//
// Returns the unused preferences of the group as a sorted preferences string.
func PopCommandLineStack() string {
	commandLineStack.crit.Lock()
	defer commandLineStack.crit.Unlock()

	n := len(commandLineStack.groups)
	if n == 0 {
		return ""
	}

	popped := commandLineStack.groups[n-1]
	commandLineStack.groups = commandLineStack.groups[:n-1]

	keys := make([]string, 0, len(popped))
	for k := range popped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := make([]string, 0, len(keys))
	for _, k := range keys {
		s = append(s, fmt.Sprintf("%s::%s", k, popped[k]))
	}

	return strings.Join(s, "; ")
}

// GetCommandLinePref returns the value for key in the most recent group. The
// value is removed from the group when it is returned.
func GetCommandLinePref(key string) (bool, string) {
	commandLineStack.crit.Lock()
	defer commandLineStack.crit.Unlock()

	n := len(commandLineStack.groups)
	if n == 0 {
		return false, ""
	}

	cl := commandLineStack.groups[n-1]
	if v, ok := cl[key]; ok {
		delete(cl, key)
		return true, v
	}

	return false, ""
}
