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

// Package environment provides the context in which a session runs. It is
// particularly useful when more than one session is running in the same
// process, as is the case in the linked session tests.
package environment

import (
	"github.com/jetsetilly/gopherlink/logger"
	"github.com/jetsetilly/gopherlink/notifications"
)

// Label is used to name the environment.
type Label string

// Environment is used to provide context for a session.
type Environment struct {
	Label Label

	// the log for the session. log entries are tagged with the label
	Log *logger.Logger

	// recipient of notifications from the session
	Notify notifications.Notify
}

// NewEnvironment is the preferred method of initialisation for the Environment
// type.
//
// Both the log and the notify arguments can be nil. In the case of the log
// the central logger is used. Notifications sent to a nil notify are
// dropped.
func NewEnvironment(label Label, log *logger.Logger, notify notifications.Notify) *Environment {
	if log == nil {
		log = logger.Central()
	}
	if notify == nil {
		notify = notifications.NotifyFunc(func(_ notifications.Notice, _ string) error {
			return nil
		})
	}
	return &Environment{
		Label:  label,
		Log:    log,
		Notify: notify,
	}
}

// IsMainEmulation returns true if the environment is intended for the main
// session in the process.
func (env *Environment) IsMainEmulation() bool {
	return env.Label == ""
}

// Tag returns the log tag for the subsystem, qualified by the label if the
// environment is not the main environment.
func (env *Environment) Tag(subsystem string) string {
	if env.IsMainEmulation() {
		return subsystem
	}
	return string(env.Label) + "/" + subsystem
}

// Logf adds a formatted entry to the environment's log.
func (env *Environment) Logf(subsystem string, pattern string, args ...any) {
	env.Log.Logf(logger.Allow, env.Tag(subsystem), pattern, args...)
}
