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

// Package easyterm is a wrapper for "github.com/pkg/term/termios". It wraps
// termios functions in functions with friendlier names and provides a reader
// suitable for polling the keyboard.
package easyterm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
)

// the size of the buffer used by ReadKeys()
const readBufferSize = 32

// Terminal is the main container for posix terminals.
type Terminal struct {
	crit sync.Mutex

	input *os.File

	canAttr    unix.Termios
	cbreakAttr unix.Termios

	cbreak bool
}

// Initialise the terminal. Fails if the input file is not a terminal.
func (pt *Terminal) Initialise(input *os.File) error {
	if input == nil {
		return fmt.Errorf("easyterm: terminal requires an input file")
	}

	pt.input = input

	if err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr); err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}

	// cbreak mode with a read timeout of one tenth of a second. a read will
	// return with no data if the timeout expires
	pt.cbreakAttr = pt.canAttr
	termios.Cfmakecbreak(&pt.cbreakAttr)

	// the interrupt and suspend keys are delivered to ReadKeys() rather than
	// raising signals
	pt.cbreakAttr.Lflag &^= unix.ISIG
	pt.cbreakAttr.Cc[unix.VMIN] = 0
	pt.cbreakAttr.Cc[unix.VTIME] = 1

	return nil
}

// CanonicalMode puts terminal into normal, everyday canonical mode.
func (pt *Terminal) CanonicalMode() error {
	pt.crit.Lock()
	defer pt.crit.Unlock()
	if err := termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.canAttr); err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}
	pt.cbreak = false
	return nil
}

// CBreakMode puts terminal into cbreak mode. Key presses are available to
// ReadKeys() as soon as they are made.
func (pt *Terminal) CBreakMode() error {
	pt.crit.Lock()
	defer pt.crit.Unlock()
	if err := termios.Tcsetattr(pt.input.Fd(), termios.TCSANOW, &pt.cbreakAttr); err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}
	pt.cbreak = true
	return nil
}

// InCBreakMode returns true if the terminal is in cbreak mode.
func (pt *Terminal) InCBreakMode() bool {
	pt.crit.Lock()
	defer pt.crit.Unlock()
	return pt.cbreak
}

// Flush makes sure the terminal's input buffer is empty.
func (pt *Terminal) Flush() error {
	if err := termios.Tcflush(pt.input.Fd(), termios.TCIFLUSH); err != nil {
		return fmt.Errorf("easyterm: %w", err)
	}
	return nil
}

// ReadKeys reads from the terminal until the context is cancelled. Every
// non-empty read is passed to the function. The function is also called with
// an empty slice whenever a read times out so that it can do time based work.
//
// The terminal should be in cbreak mode.
func (pt *Terminal) ReadKeys(ctx context.Context, f func([]byte)) error {
	b := make([]byte, readBufferSize)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := pt.input.Read(b)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("easyterm: %w", err)
		}
		f(b[:n])
	}
}
