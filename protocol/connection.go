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

package protocol

import (
	"bufio"
	"context"
	"io"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jetsetilly/gopherlink/curated"
	"github.com/jetsetilly/gopherlink/logger"
)

// Handler is called by Connection.Run() for every message received from the
// peer. It is called from the reader goroutine.
type Handler func(Message)

// Connection is a link to the peer over a reliable and ordered transport.
type Connection struct {
	rwc io.ReadWriteCloser
	log *logger.Logger

	// writes are made synchronously by any goroutine
	crit sync.Mutex

	closed atomic.Bool
}

// NewConnection is the preferred method of initialisation for the Connection
// type. If log is nil the central logger is used.
func NewConnection(rwc io.ReadWriteCloser, log *logger.Logger) *Connection {
	if log == nil {
		log = logger.Central()
	}
	return &Connection{
		rwc: rwc,
		log: log,
	}
}

// Send a message to the peer. Safe to call from any goroutine.
func (c *Connection) Send(m Message) error {
	if c.closed.Load() {
		return curated.Errorf(WriteError, "connection closed")
	}

	c.crit.Lock()
	defer c.crit.Unlock()

	if err := Write(c.rwc, m); err != nil {
		return err
	}

	if _, ok := m.(Sync); !ok {
		c.log.Logf(logger.Allow, "protocol", "sent %v", m)
	}

	return nil
}

// Close the connection. Run() will return nil once the connection is closed.
func (c *Connection) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return c.rwc.Close()
}

// Run reads messages from the peer until the connection fails, the connection
// is closed or the context is cancelled. Each message is passed to the
// handler.
//
// Returns nil if the connection was closed locally, otherwise it returns the
// error that ended the connection. The connection is always closed when Run()
// returns.
func (c *Connection) Run(ctx context.Context, handler Handler) error {
	g, ctx := errgroup.WithContext(ctx)
	done := make(chan struct{})

	g.Go(func() error {
		defer close(done)

		r := bufio.NewReader(c.rwc)
		for {
			m, err := Read(r)
			if err != nil {
				if curated.Is(err, UnknownCommand) {
					c.log.Log(logger.Allow, "protocol", err)
					continue
				}
				if c.closed.Load() {
					return nil
				}
				c.Close()
				c.log.Log(logger.Allow, "protocol", err)
				return err
			}

			if _, ok := m.(Sync); !ok {
				c.log.Logf(logger.Allow, "protocol", "received %v", m)
			}
			handler(m)
		}
	})

	g.Go(func() error {
		select {
		case <-ctx.Done():
			c.Close()
		case <-done:
		}
		return nil
	})

	return g.Wait()
}
