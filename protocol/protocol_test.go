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

package protocol_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/jetsetilly/gopherlink/curated"
	"github.com/jetsetilly/gopherlink/hardware/joypad"
	"github.com/jetsetilly/gopherlink/logger"
	"github.com/jetsetilly/gopherlink/protocol"
	"github.com/jetsetilly/gopherlink/test"
	"github.com/jetsetilly/gopherlink/userinput"
)

func TestSync(t *testing.T) {
	m := protocol.Sync{
		Frame: 42,
		Input: userinput.NewInput([]joypad.Button{joypad.A, joypad.Up}, []joypad.Button{joypad.B}),
	}

	var buf bytes.Buffer
	test.DemandSuccess(t, protocol.Write(&buf, m))

	expected := []byte{0x03, 0, 0, 0, 0, 0, 0, 0, 42, 2, 1, 2, 4, 5}
	test.ExpectSuccess(t, bytes.Equal(buf.Bytes(), expected))

	r, err := protocol.Read(&buf)
	test.DemandSuccess(t, err)
	s, ok := r.(protocol.Sync)
	test.DemandSuccess(t, ok)
	test.ExpectEquality(t, s.Frame, uint64(42))
	test.ExpectSuccess(t, s.Input.Equal(m.Input))
	test.ExpectEquality(t, s.Input.String(), "+UP +A -B")
}

func TestPeerLoaded(t *testing.T) {
	rom := []byte{1, 2, 3, 4, 5}
	bat := []byte{9, 8}

	var buf bytes.Buffer
	test.DemandSuccess(t, protocol.Write(&buf, protocol.PeerLoaded{ROM: rom, Battery: bat}))
	test.DemandSuccess(t, protocol.Write(&buf, protocol.PeerLoaded{ROM: rom}))

	m, err := protocol.Read(&buf)
	test.DemandSuccess(t, err)
	pl := m.(protocol.PeerLoaded)
	test.ExpectSuccess(t, bytes.Equal(pl.ROM, rom))
	test.ExpectSuccess(t, bytes.Equal(pl.Battery, bat))

	m, err = protocol.Read(&buf)
	test.DemandSuccess(t, err)
	pl = m.(protocol.PeerLoaded)
	test.ExpectSuccess(t, bytes.Equal(pl.ROM, rom))
	test.ExpectEquality(t, len(pl.Battery), 0)
}

func TestCommands(t *testing.T) {
	var buf bytes.Buffer
	for _, m := range []protocol.Message{protocol.Reset{}, protocol.Stop{}, protocol.Pause{}, protocol.Resume{}} {
		test.DemandSuccess(t, protocol.Write(&buf, m))
	}
	test.ExpectSuccess(t, bytes.Equal(buf.Bytes(), []byte{0x06, 0x07, 0x08, 0x09}))

	for _, cmd := range []byte{0x06, 0x07, 0x08, 0x09} {
		m, err := protocol.Read(&buf)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, m.Command(), cmd)
	}

	// end of stream at a message boundary
	_, err := protocol.Read(&buf)
	test.ExpectSuccess(t, curated.Is(err, protocol.ReadError))
	test.ExpectSuccess(t, errors.Is(err, io.EOF))
}

func TestShortRead(t *testing.T) {
	var buf bytes.Buffer
	test.DemandSuccess(t, protocol.Write(&buf, protocol.Sync{
		Frame: 7,
		Input: userinput.NewInput([]joypad.Button{joypad.Start}, nil),
	}))

	// every truncation of the message is a short read
	b := buf.Bytes()
	for n := 1; n < len(b); n++ {
		_, err := protocol.Read(bytes.NewReader(b[:n]))
		test.ExpectSuccess(t, curated.Is(err, protocol.ShortRead), n)
		test.ExpectSuccess(t, errors.Is(err, io.ErrUnexpectedEOF), n)
	}
}

func TestMalformed(t *testing.T) {
	// button id out of range
	_, err := protocol.Read(bytes.NewReader([]byte{0x03, 0, 0, 0, 0, 0, 0, 0, 1, 1, 0, 8}))
	test.ExpectSuccess(t, curated.Is(err, protocol.MalformedMessage))

	// negative frame
	_, err = protocol.Read(bytes.NewReader([]byte{0x03, 0xff, 0, 0, 0, 0, 0, 0, 1, 0, 0}))
	test.ExpectSuccess(t, curated.Is(err, protocol.MalformedMessage))

	// ROM too large
	_, err = protocol.Read(bytes.NewReader([]byte{0x01, 0x7f, 0, 0, 0, 0, 0, 0, 0}))
	test.ExpectSuccess(t, curated.Is(err, protocol.MalformedMessage))

	_, err = protocol.Encode(protocol.PeerLoaded{ROM: make([]byte, protocol.MaxROMSize+1)})
	test.ExpectSuccess(t, curated.Is(err, protocol.MalformedMessage))
}

func TestUnknownCommand(t *testing.T) {
	r := bytes.NewReader([]byte{0x42, 0x06})

	_, err := protocol.Read(r)
	test.ExpectSuccess(t, curated.Is(err, protocol.UnknownCommand))

	// the stream continues with the next byte
	m, err := protocol.Read(r)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, m.Command(), protocol.CmdReset)
}

func TestConnection(t *testing.T) {
	a, b := net.Pipe()
	log := logger.NewLogger(100)

	ca := protocol.NewConnection(a, log)
	cb := protocol.NewConnection(b, log)

	received := make(chan protocol.Message, 10)
	resultA := make(chan error, 1)
	resultB := make(chan error, 1)

	go func() {
		resultA <- ca.Run(context.Background(), func(m protocol.Message) {})
	}()
	go func() {
		resultB <- cb.Run(context.Background(), func(m protocol.Message) {
			received <- m
		})
	}()

	sync := protocol.Sync{Frame: 1, Input: userinput.NewInput([]joypad.Button{joypad.Down}, nil)}
	test.DemandSuccess(t, ca.Send(sync))
	test.DemandSuccess(t, ca.Send(protocol.Pause{}))

	m := <-received
	test.ExpectEquality(t, m.Command(), protocol.CmdSync)
	test.ExpectSuccess(t, m.(protocol.Sync).Input.Equal(sync.Input))
	m = <-received
	test.ExpectEquality(t, m.Command(), protocol.CmdPause)

	// closing one end is an error for the other end but not for itself
	test.ExpectSuccess(t, ca.Close())
	test.ExpectSuccess(t, <-resultA)
	test.ExpectFailure(t, <-resultB)

	test.ExpectFailure(t, ca.Send(protocol.Resume{}))

	w := &bytes.Buffer{}
	log.Write(w)
	test.ExpectSuccess(t, bytes.Contains(w.Bytes(), []byte("sent pause")))
	test.ExpectSuccess(t, bytes.Contains(w.Bytes(), []byte("received pause")))
}

func TestConnectionCancel(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	c := protocol.NewConnection(a, logger.NewLogger(10))
	ctx, cancel := context.WithCancel(context.Background())

	result := make(chan error, 1)
	go func() {
		result <- c.Run(ctx, func(m protocol.Message) {})
	}()

	cancel()
	select {
	case err := <-result:
		test.ExpectSuccess(t, err)
	case <-time.After(time.Second):
		t.Fatalf("connection did not end after cancellation")
	}
}
