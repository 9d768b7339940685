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

package performance

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jetsetilly/gopherlink/curated"
	"github.com/jetsetilly/gopherlink/environment"
	"github.com/jetsetilly/gopherlink/hardware"
	"github.com/jetsetilly/gopherlink/hardware/joypad"
	"github.com/jetsetilly/gopherlink/protocol"
	"github.com/jetsetilly/gopherlink/random"
	"github.com/jetsetilly/gopherlink/session"
	"github.com/jetsetilly/gopherlink/userinput"
)

// sentinal error returned by the run loop.
var timedOut = errors.New("performance timed out")

// the longest leadtime before measurement starts
const maxLeadtime = 2 * time.Second

// Config for Check(). All fields are required.
type Config struct {
	Env   *environment.Environment
	Prefs *session.Preferences

	// the cartridge is loaded by both sides of the link
	Cartridge *hardware.Cartridge

	// length of time to measure for
	Duration time.Duration

	// number of frames that messages are delayed by
	Latency uint64

	Profile        Profile
	FilenameHeader string
}

// Check the performance of a pair of linked sessions using the supplied
// configuration. Results are written to output.
func Check(output io.Writer, cfg Config) error {
	if cfg.Env == nil || cfg.Prefs == nil || cfg.Cartridge == nil {
		return curated.Errorf("performance: %v", "incomplete configuration")
	}
	if cfg.Duration <= 0 {
		return curated.Errorf("performance: %v", "duration must be positive")
	}

	host, err := newSide(cfg, true, 0x2600)
	if err != nil {
		return err
	}
	join, err := newSide(cfg, false, 0x0600)
	if err != nil {
		return err
	}

	var startFrame uint64

	runner := func() error {
		// signals false when the leadtime has elapsed and true when the
		// measurement period has finished
		timerChan := make(chan bool, 2)

		leadtime := cfg.Duration / 4
		if leadtime > maxLeadtime {
			leadtime = maxLeadtime
		}

		time.AfterFunc(leadtime, func() {
			timerChan <- false
			time.AfterFunc(cfg.Duration, func() {
				timerChan <- true
			})
		})

		for {
			select {
			case v := <-timerChan:
				if v {
					return timedOut
				}
				startFrame = host.link.Frame()
			default:
			}

			if err := host.frame(join, cfg.Latency); err != nil {
				return err
			}
			if err := join.frame(host, cfg.Latency); err != nil {
				return err
			}
		}
	}

	err = RunProfiler(cfg.Profile, cfg.FilenameHeader, runner)
	if err != nil && !errors.Is(err, timedOut) {
		return curated.Errorf("performance: %v", err)
	}

	numFrames := int(host.link.Frame() - startFrame)
	fps, accuracy := CalcFPS(numFrames, cfg.Duration.Seconds())
	output.Write([]byte(fmt.Sprintf("%.2f fps (%d frames in %.2f seconds) %.1f%%\n", fps, numFrames, cfg.Duration.Seconds(), accuracy)))

	return nil
}

// one side of the link
type side struct {
	link  *session.Linked
	input *userinput.Aggregator
	rnd   *random.Random

	// messages sent by this side waiting to be delivered to the other side
	outbound []sent
}

type sent struct {
	frame uint64
	m     protocol.Message
}

func newSide(cfg Config, master bool, seed int64) (*side, error) {
	s := &side{
		input: &userinput.Aggregator{},
	}

	var err error
	s.link, err = session.NewLinked(cfg.Env, cfg.Prefs, session.Machines{
		Main:   cfg.Cartridge,
		Peer:   cfg.Cartridge,
		Master: master,
	}, s.input, s, nil)
	if err != nil {
		return nil, curated.Errorf("performance: %v", err)
	}

	s.rnd = random.NewRandom(s.link, seed)
	s.rnd.ZeroSeed = true

	return s, nil
}

// Send implements the session.Sender interface.
func (s *side) Send(m protocol.Message) error {
	s.outbound = append(s.outbound, sent{frame: s.link.Frame(), m: m})
	return nil
}

// run a single frame of this side after delivering the messages from the
// other side that are at least latency frames old
func (s *side) frame(other *side, latency uint64) error {
	for len(other.outbound) > 0 && other.outbound[0].frame+latency <= s.link.Frame() {
		switch m := other.outbound[0].m.(type) {
		case protocol.Sync:
			s.link.RemoteInput(m.Frame, m.Input)
		case protocol.Reset:
			s.link.RemoteReset()
		}
		other.outbound = other.outbound[1:]
	}

	// occasional input keeps the peers diverging from their predictions
	rng := s.rnd.Rand()
	if rng.Intn(8) == 0 {
		b := joypad.Button(rng.Intn(int(joypad.NumButtons)))
		if rng.Intn(2) == 0 {
			s.input.Press(b)
		} else {
			s.input.Release(b)
		}
	}

	return s.link.RunFrame()
}
