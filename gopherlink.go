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

package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"time"

	"github.com/cockroachdb/pebble/vfs"
	"go.uber.org/zap"

	"github.com/jetsetilly/gopherlink/easyterm"
	"github.com/jetsetilly/gopherlink/emulation"
	"github.com/jetsetilly/gopherlink/environment"
	"github.com/jetsetilly/gopherlink/hardware"
	"github.com/jetsetilly/gopherlink/linkconfig"
	"github.com/jetsetilly/gopherlink/logger"
	"github.com/jetsetilly/gopherlink/modalflag"
	"github.com/jetsetilly/gopherlink/notifications"
	"github.com/jetsetilly/gopherlink/paths"
	"github.com/jetsetilly/gopherlink/performance"
	"github.com/jetsetilly/gopherlink/prefs"
	"github.com/jetsetilly/gopherlink/protocol"
	"github.com/jetsetilly/gopherlink/savestate"
	"github.com/jetsetilly/gopherlink/session"
	"github.com/jetsetilly/gopherlink/statsview"
	"github.com/jetsetilly/gopherlink/userinput"
	"github.com/jetsetilly/gopherlink/version"
	"github.com/jetsetilly/gopherlink/wavwriter"
)

type stateReq = string

const (
	// main thread should end as soon as possible.
	//
	// takes optional int argument, indicating the status code.
	reqQuit stateReq = "QUIT"

	// stop handling the interrupt signal in main(). used when the running
	// mode handles the interrupt signal itself.
	//
	// takes no arguments.
	reqNoIntSig stateReq = "NOINTSIG"
)

type stateRequest struct {
	req  stateReq
	args interface{}
}

// communication between the main() function and the launch() function.
type mainSync struct {
	state chan stateRequest
}

// the save-state slot used by the save and load keys
const quickSlot = 0

func main() {
	sync := &mainSync{
		state: make(chan stateRequest),
	}

	// the value to use with os.Exit(). can be changed with reqQuit
	// stateRequest
	exitVal := 0

	// default handler. can be turned off with reqNoIntSig request
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	go launch(sync, os.Args[1:])

	done := false
	for !done {
		select {
		case <-intChan:
			fmt.Println("\r")
			done = true

		case state := <-sync.state:
			switch state.req {
			case reqQuit:
				done = true
				if state.args != nil {
					if v, ok := state.args.(int); ok {
						exitVal = v
					} else {
						panic(fmt.Sprintf("cannot convert %s arguments into int", reqQuit))
					}
				}

			case reqNoIntSig:
				signal.Stop(intChan)
				if state.args != nil {
					panic(fmt.Sprintf("%s does not accept any arguments", reqNoIntSig))
				}
			}
		}
	}

	fmt.Print("\r")
	os.Exit(exitVal)
}

// launch is called from main() as a goroutine. uses mainSync instance to
// quit.
func launch(sync *mainSync, args []string) {
	md := &modalflag.Modes{Output: os.Stdout}
	md.NewArgs(args)
	md.NewMode()
	md.AddSubModes("PLAY", "HOST", "JOIN", "PERFORMANCE", "VERSION")

	p, err := md.Parse()
	switch p {
	case modalflag.ParseHelp:
		sync.state <- stateRequest{req: reqQuit}
		return

	case modalflag.ParseError:
		fmt.Printf("* error: %v\n", err)
		sync.state <- stateRequest{req: reqQuit, args: 10}
		return
	}

	switch md.Mode() {
	case "PLAY":
		err = play(md, sync)

	case "HOST":
		err = host(md, sync)

	case "JOIN":
		err = join(md, sync)

	case "PERFORMANCE":
		err = perform(md)

	case "VERSION":
		err = showVersion(md)
	}

	if err != nil {
		fmt.Printf("* error in %s mode: %s\n", md.String(), err)
		sync.state <- stateRequest{req: reqQuit, args: 20}
		return
	}

	sync.state <- stateRequest{req: reqQuit}
}

// flags shared by the PLAY, HOST and JOIN modes
type runFlags struct {
	log       *bool
	jsonlog   *bool
	wav       *string
	battery   *string
	states    *string
	prefs     *string
	visualise *string
	stats     *bool
}

func addRunFlags(md *modalflag.Modes) runFlags {
	f := runFlags{
		log:       md.AddBool("log", false, "echo debugging log to stdout"),
		jsonlog:   md.AddBool("jsonlog", false, "echo debugging log to stderr as JSON"),
		wav:       md.AddString("wav", "", "record audio to wav file"),
		battery:   md.AddString("battery", "", "battery backed RAM to load with the cartridge"),
		states:    md.AddString("states", "", "directory of the save-state database"),
		prefs:     md.AddString("prefs", "", "preferences for this run. eg. \"link.syncInterval::60; limiter.fps::59.7\""),
		visualise: md.AddString("visualise", "", "write the rollback history as a dot graph when the emulation ends"),
	}
	if statsview.Available() {
		f.stats = md.AddBool("statsview", false, fmt.Sprintf("run stats server (%s)", statsview.Address))
	}
	return f
}

// set the echo of the central logger. the returned function should be called
// when the echo is no longer required
func setEcho(f runFlags) (func(), error) {
	switch {
	case *f.jsonlog:
		z, err := zap.NewProduction()
		if err != nil {
			return nil, err
		}
		logger.SetEcho(logger.NewZapWriter(z))
		return func() {
			logger.SetEcho(nil)
			_ = z.Sync()
		}, nil
	case *f.log:
		logger.SetEcho(os.Stdout)
	default:
		logger.SetEcho(nil)
	}
	return func() { logger.SetEcho(nil) }, nil
}

func loadCartridge(romFile string, batteryFile string) (*hardware.Cartridge, error) {
	rom, err := os.ReadFile(romFile)
	if err != nil {
		return nil, err
	}

	var battery []byte
	if batteryFile != "" {
		battery, err = os.ReadFile(batteryFile)
		if err != nil {
			return nil, err
		}
	}

	return hardware.NewCartridge(rom, battery)
}

func play(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()
	f := addRunFlags(md)

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one cartridge required for %s mode", md)
	}

	cfg, err := linkconfig.Standalone(linkconfig.Args{States: *f.states})
	if err != nil {
		return err
	}

	return run(sync, f, cfg, md.GetArg(0), nil)
}

func host(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()
	f := addRunFlags(md)
	bind := md.AddString("bind", linkconfig.DefaultBind, "address to listen on. can be a sockaddr template. eg. \"{{ GetPrivateIP }}\"")
	port := md.AddInt("port", linkconfig.DefaultPort, "port to listen on")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one cartridge required for %s mode", md)
	}

	cfg, err := linkconfig.Host(linkconfig.Args{
		Bind:   *bind,
		Port:   *port,
		States: *f.states,
	})
	if err != nil {
		return err
	}

	return run(sync, f, cfg, md.GetArg(0), func(ctx context.Context) (net.Conn, bool, error) {
		var lc net.ListenConfig
		l, err := lc.Listen(ctx, "tcp", cfg.Address)
		if err != nil {
			return nil, false, err
		}
		defer l.Close()

		fmt.Printf("* waiting for peer on %s\n", l.Addr())

		// close the listener if the context is cancelled while waiting
		stop := context.AfterFunc(ctx, func() { l.Close() })
		defer stop()

		conn, err := l.Accept()
		if err != nil {
			return nil, false, err
		}
		return conn, true, nil
	})
}

func join(md *modalflag.Modes, sync *mainSync) error {
	md.NewMode()
	f := addRunFlags(md)
	port := md.AddInt("port", linkconfig.DefaultPort, "port to connect to if the address does not specify one")
	md.AdditionalHelp("JOIN mode requires the address of the host and a cartridge")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 2 {
		return fmt.Errorf("host address and cartridge required for %s mode", md)
	}

	cfg, err := linkconfig.Join(linkconfig.Args{
		Peer:   md.GetArg(0),
		Port:   *port,
		States: *f.states,
	})
	if err != nil {
		return err
	}

	return run(sync, f, cfg, md.GetArg(1), func(ctx context.Context) (net.Conn, bool, error) {
		var d net.Dialer
		conn, err := d.DialContext(ctx, "tcp", cfg.Address)
		if err != nil {
			return nil, false, err
		}
		return conn, false, nil
	})
}

// preferences for a session with the values in the preferences string
// applied over the defaults
func sessionPreferences(cl string) (*session.Preferences, error) {
	prefs.PushCommandLineStack(cl)
	defer func() {
		if unused := prefs.PopCommandLineStack(); unused != "" {
			logger.Logf(logger.Allow, "gopherlink", "unused preferences: %s", unused)
		}
	}()

	p, err := session.NewPreferences()
	if err != nil {
		return nil, err
	}
	if err := p.ApplyCommandLine(); err != nil {
		return nil, err
	}
	return p, nil
}

// connects to the peer. the boolean value is true if the local side of the
// link is the master
type connector func(ctx context.Context) (net.Conn, bool, error)

func run(sync *mainSync, f runFlags, cfg *linkconfig.Config, romFile string, connect connector) (rerr error) {
	stopEcho, err := setEcho(f)
	if err != nil {
		return err
	}
	defer stopEcho()

	if f.stats != nil && *f.stats {
		statsview.Launch(os.Stdout)
	}

	cart, err := loadCartridge(romFile, *f.battery)
	if err != nil {
		return err
	}

	sessionPrefs, err := sessionPreferences(*f.prefs)
	if err != nil {
		return err
	}

	store, err := savestate.Open(cfg.States, vfs.Default, logger.Central())
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil && rerr == nil {
			rerr = err
		}
	}()

	var obs hardware.Observer
	if *f.wav != "" {
		aw, err := wavwriter.New(*f.wav)
		if err != nil {
			return err
		}
		obs = aw
		defer func() {
			if err := aw.EndMixing(); err != nil && rerr == nil {
				rerr = err
			}
		}()
	}

	env := environment.NewEnvironment("", logger.Central(), notifications.NotifyFunc(printNotice))

	ctrl, err := session.NewController(session.Config{
		Env:      env,
		Prefs:    sessionPrefs,
		Observer: obs,
		Store:    store,
	})
	if err != nil {
		return err
	}

	// the interrupt signal and the terminal are handled here from now on
	sync.state <- stateRequest{req: reqNoIntSig}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// the peer is told that the emulation has stopped before the link is
	// closed
	var link *protocol.Connection
	ctrl.Start()
	defer func() {
		ctrl.Stop()
		if link != nil {
			_ = link.Close()
		}
	}()

	ctrl.Load(cart)

	if connect != nil {
		conn, master, err := connect(ctx)
		if err != nil {
			return err
		}

		link = protocol.NewConnection(conn, logger.Central())
		ctrl.Link(link, master)
		go func() {
			err := link.Run(ctx, ctrl.Deliver)
			ctrl.Unlink(err)
		}()
	}

	err = interact(ctx, ctrl)

	if *f.visualise != "" {
		if verr := visualise(ctrl, *f.visualise); verr != nil && err == nil {
			err = verr
		}
	}

	return err
}

// writes the rollback history of a linked session to the named file
func visualise(ctrl *session.Controller, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return ctrl.Inspect(func(s session.Session) {
		if l, ok := s.(*session.Linked); ok {
			l.History().Visualise(f)
		}
	})
}

func printNotice(notice notifications.Notice, detail string) error {
	switch notice {
	case notifications.NotifyEmulationStarted:
		fmt.Printf("* started %s\n", detail)
	case notifications.NotifyEmulationStopped:
		fmt.Println("* stopped")
	case notifications.NotifyEmulationPaused:
		fmt.Println("* paused")
	case notifications.NotifyEmulationResumed:
		fmt.Println("* resumed")
	case notifications.NotifyPeerLoaded:
		fmt.Printf("* peer loaded %s\n", detail)
	case notifications.NotifyLinkLost:
		fmt.Printf("* link lost: %s\n", detail)
	case notifications.NotifyDesync:
		fmt.Printf("* desync: %s\n", detail)
	case notifications.NotifySnapshotSaved:
		fmt.Printf("* saved state to slot %s\n", detail)
	case notifications.NotifySnapshotLoaded:
		fmt.Printf("* loaded state from slot %s\n", detail)
	}
	return nil
}

// interact with the user through the terminal until the quit key is pressed
// or the context is cancelled. if the input is not a terminal the function
// waits for the context to be cancelled
func interact(ctx context.Context, ctrl *session.Controller) error {
	var term easyterm.Terminal
	if err := term.Initialise(os.Stdin); err != nil {
		logger.Logf(logger.Allow, "gopherlink", "no keyboard input: %v", err)
		<-ctx.Done()
		return nil
	}

	if err := term.CBreakMode(); err != nil {
		return err
	}
	defer term.CanonicalMode()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	kb := userinput.NewKeyboard(ctrl.Input(), userinput.DefaultHold)
	defer kb.ReleaseAll()

	var actionErr error

	err := term.ReadKeys(ctx, func(b []byte) {
		act := kb.Handle(b, time.Now())
		kb.Expire(time.Now())

		switch act {
		case userinput.Quit:
			cancel()
		case userinput.Pause:
			if ctrl.State() == emulation.Paused {
				ctrl.Resume()
			} else {
				ctrl.Pause()
			}
		case userinput.Reset:
			ctrl.Reset()
		case userinput.SaveState:
			if err := ctrl.SaveSnapshot(quickSlot); err != nil {
				fmt.Printf("* %v\n", err)
			}
		case userinput.LoadState:
			if err := ctrl.LoadSnapshot(quickSlot); err != nil {
				fmt.Printf("* %v\n", err)
			}
		case userinput.Suspend:
			kb.ReleaseAll()
			if err := term.CanonicalMode(); err != nil {
				actionErr = err
				cancel()
				return
			}
			if err := easyterm.SuspendProcess(); err != nil {
				actionErr = err
				cancel()
				return
			}
			if err := term.CBreakMode(); err != nil {
				actionErr = err
				cancel()
			}
		}
	})
	if err != nil {
		return err
	}

	return actionErr
}

func perform(md *modalflag.Modes) error {
	md.NewMode()

	duration := md.AddDuration("duration", 5*time.Second, "run duration")
	latency := md.AddInt("latency", 3, "frames of latency between the two sides of the link")
	profile := md.AddString("profile", "none", "run performance check with profiling: command separated CPU, MEM, TRACE or NONE")
	log := md.AddBool("log", false, "echo debugging log to stdout")
	battery := md.AddString("battery", "", "battery backed RAM to load with the cartridge")
	prefsArg := md.AddString("prefs", "", "preferences for this run")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	if len(md.RemainingArgs()) != 1 {
		return fmt.Errorf("one cartridge required for %s mode", md)
	}

	if *log {
		logger.SetEcho(os.Stdout)
	} else {
		logger.SetEcho(nil)
	}

	if *latency < 0 {
		return fmt.Errorf("latency cannot be negative")
	}

	prof, err := performance.ParseProfileString(*profile)
	if err != nil {
		return err
	}

	cart, err := loadCartridge(md.GetArg(0), *battery)
	if err != nil {
		return err
	}

	sessionPrefs, err := sessionPreferences(*prefsArg)
	if err != nil {
		return err
	}

	return performance.Check(os.Stdout, performance.Config{
		Env:            environment.NewEnvironment("", logger.Central(), nil),
		Prefs:          sessionPrefs,
		Cartridge:      cart,
		Duration:       *duration,
		Latency:        uint64(*latency),
		Profile:        prof,
		FilenameHeader: paths.UniqueFilename("performance", cart.Title),
	})
}

func showVersion(md *modalflag.Modes) error {
	md.NewMode()
	revision := md.AddBool("revision", false, "display revision information from version control")

	p, err := md.Parse()
	if err != nil || p != modalflag.ParseContinue {
		return err
	}

	v, r, _ := version.Version()
	if *revision {
		fmt.Printf("%s %s (%s)\n", version.ApplicationName, v, r)
	} else {
		fmt.Printf("%s %s\n", version.ApplicationName, v)
	}

	return nil
}
