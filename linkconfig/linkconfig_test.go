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

package linkconfig_test

import (
	"errors"
	"path/filepath"
	"testing"

	multierror "github.com/hashicorp/go-multierror"

	"github.com/jetsetilly/gopherlink/linkconfig"
	"github.com/jetsetilly/gopherlink/test"
)

func TestHost(t *testing.T) {
	states := t.TempDir()

	cfg, err := linkconfig.Host(linkconfig.Args{
		Bind:   linkconfig.DefaultBind,
		Port:   linkconfig.DefaultPort,
		States: states,
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.Address, "127.0.0.1:6688")
	test.ExpectEquality(t, cfg.States, states)

	cfg, err = linkconfig.Host(linkconfig.Args{
		Bind:   `{{ "10.0.0.1" }}`,
		Port:   1234,
		States: states,
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.Address, "10.0.0.1:1234")
}

func TestHostErrors(t *testing.T) {
	_, err := linkconfig.Host(linkconfig.Args{
		Bind:   "not an address",
		Port:   0,
		States: t.TempDir(),
	})
	test.DemandFailure(t, err)

	var merr *multierror.Error
	test.DemandSuccess(t, errors.As(err, &merr))
	test.ExpectEquality(t, len(merr.Errors), 2)

	var cerr *linkconfig.ConfigError
	test.DemandSuccess(t, errors.As(merr.Errors[0], &cerr))
	test.ExpectEquality(t, cerr.ConfigurationPoint, "bind")
	test.DemandSuccess(t, errors.As(merr.Errors[1], &cerr))
	test.ExpectEquality(t, cerr.ConfigurationPoint, "port")

	_, err = linkconfig.Host(linkconfig.Args{
		Bind:   "{{ unclosed",
		Port:   linkconfig.DefaultPort,
		States: t.TempDir(),
	})
	test.ExpectFailure(t, err)
}

func TestJoin(t *testing.T) {
	states := t.TempDir()

	cfg, err := linkconfig.Join(linkconfig.Args{
		Peer:   "gameboy.local",
		Port:   linkconfig.DefaultPort,
		States: states,
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.Address, "gameboy.local:6688")

	cfg, err = linkconfig.Join(linkconfig.Args{
		Peer:   "10.0.0.2:7000",
		Port:   linkconfig.DefaultPort,
		States: states,
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cfg.Address, "10.0.0.2:7000")

	_, err = linkconfig.Join(linkconfig.Args{
		Peer:   "",
		Port:   70000,
		States: states,
	})
	test.DemandFailure(t, err)

	var merr *multierror.Error
	test.DemandSuccess(t, errors.As(err, &merr))
	test.ExpectEquality(t, len(merr.Errors), 2)

	_, err = linkconfig.Join(linkconfig.Args{
		Peer:   "10.0.0.2:port",
		Port:   linkconfig.DefaultPort,
		States: states,
	})
	test.ExpectFailure(t, err)
}

func TestStandalone(t *testing.T) {
	cfg, err := linkconfig.Standalone(linkconfig.Args{States: "relative"})
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, filepath.IsAbs(cfg.States))
}
