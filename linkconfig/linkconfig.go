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

// Package linkconfig validates the command line arguments that describe the
// network side of a linked session. Every fault in the arguments is reported,
// not just the first.
package linkconfig

import (
	"fmt"
	"net"
	"path/filepath"
	"strconv"

	multierror "github.com/hashicorp/go-multierror"
	template "github.com/hashicorp/go-sockaddr/template"

	"github.com/jetsetilly/gopherlink/paths"
)

// DefaultPort is the TCP port used when none is specified.
const DefaultPort = 6688

// DefaultBind is the default bind address template.
const DefaultBind = "127.0.0.1"

// Args as collected from the command line.
type Args struct {
	// sockaddr template for the address to listen on. for example,
	// "{{ GetPrivateIP }}"
	Bind string

	// address of the host to join. may include a port number
	Peer string

	Port int

	// directory of the save-state database. the default resource path is
	// used if this is empty
	States string
}

// Config is the validated form of Args.
type Config struct {
	// the address to listen on or to dial, depending on which function
	// created the Config
	Address string

	States string
}

// ConfigError records which argument was at fault.
type ConfigError struct {
	ConfigurationPoint string
	Err                error
}

func (err *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", err.ConfigurationPoint, err.Err.Error())
}

func (err *ConfigError) Unwrap() error {
	return err.Err
}

func checkPort(errors *multierror.Error, port int) *multierror.Error {
	if port < 1 || port > 65535 {
		return multierror.Append(errors, &ConfigError{
			ConfigurationPoint: "port",
			Err:                fmt.Errorf("port numbers must be 1 <= port <= 65535"),
		})
	}
	return errors
}

func checkStates(errors *multierror.Error, dir string) (string, *multierror.Error) {
	var err error
	if dir == "" {
		dir, err = paths.ResourcePath("states")
	} else {
		dir, err = filepath.Abs(dir)
	}
	if err != nil {
		return "", multierror.Append(errors, &ConfigError{
			ConfigurationPoint: "states",
			Err:                err,
		})
	}
	return dir, errors
}

// Host validates the arguments needed to wait for a peer.
func Host(args Args) (*Config, error) {
	var errors *multierror.Error

	var bindAddr net.IP
	resolved, err := template.Parse(args.Bind)
	if err != nil {
		errors = multierror.Append(errors, &ConfigError{
			ConfigurationPoint: "bind",
			Err:                err,
		})
	} else {
		bindAddr = net.ParseIP(resolved)
		if bindAddr == nil {
			errors = multierror.Append(errors, &ConfigError{
				ConfigurationPoint: "bind",
				Err:                fmt.Errorf("cannot parse IP address: %q", resolved),
			})
		}
	}

	errors = checkPort(errors, args.Port)

	states, errors := checkStates(errors, args.States)

	if err := errors.ErrorOrNil(); err != nil {
		return nil, err
	}

	addr := &net.TCPAddr{
		IP:   bindAddr,
		Port: args.Port,
	}

	return &Config{
		Address: addr.String(),
		States:  states,
	}, nil
}

// Join validates the arguments needed to connect to a host. The port
// argument is used if the peer address does not include one.
func Join(args Args) (*Config, error) {
	var errors *multierror.Error

	host := args.Peer
	port := args.Port

	if h, p, err := net.SplitHostPort(args.Peer); err == nil {
		host = h
		port, err = strconv.Atoi(p)
		if err != nil {
			errors = multierror.Append(errors, &ConfigError{
				ConfigurationPoint: "peer",
				Err:                fmt.Errorf("cannot parse port number: %q", p),
			})
		}
	}

	if host == "" {
		errors = multierror.Append(errors, &ConfigError{
			ConfigurationPoint: "peer",
			Err:                fmt.Errorf("no host address"),
		})
	} else {
		resolved, err := template.Parse(host)
		if err != nil {
			errors = multierror.Append(errors, &ConfigError{
				ConfigurationPoint: "peer",
				Err:                err,
			})
		} else {
			host = resolved
		}
	}

	errors = checkPort(errors, port)

	states, errors := checkStates(errors, args.States)

	if err := errors.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &Config{
		Address: net.JoinHostPort(host, strconv.Itoa(port)),
		States:  states,
	}, nil
}

// Standalone validates the arguments needed for a session without a peer.
func Standalone(args Args) (*Config, error) {
	var errors *multierror.Error

	states, errors := checkStates(errors, args.States)

	if err := errors.ErrorOrNil(); err != nil {
		return nil, err
	}

	return &Config{
		States: states,
	}, nil
}
