// Package flush clears the operating system DNS cache after the hosts file changes.
package flush

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
)

// Method defines the DNS flush method to use.
type Method string

const (
	MethodNone        Method = "none"
	MethodAuto        Method = "auto"
	MethodDscacheutil Method = "dscacheutil"
	MethodKillall     Method = "killall"
	MethodBoth        Method = "both"
	MethodSystemd     Method = "systemd"
	MethodNscd        Method = "nscd"
)

// Runner executes an external command.
type Runner func(name string, args ...string) error

// LookPath reports whether a command is available.
type LookPath func(name string) (string, error)

// Flusher handles DNS cache flushing.
type Flusher struct {
	method   Method
	goos     string
	run      Runner
	lookPath LookPath
}

// New creates a flusher for the current platform.
func New(method Method) *Flusher {
	return &Flusher{
		method:   method,
		goos:     runtime.GOOS,
		run:      runCommand,
		lookPath: exec.LookPath,
	}
}

// WithRunner replaces command execution, mainly for tests.
func (f *Flusher) WithRunner(goos string, run Runner, lookPath LookPath) *Flusher {
	f.goos = goos
	f.run = run
	f.lookPath = lookPath
	return f
}

// Flush flushes the DNS cache and returns the method actually used.
func (f *Flusher) Flush() (Method, error) {
	if f.method == MethodNone {
		return MethodNone, nil
	}

	method := f.method
	if method == MethodAuto || method == "" {
		method = f.detectMethod()
	}

	switch f.goos {
	case "darwin":
		return method, f.flushDarwin(method)
	case "linux":
		return method, f.flushLinux(method)
	default:
		return method, fmt.Errorf("unsupported operating system: %s", f.goos)
	}
}

func (f *Flusher) detectMethod() Method {
	switch f.goos {
	case "darwin":
		return MethodBoth
	case "linux":
		if _, err := f.lookPath("resolvectl"); err == nil {
			return MethodSystemd
		}
		if _, err := f.lookPath("systemd-resolve"); err == nil {
			return MethodSystemd
		}
		if _, err := f.lookPath("nscd"); err == nil {
			return MethodNscd
		}
		return MethodAuto
	default:
		return MethodAuto
	}
}

func (f *Flusher) flushDarwin(method Method) error {
	switch method {
	case MethodDscacheutil:
		if err := f.run("dscacheutil", "-flushcache"); err != nil {
			return fmt.Errorf("dscacheutil failed: %w", err)
		}
	case MethodKillall:
		if err := f.run("killall", "-HUP", "mDNSResponder"); err != nil {
			return fmt.Errorf("killall mDNSResponder failed: %w", err)
		}
	case MethodBoth:
		errDs := f.run("dscacheutil", "-flushcache")
		errKill := f.run("killall", "-HUP", "mDNSResponder")
		if errDs != nil && errKill != nil {
			return fmt.Errorf("all DNS flush methods failed: %w", errors.Join(errDs, errKill))
		}
	default:
		_ = f.run("dscacheutil", "-flushcache")
		_ = f.run("killall", "-HUP", "mDNSResponder")
	}

	return nil
}

func (f *Flusher) flushLinux(method Method) error {
	switch method {
	case MethodSystemd:
		if err := f.run("resolvectl", "flush-caches"); err != nil {
			if err := f.run("systemd-resolve", "--flush-caches"); err != nil {
				return fmt.Errorf("systemd DNS flush failed: %w", err)
			}
		}
	case MethodNscd:
		if err := f.run("nscd", "-i", "hosts"); err != nil {
			if err := f.run("service", "nscd", "restart"); err != nil {
				return fmt.Errorf("nscd flush failed: %w", err)
			}
		}
	default:
		if err := f.run("resolvectl", "flush-caches"); err == nil {
			return nil
		}
		if err := f.run("systemd-resolve", "--flush-caches"); err == nil {
			return nil
		}
		// Without a caching resolver /etc/hosts is read directly, so there is nothing to flush.
		_ = f.run("nscd", "-i", "hosts")
	}

	return nil
}

func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...) // #nosec G204 - Commands are hardcoded DNS flush utilities, not user input
	return cmd.Run()
}
