package build

import (
	"context"
	"fmt"

	"github.com/hostsgen/hostsgen/internal/config"
	"github.com/hostsgen/hostsgen/internal/flush"
	"github.com/hostsgen/hostsgen/internal/hosts"
	"github.com/hostsgen/hostsgen/internal/journal"
)

// ApplyOptions controls installation into the system hosts file.
type ApplyOptions struct {
	Options
	// Hosts overrides the configured system hosts path.
	Hosts string
	// Flush forces a DNS cache flush even when the project does not configure one.
	Flush bool
}

// Flusher flushes the DNS cache.
type Flusher interface {
	Flush() (flush.Method, error)
}

// NewFlusher returns the DNS flusher for method.
var NewFlusher = func(method flush.Method) Flusher {
	return flush.New(method)
}

// flushMethod picks the method to use; ok is false when no flush should happen.
func flushMethod(configured config.FlushMethod, forced bool) (flush.Method, bool) {
	switch configured {
	case "":
		if forced {
			return flush.MethodAuto, true
		}
		return "", false
	case config.FlushMethodNone:
		return "", false
	default:
		return flush.Method(configured), true
	}
}

// HostsPath returns the system hosts file apply works on.
func (b *Builder) HostsPath(override string) string {
	if override != "" {
		return override
	}
	return b.Config.HostsPath()
}

func (b *Builder) managed(override string) *hosts.Managed {
	backups := hosts.NewBackups(b.Config.SystemBackupDir(), b.Config.Backups.Keep)
	return hosts.NewManaged(b.HostsPath(override), b.Config.Name, backups)
}

// Apply builds the project and installs the merged entries into the project's
// managed section of the system hosts file.
func (b *Builder) Apply(ctx context.Context, opts ApplyOptions) (*Result, error) {
	result, err := b.Build(ctx, opts.Options)
	if err != nil {
		return result, err
	}

	m := b.managed(opts.Hosts)
	backup, err := m.Write(result.Merged.Hosts(), hosts.RenderOptions{NoComments: opts.NoComments})
	details := map[string]any{"hosts": m.Path, "entries": len(result.Merged.Entries), "backup": backup}
	if err != nil {
		b.Journal.Log(journal.ActionApply, details, err)
		return result, err
	}
	b.Log.Info("Applied %d entries to %s", len(result.Merged.Entries), m.Path)

	if method, ok := flushMethod(b.Config.Apply.Flush, opts.Flush); ok {
		used, err := NewFlusher(method).Flush()
		details["flush"] = string(used)
		if err != nil {
			// The hosts file is already updated; a failed flush only delays it.
			b.Log.Warn("DNS flush failed: %v", err)
		} else {
			b.Log.Info("Flushed DNS cache (%s)", used)
		}
	}

	b.Journal.Log(journal.ActionApply, details, nil)
	return result, nil
}

// Unapply removes the project's managed section from the system hosts file.
func (b *Builder) Unapply(hostsPath string) error {
	m := b.managed(hostsPath)
	if _, err := m.Backups.Create(m.Path); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	err := m.Remove()
	b.Journal.Log(journal.ActionRemove, map[string]any{"hosts": m.Path}, err)
	if err != nil {
		return err
	}
	b.Log.Info("Removed %s entries from %s", b.Config.Name, m.Path)
	return nil
}

// Restore replaces target with a backup from dir.
func (b *Builder) Restore(dir, name, target string) error {
	backups := hosts.NewBackups(dir, b.Config.Backups.Keep)
	err := backups.Restore(name, target)
	b.Journal.Log(journal.ActionRestore, map[string]any{"backup": name, "target": target}, err)
	if err != nil {
		return err
	}
	b.Log.Info("Restored %s from %s", target, name)
	return nil
}
