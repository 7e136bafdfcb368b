package hosts

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultKeepBackups is the number of backups kept per file when unset.
const DefaultKeepBackups = 10

const (
	backupSuffix     = ".bak"
	backupTimeLayout = "20060102-150405.000"
)

// Backups keeps timestamped copies of files before they are replaced.
type Backups struct {
	Dir  string
	Keep int
}

// BackupInfo holds information about a backup file.
type BackupInfo struct {
	Name      string
	Timestamp int64
	Size      int64
}

// NewBackups creates a backup store rooted at dir.
func NewBackups(dir string, keep int) *Backups {
	if keep <= 0 {
		keep = DefaultKeepBackups
	}
	return &Backups{Dir: dir, Keep: keep}
}

// Create copies src into the backup directory and returns the backup name.
// A missing src is not an error; there is nothing to back up yet.
func (b *Backups) Create(src string) (string, error) {
	content, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", src, err)
	}

	// #nosec G301 - backup directory lives inside the project
	if err := os.MkdirAll(b.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	timestamp := time.Now().Format(backupTimeLayout)
	name := fmt.Sprintf("%s.%s%s", filepath.Base(src), timestamp, backupSuffix)

	// #nosec G306 - backups mirror the hosts file permissions
	if err := os.WriteFile(filepath.Join(b.Dir, name), content, 0644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	if err := b.cleanup(filepath.Base(src)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to cleanup backups: %v\n", err)
	}

	return name, nil
}

func (b *Backups) cleanup(base string) error {
	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		return err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && isBackupOf(entry.Name(), base) {
			names = append(names, entry.Name())
		}
	}

	if len(names) <= b.Keep {
		return nil
	}

	// Timestamps sort lexically, newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	for _, name := range names[b.Keep:] {
		os.Remove(filepath.Join(b.Dir, name))
	}

	return nil
}

// List returns available backups, newest first.
func (b *Backups) List() ([]BackupInfo, error) {
	entries, err := os.ReadDir(b.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), backupSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Name:      entry.Name(),
			Timestamp: info.ModTime().Unix(),
			Size:      info.Size(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].Timestamp != backups[j].Timestamp {
			return backups[i].Timestamp > backups[j].Timestamp
		}
		return backups[i].Name > backups[j].Name
	})

	return backups, nil
}

// Restore replaces dst with the named backup. The current dst is backed up first.
func (b *Backups) Restore(name, dst string) error {
	if filepath.Base(name) != name || !strings.HasSuffix(name, backupSuffix) {
		return fmt.Errorf("invalid backup name: %s", name)
	}

	content, err := os.ReadFile(filepath.Join(b.Dir, name))
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	if _, err := b.Create(dst); err != nil {
		return fmt.Errorf("failed to create backup before restore: %w", err)
	}

	if err := WriteFile(dst, content); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	return nil
}

// isBackupOf reports whether name is a backup of base, so that backups of
// hosts.dev never count as backups of hosts.
func isBackupOf(name, base string) bool {
	stamp, ok := strings.CutPrefix(name, base+".")
	if !ok {
		return false
	}
	stamp, ok = strings.CutSuffix(stamp, backupSuffix)
	if !ok || len(stamp) != len(backupTimeLayout) {
		return false
	}
	_, err := time.Parse(backupTimeLayout, stamp)
	return err == nil
}
