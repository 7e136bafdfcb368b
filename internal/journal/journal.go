// Package journal appends a JSON-lines record of every hostsgen run that
// changes files on disk.
package journal

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Actions recorded by the CLI.
const (
	ActionBuild   = "build"
	ActionClean   = "clean"
	ActionApply   = "apply"
	ActionRemove  = "remove"
	ActionRestore = "restore"
)

// Record is a single journal line.
type Record struct {
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
	Project   string `json:"project,omitempty"`
	Details   any    `json:"details,omitempty"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

// Journal writes records to an append-only file.
type Journal struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	project string
	encoder *json.Encoder
	now     func() time.Time
}

// Open opens or creates the journal at path.
func Open(path, project string) (*Journal, error) {
	// #nosec G301 - journal directory lives inside the project
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	// #nosec G302,G304 - path comes from the project configuration
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return &Journal{
		file:    file,
		path:    path,
		project: project,
		encoder: json.NewEncoder(file),
		now:     time.Now,
	}, nil
}

// Path returns the journal file path.
func (j *Journal) Path() string { return j.path }

// Log writes a record. A nil journal is a no-op.
func (j *Journal) Log(action string, details any, err error) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file == nil {
		return
	}

	rec := Record{
		Timestamp: j.now().UTC().Format(time.RFC3339),
		Action:    action,
		Project:   j.project,
		Details:   details,
		Success:   err == nil,
	}
	if err != nil {
		rec.Error = err.Error()
	}

	// Journal failures never fail the command.
	_ = j.encoder.Encode(rec)
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.file != nil {
		err := j.file.Close()
		j.file = nil
		return err
	}
	return nil
}

// Read returns every record in the journal at path, oldest first.
// A missing journal yields no records.
func Read(path string) ([]Record, error) {
	// #nosec G304 - path comes from the project configuration
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		if len(scanner.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return records, fmt.Errorf("journal line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, scanner.Err()
}
