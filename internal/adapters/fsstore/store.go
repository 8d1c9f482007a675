// Package fsstore keeps finished report artifacts on the local filesystem,
// one file per job id, named report-{jobId}.pdf under the export directory.
package fsstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stockroomd/stockroom/internal/core/domain"
	"github.com/stockroomd/stockroom/internal/core/ports"
)

const (
	filePrefix = "report-"
	fileSuffix = ".pdf"
)

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

var _ ports.ResultStore = (*Store)(nil)

func (s *Store) path(jobID string) string {
	return filepath.Join(s.dir, filePrefix+jobID+fileSuffix)
}

// validID rejects ids that could escape the export directory. Job ids are
// UUIDs everywhere in this codebase, but the store is the last line.
func validID(jobID string) bool {
	return jobID != "" && !strings.ContainsAny(jobID, `/\`) && jobID != "." && jobID != ".."
}

// Write stores the artifact atomically: the bytes land in a temp file that
// is renamed into place, so a concurrent reader never sees a partial PDF.
func (s *Store) Write(jobID string, data []byte) error {
	if !validID(jobID) {
		return fmt.Errorf("invalid job id %q", jobID)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+filePrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, s.path(jobID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}

func (s *Store) Read(jobID string) ([]byte, error) {
	if !validID(jobID) {
		return nil, domain.ErrArtifactNotFound
	}
	data, err := os.ReadFile(s.path(jobID))
	if os.IsNotExist(err) {
		return nil, domain.ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return data, nil
}

func (s *Store) Exists(jobID string) bool {
	if !validID(jobID) {
		return false
	}
	_, err := os.Stat(s.path(jobID))
	return err == nil
}

// Delete removes the artifact. A file that is already gone (including one
// that vanished between a caller's enumeration and this call) is a no-op.
func (s *Store) Delete(jobID string) error {
	if !validID(jobID) {
		return nil
	}
	err := os.Remove(s.path(jobID))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete artifact: %w", err)
	}
	return nil
}

// ListWithAge enumerates stored artifacts in a single directory pass.
// Age comes from the file's mtime: artifacts are written once via rename
// and never modified, so mtime is the creation time without depending on
// platform birth-time attributes.
func (s *Store) ListWithAge() ([]ports.StoredArtifact, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read export directory: %w", err)
	}

	now := time.Now()
	var out []ports.StoredArtifact
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Vanished mid-listing; the next pass will see the truth
			continue
		}
		out = append(out, ports.StoredArtifact{
			JobID: strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix),
			Age:   now.Sub(info.ModTime()),
		})
	}
	return out, nil
}
