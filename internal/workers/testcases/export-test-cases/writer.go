// internal/workers/testcases/export-test-cases/writer.go
package exporttestcases

import (
	"fmt"
	"os"
	"path/filepath"
)

const filePerm = 0o644

// stagedFile is a fully written temp file waiting to be renamed into place.
// bak holds a copy of the previous target while a set of files is committed.
type stagedFile struct {
	tmp       string
	path      string
	size      int64
	bak       string
	committed bool
}

// stage writes data to a temp file next to path and syncs it. The target
// path is not touched.
func stage(path string, data []byte) (*stagedFile, error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp, filePerm); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("chmod temp file: %w", err)
	}

	return &stagedFile{tmp: tmp, path: path, size: int64(len(data))}, nil
}

func (s *stagedFile) commit() error {
	if err := os.Rename(s.tmp, s.path); err != nil {
		os.Remove(s.tmp)
		return fmt.Errorf("rename into place: %w", err)
	}
	s.committed = true
	return nil
}

func (s *stagedFile) discard() {
	os.Remove(s.tmp)
}

// backup keeps the current target next to it so a later failure in the same
// set can put it back. A missing target needs no backup.
func (s *stagedFile) backup() error {
	info, err := os.Lstat(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("target %s is not a regular file", s.path)
	}

	bak := s.tmp + ".bak"
	if err := os.Link(s.path, bak); err != nil {
		data, rerr := os.ReadFile(s.path)
		if rerr != nil {
			return fmt.Errorf("back up target: %w", rerr)
		}
		if werr := os.WriteFile(bak, data, info.Mode().Perm()); werr != nil {
			os.Remove(bak)
			return fmt.Errorf("back up target: %w", werr)
		}
	}
	s.bak = bak
	return nil
}

// rollback undoes a commit: the previous target comes back, or the new file
// is removed when there was none.
func (s *stagedFile) rollback() error {
	if !s.committed {
		return nil
	}
	if s.bak == "" {
		return os.Remove(s.path)
	}
	if err := os.Rename(s.bak, s.path); err != nil {
		return err
	}
	s.bak = ""
	return nil
}

func (s *stagedFile) dropBackup() {
	if s.bak != "" {
		os.Remove(s.bak)
		s.bak = ""
	}
}

// commitAll renames every staged file into place as one unit. Targets are
// backed up first; if any rename fails the ones already done are rolled back
// and the returned error names the failing path.
func commitAll(staged []*stagedFile) (string, error) {
	cleanup := func() {
		for _, s := range staged {
			if !s.committed {
				s.discard()
			}
			s.dropBackup()
		}
	}

	for _, s := range staged {
		if err := s.backup(); err != nil {
			cleanup()
			return s.path, err
		}
	}

	for i, s := range staged {
		if err := s.commit(); err != nil {
			for _, done := range staged[:i] {
				if rerr := done.rollback(); rerr != nil {
					err = fmt.Errorf("%w; restore %s: %v", err, done.path, rerr)
				}
			}
			cleanup()
			return s.path, err
		}
	}

	cleanup()
	return "", nil
}

// WriteFileAtomic replaces path with data so that readers see either the
// previous content or the complete new content.
func WriteFileAtomic(path string, data []byte) error {
	s, err := stage(path, data)
	if err != nil {
		return err
	}
	return s.commit()
}
