// Copyright 2024 The Architech Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lockfile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/thearchitech/engine/internal/module"
)

const fileName = "genome.lock"

// Store reads, writes and validates the lock file rooted at a project
// directory, on the afero.Fs it is constructed with.
type Store struct {
	fs afero.Fs
}

// NewStore constructs a Store backed by fs (afero.NewOsFs() in production,
// afero.NewMemMapFs() in tests).
func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs}
}

func (s *Store) path(root string) string {
	return filepath.Join(root, fileName)
}

// Read returns the lock file at root, or nil if it does not exist. Any
// other read or decode error is reported, not swallowed.
func (s *Store) Read(root string) (*LockFile, error) {
	b, err := afero.ReadFile(s.fs, s.path(root))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading lock file")
	}
	var lf LockFile
	if err := json.Unmarshal(b, &lf); err != nil {
		return nil, errors.Wrap(err, "parsing lock file")
	}
	return &lf, nil
}

// Write persists lf at root with stable field order and 2-space indent,
// atomically: write a temp file in the same directory, fsync it, then
// rename over the final path. MemMapFs (used in tests) has no durable
// fsync semantics, so the temp-file dance is skipped there in favor of a
// direct write.
func (s *Store) Write(root string, lf LockFile) error {
	b, err := json.MarshalIndent(lf, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling lock file")
	}
	b = append(b, '\n')

	final := s.path(root)

	if _, ok := s.fs.(*afero.MemMapFs); ok {
		return afero.WriteFile(s.fs, final, b, 0o644)
	}

	tmp, err := afero.TempFile(s.fs, root, ".genome.lock.*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp lock file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return errors.Wrap(err, "writing temp lock file")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return errors.Wrap(err, "syncing temp lock file")
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return errors.Wrap(err, "closing temp lock file")
	}
	if err := s.fs.Rename(tmpName, final); err != nil {
		s.fs.Remove(tmpName)
		return errors.Wrap(err, "renaming lock file into place")
	}
	return nil
}

// IsValid reports whether root has a lock file whose genomeHash equals
// Hash(g).
func (s *Store) IsValid(root string, g module.Genome) (bool, error) {
	lf, err := s.Read(root)
	if err != nil {
		return false, err
	}
	if lf == nil {
		return false, nil
	}
	hash, err := Hash(g)
	if err != nil {
		return false, err
	}
	return lf.GenomeHash == hash, nil
}

// Delete removes the lock file at root, tolerating its absence.
func (s *Store) Delete(root string) error {
	if err := s.fs.Remove(s.path(root)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "deleting lock file")
	}
	return nil
}
