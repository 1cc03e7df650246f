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

// Package vfs implements the in-memory, per-run file buffer: a lazily
// disk-loaded, mutex-guarded map of normalized path to content, flushed to
// disk at the end of a successful run. Flush writes file by file and stops
// at the first error, so a failed flush can leave earlier files written.
package vfs

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/thearchitech/engine/internal/errs"
)

// Entry is a single buffered file: its content and the time it was last
// written or loaded.
type Entry struct {
	Content      string
	LastModified time.Time
}

// ErrNotFound is returned by Read when a path has never been written and
// does not exist on disk.
var ErrNotFound = &notFoundError{}

type notFoundError struct{}

func (*notFoundError) Error() string { return "not found" }

type entryLock struct {
	mu      sync.Mutex
	content string
	mtime   time.Time
	loaded  bool
	exists  bool
}

// VFS is the shared, per-run file buffer. All writes go through it; nothing
// touches disk until Flush.
type VFS struct {
	fs   afero.Fs
	root string

	mapMu   sync.RWMutex
	entries map[string]*entryLock
}

// New constructs a VFS rooted at root, backed by fs (afero.NewOsFs() in
// production, afero.NewMemMapFs() in tests).
func New(fs afero.Fs, root string) *VFS {
	return &VFS{fs: fs, root: root, entries: make(map[string]*entryLock)}
}

func (v *VFS) entryFor(path string) *entryLock {
	v.mapMu.RLock()
	e, ok := v.entries[path]
	v.mapMu.RUnlock()
	if ok {
		return e
	}

	v.mapMu.Lock()
	defer v.mapMu.Unlock()
	if e, ok := v.entries[path]; ok {
		return e
	}
	e = &entryLock{}
	v.entries[path] = e
	return e
}

// Read returns the buffered content for p, lazily loading it from disk on
// first access. Returns ErrNotFound if the path has no buffered write and no
// on-disk file.
func (v *VFS) Read(p string) (string, error) {
	path := Normalize(v.root, p)
	if path == "" {
		return "", errs.NewVFSError("read", p, ErrNotFound)
	}
	e := v.entryFor(path)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		v.loadLocked(path, e)
	}
	if !e.exists {
		return "", ErrNotFound
	}
	return e.content, nil
}

// loadLocked populates e from disk. Caller must hold e.mu.
func (v *VFS) loadLocked(path string, e *entryLock) {
	b, err := afero.ReadFile(v.fs, filepath.Join(v.root, path))
	if err != nil {
		e.loaded = true
		e.exists = false
		return
	}
	e.content = string(b)
	e.mtime = time.Now()
	e.loaded = true
	e.exists = true
}

// Exists reports whether p has buffered content or an on-disk file.
func (v *VFS) Exists(p string) bool {
	path := Normalize(v.root, p)
	if path == "" {
		return false
	}
	e := v.entryFor(path)
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		v.loadLocked(path, e)
	}
	return e.exists
}

// Write sets p's content. If the currently buffered content and the new
// content both parse as JSON, a shallow top-level object merge is performed
// instead of an overwrite (so two actions emitting the same JSON file
// compose idempotently). Any other content is replaced outright. This
// auto-merge is intentionally shallow; structured nested merges go through
// the json-merger modifier.
func (v *VFS) Write(p, content string) error {
	path := Normalize(v.root, p)
	if path == "" {
		return errs.NewVFSError("write", p, errInvalidPath)
	}
	e := v.entryFor(path)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		v.loadLocked(path, e)
	}

	if e.exists {
		if merged, ok := shallowJSONMerge(e.content, content); ok {
			content = merged
		}
	}

	e.content = content
	e.mtime = time.Now()
	e.loaded = true
	e.exists = true
	return nil
}

var errInvalidPath = &invalidPathError{}

type invalidPathError struct{}

func (*invalidPathError) Error() string { return "path is empty or escapes project root" }

// AlreadyExists is returned by Create when the target path already has
// content.
var AlreadyExists = &alreadyExistsError{}

type alreadyExistsError struct{}

func (*alreadyExistsError) Error() string { return "already exists" }

// Create writes content to p only if p does not already exist. Returns
// AlreadyExists (and leaves the entry untouched) if it does: on a race
// between two concurrent Creates of the same path, exactly one wins.
func (v *VFS) Create(p, content string) error {
	path := Normalize(v.root, p)
	if path == "" {
		return errs.NewVFSError("create", p, errInvalidPath)
	}
	e := v.entryFor(path)

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		v.loadLocked(path, e)
	}
	if e.exists {
		return AlreadyExists
	}
	e.content = content
	e.mtime = time.Now()
	e.loaded = true
	e.exists = true
	return nil
}

// Append adds s to the end of p's current content (loading it first if
// necessary; a missing file behaves as if it were empty).
func (v *VFS) Append(p, s string) error {
	path := Normalize(v.root, p)
	if path == "" {
		return errs.NewVFSError("append", p, errInvalidPath)
	}
	e := v.entryFor(path)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		v.loadLocked(path, e)
	}
	e.content = e.content + s
	e.mtime = time.Now()
	e.loaded = true
	e.exists = true
	return nil
}

// Prepend adds s to the start of p's current content.
func (v *VFS) Prepend(p, s string) error {
	path := Normalize(v.root, p)
	if path == "" {
		return errs.NewVFSError("prepend", p, errInvalidPath)
	}
	e := v.entryFor(path)

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.loaded {
		v.loadLocked(path, e)
	}
	e.content = s + e.content
	e.mtime = time.Now()
	e.loaded = true
	e.exists = true
	return nil
}

// All returns every entry that exists (buffered or loaded from disk), keyed
// by normalized path; as a map it has no iteration order.
func (v *VFS) All() map[string]Entry {
	v.mapMu.RLock()
	defer v.mapMu.RUnlock()

	out := make(map[string]Entry, len(v.entries))
	for path, e := range v.entries {
		e.mu.Lock()
		if e.exists {
			out[path] = Entry{Content: e.content, LastModified: e.mtime}
		}
		e.mu.Unlock()
	}
	return out
}

// Flush writes every buffered entry to disk under rootDir, creating
// directories as needed, in sorted path order. A single trailing "%"
// shell-prompt artifact is trimmed if present, then a newline is appended if
// the content does not already end with one. Returns the first write error
// wrapped as FlushFailed and aborts remaining writes.
func (v *VFS) Flush(rootDir string) error {
	all := v.All()

	paths := make([]string, 0, len(all))
	for p := range all {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		entry := all[p]
		full := filepath.Join(rootDir, p)
		dir := filepath.Dir(full)
		if err := v.fs.MkdirAll(dir, fs.FileMode(0o755)); err != nil {
			return errs.NewFlushFailed(p, err)
		}
		content := finalizeContent(entry.Content)
		if err := afero.WriteFile(v.fs, full, []byte(content), os.FileMode(0o644)); err != nil {
			return errs.NewFlushFailed(p, err)
		}
	}
	return nil
}

func finalizeContent(content string) string {
	content = strings.TrimSuffix(content, "%")
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content
}

// shallowJSONMerge merges new over old at the top level if both parse as
// JSON objects. Returns ok=false if either fails to parse as an object.
func shallowJSONMerge(oldContent, newContent string) (string, bool) {
	var oldObj map[string]interface{}
	var newObj map[string]interface{}
	if err := json.Unmarshal([]byte(oldContent), &oldObj); err != nil {
		return "", false
	}
	if err := json.Unmarshal([]byte(newContent), &newObj); err != nil {
		return "", false
	}
	for k, v := range newObj {
		oldObj[k] = v
	}
	b, err := json.MarshalIndent(oldObj, "", "  ")
	if err != nil {
		return "", false
	}
	return string(b), true
}
