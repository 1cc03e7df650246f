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

package vfs

import "strings"

// Normalize converts backslashes to slashes, collapses repeated slashes,
// strips a leading project-root prefix if present, and removes a leading
// slash. The result is always forward-slash and relative to the project
// root, or "" if the path escapes the root or is empty.
func Normalize(root, p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}

	root = strings.ReplaceAll(root, "\\", "/")
	root = strings.TrimSuffix(root, "/")
	if root != "" {
		if p == root {
			p = ""
		} else if strings.HasPrefix(p, root+"/") {
			p = strings.TrimPrefix(p, root+"/")
		}
	}

	p = strings.TrimPrefix(p, "/")

	if p == "" || p == "." {
		return ""
	}
	if strings.HasPrefix(p, "../") || p == ".." || strings.Contains(p, "/../") {
		return ""
	}
	return p
}
