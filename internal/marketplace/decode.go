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

package marketplace

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/thearchitech/engine/internal/module"
)

func decodeBlueprint(path string, b []byte) (module.Blueprint, error) {
	var bp module.Blueprint
	ext := strings.ToLower(filepath.Ext(path))
	var err error
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &bp)
	default:
		err = json.Unmarshal(b, &bp)
	}
	if err != nil {
		return module.Blueprint{}, errors.Wrapf(err, "malformed blueprint")
	}
	return bp, nil
}
