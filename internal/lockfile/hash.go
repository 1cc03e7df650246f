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
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/crossplane/crossplane-runtime/pkg/errors"

	"github.com/thearchitech/engine/internal/module"
)

// Hash returns the SHA-256 of g's canonical JSON form: g is marshaled and
// decoded into interface{} (erasing struct field order), then re-encoded by
// canonicalMarshal, which sorts object keys explicitly at every nesting level.
func Hash(g module.Genome) (string, error) {
	b, err := json.Marshal(g)
	if err != nil {
		return "", errors.Wrap(err, "marshaling genome for hashing")
	}
	var generic interface{}
	if err := json.Unmarshal(b, &generic); err != nil {
		return "", errors.Wrap(err, "normalizing genome for hashing")
	}
	canonical, err := canonicalMarshal(generic)
	if err != nil {
		return "", errors.Wrap(err, "canonicalizing genome for hashing")
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// HashModule returns the per-module integrity hash: SHA-256 of the
// canonicalized {id, version, parameters} triple.
func HashModule(id module.ID, version string, params module.Params) (string, error) {
	triple := map[string]interface{}{
		"id":         string(id),
		"version":    version,
		"parameters": map[string]interface{}(params),
	}
	canonical, err := canonicalMarshal(triple)
	if err != nil {
		return "", errors.Wrap(err, "canonicalizing module for integrity hash")
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// canonicalMarshal re-marshals v with every object's keys in sorted order at
// every nesting level. encoding/json already does this for map keys, but we
// walk explicitly so behavior does not depend on that implementation detail
// and numbers stay in the form json.Unmarshal produced (float64 -> minimal
// decimal via Marshal).
func canonicalMarshal(v interface{}) ([]byte, error) {
	return json.Marshal(canonicalize(v))
}

func canonicalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(orderedObject, 0, len(keys))
		for _, k := range keys {
			out = append(out, orderedField{Key: k, Value: canonicalize(val[k])})
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = canonicalize(item)
		}
		return out
	default:
		return val
	}
}

// orderedObject marshals as a JSON object with fields emitted in the order
// given, letting canonicalize enforce sorted-key order deterministically
// (plain map[string]interface{} would rely on encoding/json's incidental
// key-sorting rather than an explicit, documented guarantee).
type orderedObject []orderedField

type orderedField struct {
	Key   string
	Value interface{}
}

func (o orderedObject) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	for i, f := range o {
		if i > 0 {
			buf = append(buf, ',')
		}
		keyJSON, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyJSON...)
		buf = append(buf, ':')
		valJSON, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, valJSON...)
	}
	buf = append(buf, '}')
	return buf, nil
}
