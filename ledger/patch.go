package ledger

import (
	"encoding/json"
	"fmt"
)

// Patch is a partial document keyed by JSON field name. Keys are applied at
// the top level only: a nested object replaces the stored one as a whole
// unless the caller overlays it first.
type Patch map[string]json.RawMessage

// protectedKeys are owned by the server and silently dropped from patches and
// create payloads.
var protectedKeys = []string{"id", "_id", "ownerId", "userId", "clerkId", "createdAt", "updatedAt"}

// Strip returns p without server-owned keys.
func (p Patch) Strip() Patch {
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range protectedKeys {
		delete(out, k)
	}
	return out
}

// apply overlays p onto current and decodes the result into a fresh T.
func apply[T any](current T, p Patch) (T, error) {
	var out T
	base, err := json.Marshal(current)
	if err != nil {
		return out, fmt.Errorf("encode current: %w", err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return out, fmt.Errorf("encode current: %w", err)
	}
	for k, v := range p.Strip() {
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return out, fmt.Errorf("merge patch: %w", err)
	}
	if err := json.Unmarshal(merged, &out); err != nil {
		return out, &PatchError{Err: err}
	}
	return out, nil
}

// PatchError reports a patch whose values do not fit the document shape.
type PatchError struct {
	Err error
}

func (e *PatchError) Error() string { return "invalid patch: " + e.Err.Error() }
func (e *PatchError) Unwrap() error { return e.Err }

// Decode builds a fresh T from a create payload, dropping server-owned keys
// the same way Update does.
func Decode[T any](p Patch) (T, error) {
	var zero T
	return apply(zero, p)
}

// overlay returns p with the object under key merged key by key onto base,
// so fields the caller left out keep base's values. A missing key, null or a
// non-object value is left for apply to handle.
func (p Patch) overlay(key string, base any) (Patch, error) {
	raw, ok := p[key]
	if !ok {
		return p, nil
	}
	var over map[string]json.RawMessage
	if err := json.Unmarshal(raw, &over); err != nil || over == nil {
		return p, nil
	}
	encoded, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	for k, v := range over {
		fields[k] = v
	}
	merged, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("merge %s: %w", key, err)
	}
	out := make(Patch, len(p))
	for k, v := range p {
		out[k] = v
	}
	out[key] = merged
	return out, nil
}
