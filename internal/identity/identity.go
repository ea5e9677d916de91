// Package identity derives deterministic node ids for plugin-scoped
// records.
package identity

import "github.com/google/uuid"

// seed anchors the id namespace so derived ids are stable across builds
// and machines.
var seed = uuid.MustParse("87a72ccf-3c8b-52e6-9d6d-4f3a0c58f2ab")

// DeriveID maps a plugin-requested id into the plugin's own namespace.
// Two plugins requesting the same id receive distinct derived ids, while
// repeated calls with the same inputs return the same id, keeping node
// re-creation idempotent. With an empty plugin the requested id passes
// through untouched.
func DeriveID(requested, plugin string) string {
	if plugin == "" {
		return requested
	}
	ns := uuid.NewSHA1(seed, []byte(plugin))
	return uuid.NewSHA1(ns, []byte(requested)).String()
}
