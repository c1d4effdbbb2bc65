package linkmanager

import "strings"

// FlatName maps a skill name to its on-disk flat identifier: "@scope/name"
// becomes "scope--name"; an unscoped name passes through unchanged. This
// is the sole on-disk identifier inside agent skills directories and must
// be a deterministic, reversible function of the skill name.
func FlatName(name string) string {
	scope, bare, ok := strings.Cut(strings.TrimPrefix(name, "@"), "/")
	if !ok || !strings.HasPrefix(name, "@") {
		return name
	}
	return scope + "--" + bare
}
