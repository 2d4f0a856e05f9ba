// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Name trims a display name and collapses inner runs of whitespace to one
// space. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MediaRef trims a lesson media reference (storage key or URL). Inner
// whitespace is kept because storage keys may contain it.
func MediaRef(s string) string {
	return strings.TrimSpace(s)
}
