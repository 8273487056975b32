package id

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)
var multiDash = regexp.MustCompile(`-+`)

// maxNameLen caps the kebab segment so ids stay short in URLs and storage keys.
const maxNameLen = 24

// Kebab lowercases s and joins its alphanumeric runs with single dashes.
func Kebab(s string) string {
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	s = multiDash.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// WorkoutID builds YYYY-MM-DD-<kebab-name>-NN where NN is xxhash(seed)%100.
// An empty name segment collapses to YYYY-MM-DD-NN.
func WorkoutID(dateISO, name string, seedInput []byte) string {
	n := Kebab(name)
	if len(n) > maxNameLen {
		n = strings.TrimRight(n[:maxNameLen], "-")
	}
	h := xxhash.Sum64(seedInput) % 100
	if n == "" {
		return fmt.Sprintf("%s-%02d", dateISO, h)
	}
	return fmt.Sprintf("%s-%s-%02d", dateISO, n, h)
}
