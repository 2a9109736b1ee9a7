// Package airports resolves destination display names to IATA airport
// codes. Resolution is lookup-based: a built-in table of common
// destinations, optionally extended from a JSON mapping file maintained
// as new unmapped cities show up in harvest output.
package airports

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Resolver maps city display names to IATA codes. The zero value is not
// usable; construct with NewResolver.
type Resolver struct {
	codes map[string]string
}

// NewResolver returns a Resolver backed by the built-in destination table.
func NewResolver() *Resolver {
	codes := make(map[string]string, len(builtinCityCodes))
	for name, code := range builtinCityCodes {
		codes[normalizeName(name)] = code
	}
	return &Resolver{codes: codes}
}

// LoadExtra merges mappings from a JSON file of {"City Name": "IATA"}
// pairs. Entries in the file win over the built-in table, so corrections
// do not require a rebuild.
func (r *Resolver) LoadExtra(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading city mapping file: %w", err)
	}

	var extra map[string]string
	if err := json.Unmarshal(raw, &extra); err != nil {
		return fmt.Errorf("parsing city mapping file %s: %w", path, err)
	}

	for name, code := range extra {
		code = strings.ToUpper(strings.TrimSpace(code))
		if len(code) != 3 {
			continue
		}
		r.codes[normalizeName(name)] = code
	}
	return nil
}

// Resolve returns the IATA code for a destination name. The second return
// is false when the name is unknown; unresolved candidates stay in harvest
// output but are excluded from expansion.
func (r *Resolver) Resolve(name string) (string, bool) {
	code, ok := r.codes[normalizeName(name)]
	return code, ok
}

// Size returns the number of known destinations.
func (r *Resolver) Size() int {
	return len(r.codes)
}

// normalizeName folds the variations harvest output shows for one city:
// case, surrounding space, and a few common diacritics.
func normalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer(
		"ã", "a", "á", "a", "à", "a", "â", "a",
		"é", "e", "è", "e", "ê", "e",
		"í", "i", "î", "i",
		"ó", "o", "ô", "o", "õ", "o",
		"ú", "u", "û", "u", "ü", "u",
		"ç", "c", "ñ", "n",
	)
	return replacer.Replace(name)
}
