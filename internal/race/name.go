package race

import "golang.org/x/text/unicode/norm"

// NormalizeName puts a display name into NFC so that the same name typed with
// composed or decomposed characters is stored and looked up identically.
func NormalizeName(name string) string {
	return norm.NFC.String(name)
}
