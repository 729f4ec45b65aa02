package dateparse

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const trimmedPunct = ".,;:!?¿¡\"'()"

// normalize — нижний регистр, без диакритики, без краевой пунктуации, одиночные пробелы.
// "¡Pasado  Mañana!" → "pasado manana".
func normalize(raw string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, raw)
	if err != nil {
		s = raw
	}
	s = strings.ToLower(s)
	s = strings.Trim(strings.TrimSpace(s), trimmedPunct)
	return strings.Join(strings.Fields(s), " ")
}

var fillerWords = map[string]struct{}{
	"el": {}, "la": {}, "este": {}, "esta": {}, "proximo": {}, "proxima": {},
	"para": {}, "del": {}, "next": {}, "this": {}, "on": {},
}

// stripFiller — убирает ведущие служебные слова и хвост "que viene".
// "el proximo viernes" → "viernes", "el martes que viene" → "martes".
func stripFiller(s string) string {
	s = strings.TrimSpace(strings.TrimSuffix(s, "que viene"))
	words := strings.Fields(s)
	for len(words) > 0 {
		if _, ok := fillerWords[words[0]]; !ok {
			break
		}
		words = words[1:]
	}
	return strings.Join(words, " ")
}
