// Пакет sheetcodec — преобразование строк листов ресторана (испанские заголовки и значения)
// в доменные записи и обратно.
package sheetcodec

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeHeader — ключ колонки: нижний регистр, без диакритики, пробелы → "_".
// "Ocupada desde" → "ocupada_desde", "Teléfono" → "telefono".
func NormalizeHeader(h string) string {
	return strings.Join(strings.Fields(fold(h)), "_")
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// pick — первое непустое значение среди синонимов колонки.
func pick(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(row[k]); v != "" {
			return v
		}
	}
	return ""
}
