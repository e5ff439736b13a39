// Package textnorm normaliza texto para búsquedas sin tildes ni mayúsculas
// ("Céramique" y "ceramique" producen la misma clave).
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold devuelve s en minúsculas, sin marcas diacríticas y con espacios colapsados.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// SearchKey clave de búsqueda para un conjunto de campos.
func SearchKey(fields ...string) string {
	return Fold(strings.Join(fields, " "))
}
