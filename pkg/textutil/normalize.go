// Package textutil ofrece normalización de texto para búsquedas: el kardex
// guarda nombres de insumos con acentos ("ibuprofeno suspensión") y el filtro
// debe encontrarlos escribiendo sin ellos.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var foldTransformer = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)), // quita marcas diacríticas
	norm.NFC,
)

// Fold devuelve s en minúsculas y sin diacríticos. Si la transformación
// falla (entrada no UTF-8 válida) devuelve la cadena en minúsculas tal cual.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return strings.ToLower(folded)
}

// ContainsFold reporta si needle aparece en haystack ignorando mayúsculas y
// diacríticos.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(Fold(haystack), Fold(needle))
}
