package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type ITextService interface {
	Fold(input string) string
	ContainsFold(haystack, needle string) bool
	CollapseSpaces(input string) string
}

// TextService сравнивает строки без учёта регистра и диакритики: "Café" ~ "cafe", "AÑO" ~ "ano".
type TextService struct{}

func NewTextService() *TextService {
	return &TextService{}
}

// Fold приводит строку к форме для сравнения. Caser и transform.Chain не потокобезопасны,
// поэтому создаются на каждый вызов.
func (ts *TextService) Fold(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, input)
	if err != nil {
		stripped = input
	}
	return cases.Fold().String(stripped)
}

func (ts *TextService) ContainsFold(haystack, needle string) bool {
	return strings.Contains(ts.Fold(haystack), ts.Fold(needle))
}

// CollapseSpaces убирает крайние пробелы и схлопывает внутренние в один.
func (ts *TextService) CollapseSpaces(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
