package business

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

const (
	barcodeField     = "CodigoBarra"
	barcodeDelimiter = ","
)

// CodigoBarra(1), CodigoBarra(2), ... - повторяющееся поле в плоском виде.
var indexedBarcodeKey = regexp.MustCompile(`^CodigoBarra\((\d+)\)$`)

type indexedBarcode struct {
	index int
	key   string
	value string
}

// ExtractBarcodes собирает штрихкоды записи: сначала из CodigoBarra (массив или строка),
// затем из CodigoBarra(n) по возрастанию n. Без пустых и без повторов, первое вхождение побеждает.
func ExtractBarcodes(raw map[string]interface{}) []string {
	out := make([]string, 0, 2)
	seen := make(map[string]struct{})
	add := func(v interface{}) {
		s := strings.TrimSpace(SafeString(v))
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	if v, ok := raw[barcodeField]; ok {
		switch t := v.(type) {
		case []interface{}:
			for _, item := range t {
				add(item)
			}
		case []string:
			for _, item := range t {
				add(item)
			}
		case map[string]interface{}:
			// объект не является штрихкодом
		default:
			add(t)
		}
	}

	var indexed []indexedBarcode
	for key, v := range raw {
		m := indexedBarcodeKey.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		indexed = append(indexed, indexedBarcode{index: idx, key: key, value: SafeString(v)})
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].index != indexed[j].index {
			return indexed[i].index < indexed[j].index
		}
		return indexed[i].key < indexed[j].key
	})
	for _, b := range indexed {
		add(b.value)
	}

	return out
}

// ToDelimited - форма хранения: через запятую, без экранирования.
func ToDelimited(barcodes []string) string {
	parts := make([]string, 0, len(barcodes))
	for _, b := range barcodes {
		if b = strings.TrimSpace(b); b != "" {
			parts = append(parts, b)
		}
	}
	return strings.Join(parts, barcodeDelimiter)
}

func FromDelimited(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(text, barcodeDelimiter) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ValidBarcode: штрихкод с разделителем в кэше не найти, см. ToDelimited.
func ValidBarcode(code string) bool {
	code = strings.TrimSpace(code)
	return code != "" && !strings.Contains(code, barcodeDelimiter)
}
