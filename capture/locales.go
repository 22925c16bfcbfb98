package capture

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed locales.yaml
var localesYAML []byte

type localeTable struct {
	Default string            `yaml:"default"`
	Locales map[string]string `yaml:"locales"`
}

var locales = mustLoadLocales(localesYAML)

func mustLoadLocales(data []byte) localeTable {
	t, err := parseLocales(data)
	if err != nil {
		panic(err)
	}
	return t
}

func parseLocales(data []byte) (localeTable, error) {
	var t localeTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return localeTable{}, fmt.Errorf("capture: parse locale table: %w", err)
	}
	if t.Default == "" {
		return localeTable{}, fmt.Errorf("capture: locale table has no default")
	}
	return t, nil
}

// Locale returns the recognition locale for a display language, falling
// back to en-US.
func Locale(language string) string {
	if l, ok := locales.Locales[language]; ok {
		return l
	}
	return locales.Default
}

// Languages returns the display languages with a known locale, sorted.
func Languages() []string {
	names := make([]string, 0, len(locales.Locales))
	for name := range locales.Locales {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
