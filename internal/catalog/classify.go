package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category groups templates in listings.
type Category string

// Categories assigned to imported templates by filename, plus the categories
// used by built-ins. CategoryCustom is the catch-all.
const (
	CategoryBasic          Category = "Basic"
	CategoryArchitecture   Category = "Architecture"
	CategoryModule         Category = "Module"
	CategoryAppComposition Category = "App Composition"
	CategorySystem         Category = "System"
	CategoryService        Category = "Service"
	CategoryIntegration    Category = "Integration"
	CategoryDataPipeline   Category = "Data Pipeline"
	CategoryMigration      Category = "Migration"
	CategoryMonitoring     Category = "Monitoring"
	CategoryTesting        Category = "Testing"
	CategoryCustom         Category = "Custom"
)

// Languages a template can be written in.
const (
	LanguageDefault   = "English"
	LanguageLocalized = "Korean"
)

// categoryIcons is the single category → glyph table.
var categoryIcons = map[Category]string{
	CategoryBasic:          "📄",
	CategoryArchitecture:   "🏗️",
	CategoryModule:         "📋",
	CategoryAppComposition: "🏢",
	CategorySystem:         "🖥️",
	CategoryService:        "🔗",
	CategoryIntegration:    "🔗",
	CategoryDataPipeline:   "📊",
	CategoryMigration:      "🔄",
	CategoryMonitoring:     "📈",
	CategoryTesting:        "🧪",
	CategoryCustom:         "📄",
}

// Icon returns the glyph shown next to the category.
func (c Category) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return categoryIcons[CategoryCustom]
}

// rule maps filename keywords to a category.
type rule struct {
	keywords []string
	category Category
}

// categoryRules is evaluated top to bottom and the first rule with a keyword
// contained in the lower-cased filename wins. The order is part of the
// contract: "data-module" is a Module, "app-test" is an App Composition.
var categoryRules = []rule{
	{keywords: []string{"module"}, category: CategoryModule},
	{keywords: []string{"app", "composition"}, category: CategoryAppComposition},
	{keywords: []string{"system"}, category: CategorySystem},
	{keywords: []string{"integration"}, category: CategoryIntegration},
	{keywords: []string{"data", "pipeline"}, category: CategoryDataPipeline},
	{keywords: []string{"migration"}, category: CategoryMigration},
	{keywords: []string{"monitoring"}, category: CategoryMonitoring},
	{keywords: []string{"test"}, category: CategoryTesting},
}

// Classify returns the category for a filename without extension.
func Classify(baseName string) Category {
	lower := strings.ToLower(baseName)
	for _, r := range categoryRules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return CategoryCustom
}

// DetectLanguage reports the language a template is written in, judged from
// its filename: a "-ko" suffix or a "kr"/"한글" marker means localized.
func DetectLanguage(baseName string) string {
	lower := strings.ToLower(baseName)
	if strings.HasSuffix(lower, "-ko") || strings.Contains(baseName, "한글") || strings.Contains(lower, "kr") {
		return LanguageLocalized
	}
	return LanguageDefault
}

// nameCaser title-cases display names; cases.Caser is not safe for
// concurrent use, so one is built per call.
func newNameCaser() cases.Caser {
	return cases.Title(language.Und, cases.NoLower)
}

// DisplayName turns a filename without extension into a listing label, e.g.
// "payment-module-template-ko" becomes "Payment Module".
func DisplayName(baseName string) string {
	name := baseName
	for _, s := range []string{"-template", "template-", "-ko", "-en"} {
		name = strings.ReplaceAll(name, s, "")
	}
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "Imported Template"
	}
	return newNameCaser().String(name)
}

// describe returns the description for an imported template.
func describe(baseName string, localized bool) string {
	switch Classify(baseName) {
	case CategoryModule:
		if localized {
			return "모듈 명세 템플릿"
		}
		return "Module specification template"
	case CategoryAppComposition:
		if localized {
			return "앱 구성 템플릿"
		}
		return "Application composition template"
	}
	if localized {
		return "임포트된 템플릿"
	}
	return "Imported template"
}
