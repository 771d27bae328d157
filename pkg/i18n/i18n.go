package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var localeFiles = []string{
	"locales/active.es.json",
	"locales/active.en.json",
}

// Translator renders message ids from the embedded locale files.
type Translator struct {
	bundle      *goi18n.Bundle
	defaultLang string
}

func New(defaultLang string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.Spanish)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, f := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	if defaultLang == "" {
		defaultLang = "es"
	}
	return &Translator{bundle: bundle, defaultLang: defaultLang}, nil
}

// Localize reports false when the id has no translation in any language.
func (t *Translator) Localize(lang, messageID string, data map[string]any) (string, bool) {
	if lang == "" {
		lang = t.defaultLang
	}
	loc := goi18n.NewLocalizer(t.bundle, lang, t.defaultLang)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return "", false
	}
	return msg, true
}
