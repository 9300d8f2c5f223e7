package dispatch

import (
	"encoding/json"
	"os"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

func LoadLocalizer(lang string) *i18n.Localizer {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	// Message files are optional: the IDs below carry English defaults
	for _, path := range []string{"i18n/en.json", "i18n/es.json"} {
		if _, err := os.Stat(path); err == nil {
			bundle.MustLoadMessageFile(path)
		}
	}
	if lang != "" {
		return i18n.NewLocalizer(bundle, lang, "en")
	}
	return i18n.NewLocalizer(bundle, "en")
}

func localizeFallbackSender(localizer *i18n.Localizer) string {
	return localizer.MustLocalize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    "unknown_sender",
			Other: "Someone",
		},
	})
}

func localizeFallbackBody(localizer *i18n.Localizer) string {
	return localizer.MustLocalize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{
			ID:    "empty_message_body",
			Other: "New message",
		},
	})
}
