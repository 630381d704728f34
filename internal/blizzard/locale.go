package blizzard

import (
	"strings"

	"golang.org/x/text/language"
)

// supportedLocales are the locales the Battle.net API serves, in the
// underscore form it expects.
var supportedLocales = []string{
	"en_US", "en_GB",
	"de_DE", "es_ES", "es_MX", "fr_FR", "it_IT", "pt_BR", "ru_RU",
	"ko_KR", "zh_TW", "zh_CN",
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(supportedLocales))
	for i, l := range supportedLocales {
		tags[i] = language.MustParse(strings.ReplaceAll(l, "_", "-"))
	}
	return language.NewMatcher(tags)
}()

// NormalizeLocale maps an arbitrary locale string (BCP 47 or the API's
// underscore form, any case) to the closest supported API locale. Unknown
// or empty input falls back to en_US.
func NormalizeLocale(locale string) string {
	if locale == "" {
		return "en_US"
	}

	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return "en_US"
	}

	_, index, _ := localeMatcher.Match(tag)
	return supportedLocales[index]
}
