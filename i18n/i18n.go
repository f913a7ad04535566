// Package i18n localizes arbkit's own CLI messages. Catalogs are .po
// files embedded under locales/<catalog>/LC_MESSAGES/arbkit.po.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

const domain = "arbkit"

var po *gotext.Locale

// Init selects the message catalog for lang, or for the user's locale
// environment when lang is empty. Call it before the command tree is built
// so flag help is translated too.
func Init(lang string) {
	if lang == "" {
		lang = envLocale()
	}
	po = gotext.NewLocaleFSWithPath(catalogFor(lang), locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T returns the translation of msgid, or msgid itself.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N picks the plural form for n.
func N(singular, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return singular
		}
		return plural
	}
	return po.GetN(singular, plural, n)
}

// envLocale follows the gettext lookup order. "C", "POSIX" and unset
// variables fall through; the result has no encoding suffix.
func envLocale() string {
	for _, name := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(name)
		if name == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		val, _, _ = strings.Cut(val, ".")
		if val == "" || val == "C" || val == "POSIX" {
			continue
		}
		return val
	}
	return "en"
}

// catalogFor maps a locale to the catalog that serves it. Simplified
// Chinese variants share zh_CN.
func catalogFor(lang string) string {
	l := strings.ReplaceAll(lang, "-", "_")
	switch l {
	case "zh", "zh_SG", "zh_Hans", "zh_Hans_CN":
		return "zh_CN"
	}
	return l
}
