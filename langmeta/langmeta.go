// Package langmeta maps ARB locale codes to display names for CLI output.
package langmeta

import "strings"

// Meta describes how a locale is shown to the user.
type Meta struct {
	Name string
	Flag string
}

// Registry is keyed by canonical ARB locale (language[_Script][_REGION]).
var Registry = map[string]Meta{
	"ar":         {Name: "العربية", Flag: "🇸🇦"},
	"de":         {Name: "Deutsch", Flag: "🇩🇪"},
	"en":         {Name: "English", Flag: "🇺🇸"},
	"en_GB":      {Name: "English (UK)", Flag: "🇬🇧"},
	"es":         {Name: "Español", Flag: "🇪🇸"},
	"fr":         {Name: "Français", Flag: "🇫🇷"},
	"id":         {Name: "Bahasa Indonesia", Flag: "🇮🇩"},
	"it":         {Name: "Italiano", Flag: "🇮🇹"},
	"ja":         {Name: "日本語", Flag: "🇯🇵"},
	"ko":         {Name: "한국어", Flag: "🇰🇷"},
	"ms":         {Name: "Bahasa Melayu", Flag: "🇲🇾"},
	"pt":         {Name: "Português", Flag: "🇵🇹"},
	"pt_BR":      {Name: "Português (Brasil)", Flag: "🇧🇷"},
	"ru":         {Name: "Русский", Flag: "🇷🇺"},
	"th":         {Name: "ไทย", Flag: "🇹🇭"},
	"tr":         {Name: "Türkçe", Flag: "🇹🇷"},
	"vi":         {Name: "Tiếng Việt", Flag: "🇻🇳"},
	"zh":         {Name: "中文", Flag: "🇨🇳"},
	"zh_CN":      {Name: "简体中文", Flag: "🇨🇳"},
	"zh_Hans":    {Name: "简体中文", Flag: "🇨🇳"},
	"zh_Hant":    {Name: "繁體中文", Flag: "🇹🇼"},
	"zh_HK":      {Name: "繁體中文 (香港)", Flag: "🇭🇰"},
	"zh_Hant_HK": {Name: "繁體中文 (香港)", Flag: "🇭🇰"},
	"zh_TW":      {Name: "繁體中文", Flag: "🇹🇼"},
	"zh_Hant_TW": {Name: "繁體中文", Flag: "🇹🇼"},
}

// Canonical rewrites a locale tag into the form Flutter uses in ARB file
// names: lower-case language, title-case script, upper-case region, all
// joined by underscores.
func Canonical(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "-", "_")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "_")
	parts[0] = strings.ToLower(parts[0])
	for i := 1; i < len(parts); i++ {
		switch len(parts[i]) {
		case 4:
			parts[i] = strings.ToUpper(parts[i][:1]) + strings.ToLower(parts[i][1:])
		default:
			parts[i] = strings.ToUpper(parts[i])
		}
	}
	return strings.Join(parts, "_")
}

// Resolve returns metadata for lang, falling back from language_Script_REGION
// to shorter tags. Unknown locales come back with their own code as name.
func Resolve(lang string) Meta {
	if m, ok := Registry[lang]; ok {
		return m
	}
	tag := Canonical(lang)
	for tag != "" {
		if m, ok := Registry[tag]; ok {
			return m
		}
		i := strings.LastIndexByte(tag, '_')
		if i < 0 {
			break
		}
		tag = tag[:i]
	}
	return Meta{Name: lang}
}

// Label renders "code (Name)", or just the code when nothing better is known.
func Label(lang string) string {
	m := Resolve(lang)
	if m.Name == "" || m.Name == lang {
		return lang
	}
	return lang + " (" + m.Name + ")"
}
