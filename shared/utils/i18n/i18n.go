// Package i18n resolves the effective language of a request and picks
// the matching variant of bilingual template fields. English text lives
// in _en columns; the base column always holds the Turkish text, which
// doubles as the fallback.
package i18n

import (
	"strings"

	"auditgate-backend/shared/config"

	"github.com/gin-gonic/gin"
)

// ResolveLanguage picks the effective language for a request: the
// explicit `lang` query parameter when supported, else the first
// supported 2-letter prefix from the Accept-Language header in header
// order, else the configured default.
func ResolveLanguage(ctx *gin.Context) string {
	cfg := config.GetConfig()

	if lang := ctx.Query("lang"); lang != "" && cfg.IsLanguageSupported(lang) {
		return lang
	}

	// Accept-Language looks like "en-US,en;q=0.9,tr;q=0.8".
	acceptLanguage := ctx.GetHeader("Accept-Language")
	if acceptLanguage != "" {
		for _, part := range strings.Split(acceptLanguage, ",") {
			code := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
			code = strings.ToLower(code)
			if len(code) > 2 {
				code = code[:2]
			}
			if cfg.IsLanguageSupported(code) {
				return code
			}
		}
	}

	return cfg.DefaultLanguage
}

// Normalize clamps a caller-supplied language code to a supported one,
// falling back to the configured default.
func Normalize(lang string) string {
	cfg := config.GetConfig()
	if cfg.IsLanguageSupported(lang) {
		return lang
	}
	return cfg.DefaultLanguage
}

// Field returns the English variant when lang is "en" and the variant
// is non-blank after trimming; otherwise the trimmed base value, or ""
// when the base value is blank too.
func Field(lang, base, en string) string {
	if lang == "en" {
		if trimmed := strings.TrimSpace(en); trimmed != "" {
			return trimmed
		}
	}
	return strings.TrimSpace(base)
}
