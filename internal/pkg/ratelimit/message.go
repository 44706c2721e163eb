package ratelimit

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const tooManyRequestsKey = "Too many requests. Please try again in %d minute(s)."

var (
	supportedLanguages = []language.Tag{language.English, language.Spanish, language.Korean}
	languageMatcher    = language.NewMatcher(supportedLanguages)
	messages           = buildCatalog()
)

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	_ = b.SetString(language.English, tooManyRequestsKey, "Too many requests. Please try again in %d minute(s).")
	_ = b.SetString(language.Spanish, tooManyRequestsKey, "Demasiadas solicitudes. Inténtalo de nuevo en %d minuto(s).")
	_ = b.SetString(language.Korean, tooManyRequestsKey, "요청이 너무 많습니다. %d분 후에 다시 시도해 주세요.")
	return b
}

// TooManyRequestsMessage renders the rejection message in the best match for
// an Accept-Language header value. Unknown or empty headers fall back to
// English. retryAfter is shown in whole minutes, at least one.
func TooManyRequestsMessage(acceptLanguage string, retryAfter time.Duration) string {
	tags, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	_, idx, _ := languageMatcher.Match(tags...)

	minutes := int((retryAfter + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}

	p := message.NewPrinter(supportedLanguages[idx], message.Catalog(messages))
	return p.Sprintf(tooManyRequestsKey, minutes)
}
