package intent

import (
	"regexp"
	"strings"

	"github.com/molinerisit/wa-bot-sheets/pkg/nlp"
)

var (
	greetingPrefix = regexp.MustCompile(`(?i)^[\s¡!]*((?:hola+|buenas(?:\s+(?:tardes|noches))?|buen(?:os)?\s+d[ií]as?|hello|hey|qu[eé]\s+tal)(?:[\s,!.¡]+(?:hola+|buenas(?:\s+(?:tardes|noches))?|buen(?:os)?\s+d[ií]as?|qu[eé]\s+tal))*)\b[\s,!.¡?¿]*`)
	hoursRe        = regexp.MustCompile(`\b(horarios?|abren|abris|abre|cierran|cierra|atienden|a que hora)\b`)
	followUpRe     = regexp.MustCompile(`^(y\s+)?(cual era|que era|como era|cuanto (sale|cuesta|esta|vale)|el precio|precio|stock|hay stock|queda|quedan|ese|esa|eso|el anterior|la anterior|de ese|de esa)\b`)
)

// SplitGreeting separates a leading greeting from the rest of the message.
// ok is false when the text does not start with a greeting.
func SplitGreeting(text string) (greeting, rest string, ok bool) {
	loc := greetingPrefix.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text, false
	}
	greeting = strings.TrimSpace(text[loc[2]:loc[3]])
	rest = strings.TrimSpace(text[loc[1]:])
	return greeting, rest, true
}

// IsGreetingOnly reports whether the message is nothing but a greeting.
func IsGreetingOnly(text string) bool {
	_, rest, ok := SplitGreeting(text)
	return ok && strings.Trim(rest, " \t\n!¡?¿.,;:") == ""
}

func IsHoursRequest(text string) bool {
	return hoursRe.MatchString(nlp.Fold(text))
}

// MaxFollowUpTokens bounds what counts as a short contextual follow-up.
const MaxFollowUpTokens = 6

// followUpFiller may trail a follow-up prefix without naming a product.
var followUpFiller = map[string]struct{}{
	"y": {}, "de": {}, "del": {}, "el": {}, "la": {}, "lo": {}, "su": {}, "es": {}, "que": {},
	"ese": {}, "esa": {}, "eso": {}, "mismo": {}, "misma": {}, "anterior": {},
	"hay": {}, "tiene": {}, "tenes": {}, "tienen": {}, "stock": {}, "precio": {},
	"cuanto": {}, "sale": {}, "cuesta": {}, "esta": {}, "vale": {}, "queda": {}, "quedan": {},
	"todavia": {}, "aun": {}, "ahora": {}, "hoy": {}, "algo": {}, "porfa": {}, "por": {}, "favor": {},
}

// IsFollowUp reports whether text is a short question about the last product:
// a follow-up prefix with nothing but filler after it.
func IsFollowUp(text string) bool {
	tokens := nlp.Words(text)
	if len(tokens) == 0 || len(tokens) > MaxFollowUpTokens {
		return false
	}
	joined := strings.Join(tokens, " ")
	loc := followUpRe.FindStringIndex(joined)
	if loc == nil {
		return false
	}
	for _, w := range strings.Fields(joined[loc[1]:]) {
		if _, ok := followUpFiller[w]; !ok {
			return false
		}
	}
	return true
}
