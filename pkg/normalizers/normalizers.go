// Package normalizers provides string normalization for place-name matching.
// Language-specific behavior lives in rule tables (prefixes, category words,
// suffixes) so new languages are table additions, not new code paths.
package normalizers

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalizer is a function that normalizes a string value
type Normalizer func(string) string

// registry holds all registered normalizers
var registry = make(map[string]Normalizer)

func init() {
	Register("lowercase", strings.ToLower)
	Register("trim", strings.TrimSpace)
	Register("nplace", NormalizeName)
	Register("core_name", CoreName)
	Register("nphone", NormalizePhone)
	Register("remove_whitespace", RemoveWhitespace)
}

// Register adds a normalizer to the registry
func Register(name string, fn Normalizer) {
	registry[name] = fn
}

// Get retrieves a normalizer by name
func Get(name string) (Normalizer, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Apply applies a named normalizer to a value
func Apply(value, normalizer string) string {
	fn, ok := registry[normalizer]
	if !ok {
		return value
	}
	return fn(value)
}

// apostropheReplacer folds typographic apostrophe variants to the ASCII form.
var apostropheReplacer = strings.NewReplacer(
	"’", "'", // right single quotation mark
	"‘", "'", // left single quotation mark
	"ʼ", "'", // modifier letter apostrophe
	"`", "'", // grave accent used as apostrophe
	"´", "'", // acute accent used as apostrophe
)

// stripMarks decomposes and removes combining diacritical marks.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// genericPrefixes are leading articles and generic place words, ordered
// longest-first so compound prefixes win over their embedded articles.
// Stripping repeats until no rule applies ("la basilica de la ..." loses
// both layers).
var genericPrefixes = []string{
	"basilica de la ",
	"basilica del ",
	"basilica di ",
	"cathedral of ",
	"catedral de ",
	"cathedrale de ",
	"church of ",
	"eglise de ",
	"iglesia de ",
	"mercado central de ",
	"mercado de ",
	"mercat de la ",
	"mercat del ",
	"mercat de ",
	"marche de ",
	"museum of ",
	"musee de la ",
	"musee de ",
	"musee du ",
	"museo de ",
	"museo del ",
	"museu de ",
	"museu del ",
	"palace of ",
	"palacio de ",
	"palais de ",
	"parc de la ",
	"parc del ",
	"parc de ",
	"parque de ",
	"plaza de ",
	"placa de ",
	"place de la ",
	"place de ",
	"temple of ",
	"the ",
	"las ",
	"los ",
	"els ",
	"les ",
	"la ",
	"le ",
	"el ",
	"il ",
}

// categoryWords are translated generic category words removed wherever they
// appear as standalone tokens ("museum"/"musee"/"museo" etc).
var categoryWords = []string{
	"museum", "musee", "museo", "museu",
	"basilica", "cathedral", "catedral", "cathedrale",
	"church", "eglise", "iglesia", "esglesia",
	"temple", "templo",
	"market", "mercado", "mercat", "marche",
	"palace", "palacio", "palais", "palau",
	"castle", "castillo", "castell", "chateau",
	"garden", "gardens", "jardin", "jardines", "jardi",
}

// genericSuffixes are trailing generic place words stripped from the end of
// a name before comparison.
var genericSuffixes = []string{
	" temple",
	" shrine",
	" market",
	" station",
	" square",
	" park",
	" museum",
	" palace",
	" tower",
	" bridge",
	" beach",
	" garden",
	" gardens",
	" cathedral",
	" castle",
	" hall",
}

// NormalizeName lowercases, strips diacritics, canonicalizes apostrophes and
// collapses whitespace. This is the literal normalized form used for exact
// and edit-distance comparison.
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = apostropheReplacer.Replace(s)
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	return collapseWhitespace(s)
}

// CoreName reduces a normalized name to its distinctive core: leading
// articles and generic prefixes are stripped (repeatedly), generic category
// tokens and trailing generic suffixes are removed, and hyphens become
// spaces. "Basílica de la Sagrada Família" and "Sagrada Familia" both reduce
// to "sagrada familia".
func CoreName(s string) string {
	s = NormalizeName(s)

	for {
		stripped := s
		for _, prefix := range genericPrefixes {
			if strings.HasPrefix(stripped, prefix) && len(stripped) > len(prefix) {
				stripped = strings.TrimSpace(stripped[len(prefix):])
			}
		}
		if stripped == s {
			break
		}
		s = stripped
	}

	s = strings.ReplaceAll(s, "-", " ")

	tokens := strings.Fields(s)
	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if isCategoryWord(tok) && len(tokens) > 1 {
			continue
		}
		kept = append(kept, tok)
	}
	s = strings.Join(kept, " ")

	for _, suffix := range genericSuffixes {
		if strings.HasSuffix(s, suffix) && len(s) > len(suffix) {
			s = strings.TrimSpace(s[:len(s)-len(suffix)])
		}
	}

	return collapseWhitespace(s)
}

// Depluralize removes a single trailing "s" so "Las Ramblas" can meet
// "La Rambla" after article stripping.
func Depluralize(s string) string {
	if len(s) > 3 && strings.HasSuffix(s, "s") && !strings.HasSuffix(s, "ss") {
		return s[:len(s)-1]
	}
	return s
}

// NormalizePhone removes all non-digit characters from a phone number
func NormalizePhone(s string) string {
	var result strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// RemoveWhitespace removes all whitespace characters
func RemoveWhitespace(s string) string {
	var result strings.Builder
	for _, r := range s {
		if !unicode.IsSpace(r) {
			result.WriteRune(r)
		}
	}
	return result.String()
}

func isCategoryWord(tok string) bool {
	for _, w := range categoryWords {
		if tok == w {
			return true
		}
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
