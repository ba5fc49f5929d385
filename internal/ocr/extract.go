package ocr

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/MKhiriev/go-doc-verifier/models"
)

var (
	documentNumberPattern = regexp.MustCompile(`(\d{4}\s?\d{4}\s?\d{4})`)
	vidPattern            = regexp.MustCompile(`VID\s*:\s*(\d{4}\s?\d{4}\s?\d{4}\s?\d{4})`)

	// Tried in order, the first match wins.
	namePatterns = []*regexp.Regexp{
		regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+){1,2})`),
		regexp.MustCompile(`(?i)([A-Za-z\s]+?)\s*(?:जन्म|DOB)`),
		regexp.MustCompile(`(?m)^([A-Za-z\s]+?):`),
		regexp.MustCompile(`([A-Z][a-z]+(?:\s+[A-Z][a-z]+)+)`),
	}
	nameLinePattern = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+$`)

	dateOfBirthPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:जन्म तिथि|DOB)[:\s]*(\d{2}/\d{2}/\d{4})`),
		regexp.MustCompile(`(\d{2}/\d{2}/\d{4})`),
	}

	genderPattern = regexp.MustCompile(`(?i)(?:FEMALE|MALE|पुरुष|महिला)`)

	nonWordPattern    = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Extract applies the field heuristics to recognized text. Fields that
// cannot be found are left empty.
func Extract(text string) models.ExtractedData {
	var data models.ExtractedData

	data.DocumentNumber = firstMatch(text, documentNumberPattern)
	data.VID = firstMatch(text, vidPattern)
	data.Name = firstMatch(text, namePatterns...)
	data.DateOfBirth = firstMatch(text, dateOfBirthPatterns...)
	data.Gender = normalizeGender(genderPattern.FindString(text))

	if data.Name == "" {
		data.Name = longestNameLine(text)
	}
	data.Name = cleanName(data.Name)

	return data
}

// Merge fills the empty fields of primary from fallback.
func Merge(primary, fallback models.ExtractedData) models.ExtractedData {
	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" {
			*dst = strings.TrimSpace(src)
		}
	}
	fill(&primary.DocumentNumber, fallback.DocumentNumber)
	fill(&primary.VID, fallback.VID)
	fill(&primary.Name, fallback.Name)
	fill(&primary.DateOfBirth, fallback.DateOfBirth)
	fill(&primary.Gender, fallback.Gender)
	return primary
}

func firstMatch(text string, patterns ...*regexp.Regexp) string {
	for _, p := range patterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if len(m) > 1 && strings.TrimSpace(m[1]) != "" {
			return strings.TrimSpace(m[1])
		}
		return strings.TrimSpace(m[0])
	}
	return ""
}

func longestNameLine(text string) string {
	var best string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if nameLinePattern.MatchString(line) && len(line) >= len(best) {
			best = line
		}
	}
	return best
}

// cleanName strips punctuation, collapses spaces and title-cases each word.
func cleanName(name string) string {
	name = nonWordPattern.ReplaceAllString(name, "")
	name = strings.TrimSpace(whitespacePattern.ReplaceAllString(name, " "))
	if name == "" {
		return ""
	}

	words := strings.Split(name, " ")
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func normalizeGender(g string) string {
	switch strings.ToUpper(g) {
	case "":
		return ""
	case "पुरुष":
		return "MALE"
	case "महिला":
		return "FEMALE"
	default:
		return strings.ToUpper(g)
	}
}
