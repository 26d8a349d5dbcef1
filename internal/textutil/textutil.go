package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)
	nonDigitRE   = regexp.MustCompile(`\D`)
	currencyRE   = regexp.MustCompile(`[R$\s]`)
	nonSlugRE    = regexp.MustCompile(`[^\w\s-]`)
	slugSepRE    = regexp.MustCompile(`[-\s]+`)
)

// DefaultDateFormats are tried in order by ParseDateFlexible. Brazilian
// day-first layouts come before ISO variants because that is what court
// pages render.
var DefaultDateFormats = []string{
	"02/01/2006",
	"02/01/2006 15:04:05",
	"02/01/2006 às 15:04",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"02.01.2006",
}

// NormalizeWhitespace collapses runs of whitespace into a single space and
// trims both ends.
func NormalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(text, " "))
}

// StripAccents decomposes text to NFD and drops combining marks.
// "Ação" becomes "Acao".
func StripAccents(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// Slugify converts text into a URL-friendly slug.
// "Ação de Cobrança" becomes "acao-de-cobranca".
func Slugify(text string) string {
	text = StripAccents(strings.ToLower(text))
	text = nonSlugRE.ReplaceAllString(text, "")
	text = slugSepRE.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// TruncateText truncates text to maxLength, appending suffix when cut.
func TruncateText(text string, maxLength int, suffix string) string {
	if len(text) <= maxLength {
		return text
	}
	return text[:maxLength-len(suffix)] + suffix
}

// ParseCurrency parses a Brazilian currency string into a decimal.
// "R$ 1.234,56" becomes 1234.56. Returns nil for unparsable input.
func ParseCurrency(value string) *decimal.Decimal {
	if value == "" {
		return nil
	}

	clean := currencyRE.ReplaceAllString(value, "")
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return nil
	}
	return &d
}

// ParseDateFlexible tries each format in order and returns the first match.
// A nil formats slice falls back to DefaultDateFormats. Returns nil when no
// format matches.
func ParseDateFlexible(dateStr string, formats []string) *time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil
	}

	if formats == nil {
		formats = DefaultDateFormats
	}

	for _, layout := range formats {
		if t, err := time.Parse(layout, dateStr); err == nil {
			return &t
		}
	}
	return nil
}

// OnlyDigits strips every non-digit character.
func OnlyDigits(s string) string {
	return nonDigitRE.ReplaceAllString(s, "")
}

// ValidateCaseNumber validates a case number against the CNJ standard
// (NNNNNNN-DD.AAAA.J.TR.OOOO): 20 digits whose check pair DD equals
// 98 - ((NNNNNNN || AAAA || JTROOOO) mod 97).
func ValidateCaseNumber(number string) bool {
	clean := OnlyDigits(number)
	if len(clean) != 20 {
		return false
	}

	sequential := clean[0:7]
	checkPair := clean[7:9]
	year := clean[9:13]

	base, err := strconv.ParseUint(sequential+year+clean[13:], 10, 64)
	if err != nil {
		return false
	}

	check, err := strconv.Atoi(checkPair)
	if err != nil {
		return false
	}

	return check == int(98-base%97)
}

// CaseNumberParts holds the positional segments of a CNJ case number.
type CaseNumberParts struct {
	Sequential string `json:"sequential"`
	CheckDigit string `json:"check_digit"`
	Year       string `json:"year"`
	Segment    string `json:"segment"`
	CourtCode  string `json:"court_code"`
	OriginCode string `json:"origin_code"`
}

// ExtractCaseNumberParts slices a CNJ case number into its segments.
// Returns the zero value and false when the digit count is not 20.
func ExtractCaseNumberParts(number string) (CaseNumberParts, bool) {
	clean := OnlyDigits(number)
	if len(clean) != 20 {
		return CaseNumberParts{}, false
	}

	return CaseNumberParts{
		Sequential: clean[0:7],
		CheckDigit: clean[7:9],
		Year:       clean[9:13],
		Segment:    clean[13:14],
		CourtCode:  clean[14:16],
		OriginCode: clean[16:20],
	}, true
}

// ValidateCPF validates a Brazilian CPF number.
func ValidateCPF(cpf string) bool {
	cpf = OnlyDigits(cpf)
	if len(cpf) != 11 || allSameDigit(cpf) {
		return false
	}

	for i := 9; i < 11; i++ {
		sum := 0
		for num := 0; num < i; num++ {
			sum += int(cpf[num]-'0') * ((i + 1) - num)
		}
		digit := ((sum * 10) % 11) % 10
		if digit != int(cpf[i]-'0') {
			return false
		}
	}
	return true
}

// ValidateCNPJ validates a Brazilian CNPJ number.
func ValidateCNPJ(cnpj string) bool {
	cnpj = OnlyDigits(cnpj)
	if len(cnpj) != 14 || allSameDigit(cnpj) {
		return false
	}

	weights1 := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	weights2 := []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

	digit1 := cnpjCheckDigit(cnpj[:12], weights1)
	digit2 := cnpjCheckDigit(cnpj[:13], weights2)

	return int(cnpj[12]-'0') == digit1 && int(cnpj[13]-'0') == digit2
}

func cnpjCheckDigit(partial string, weights []int) int {
	sum := 0
	for i := range weights {
		sum += int(partial[i]-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder < 2 {
		return 0
	}
	return 11 - remainder
}

func allSameDigit(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
