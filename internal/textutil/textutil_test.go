package textutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapses runs", "Ação   de\t\tCobrança", "Ação de Cobrança"},
		{"trims ends", "  valor  ", "valor"},
		{"newlines", "linha um\nlinha dois", "linha um linha dois"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeWhitespace(tt.input))
		})
	}
}

func TestStripAccents(t *testing.T) {
	assert.Equal(t, "Acao de Cobranca", StripAccents("Ação de Cobrança"))
	assert.Equal(t, "Juiz", StripAccents("Juiz"))
	assert.Equal(t, "Reu", StripAccents("Réu"))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "acao-de-cobranca", Slugify("Ação de Cobrança"))
	assert.Equal(t, "transito-em-julgado", Slugify("  Trânsito em Julgado! "))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "abc", TruncateText("abc", 10, "..."))
	assert.Equal(t, "abcdefg...", TruncateText("abcdefghijk", 10, "..."))
}

func TestParseCurrency(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"R$ 1.234,56", "1234.56"},
		{"R$1.000.000,00", "1000000.00"},
		{"R$ 50,00", "50.00"},
		{"123,45", "123.45"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseCurrency(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}

	assert.Nil(t, ParseCurrency(""))
	assert.Nil(t, ParseCurrency("sem valor"))
}

func TestParseDateFlexible(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"15/03/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"15/03/2024 14:30:00", time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)},
		{"15/03/2024 às 14:30", time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)},
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15 14:30:00", time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)},
		{"15-03-2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"15.03.2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDateFlexible(tt.input, nil)
			require.NotNil(t, got)
			assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
		})
	}

	assert.Nil(t, ParseDateFlexible("", nil))
	assert.Nil(t, ParseDateFlexible("não é data", nil))
	assert.Nil(t, ParseDateFlexible("15/03/2024", []string{"2006-01-02"}))
}

func TestValidateCaseNumber(t *testing.T) {
	// 1234567 || 2024 || 1234567 has mod-97 remainder 76, so the check
	// pair must be 22.
	valid := "1234567-22.2024.1.23.4567"

	assert.True(t, ValidateCaseNumber(valid))
	assert.True(t, ValidateCaseNumber("12345672220241234567"))

	// Mutated check pair
	assert.False(t, ValidateCaseNumber("1234567-23.2024.1.23.4567"))
	assert.False(t, ValidateCaseNumber("1234567-21.2024.1.23.4567"))

	// Wrong length
	assert.False(t, ValidateCaseNumber("1234567"))
	assert.False(t, ValidateCaseNumber(""))
	assert.False(t, ValidateCaseNumber("123456722202412345678"))
}

func TestExtractCaseNumberParts(t *testing.T) {
	parts, ok := ExtractCaseNumberParts("1234567-89.2024.1.23.4567")
	require.True(t, ok)

	assert.Equal(t, "1234567", parts.Sequential)
	assert.Equal(t, "89", parts.CheckDigit)
	assert.Equal(t, "2024", parts.Year)
	assert.Equal(t, "1", parts.Segment)
	assert.Equal(t, "23", parts.CourtCode)
	assert.Equal(t, "4567", parts.OriginCode)

	_, ok = ExtractCaseNumberParts("12345")
	assert.False(t, ok)
}

func TestValidateCPF(t *testing.T) {
	assert.True(t, ValidateCPF("529.982.247-25"))
	assert.False(t, ValidateCPF("529.982.247-26"))
	assert.False(t, ValidateCPF("111.111.111-11"))
	assert.False(t, ValidateCPF("123"))
}

func TestValidateCNPJ(t *testing.T) {
	assert.True(t, ValidateCNPJ("11.222.333/0001-81"))
	assert.False(t, ValidateCNPJ("11.222.333/0001-82"))
	assert.False(t, ValidateCNPJ("11.111.111/1111-11"))
	assert.False(t, ValidateCNPJ("123"))
}
