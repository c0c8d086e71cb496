package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeShowName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "The Office", "the office"},
		{"punctuation collapses", "The.Office.(US)", "the office us"},
		{"apostrophe", "It's Always Sunny", "it s always sunny"},
		{"extra whitespace", "  Doctor   Who  ", "doctor who"},
		{"diacritics", "Café Nostalgia", "cafe nostalgia"},
		{"mixed", "Mr_Robot-2015", "mr robot 2015"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeShowName(tt.input))
		})
	}
}

func TestNormalizeShowName_Equivalence(t *testing.T) {
	// Variants of the same show name must share one natural key.
	variants := []string{
		"The Office (US)",
		"the.office.us",
		"THE OFFICE: US",
	}
	for _, v := range variants[1:] {
		assert.Equal(t, NormalizeShowName(variants[0]), NormalizeShowName(v), v)
	}
}
