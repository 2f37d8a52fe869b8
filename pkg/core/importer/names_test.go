package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchPartialName(t *testing.T) {
	tests := []struct {
		name     string
		short    string
		full     string
		expected bool
	}{
		{"surname and initial", "Rossi M.", "Mario Rossi", true},
		{"surname-first full name", "Rossi M.", "Rossi Mario", true},
		{"compound surname with double initials", "De Rosa G.B.", "Giovan Battista De Rosa", true},
		{"compound surname, surname-first order", "De Rosa G.B.", "De Rosa Giovan Battista", true},
		{"wrong surname", "Bianchi L.", "Mario Rossi", false},
		{"wrong initial", "Rossi L.", "Mario Rossi", false},
		{"case insensitive", "rossi m.", "MARIO ROSSI", true},
		{"exact full name", "Mario Rossi", "Mario Rossi", true},
		{"surname only, no initial", "Rossi", "Mario Rossi", false},
		{"compound short surname absent from full name", "De Rossi M.", "Mario Rossi", false},
		{"more initials than given names", "Rossi M.L.", "Mario Rossi", false},
		{"surrounding whitespace", "  Rossi M. ", " Mario Rossi ", true},
		{"empty short form", "", "Mario Rossi", false},
		{"empty full name", "Rossi M.", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchPartialName(tt.short, tt.full))
		})
	}
}
