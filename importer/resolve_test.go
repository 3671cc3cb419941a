package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukerupert/vigie"
)

func TestMatchMachine(t *testing.T) {
	bySerial := &vigie.Machine{NumeroSerie: "SN-100", Constructeur: "Toyota", Modele: "8FBN25"}
	byTriple := &vigie.Machine{Constructeur: "Manitou", Modele: "MT 1840", ReferenceClient: "REF-7"}
	existing := []*vigie.Machine{bySerial, byTriple}

	tests := []struct {
		name      string
		candidate *vigie.ImportMachine
		want      *vigie.Machine
	}{
		{
			name:      "serial exact",
			candidate: &vigie.ImportMachine{NumeroSerie: "SN-100"},
			want:      bySerial,
		},
		{
			name:      "serial case insensitive and trimmed",
			candidate: &vigie.ImportMachine{NumeroSerie: "  sn-100 "},
			want:      bySerial,
		},
		{
			name: "serial present but unknown skips triple fallback",
			candidate: &vigie.ImportMachine{
				NumeroSerie:     "SN-999",
				Constructeur:    "Manitou",
				Modele:          "MT 1840",
				ReferenceClient: "REF-7",
			},
			want: nil,
		},
		{
			name: "triple match without serial",
			candidate: &vigie.ImportMachine{
				Constructeur:    "Manitou",
				Modele:          "MT 1840",
				ReferenceClient: "REF-7",
			},
			want: byTriple,
		},
		{
			name: "triple mismatch on reference",
			candidate: &vigie.ImportMachine{
				Constructeur:    "Manitou",
				Modele:          "MT 1840",
				ReferenceClient: "REF-8",
			},
			want: nil,
		},
		{
			name:      "all identifying fields empty is always new",
			candidate: &vigie.ImportMachine{Nature: "Chariot"},
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchMachine(existing, tt.candidate)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"2026-03-15", true},
		{"2026-03-15T10:30:00Z", true},
		{"15/03/2026", true},
		{"15-03-2026", true},
		{"", false},
		{"   ", false},
		{"mars 2026", false},
	}

	for _, tt := range tests {
		got := parseDate(tt.input)
		if tt.valid {
			assert.NotNil(t, got, "input %q", tt.input)
			assert.Equal(t, 2026, got.Year())
		} else {
			assert.Nil(t, got, "input %q", tt.input)
		}
	}
}
