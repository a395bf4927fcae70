package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Marie Curie", "marie-curie"},
		{"  Ada   Lovelace  ", "ada-lovelace"},
		{"O'Brien, Flann", "o-brien-flann"},
		{"Jean-Paul Sartre", "jean-paul-sartre"},
		{"Elizabeth II", "elizabeth-ii"},
		{"  --- ", ""},
		{"", ""},
		{"Dvořák", "dvořák"},
		{"person #42!", "person-42"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestSlugifyStable(t *testing.T) {
	assert.Equal(t, Slugify("Niels Bohr"), Slugify("Niels Bohr"))
}
