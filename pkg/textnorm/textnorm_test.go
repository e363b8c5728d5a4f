package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentCollapsesAndLowers(t *testing.T) {
	assert.Equal(t, "exam form due 15 march", Content("  Exam\tForm\n\nDUE   15 March "))
}

func TestHashIgnoresWhitespaceAndCase(t *testing.T) {
	a := Hash("Library\nopen 9 AM")
	b := Hash("  library   OPEN 9 am ")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, Hash("library open 10 am"))
}

func TestQuery(t *testing.T) {
	cases := map[string]string{
		"Library   HOURS?":       "library hours ",
		"परीक्षा फॉर्म।":         "परीक्षा फॉर्म ",
		"ID\u200bcard, lost!":    "idcard lost ",
		"ＬＩＢＲＡＲＹ":                "library",
		"  what; is:this|now.. ": "what is this now ",
	}
	for in, want := range cases {
		assert.Equal(t, want, Query(in), in)
	}
}

func TestCompact(t *testing.T) {
	assert.Equal(t, "librarytimings", Compact("library timings"))
}
