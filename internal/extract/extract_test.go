package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameDropsTrailingToken(t *testing.T) {
	first, last := Name("Zelle payment from John Q Public")
	assert.Equal(t, "John", first)
	assert.Equal(t, "Q", last)
}

func TestNameTwoWords(t *testing.T) {
	// The second word is treated as the confirmation token.
	first, last := Name("Zelle payment from John Smith")
	assert.Equal(t, "John", first)
	assert.Equal(t, "", last)
}

func TestNameMultiWordLastName(t *testing.T) {
	first, last := Name("Zelle payment from Mary Anne Van Der Berg Conf123")
	assert.Equal(t, "Mary", first)
	assert.Equal(t, "Anne Van Der Berg", last)
}

func TestNameUnrecognizedNarration(t *testing.T) {
	first, last := Name("random text")
	assert.Equal(t, "", first)
	assert.Equal(t, "", last)
}

func TestNamePrefixIsCaseSensitive(t *testing.T) {
	first, last := Name("zelle payment from John Smith Conf")
	assert.Equal(t, "", first)
	assert.Equal(t, "", last)
}

func TestNamePrefixOnly(t *testing.T) {
	first, last := Name("Zelle payment from ")
	assert.Equal(t, "", first)
	assert.Equal(t, "", last)
}

func TestNameSingleWord(t *testing.T) {
	first, last := Name("Zelle payment from John")
	assert.Equal(t, "", first)
	assert.Equal(t, "", last)
}
