package textnorm_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stockceramique/stockceramique-api/pkg/textnorm"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "ceramique", textnorm.Fold("Céramique"))
	assert.Equal(t, "carreau emaille 20x20", textnorm.Fold("  Carreau   ÉMAILLÉ 20x20 "))
	assert.Equal(t, "", textnorm.Fold(""))
}

func TestSearchKey(t *testing.T) {
	assert.Equal(t, "cer-001 four a gaz", textnorm.SearchKey("CER-001", "Four à gaz"))
}
