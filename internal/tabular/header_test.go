package tabular

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeader_TrimsNames(t *testing.T) {
	h := NewHeader([]string{"\ufeffSample Name", " Sample File ", "Marker", "Allele 1 "})

	assert.True(t, h.Has("Sample Name", "Sample File", "Marker", "Allele 1"))
	assert.False(t, h.Has("Allele 2"))
	assert.Equal(t, []string{"Allele 2", "Dye"}, h.Missing("Marker", "Allele 2", "Dye"))
}

func TestHeader_Get(t *testing.T) {
	h := NewHeader([]string{"a", "b", "c"})

	assert.Equal(t, "2", h.Get([]string{"1", "2", "3"}, "b"))
	assert.Equal(t, "", h.Get([]string{"1"}, "c"))
	assert.Equal(t, "", h.Get([]string{"1", "2", "3"}, "z"))
}

func TestHeader_FirstDuplicateWins(t *testing.T) {
	h := NewHeader([]string{"x", "x"})
	assert.Equal(t, 0, h["x"])
}
