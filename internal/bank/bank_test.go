package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCoversEveryFactorPair(t *testing.T) {
	problems := Generate()
	require.Len(t, problems, 121)

	seen := map[string]bool{}
	i := 0
	for left := MinFactor; left <= MaxFactor; left++ {
		for right := MinFactor; right <= MaxFactor; right++ {
			p := problems[i]
			assert.Equal(t, left, p.Left)
			assert.Equal(t, right, p.Right)
			assert.Equal(t, left*right, p.Answer)
			assert.Equal(t, Text(left, right), p.Text)
			assert.False(t, seen[p.Text], "duplicate problem %q", p.Text)
			seen[p.Text] = true
			i++
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	assert.Equal(t, Generate(), Generate())
}

func TestDecoysAreValid(t *testing.T) {
	for _, p := range Generate() {
		require.NotEmpty(t, p.Decoys, p.Text)
		seen := map[int]bool{}
		for _, d := range p.Decoys {
			assert.Positive(t, d, p.Text)
			assert.NotEqual(t, p.Answer, d, p.Text)
			assert.False(t, seen[d], "%s repeats decoy %d", p.Text, d)
			seen[d] = true
		}
	}
}

func TestDecoysKeepScanOrder(t *testing.T) {
	// 2 ✕ 2: left offsets -2..2 give factors 0..4, so the first row is all zero
	// and the answer 4 never appears.
	p := Generate()[0]
	require.Equal(t, "2 ✕ 2", p.Text)
	assert.Equal(t, []int{1, 2, 3, 6, 8, 9, 12, 16}, p.Decoys)
}

func TestForTable(t *testing.T) {
	problems := Generate()
	assert.Len(t, ForTable(problems, AllTables), 121)

	sevens := ForTable(problems, 7)
	require.Len(t, sevens, 11)
	for _, p := range sevens {
		assert.Equal(t, 7, p.Left)
	}
	assert.Empty(t, ForTable(problems, 13))
}

func TestValidTable(t *testing.T) {
	assert.True(t, ValidTable(AllTables))
	assert.True(t, ValidTable(2))
	assert.True(t, ValidTable(12))
	assert.False(t, ValidTable(1))
	assert.False(t, ValidTable(13))
}

func TestLookup(t *testing.T) {
	problems := Generate()
	p, ok := Lookup(problems, "3 ✕ 4")
	require.True(t, ok)
	assert.Equal(t, 12, p.Answer)

	_, ok = Lookup(problems, "1 ✕ 1")
	assert.False(t, ok)
}
