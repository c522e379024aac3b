package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Table", "Questions", "Mistakes"}
	rows := [][]string{
		{"3", "12", "0"},
		{"11", "7", "14"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	assert.Equal(t, []string{
		"Table Questions Mistakes",
		"3            12        0",
		"11            7       14",
	}, formatTable(headers, rows, rightAlign))
}

func TestFormatTableEmpty(t *testing.T) {
	assert.Nil(t, formatTable(nil, nil, nil))
}
