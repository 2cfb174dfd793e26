package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "trace.json")
	assert.False(t, Exists(filePath))

	file, err := os.OpenFile(filePath, os.O_RDONLY|os.O_CREATE, 0666)
	assert.Nil(t, err)
	file.Close()

	assert.True(t, Exists(filePath))
}

func TestMinMax(t *testing.T) {
	assert.Equal(t, 1, Min(1, 2))
	assert.Equal(t, 2, Max(1, 2))
	assert.Equal(t, 0.3, MaxFloat(0.1, 0.3))
}

func TestIntInSlice(t *testing.T) {
	assert.True(t, IntInSlice(30, []int{20, 24, 30}))
	assert.False(t, IntInSlice(16, []int{20, 24, 30}))
}
