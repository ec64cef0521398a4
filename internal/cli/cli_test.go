package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/ubkifeat/internal/model"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"case-001":      "case-001",
		"a/b\\c:d":      "a_b_c_d",
		" with space ":  "with-space",
		"..":            "case",
		"":              "case",
		"ok?<bad>|name": "ok__bad__name",
	}
	for in, want := range tests {
		assert.Equal(t, want, sanitizeFilename(in), in)
	}
}

func TestReferenceClock(t *testing.T) {
	clock, err := referenceClock("")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), clock(), time.Minute)

	clock, err = referenceClock("2023-03-01")
	require.NoError(t, err)
	assert.Equal(t, "2023-03-01", clock().Format("2006-01-02"))

	_, err = referenceClock("01.03.2023")
	assert.Error(t, err)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ubkifeat", "config.yaml")
	require.NoError(t, writeDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg model.Config
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.True(t, cfg.Extraction.ScorePrecedence)
	assert.Equal(t, "json", cfg.Output.Format)

	assert.Error(t, writeDefaultConfig(path), "existing config is not overwritten")
}
