package fileutil_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/book-expert/aivoice-service/internal/fileutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCacheDir_WithOverride(t *testing.T) {
	expectedPath := "/custom/cache/dir"
	t.Setenv("AIVOICE_CACHE_DIR", expectedPath)

	assert.Equal(t, expectedPath, fileutil.GetCacheDir())
}

func TestGetCacheDir_OSDefault(t *testing.T) {
	t.Setenv("AIVOICE_CACHE_DIR", "")

	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Skipping test: could not determine user home directory")
	}

	assert.Equal(t, filepath.Join(homeDir, ".cache", "aivoice-service"), fileutil.GetCacheDir())
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	testPath := filepath.Join(t.TempDir(), "new", "dir")

	require.NoError(t, fileutil.EnsureDir(testPath))

	info, err := os.Stat(testPath)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// existing directories are left alone
	require.NoError(t, fileutil.EnsureDir(testPath))
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)

	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"empty text", "", "20240309-140506.wav"},
		{"spaces collapse", "hello   big\tworld", "20240309-140506-hello_big_world.wav"},
		{"invalid characters", "a/b:c", "20240309-140506-a_b_c.wav"},
		{"japanese is truncated by rune", "あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみむめも",
			"20240309-140506-あいうえおかきくけこさしすせそたちつてとなにぬねのはひふへほまみ.wav"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got := fileutil.OutputPath("out", testCase.text, now)
			assert.Equal(t, filepath.Join("out", testCase.expected), got)
		})
	}
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seconds  float64
		expected string
	}{
		{45.2, "45.2s"},
		{0, "0.0s"},
		{330.5, "5m 30.5s"},
		{4500, "1h 15m"},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.expected, fileutil.FormatDuration(testCase.seconds))
	}
}

func TestFormatFileSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bytes    int64
		expected string
	}{
		{500, "500 B"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, testCase := range tests {
		assert.Equal(t, testCase.expected, fileutil.FormatFileSize(testCase.bytes))
	}
}

func TestIsWAVFile(t *testing.T) {
	t.Parallel()

	assert.True(t, fileutil.IsWAVFile("voice.wav"))
	assert.True(t, fileutil.IsWAVFile("VOICE.WAV"))
	assert.False(t, fileutil.IsWAVFile("voice.mp3"))
}

func TestIsValidTextFile(t *testing.T) {
	t.Parallel()

	assert.True(t, fileutil.IsValidTextFile("script.txt"))
	assert.True(t, fileutil.IsValidTextFile("README.md"))
	assert.False(t, fileutil.IsValidTextFile("voice.wav"))
}

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a_b_c_d_e_f_g_h_i", fileutil.SanitizeFilename(`a<b>c:d"e/f\g|h?i`))
	assert.Equal(t, "file_name", fileutil.SanitizeFilename("file*name"))
}
