package tokens

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultEncoding(t *testing.T) {
	assert.Equal(t, "cl100k_base", getDefaultEncoding("gpt-4"))
	assert.Equal(t, "cl100k_base", getDefaultEncoding("gpt-3.5-turbo-16k"))
	assert.Equal(t, "cl100k_base", getDefaultEncoding("text-embedding-ada-002"))
	assert.Equal(t, "p50k_base", getDefaultEncoding("text-davinci-003"))
	assert.Equal(t, "r50k_base", getDefaultEncoding("davinci"))
}

func TestGetCodec(t *testing.T) {
	_, err := getCodec("gpt-4", "")
	require.NoError(t, err)

	_, err = getCodec("", "cl100k_base")
	require.NoError(t, err)

	_, err = getCodec("", "")
	require.Error(t, err)

	_, err = getCodec("", "bogus-codec")
	require.Error(t, err)
}

func TestEncodeDecodeRoundtrip(t *testing.T) {
	codec, err := getCodec("gpt-4", "")
	require.NoError(t, err)

	text := "The marionette bows."
	ids, _, err := codec.Encode(text)
	require.NoError(t, err)
	require.NotEmpty(t, ids)

	decoded, err := codec.Decode(ids)
	require.NoError(t, err)
	assert.Equal(t, text, decoded)
}

func TestReadInputRejectsTextAndFile(t *testing.T) {
	_, err := readInput("some text", "some-file.txt")
	require.Error(t, err)
}

func TestReadInputReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("15339 1917"), 0o644))

	text, err := readInput("", path)
	require.NoError(t, err)
	assert.Equal(t, "15339 1917", text)
}
