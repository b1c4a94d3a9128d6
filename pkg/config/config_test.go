package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	input := "5,1,1,1,1\n1,2,3,3,1\n"

	cases, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, TestCase{
		Capacity:           5,
		ProducerSleepBound: time.Second,
		ConsumerSleepBound: time.Second,
		NumProducers:       1,
		NumConsumers:       1,
	}, cases[0])
	assert.Equal(t, TestCase{
		Capacity:           1,
		ProducerSleepBound: 2 * time.Second,
		ConsumerSleepBound: 3 * time.Second,
		NumProducers:       3,
		NumConsumers:       1,
	}, cases[1])
}

func TestParseSkipsBlankLines(t *testing.T) {
	input := "\n5,1,1,1,1\n\n\n2,1,1,2,2\n"

	cases, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, cases, 2)
}

func TestParseTrimsWhitespace(t *testing.T) {
	cases, err := Parse(strings.NewReader("  5 , 1 ,1, 2 , 3 \n"))
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, 5, cases[0].Capacity)
	assert.Equal(t, 2, cases[0].NumProducers)
	assert.Equal(t, 3, cases[0].NumConsumers)
}

// Non-numeric and missing fields parse as zero rather than failing;
// the runner later rejects the unusable test case.
func TestParsePermissiveFields(t *testing.T) {
	cases, err := Parse(strings.NewReader("abc,1,x,2,1\n5,1\n"))
	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, 0, cases[0].Capacity)
	assert.Equal(t, time.Second, cases[0].ProducerSleepBound)
	assert.Equal(t, time.Duration(0), cases[0].ConsumerSleepBound)
	assert.Equal(t, 2, cases[0].NumProducers)
	assert.Equal(t, 1, cases[0].NumConsumers)

	assert.Equal(t, 5, cases[1].Capacity)
	assert.Equal(t, 0, cases[1].NumProducers)
	assert.Equal(t, 0, cases[1].NumConsumers)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.txt")
	require.NoError(t, os.WriteFile(path, []byte("5,1,1,1,1\n"), 0644))

	cases, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cases, 1)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
