package logfile

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/rollup/rollup/internal/testutil"
)

func TestParseLogFile_SpaceConvention(t *testing.T) {
	// GIVEN an .out log mixing simple metrics with free-form text
	path := testutil.WriteFile(t, t.TempDir(), "A_E1.out", ""+
		"Core_0_IPC 1.25\n"+
		"Core_0_L2_miss 10,20,,30\n"+
		"Simulation finished at cycle 1000\n"+
		"double  spaced\n"+
		"lonetoken\n"+
		"tabbed\t 7\r\n")

	// WHEN read without a target set
	rec, err := ParseLogFile(path, "out", nil)

	// THEN only single-token values are recorded, with keys and values trimmed
	require.NoError(t, err)
	assert.Equal(t, Record{
		"Core_0_IPC":     "1.25",
		"Core_0_L2_miss": "10,20,,30",
		"tabbed":         "7",
	}, rec)
}

func TestParseLogFile_StatsConvention(t *testing.T) {
	// GIVEN a .stats log with padded key = value lines
	path := testutil.WriteFile(t, t.TempDir(), "A_E1.stats", ""+
		"ipc = 1.5\n"+
		"  misses=3, 4, 5  \n"+
		"expr = a=b\n"+
		"header line without separator\n")

	rec, err := ParseLogFile(path, StatsExt, nil)

	require.NoError(t, err)
	assert.Equal(t, Record{
		"ipc":    "1.5",
		"misses": "3, 4, 5",
		"expr":   "a=b",
	}, rec)
}

func TestParseLogFile_EarlyExitOnceTargetsFound(t *testing.T) {
	// GIVEN the target keys appear before a later redefinition
	path := testutil.WriteFile(t, t.TempDir(), "A_E1.out", ""+
		"a 1\n"+
		"b 2\n"+
		"a 99\n"+
		"c 3\n")

	// WHEN read scoped to {a, b}
	rec, err := ParseLogFile(path, "out", []string{"a", "b"})

	// THEN scanning stopped after b: the later a and c were never read
	require.NoError(t, err)
	assert.Equal(t, Record{"a": "1", "b": "2"}, rec)
}

func TestParseLogFile_TargetNotPresent_ReadsToEOF(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "A_E1.out", "a 1\nb 2\na 3\n")

	rec, err := ParseLogFile(path, "out", []string{"a", "zzz"})

	require.NoError(t, err)
	assert.Equal(t, Record{"a": "3", "b": "2"}, rec)
}

func TestParseLogFile_DoesNotMutateTargetKeys(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "A_E1.out", "a 1\n")
	targets := []string{"a", "b"}

	_, err := ParseLogFile(path, "out", targets)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, targets)
}

func TestParseLogFile_LongArrayLine(t *testing.T) {
	// GIVEN a line longer than bufio's default 64KiB token limit
	samples := strings.TrimSuffix(strings.Repeat("1,", 50_000), ",")
	path := testutil.WriteFile(t, t.TempDir(), "A_E1.out", "hist "+samples+"\n")

	rec, err := ParseLogFile(path, "out", []string{"hist"})

	require.NoError(t, err)
	assert.Equal(t, samples, rec["hist"])
}

func TestParseLogFile_MissingFile(t *testing.T) {
	_, err := ParseLogFile(filepath.Join(t.TempDir(), "A_E1.out"), "out", nil)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
