package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticksched/internal/store"
)

// execute runs the CLI with args and returns captured stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeExample(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name+".txt")
	out, err := execute(t, "", "example", name, "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+name+" example")
	return path
}

func TestExampleToStdout(t *testing.T) {
	out, err := execute(t, "", "example", "simple")
	require.NoError(t, err)
	assert.Equal(t, "FIFO;10;1\n0;#FF0000;0;10;1;\n1;#00FF00;2;8;2;\n2;#0000FF;4;6;3;\n", out)

	_, err = execute(t, "", "example", "huge")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	path := writeExample(t, "medium")
	out, err := execute(t, "", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "SRTF;10;1\n")
	assert.Contains(t, out, "ok: 5 tasks, algorithm SRTF")

	bad := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("FIFO;1\n0;#FF0000;0;0;1;\n"), 0o644))
	_, err = execute(t, "", "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestValidateWarnsOnUnknownAlgorithm(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lottery.txt")
	require.NoError(t, os.WriteFile(path, []byte("LOTTERY;2\n0;#FF0000;0;3;1;\n"), 0o644))

	out, err := execute(t, "", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, `warning: unknown algorithm "LOTTERY", using FIFO`)
	assert.Contains(t, out, "FIFO;2;1\n")
}

func TestRunWritesArtifacts(t *testing.T) {
	path := writeExample(t, "simple")
	dir := t.TempDir()
	bmpPath := filepath.Join(dir, "gantt.bmp")
	reportPath := filepath.Join(dir, "report.txt")
	tracePath := filepath.Join(dir, "trace.csv")
	dbPath := filepath.Join(dir, "runs.db")

	out, err := execute(t, "", "run", path,
		"--plain",
		"--bmp", bmpPath,
		"--report", reportPath,
		"--csv="+dir,
		"--trace", tracePath,
		"--db", dbPath,
	)
	require.NoError(t, err)

	assert.Contains(t, out, "[    Dispatch    ] => Task: 0000")
	assert.Contains(t, out, "=== GANTT CHART ===")
	assert.Contains(t, out, "PERFORMANCE ANALYSIS - FIFO")
	assert.Contains(t, out, "Archived as run_")

	for _, p := range []string{bmpPath, reportPath, tracePath, filepath.Join(dir, "stats_FIFO.csv")} {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.NotZero(t, info.Size(), p)
	}

	csvData, err := os.ReadFile(filepath.Join(dir, "stats_FIFO.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "2,4,6,3,24,20,14,14\n")

	st, err := store.Open(dbPath, nil)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 24, runs[0].TotalTime)

	out, err = execute(t, "", "runs", "list", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, runs[0].ID)
	assert.Contains(t, out, "FIFO")

	out, err = execute(t, "", "runs", "show", runs[0].ID[:12], "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Source:    "+path)
	assert.Contains(t, out, "T 0: ##########")
}

func TestRunQuietASCII(t *testing.T) {
	path := writeExample(t, "complex")
	out, err := execute(t, "", "run", path, "--quiet", "--ascii", "--history", "5")
	require.NoError(t, err)
	assert.NotContains(t, out, "Dispatch")
	assert.NotContains(t, out, "\x1b[")
	assert.Contains(t, out, "GANTT CHART")
	assert.Contains(t, out, "PERFORMANCE ANALYSIS - PRIORITY")
}

func TestRunStepMode(t *testing.T) {
	path := writeExample(t, "simple")

	out, err := execute(t, "n 3\nb\ni\nc\n", "run", path, "--step", "--quiet")
	require.NoError(t, err)
	assert.Contains(t, out, "tick 3: running T0 (remaining 7)")
	assert.Contains(t, out, "tick 2: running T0 (remaining 8)")
	assert.Contains(t, out, "tick 24: simulation complete")
	assert.Contains(t, out, "PERFORMANCE ANALYSIS - FIFO")

	out, err = execute(t, "q\n", "run", path, "--step", "--quiet")
	require.NoError(t, err)
	assert.NotContains(t, out, "PERFORMANCE ANALYSIS")
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, "", "run", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	_, err = execute(t, "", "run")
	assert.Error(t, err)

	_, err = execute(t, "", "runs", "list")
	assert.ErrorContains(t, err, "no run archive configured")
}

func TestSettingsFile(t *testing.T) {
	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "settings.yml")
	dbPath := filepath.Join(dir, "archive.db")
	require.NoError(t, os.WriteFile(settingsPath, []byte("default_quantum: 3\ndb_path: "+dbPath+"\n"), 0o644))

	cfgPath := filepath.Join(dir, "rr.txt")
	require.NoError(t, os.WriteFile(cfgPath, []byte("RR\n0;#FF0000;0;4;1;\n1;#00FF00;0;4;1;\n"), 0o644))

	_, err := execute(t, "", "run", cfgPath, "--quiet", "--settings", settingsPath)
	require.NoError(t, err)

	out, err := execute(t, "", "runs", "list", "--settings", settingsPath)
	require.NoError(t, err)
	assert.Contains(t, out, "RR")

	st, err := store.Open(dbPath, nil)
	require.NoError(t, err)
	defer st.Close()
	runs, err := st.ListRuns(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 3, runs[0].Quantum)
}
