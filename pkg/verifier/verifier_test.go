package verifier

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuya-takeyama/strict-dir-compare/pkg/compare"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/hasher"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/logger"
	"github.com/yuya-takeyama/strict-dir-compare/pkg/reconcile"
)

func makeDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func newTestVerifier(out *bytes.Buffer, opts Options) *Verifier {
	opts.Reporter = logger.NewConsoleReporter(out, logger.ColorNever)
	return New(opts)
}

func resultsByName(results []compare.Result) map[string]compare.Result {
	m := make(map[string]compare.Result, len(results))
	for _, r := range results {
		m[r.Name] = r
	}
	return m
}

func TestRun_MatchAndMismatch(t *testing.T) {
	src := makeDir(t, map[string]string{"a.txt": "hello", "b.txt": "world"})
	dst := makeDir(t, map[string]string{"a.txt": "hello", "b.txt": "WORLD"})

	var out bytes.Buffer
	report, err := newTestVerifier(&out, Options{}).Run(context.Background(), src, dst)
	require.NoError(t, err)

	byName := resultsByName(report.Results)
	require.Len(t, byName, 2)
	assert.True(t, byName["a.txt"].Match)
	assert.False(t, byName["b.txt"].Match)
	assert.Equal(t, compare.StatusMismatch, byName["b.txt"].Status)
	assert.True(t, report.HasMismatch())
	assert.Equal(t, compare.Summary{Total: 2, Matched: 1, Mismatched: 1}, report.Summary)
	assert.Equal(t, int64(20), report.BytesHashed)

	text := out.String()
	assert.Contains(t, text, "a.txt Match: True\n")
	assert.Contains(t, text, "b.txt Match: False\n")
	assert.Contains(t, text, "Hashing : "+filepath.Join(src, "a.txt")+" (")
	assert.Contains(t, text, "[5 bytes]")
}

func TestRun_IdenticalDirectoriesAllMatch(t *testing.T) {
	files := map[string]string{"one.bin": "1111", "two.bin": strings.Repeat("x", 20000), "empty": ""}
	src := makeDir(t, files)
	dst := makeDir(t, files)

	var out bytes.Buffer
	report, err := newTestVerifier(&out, Options{}).Run(context.Background(), src, dst)
	require.NoError(t, err)

	assert.Len(t, report.Results, 3)
	assert.True(t, compare.AllMatch(report.Results))
	assert.False(t, report.HasMismatch())
	assert.NotContains(t, out.String(), "Match: False")
}

func TestRun_UniqueNamesAreSkipped(t *testing.T) {
	src := makeDir(t, map[string]string{"a.txt": "same", "unique_to_src.txt": "s"})
	dst := makeDir(t, map[string]string{"a.txt": "same", "unique_to_dst.txt": "d"})

	var out bytes.Buffer
	report, err := newTestVerifier(&out, Options{}).Run(context.Background(), src, dst)
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "a.txt", report.Results[0].Name)
	assert.True(t, report.Results[0].Match)
	assert.Equal(t, []string{"unique_to_dst.txt", "unique_to_src.txt"}, report.Exclusions.Excluded.Names())

	text := out.String()
	assert.Contains(t, text, "Skipping: "+filepath.Join(src, "unique_to_src.txt")+" (")
	assert.Contains(t, text, "Skipping: "+filepath.Join(dst, "unique_to_dst.txt")+" (")
	assert.NotContains(t, text, "Hashing : "+filepath.Join(src, "unique_to_src.txt"))
}

func TestRun_SubdirectoriesAreNeverHashed(t *testing.T) {
	src := makeDir(t, map[string]string{"a.txt": "x"})
	dst := makeDir(t, map[string]string{"a.txt": "x"})
	for _, d := range []string{src, dst} {
		sub := filepath.Join(d, "sub")
		require.NoError(t, os.Mkdir(sub, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(sub, "inner.txt"), []byte(d), 0o600))
	}

	var out bytes.Buffer
	report, err := newTestVerifier(&out, Options{}).Run(context.Background(), src, dst)
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, "a.txt", report.Results[0].Name)
	assert.Contains(t, out.String(), "Skipping: "+filepath.Join(src, "sub")+" (")
	assert.NotContains(t, out.String(), "inner.txt")
	assert.Equal(t, int64(2), report.BytesHashed)
}

func TestRun_FatalConditions(t *testing.T) {
	shared := makeDir(t, map[string]string{"a.txt": "x"})
	other := makeDir(t, map[string]string{"b.txt": "y"})
	empty1 := t.TempDir()
	empty2 := t.TempDir()

	tests := map[string]struct {
		src, dst string
		wantErr  error
	}{
		"same path": {
			src: shared, dst: shared, wantErr: ErrSamePath,
		},
		"same path after cleaning": {
			src: shared, dst: filepath.Join(shared, ".", "sub", ".."), wantErr: ErrSamePath,
		},
		"no shared names": {
			src: shared, dst: other, wantErr: reconcile.ErrNoMatchingFiles,
		},
		"both empty": {
			src: empty1, dst: empty2, wantErr: reconcile.ErrNoMatchingFiles,
		},
		"missing source": {
			src: filepath.Join(other, "nope"), dst: shared, wantErr: os.ErrNotExist,
		},
	}

	for tn, tt := range tests {
		t.Run(tn, func(t *testing.T) {
			var out bytes.Buffer
			report, err := newTestVerifier(&out, Options{}).Run(context.Background(), tt.src, tt.dst)

			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			assert.Nil(t, report)
			assert.NotContains(t, out.String(), "Hashing")
		})
	}
}

func TestRun_ExcludePatterns(t *testing.T) {
	src := makeDir(t, map[string]string{"a.txt": "x", ".DS_Store": "1"})
	dst := makeDir(t, map[string]string{"a.txt": "x", ".DS_Store": "2"})

	var out bytes.Buffer
	report, err := newTestVerifier(&out, Options{Excludes: []string{".DS_Store"}}).Run(context.Background(), src, dst)
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.True(t, report.Results[0].Match)
	assert.Equal(t, []string{".DS_Store"}, report.Exclusions.PatternExcluded)
}

func TestRun_InvalidExcludePattern(t *testing.T) {
	src := makeDir(t, map[string]string{"a.txt": "x"})
	dst := makeDir(t, map[string]string{"a.txt": "x"})

	_, err := New(Options{Excludes: []string{"[oops"}}).Run(context.Background(), src, dst)
	assert.Error(t, err)
}

func TestRun_HaltPolicyOnDirectoryOnly(t *testing.T) {
	src := makeDir(t, map[string]string{"only.txt": "x"})
	dst := makeDir(t, map[string]string{"only.txt": "x"})

	report, err := New(Options{Policy: hasher.PolicyHalt}).Run(context.Background(), src, dst)
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.True(t, report.Results[0].Match)
}

type fakeBar struct {
	dir    string
	total  int64
	added  int64
	closed bool
}

func (b *fakeBar) AddBytes(n int64) { b.added += n }
func (b *fakeBar) Close()           { b.closed = true }

func TestRun_Progress(t *testing.T) {
	src := makeDir(t, map[string]string{"a.txt": "hello", "b.txt": "world!"})
	dst := makeDir(t, map[string]string{"a.txt": "hello", "b.txt": "world!"})

	var bars []*fakeBar
	opts := Options{
		Progress: func(dir string, totalBytes int64) ProgressBar {
			b := &fakeBar{dir: dir, total: totalBytes}
			bars = append(bars, b)
			return b
		},
	}

	_, err := New(opts).Run(context.Background(), src, dst)
	require.NoError(t, err)

	require.Len(t, bars, 2)
	for _, b := range bars {
		assert.Equal(t, int64(11), b.total)
		assert.Equal(t, int64(11), b.added)
		assert.True(t, b.closed)
	}
	assert.Equal(t, src, bars[0].dir)
	assert.Equal(t, dst, bars[1].dir)
}

func TestRun_RecordErrors(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files regardless of permissions")
	}

	src := makeDir(t, map[string]string{"a.txt": "x", "locked.txt": "secret"})
	dst := makeDir(t, map[string]string{"a.txt": "x", "locked.txt": "secret"})
	require.NoError(t, os.Chmod(filepath.Join(dst, "locked.txt"), 0o000))

	t.Run("abort", func(t *testing.T) {
		_, err := New(Options{}).Run(context.Background(), src, dst)
		assert.ErrorIs(t, err, os.ErrPermission)
	})

	t.Run("record", func(t *testing.T) {
		report, err := New(Options{ErrorMode: hasher.ErrorModeRecord}).Run(context.Background(), src, dst)
		require.NoError(t, err)

		byName := resultsByName(report.Results)
		assert.Equal(t, compare.StatusError, byName["locked.txt"].Status)
		assert.False(t, byName["locked.txt"].Match)
		assert.True(t, byName["a.txt"].Match)
		assert.Equal(t, 1, report.Summary.Errors)
	})
}
