package reportfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bitrise-io/go-utils/v2/fileutil"
	"github.com/bitrise-io/go-utils/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSink() FileSink {
	return NewFileSink(fileutil.NewFileManager(), log.NewLogger())
}

func TestFileSink_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test-results.xml")
	sink := newTestSink()

	require.NoError(t, sink.Write(path, []byte("first, longer content")))
	require.NoError(t, sink.Write(path, []byte("second")))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))
}

func TestFileSink_Write_missingParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "test-results.xml")

	err := newTestSink().Write(path, []byte("content"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	_, statErr := os.Stat(filepath.Dir(path))
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileSink_Remove(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, path string)
		wantErr bool
	}{
		{
			name: "existing file",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.WriteFile(path, []byte("stale"), 0600))
			},
		},
		{
			name:  "missing file",
			setup: func(t *testing.T, path string) {},
		},
		{
			name: "non empty directory",
			setup: func(t *testing.T, path string) {
				require.NoError(t, os.Mkdir(path, 0700))
				require.NoError(t, os.WriteFile(filepath.Join(path, "child"), nil, 0600))
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "test-results.xml")
			tt.setup(t, path)

			err := newTestSink().Remove(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr))
		})
	}
}
