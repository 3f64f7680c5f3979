package bitdb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The golden databases are stored in normalized form: loading one and
// rendering it back must reproduce the file byte for byte.
func TestGoldenDatabases(t *testing.T) {
	cases := []struct {
		name string
		file string
	}{
		{name: "PLC2", file: "plc2.db"},
		{name: "IOLOGIC", file: "iologic.db"},
		{name: "Empty", file: "empty.db"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join("testdata", tc.file)
			want, err := os.ReadFile(path)
			require.NoError(t, err)
			db, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, string(want), db.Text())

			reloaded, err := Load(path)
			require.NoError(t, err)
			assert.True(t, db.Equal(reloaded))
		})
	}
}
