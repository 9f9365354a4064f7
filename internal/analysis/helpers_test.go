package analysis

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/huangsam/touchline/core"
	"github.com/huangsam/touchline/internal/contract"
	"github.com/huangsam/touchline/schema"
)

// runnerXY has entity 0 moving one meter per frame along x and entity 1 standing still.
func runnerXY(t *testing.T, framerate float64) *core.XY {
	t.Helper()
	xy, err := core.NewXY([][]float64{
		{0, 0, 5, 5},
		{1, 0, 5, 5},
		{2, 0, 5, 5},
		{3, 0, 5, 5},
		{4, 0, 5, 5},
	}, framerate)
	require.NoError(t, err)
	return xy
}

// writeFile writes content into a file under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const runnerCSV = `x0,y0,x1,y1
0,0,5,5
1,0,5,5
2,0,5,5
3,0,5,5
4,0,5,5
`

const eventsCSV = `eID,gameclock,pID,outcome
Pass,0.1,7,1
Shot,0.25,9,0
Pass,0.3,8,
`

func testConfig(t *testing.T, mode schema.OutputMode) *contract.Config {
	t.Helper()
	return &contract.Config{
		Framerate:     10,
		Difference:    schema.CentralDifference,
		WindowSeconds: 0.2,
		ResultLimit:   10,
		Precision:     2,
		Output:        mode,
		OutputFile:    filepath.Join(t.TempDir(), "out."+strings.ToLower(string(mode))),
		CacheBackend:  schema.NoneBackend,
		Fade:          0,
	}
}
