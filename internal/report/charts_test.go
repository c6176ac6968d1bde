package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBinCharts(t *testing.T) {
	bins := []BinSummary{
		{Label: "bin0 <25.0%", WindowCount: 10, NOxGPerHpHr: 0.1},
		{Label: "bin1 >=25.0%", WindowCount: 30, NOxGPerHpHr: 0.4},
	}

	var buf bytes.Buffer
	require.NoError(t, RenderBinCharts(&buf, "drive_001", bins))

	html := buf.String()
	assert.Contains(t, html, "Bin Brake-Specific NOx")
	assert.Contains(t, html, "Bin Window Count")
	assert.Contains(t, html, "bin1")
}

func TestWriteBinCharts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bins.html")
	bins := []BinSummary{{Label: "bin0 <100.0%", WindowCount: 1, NOxGPerHpHr: 0.2}}
	require.NoError(t, WriteBinCharts(path, "drive_001", bins))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
