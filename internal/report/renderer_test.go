package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"threat-radar/internal/config"
)

func TestRenderNotRunning(t *testing.T) {
	r := NewRenderer(config.ReportConfig{})

	result := r.Render()
	assert.False(t, result.Success)
	assert.Equal(t, "renderer is not running", result.Error)
}

func TestListReports(t *testing.T) {
	tmpDir := t.TempDir()
	r := NewRenderer(config.ReportConfig{OutputDir: tmpDir})

	// 空目录
	reports, err := r.ListReports()
	assert.NoError(t, err)
	assert.Empty(t, reports)

	// 写入两个报告文件和一个无关文件
	assert.NoError(t, os.WriteFile(filepath.Join(tmpDir, "radar-20260101-070000.png"), []byte("a"), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(tmpDir, "radar-20260102-070000.png"), []byte("b"), 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("c"), 0644))

	reports, err = r.ListReports()
	assert.NoError(t, err)
	assert.Equal(t, []string{"radar-20260102-070000.png", "radar-20260101-070000.png"}, reports)
}

func TestListReportsMissingDir(t *testing.T) {
	r := NewRenderer(config.ReportConfig{OutputDir: "/nonexistent/reports"})

	reports, err := r.ListReports()
	assert.NoError(t, err)
	assert.Nil(t, reports)
}

func TestRenderAgainstRealBrowser(t *testing.T) {
	t.Skip("Skipping test that requires a headless Chrome installation")
}
