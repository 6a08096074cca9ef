package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogThreatIngestWritesAuditEntry(t *testing.T) {
	dir := t.TempDir()
	auditPath := filepath.Join(dir, "audit.log")
	logger := NewLogger(Config{
		Level:        "error",
		Output:       filepath.Join(dir, "app.log"),
		AuditEnabled: true,
		AuditOutput:  auditPath,
	})

	logger.LogThreatIngest("acme-corp", "thr-001", "critical", map[string]interface{}{
		"threat_name": "Log4Shell",
	}, "critical threat entered snapshot")

	data, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	require.NotEmpty(t, line, "audit log should contain one entry")

	var entry AuditLogEntry
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "THREAT", entry.Level)
	assert.Equal(t, "threat_ingest", entry.EventType)
	assert.Equal(t, "acme-corp", entry.Customer)
	assert.Equal(t, "thr-001", entry.Resource)
	assert.Equal(t, "ingest_threat", entry.Action)
	assert.Equal(t, "critical", entry.Result)
	assert.Equal(t, "Log4Shell", entry.Details["threat_name"])
	assert.False(t, entry.Timestamp.IsZero(), "审计条目应自动填充时间戳")
}

func TestLogAdminActionCarriesUserAndResource(t *testing.T) {
	dir := t.TempDir()
	auditPath := filepath.Join(dir, "audit.log")
	logger := NewLogger(Config{
		Level:        "error",
		Output:       filepath.Join(dir, "app.log"),
		AuditEnabled: true,
		AuditOutput:  auditPath,
	})

	logger.LogAdminAction("admin", "10.0.0.5", "update_config", "system_config", nil, "success", "config updated")

	data, err := os.ReadFile(auditPath)
	require.NoError(t, err)

	var entry AuditLogEntry
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(data))), &entry))
	assert.Equal(t, "ADMIN", entry.Level)
	assert.Equal(t, "admin", entry.User)
	assert.Equal(t, "10.0.0.5", entry.IP)
	assert.Equal(t, "update_config", entry.Action)
	assert.Equal(t, "system_config", entry.Resource)
}

func TestAuditDisabledWritesNothing(t *testing.T) {
	dir := t.TempDir()
	auditPath := filepath.Join(dir, "audit.log")
	logger := NewLogger(Config{
		Level:        "error",
		Output:       filepath.Join(dir, "app.log"),
		AuditEnabled: false,
		AuditOutput:  auditPath,
	})

	logger.Audit(AuditLogEntry{Level: "ADMIN", Action: "noop", Result: "success"})

	_, err := os.Stat(auditPath)
	assert.True(t, os.IsNotExist(err), "禁用审计时不应创建审计文件")
}

func TestLevelFiltersLowSeverityLines(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "app.log")
	logger := NewLogger(Config{
		Level:  "warn",
		Output: outPath,
	})

	logger.Debug("debug line %d", 1)
	logger.Info("info line %d", 2)
	logger.Warn("warn line %d", 3)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "debug line")
	assert.NotContains(t, out, "info line")
	assert.Contains(t, out, "warn line 3")
}
