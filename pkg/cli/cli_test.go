package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCmd_Success(t *testing.T) {
	dir := t.TempDir()
	pb := writeFile(t, dir, "playbook.yaml", `
plays:
  - name: smoke
    tasks:
      - name: reach
        action: ping
`)
	inv := writeFile(t, dir, "inventory.yaml", `
hosts:
  - name: local
`)

	cmd := newRunCmd()
	cmd.SetArgs([]string{"--playbook", pb, "--inventory", inv})
	assert.NoError(t, cmd.Execute())
}

func TestRunCmd_FailingTask(t *testing.T) {
	dir := t.TempDir()
	pb := writeFile(t, dir, "playbook.yaml", `
plays:
  - name: smoke
    tasks:
      - name: broken
        action: no-such-action
`)
	inv := writeFile(t, dir, "inventory.yaml", `
hosts:
  - name: local
`)

	cmd := newRunCmd()
	cmd.SetArgs([]string{"--playbook", pb, "--inventory", inv})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
}

func TestRunCmd_MissingPlaybook(t *testing.T) {
	cmd := newRunCmd()
	cmd.SetArgs([]string{"--playbook", filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, cmd.Execute())
}

func TestKeygenCmd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "keys")

	cmd := newKeygenCmd()
	cmd.SetArgs([]string{"--dir", dir, "--comment", "test-key"})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(dir, "id_ed25519"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "id_ed25519.pub"))
	assert.NoError(t, err)
}

func TestEnvsCmd_EmptyStore(t *testing.T) {
	cmd := newEnvsCmd()
	cmd.SetArgs([]string{"--dir", filepath.Join(t.TempDir(), "meta")})
	assert.NoError(t, cmd.Execute())
}
