package runner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlaybook = `
plays:
  - name: smoke
    tasks:
      - name: reachability
        action: ping
      - name: announce
        action: debug
        args:
          msg: hello
`

const sampleInventory = `
hosts:
  - name: device-1
    address: 10.0.0.5
  - name: device-2
    vars:
      platform: emulator
`

func TestParsePlaybook(t *testing.T) {
	pb, err := ParsePlaybook([]byte(samplePlaybook))
	require.NoError(t, err)

	require.Len(t, pb.Plays, 1)
	assert.Equal(t, "smoke", pb.Plays[0].Name)
	require.Len(t, pb.Plays[0].Tasks, 2)
	assert.Equal(t, "ping", pb.Plays[0].Tasks[0].Action)
	assert.Equal(t, "hello", pb.Plays[0].Tasks[1].Args["msg"])
	assert.Equal(t, 2, pb.TaskCount())
}

func TestParsePlaybook_Invalid(t *testing.T) {
	_, err := ParsePlaybook([]byte("plays: []"))
	assert.ErrorContains(t, err, "no plays")

	_, err = ParsePlaybook([]byte("plays:\n  - name: p\n    tasks:\n      - name: t\n"))
	assert.ErrorContains(t, err, "no action")

	_, err = ParsePlaybook([]byte("::not yaml"))
	assert.ErrorContains(t, err, "parse playbook")
}

func TestParseInventory(t *testing.T) {
	inv, err := ParseInventory([]byte(sampleInventory))
	require.NoError(t, err)

	require.Len(t, inv.Hosts, 2)
	assert.Equal(t, "device-1", inv.Hosts[0].Name)
	assert.Equal(t, "10.0.0.5", inv.Hosts[0].Address)
	assert.Equal(t, "emulator", inv.Hosts[1].Vars["platform"])
}

func TestParseInventory_Invalid(t *testing.T) {
	_, err := ParseInventory([]byte("hosts: []"))
	assert.ErrorContains(t, err, "no hosts")

	_, err = ParseInventory([]byte("hosts:\n  - name: a\n  - name: a\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = ParseInventory([]byte("hosts:\n  - address: 10.0.0.1\n"))
	assert.ErrorContains(t, err, "empty name")
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()

	pbPath := filepath.Join(dir, "playbook.yaml")
	require.NoError(t, os.WriteFile(pbPath, []byte(samplePlaybook), 0o644))
	invPath := filepath.Join(dir, "inventory.yaml")
	require.NoError(t, os.WriteFile(invPath, []byte(sampleInventory), 0o644))

	pb, err := LoadPlaybook(pbPath)
	require.NoError(t, err)
	assert.Equal(t, 2, pb.TaskCount())

	inv, err := LoadInventory(invPath)
	require.NoError(t, err)
	assert.Len(t, inv.Hosts, 2)

	_, err = LoadPlaybook(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
