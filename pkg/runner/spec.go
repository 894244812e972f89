// Package runner executes YAML playbooks against an inventory of hosts,
// fanning each host out to its own worker and collecting results through a
// shared queue.
package runner

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Host is a single inventory entry.
type Host struct {
	Name    string                 `yaml:"name"`
	Address string                 `yaml:"address,omitempty"`
	Vars    map[string]interface{} `yaml:"vars,omitempty"`
}

// Inventory is the set of hosts a playbook runs against.
type Inventory struct {
	Hosts []Host `yaml:"hosts"`
}

// Task is one step of a play. Retries of zero means a single attempt.
type Task struct {
	Name    string                 `yaml:"name"`
	Action  string                 `yaml:"action"`
	Args    map[string]interface{} `yaml:"args,omitempty"`
	Retries int                    `yaml:"retries,omitempty"`
	Delay   time.Duration          `yaml:"delay,omitempty"`
}

// Play groups tasks under a name.
type Play struct {
	Name  string `yaml:"name"`
	Tasks []Task `yaml:"tasks"`
}

// Playbook is an ordered list of plays.
type Playbook struct {
	Plays []Play `yaml:"plays"`
}

// TaskCount returns the number of tasks across all plays.
func (p *Playbook) TaskCount() int {
	n := 0
	for _, play := range p.Plays {
		n += len(play.Tasks)
	}
	return n
}

// LoadPlaybook reads and validates a playbook file.
func LoadPlaybook(path string) (*Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read playbook: %w", err)
	}
	return ParsePlaybook(data)
}

// ParsePlaybook parses playbook YAML.
func ParsePlaybook(data []byte) (*Playbook, error) {
	var pb Playbook
	if err := yaml.Unmarshal(data, &pb); err != nil {
		return nil, fmt.Errorf("parse playbook: %w", err)
	}
	if len(pb.Plays) == 0 {
		return nil, fmt.Errorf("playbook has no plays")
	}
	for _, play := range pb.Plays {
		for _, task := range play.Tasks {
			if task.Action == "" {
				return nil, fmt.Errorf("play %q: task %q has no action", play.Name, task.Name)
			}
		}
	}
	return &pb, nil
}

// LoadInventory reads and validates an inventory file.
func LoadInventory(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}
	return ParseInventory(data)
}

// ParseInventory parses inventory YAML.
func ParseInventory(data []byte) (*Inventory, error) {
	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}
	if len(inv.Hosts) == 0 {
		return nil, fmt.Errorf("inventory has no hosts")
	}
	seen := make(map[string]bool, len(inv.Hosts))
	for _, h := range inv.Hosts {
		if h.Name == "" {
			return nil, fmt.Errorf("inventory host with empty name")
		}
		if seen[h.Name] {
			return nil, fmt.Errorf("duplicate inventory host %q", h.Name)
		}
		seen[h.Name] = true
	}
	return &inv, nil
}
