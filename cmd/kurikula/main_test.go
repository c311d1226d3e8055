package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want globalOptions
	}{
		{"none", []string{"runs", "list"}, globalOptions{}},
		{"config before command", []string{"--config", "k.yaml", "show"}, globalOptions{configPath: "k.yaml"}},
		{"mixed with command flags", []string{"init", "--level", "smp", "--ephemeral", "--config=k.yaml"}, globalOptions{configPath: "k.yaml", ephemeral: true}},
		{"help", []string{"-h"}, globalOptions{}},
		{"shorthand run flag", []string{"show", "-r", "3f2a", "--ephemeral"}, globalOptions{ephemeral: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseGlobalFlags(tt.args))
		})
	}
}
