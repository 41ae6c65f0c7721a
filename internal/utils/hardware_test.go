package utils

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminalIDPrefersConfigured(t *testing.T) {
	assert.Equal(t, "REG-01", TerminalID("  REG-01 "))
}

func TestTerminalFromInterfaces(t *testing.T) {
	mac, _ := net.ParseMAC("00:1a:2b:3c:4d:5e")
	up := net.Interface{Name: "eth0", Flags: net.FlagUp, HardwareAddr: mac}
	down := net.Interface{Name: "eth1", HardwareAddr: mac}
	loop := net.Interface{Name: "lo", Flags: net.FlagUp | net.FlagLoopback}

	id := terminalFromInterfaces([]net.Interface{loop, up})
	assert.Regexp(t, `^POS-[0-9A-F]{8}$`, id)
	assert.Equal(t, id, terminalFromInterfaces([]net.Interface{up}), "stable for the same MAC")

	assert.Equal(t, unknownTerminal, terminalFromInterfaces([]net.Interface{down, loop}))
	assert.Equal(t, unknownTerminal, terminalFromInterfaces(nil))
}
