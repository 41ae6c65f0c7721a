package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"strings"
)

const unknownTerminal = "POS-UNKNOWN"

// TerminalID names the register stamped on every invoice. A configured id
// wins; otherwise it is derived from the first active MAC address so the
// same machine keeps the same id across restarts.
func TerminalID(configured string) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}

	interfaces, err := net.Interfaces()
	if err != nil {
		return unknownTerminal
	}
	return terminalFromInterfaces(interfaces)
}

func terminalFromInterfaces(interfaces []net.Interface) string {
	var macAddress string
	for _, i := range interfaces {
		// first active physical interface
		if i.Flags&net.FlagUp != 0 && i.Flags&net.FlagLoopback == 0 && len(i.HardwareAddr) > 0 {
			macAddress = i.HardwareAddr.String()
			break
		}
	}
	if macAddress == "" {
		return unknownTerminal
	}

	hash := sha256.Sum256([]byte(macAddress + "STOCKMASTER"))
	return "POS-" + strings.ToUpper(hex.EncodeToString(hash[:])[:8])
}
