// Package point manages touch point definitions and their key bindings.
package point

import "fmt"

// vkNames labels the non-printable virtual keys a user is likely to
// bind.
var vkNames = map[uint16]string{
	0x08: "Backspace",
	0x09: "Tab",
	0x0D: "Enter",
	0x10: "Shift",
	0x11: "Ctrl",
	0x12: "Alt",
	0x14: "Caps Lock",
	0x1B: "Esc",
	0x20: "Space",
	0x21: "Page Up",
	0x22: "Page Down",
	0x23: "End",
	0x24: "Home",
	0x25: "Left",
	0x26: "Up",
	0x27: "Right",
	0x28: "Down",
	0x2D: "Insert",
	0x2E: "Delete",
}

// KeyName returns a short label for a virtual-key code, for overlay
// markers and logs.
func KeyName(code uint16) string {
	if code == 0 {
		return ""
	}
	if name, ok := vkNames[code]; ok {
		return name
	}
	// Letters and digits map to their ASCII value.
	if (code >= '0' && code <= '9') || (code >= 'A' && code <= 'Z') {
		return string(rune(code))
	}
	// F1..F24
	if code >= 0x70 && code <= 0x87 {
		return fmt.Sprintf("F%d", code-0x70+1)
	}
	return fmt.Sprintf("VK 0x%02X", code)
}
