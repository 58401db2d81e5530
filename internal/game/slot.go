package game

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const (
	// DefaultMaxSlots is the slot bound used when none is configured
	DefaultMaxSlots = 999

	// UnknownOwner is the owner assigned to slots loaded from legacy data
	UnknownOwner = "unknown"
)

// slotPattern is the accepted input grammar; width is only enforced on keys
var slotPattern = regexp.MustCompile(`^\d{1,3}$`)

// Slot is one claimed unit of the namespace
type Slot struct {
	Key       string // zero-padded, e.g. "007"
	OwnerID   string
	ClaimedAt time.Time
}

// FormatKey renders n as a normalized slot key
func FormatKey(n int) string {
	return fmt.Sprintf("%03d", n)
}

// parseSlot returns the integer value of input when it is a well-formed
// token within [1, maxSlots]
func parseSlot(input string, maxSlots int) (int, bool) {
	if !slotPattern.MatchString(input) {
		return 0, false
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, false
	}
	if n < 1 || n > maxSlots {
		return 0, false
	}
	return n, true
}
