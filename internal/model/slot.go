package model

// TimeSlots is the fixed catalogue of bookable day parts.  The order of
// this slice is the display order used everywhere a list of slots is
// returned to the caller.  Slots outside this catalogue are rejected
// before any database access.
var TimeSlots = []string{
	"오전 10시",
	"오전 11시",
	"오후 1시",
	"오후 2시",
	"오후 3시",
	"오후 4시",
}

// Slot represents one bookable (date, time slot) unit of capacity.  The
// composite key (Date, TimeSlot) is unique; rows are only ever flipped
// between available and unavailable, never deleted.
type Slot struct {
	Date        string `json:"date"`      // calendar date, ISO format (2006-01-02)
	TimeSlot    string `json:"time_slot"` // one of TimeSlots
	IsAvailable bool   `json:"is_available"`
}

// ValidTimeSlot reports whether name is one of the catalogued day parts.
func ValidTimeSlot(name string) bool {
	return SlotIndex(name) >= 0
}

// SlotIndex returns the position of name in the fixed catalogue, or -1
// when the name is unknown.  The index defines the stable ordering of
// availability listings.
func SlotIndex(name string) int {
	for i, s := range TimeSlots {
		if s == name {
			return i
		}
	}
	return -1
}

