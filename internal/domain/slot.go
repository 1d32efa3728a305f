package domain

import "fmt"

// TimeSlot names one of the three fixed parts of a day.
type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
)

// TimeSlots lists the slots in display order.
var TimeSlots = []TimeSlot{SlotMorning, SlotAfternoon, SlotEvening}

// Title returns the display name of the slot ("Morning").
func (s TimeSlot) Title() string {
	switch s {
	case SlotMorning:
		return "Morning"
	case SlotAfternoon:
		return "Afternoon"
	case SlotEvening:
		return "Evening"
	}
	return string(s)
}

// ParseTimeSlot validates a slot name coming from outside the process.
func ParseTimeSlot(s string) (TimeSlot, error) {
	switch slot := TimeSlot(s); slot {
	case SlotMorning, SlotAfternoon, SlotEvening:
		return slot, nil
	}
	return "", fmt.Errorf("%w: unknown time slot %q", ErrValidation, s)
}

// Direction is the way MoveActivity shifts an activity within its slot.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// ParseDirection validates a move direction.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case DirectionUp, DirectionDown:
		return d, nil
	}
	return "", fmt.Errorf("%w: direction must be \"up\" or \"down\"", ErrValidation)
}
