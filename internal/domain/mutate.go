package domain

import "fmt"

// The mutation operations below edit an itinerary in place. They are pure
// and synchronous: no cache, limiter or AI access. Callers sharing an
// itinerary between goroutines must serialize calls (see repo.ItineraryRepo.Update).

// EditActivity replaces the activity at (dayIdx, slot, idx). The replacement
// inherits the existing id when its own is empty so ids stay unique.
func (it *TravelItinerary) EditActivity(dayIdx int, slot TimeSlot, idx int, a Activity) error {
	seq, err := it.sequence(dayIdx, slot)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(*seq) {
		return fmt.Errorf("%w: activity %d of %d", ErrOutOfRange, idx, len(*seq))
	}
	if a.ID == "" {
		a.ID = (*seq)[idx].ID
	}
	(*seq)[idx] = a
	return nil
}

// DeleteActivity removes the activity at (dayIdx, slot, idx), shifting the
// following activities left.
func (it *TravelItinerary) DeleteActivity(dayIdx int, slot TimeSlot, idx int) error {
	seq, err := it.sequence(dayIdx, slot)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(*seq) {
		return fmt.Errorf("%w: activity %d of %d", ErrOutOfRange, idx, len(*seq))
	}
	*seq = append((*seq)[:idx], (*seq)[idx+1:]...)
	return nil
}

// MoveActivity swaps the activity at idx with its neighbour in the given
// direction. Moving the first activity up or the last one down is a no-op.
func (it *TravelItinerary) MoveActivity(dayIdx int, slot TimeSlot, idx int, dir Direction) error {
	seq, err := it.sequence(dayIdx, slot)
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(*seq) {
		return fmt.Errorf("%w: activity %d of %d", ErrOutOfRange, idx, len(*seq))
	}

	var target int
	switch dir {
	case DirectionUp:
		target = idx - 1
	case DirectionDown:
		target = idx + 1
	default:
		return fmt.Errorf("%w: direction %q", ErrValidation, dir)
	}
	if target < 0 || target >= len(*seq) {
		return nil
	}
	s := *seq
	s[idx], s[target] = s[target], s[idx]
	return nil
}

func (it *TravelItinerary) sequence(dayIdx int, slot TimeSlot) (*[]Activity, error) {
	if dayIdx < 0 || dayIdx >= len(it.Days) {
		return nil, fmt.Errorf("%w: day %d of %d", ErrOutOfRange, dayIdx, len(it.Days))
	}
	seq := it.Days[dayIdx].Slot(slot)
	if seq == nil {
		return nil, fmt.Errorf("%w: unknown time slot %q", ErrValidation, slot)
	}
	return seq, nil
}
