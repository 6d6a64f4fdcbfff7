package grading

import "learning-quiz-engine/internal/domain"

type choiceAdapter struct{}

func (choiceAdapter) Complete(_ domain.Item, answer domain.Answer) bool {
	return answer.Choice != ""
}

func (choiceAdapter) Grade(item domain.Item, answer domain.Answer) (bool, bool) {
	if item.Answer.Choice == "" {
		return false, false
	}
	return answer.Choice == item.Answer.Choice, true
}

type orderingAdapter struct{}

// Complete requires a permutation of 0..n-1, where n is the number of steps shown.
func (orderingAdapter) Complete(item domain.Item, answer domain.Answer) bool {
	n := len(item.Steps)
	if n == 0 {
		n = len(item.Answer.Order)
	}
	if n == 0 {
		n = len(answer.Order)
	}
	if n == 0 || len(answer.Order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, idx := range answer.Order {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// Grade is plain array equality; there is no partial credit for ordering.
func (orderingAdapter) Grade(item domain.Item, answer domain.Answer) (bool, bool) {
	canonical := item.Answer.Order
	if len(canonical) == 0 {
		return false, false
	}
	if len(canonical) != len(answer.Order) {
		return false, true
	}
	for i := range canonical {
		if canonical[i] != answer.Order[i] {
			return false, true
		}
	}
	return true, true
}

type pairsAdapter struct{}

// Complete requires a value for every slot; NoAnswer counts as a value.
func (pairsAdapter) Complete(item domain.Item, answer domain.Answer) bool {
	slots := slotsOf(item)
	if len(slots) == 0 {
		return len(answer.Pairs) > 0
	}
	for _, slot := range slots {
		if answer.Pairs[slot] == "" {
			return false
		}
	}
	return true
}

// Grade compares slot by slot. A NoAnswer slot only matches a canonical NoAnswer.
func (pairsAdapter) Grade(item domain.Item, answer domain.Answer) (bool, bool) {
	canonical := item.Answer.Pairs
	if len(canonical) == 0 {
		return false, false
	}
	for slot, want := range canonical {
		got, ok := answer.Pairs[slot]
		if !ok || got == "" {
			return false, true
		}
		if got == domain.NoAnswer && want != domain.NoAnswer {
			return false, true
		}
		if got != want {
			return false, true
		}
	}
	return true, true
}

func slotsOf(item domain.Item) []string {
	if len(item.Slots) > 0 {
		return item.Slots
	}
	slots := make([]string, 0, len(item.Answer.Pairs))
	for slot := range item.Answer.Pairs {
		slots = append(slots, slot)
	}
	return slots
}

type actionAdapter struct{}

func (actionAdapter) Complete(_ domain.Item, answer domain.Answer) bool {
	return answer.Done
}

func (actionAdapter) Grade(_ domain.Item, answer domain.Answer) (bool, bool) {
	return answer.Done, true
}
