// Package grading holds the per-item-type rules shared by the engine's local fallback and the
// content service's authoritative check, so both reach the same verdict for the same inputs.
package grading

import "learning-quiz-engine/internal/domain"

// Adapter knows how one item type is answered and verified.
type Adapter interface {
	// Complete reports whether answer is a fully formed response to item.
	Complete(item domain.Item, answer domain.Answer) bool
	// Grade compares answer to the item's canonical answer. ok is false when no verdict
	// can be reached (canonical answer withheld or answer of the wrong shape).
	Grade(item domain.Item, answer domain.Answer) (correct, ok bool)
}

var adapters = map[domain.ItemType]Adapter{
	domain.ItemSingleChoice: choiceAdapter{},
	domain.ItemOrdering:     orderingAdapter{},
	domain.ItemMatchPairs:   pairsAdapter{},
	domain.ItemFreeAction:   actionAdapter{},
}

// For returns the adapter registered for an item type.
func For(t domain.ItemType) (Adapter, bool) {
	a, ok := adapters[t]
	return a, ok
}

// Complete dispatches to the item type's completeness predicate.
// An answer whose kind does not match the item type is never complete.
func Complete(item domain.Item, answer domain.Answer) bool {
	a, ok := adapters[item.Type]
	if !ok || answer.Kind != domain.KindFor(item.Type) {
		return false
	}
	return a.Complete(item, answer)
}

// Grade dispatches to the item type's equality rule.
func Grade(item domain.Item, answer domain.Answer) (correct, ok bool) {
	a, found := adapters[item.Type]
	if !found || answer.Kind != domain.KindFor(item.Type) {
		return false, false
	}
	return a.Grade(item, answer)
}
