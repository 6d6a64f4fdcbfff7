package domain

// NoAnswer is the explicit match-pairs value for a slot the learner chose to leave empty.
const NoAnswer = "No answer"

// AnswerKind tags the shape of an Answer.
type AnswerKind string

const (
	AnswerChoice AnswerKind = "choice"
	AnswerOrder  AnswerKind = "order"
	AnswerPairs  AnswerKind = "pairs"
	AnswerAction AnswerKind = "action"
)

// Answer is a tagged variant over the answer shapes of every item type.
// Only the field matching Kind is meaningful.
type Answer struct {
	Kind   AnswerKind        `json:"kind,omitempty"`
	Choice string            `json:"choice,omitempty"`
	Order  []int             `json:"order,omitempty"`
	Pairs  map[string]string `json:"pairs,omitempty"`
	Done   bool              `json:"done,omitempty"`
}

func Choice(optionID string) Answer {
	return Answer{Kind: AnswerChoice, Choice: optionID}
}

func Order(indices ...int) Answer {
	return Answer{Kind: AnswerOrder, Order: append([]int(nil), indices...)}
}

func PairMap(pairs map[string]string) Answer {
	cp := make(map[string]string, len(pairs))
	for k, v := range pairs {
		cp[k] = v
	}
	return Answer{Kind: AnswerPairs, Pairs: cp}
}

func ActionDone() Answer {
	return Answer{Kind: AnswerAction, Done: true}
}

// IsZero reports whether no answer has been given.
func (a Answer) IsZero() bool {
	return a.Kind == ""
}

// Clone returns a deep copy so stored answers cannot be mutated through shared slices or maps.
func (a Answer) Clone() Answer {
	out := a
	if a.Order != nil {
		out.Order = append([]int(nil), a.Order...)
	}
	if a.Pairs != nil {
		out.Pairs = make(map[string]string, len(a.Pairs))
		for k, v := range a.Pairs {
			out.Pairs[k] = v
		}
	}
	return out
}

// KindFor returns the answer kind expected by an item type.
func KindFor(t ItemType) AnswerKind {
	switch t {
	case ItemSingleChoice:
		return AnswerChoice
	case ItemOrdering:
		return AnswerOrder
	case ItemMatchPairs:
		return AnswerPairs
	case ItemFreeAction:
		return AnswerAction
	}
	return ""
}
