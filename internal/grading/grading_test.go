package grading_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"learning-quiz-engine/internal/domain"
	"learning-quiz-engine/internal/grading"
)

func TestComplete(t *testing.T) {
	choice := domain.Item{ID: "c1", Type: domain.ItemSingleChoice, Answer: domain.Choice("o2")}
	ordering := domain.Item{ID: "o1", Type: domain.ItemOrdering, Steps: []string{"a", "b", "c"}, Answer: domain.Order(2, 0, 1)}
	pairs := domain.Item{ID: "p1", Type: domain.ItemMatchPairs, Slots: []string{"s1", "s2"}, Answer: domain.PairMap(map[string]string{"s1": "x", "s2": "y"})}
	action := domain.Item{ID: "a1", Type: domain.ItemFreeAction}

	tests := map[string]struct {
		item   domain.Item
		answer domain.Answer
		want   bool
	}{
		"choice with option":           {item: choice, answer: domain.Choice("o1"), want: true},
		"choice without option":        {item: choice, answer: domain.Choice(""), want: false},
		"wrong answer kind":            {item: choice, answer: domain.Order(0), want: false},
		"unanswered":                   {item: choice, answer: domain.Answer{}, want: false},
		"ordering permutation":         {item: ordering, answer: domain.Order(1, 2, 0), want: true},
		"ordering too short":           {item: ordering, answer: domain.Order(1, 2), want: false},
		"ordering repeats an index":    {item: ordering, answer: domain.Order(1, 1, 0), want: false},
		"ordering out of range":        {item: ordering, answer: domain.Order(0, 1, 3), want: false},
		"pairs all slots set":          {item: pairs, answer: domain.PairMap(map[string]string{"s1": "y", "s2": "x"}), want: true},
		"pairs sentinel counts as set": {item: pairs, answer: domain.PairMap(map[string]string{"s1": domain.NoAnswer, "s2": domain.NoAnswer}), want: true},
		"pairs missing a slot":         {item: pairs, answer: domain.PairMap(map[string]string{"s1": "x"}), want: false},
		"action done":                  {item: action, answer: domain.ActionDone(), want: true},
		"action not done":              {item: action, answer: domain.Answer{Kind: domain.AnswerAction}, want: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, grading.Complete(tt.item, tt.answer))
		})
	}
}

func TestGrade(t *testing.T) {
	pairs := domain.Item{
		Type:  domain.ItemMatchPairs,
		Slots: []string{"s1", "s2", "s3", "s4", "s5"},
		Answer: domain.PairMap(map[string]string{
			"s1": "a", "s2": "b", "s3": "c", "s4": "d", "s5": "e",
		}),
	}

	tests := map[string]struct {
		item        domain.Item
		answer      domain.Answer
		wantCorrect bool
		wantOK      bool
	}{
		"choice exact match": {
			item:        domain.Item{Type: domain.ItemSingleChoice, Answer: domain.Choice("o2")},
			answer:      domain.Choice("o2"),
			wantCorrect: true, wantOK: true,
		},
		"choice mismatch": {
			item:        domain.Item{Type: domain.ItemSingleChoice, Answer: domain.Choice("o2")},
			answer:      domain.Choice("o1"),
			wantCorrect: false, wantOK: true,
		},
		"choice with withheld canonical": {
			item:        domain.Item{Type: domain.ItemSingleChoice},
			answer:      domain.Choice("o1"),
			wantCorrect: false, wantOK: false,
		},
		"ordering equal": {
			item:        domain.Item{Type: domain.ItemOrdering, Answer: domain.Order(4, 0, 2, 3, 1)},
			answer:      domain.Order(4, 0, 2, 3, 1),
			wantCorrect: true, wantOK: true,
		},
		"ordering one swap has no partial credit": {
			item:        domain.Item{Type: domain.ItemOrdering, Answer: domain.Order(4, 0, 2, 3, 1)},
			answer:      domain.Order(4, 0, 3, 2, 1),
			wantCorrect: false, wantOK: true,
		},
		"pairs all equal": {
			item:        pairs,
			answer:      domain.PairMap(map[string]string{"s1": "a", "s2": "b", "s3": "c", "s4": "d", "s5": "e"}),
			wantCorrect: true, wantOK: true,
		},
		"pairs with two no-answer slots": {
			item:        pairs,
			answer:      domain.PairMap(map[string]string{"s1": "a", "s2": domain.NoAnswer, "s3": "c", "s4": domain.NoAnswer, "s5": "e"}),
			wantCorrect: false, wantOK: true,
		},
		"pairs where canonical expects no answer": {
			item: domain.Item{Type: domain.ItemMatchPairs, Answer: domain.PairMap(map[string]string{
				"s1": "a", "s2": domain.NoAnswer,
			})},
			answer:      domain.PairMap(map[string]string{"s1": "a", "s2": domain.NoAnswer}),
			wantCorrect: true, wantOK: true,
		},
		"shape mismatch cannot be graded": {
			item:        domain.Item{Type: domain.ItemOrdering, Answer: domain.Order(0, 1)},
			answer:      domain.Choice("0"),
			wantCorrect: false, wantOK: false,
		},
		"free action done": {
			item:        domain.Item{Type: domain.ItemFreeAction},
			answer:      domain.ActionDone(),
			wantCorrect: true, wantOK: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			correct, ok := grading.Grade(tt.item, tt.answer)
			assert.Equal(t, tt.wantCorrect, correct, "correct")
			assert.Equal(t, tt.wantOK, ok, "ok")
		})
	}
}
