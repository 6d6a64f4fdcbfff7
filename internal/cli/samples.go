package cli

import "learning-quiz-engine/internal/domain"

// sampleCatalogs provides demo content; swap this loader with the Postgres-backed one in production.
func sampleCatalogs() map[string]domain.Catalog {
	return map[string]domain.Catalog{
		"quiz-visual": {
			QuizID: "quiz-visual",
			Title:  "Visual learning",
			Style:  domain.StyleVisual,
			Items: []domain.Item{
				{
					ID:     "v1",
					Prompt: "Which chart best shows a trend over time?",
					Type:   domain.ItemSingleChoice,
					Options: []domain.Option{
						{ID: "pie", Text: "Pie chart"},
						{ID: "line", Text: "Line chart"},
						{ID: "venn", Text: "Venn diagram"},
					},
					Answer: domain.Choice("line"),
				},
				{
					ID:     "v2",
					Prompt: "Match each colour to the traffic signal meaning.",
					Type:   domain.ItemMatchPairs,
					Options: []domain.Option{
						{ID: "stop", Text: "Stop"},
						{ID: "go", Text: "Go"},
						{ID: "wait", Text: "Get ready"},
					},
					Slots:  []string{"red", "green", "amber"},
					Answer: domain.PairMap(map[string]string{"red": "stop", "green": "go", "amber": "wait"}),
				},
			},
		},
		"quiz-auditory": {
			QuizID: "quiz-auditory",
			Title:  "Auditory learning",
			Style:  domain.StyleAuditory,
			Items: []domain.Item{
				{
					ID:     "a1",
					Prompt: "Listen to the clip. Which instrument plays the melody?",
					Type:   domain.ItemSingleChoice,
					Options: []domain.Option{
						{ID: "piano", Text: "Piano"},
						{ID: "violin", Text: "Violin"},
						{ID: "flute", Text: "Flute"},
					},
					Answer:  domain.Choice("violin"),
					PauseAt: 4.5,
				},
			},
		},
		"quiz-sequential": {
			QuizID: "quiz-sequential",
			Title:  "Build a circuit",
			Style:  domain.StyleSequential,
			Items: []domain.Item{
				{
					ID:     "s1",
					Prompt: "Put the steps in order.",
					Type:   domain.ItemOrdering,
					Steps: []string{
						"Close the switch",
						"Connect the battery",
						"Attach the wires",
						"Place the bulb",
						"Check the bulb lights",
					},
					Answer: domain.Order(1, 2, 3, 0, 4),
					Points: 2,
				},
				{
					ID:     "s2",
					Prompt: "Build the circuit on the board, then mark it done.",
					Type:   domain.ItemFreeAction,
				},
			},
		},
	}
}
