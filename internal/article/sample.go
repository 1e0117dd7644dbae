// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package article

import (
	"time"

	"github.com/pdiddy/article-console/pkg/types"
)

// SampleArticles returns the demo collection shown in sample mode. It is
// rebuilt on every call and never persisted.
func SampleArticles() []types.Article {
	return []types.Article{
		{
			ID:                "sample-1",
			Query:             "zebres bipedes",
			Title:             "Zebres Bipedes : Solution de Mots Croises",
			MetaTitle:         "Zebres Bipedes - Solution Mots Croises",
			MetaDescription:   "Trouvez la solution pour zebres bipedes dans les mots croises. Reponses et definitions completes.",
			Slug:              "zebres-bipedes-mots-croises",
			HTML:              "<h1>Zebres Bipedes</h1><p>La solution pour <strong>zebres bipedes</strong> en mots croises est <strong>PIETONS</strong>.</p><h2>Explication</h2><p>Les zebres bipedes designent, avec humour, les pietons traversant un passage zebre.</p>",
			TotalScore:        87,
			EvaluationSummary: "Strong keyword usage and clear structure. Meta description could be more compelling.",
			ChangesMade:       "Added H2 explanation section, improved keyword density.",
			Status:            types.StatusDraft,
			CreatedAt:         time.Date(2025, 2, 18, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:                "sample-2",
			Query:             "capitale scandinave",
			Title:             "Capitale Scandinave : Solution Mots Croises",
			MetaTitle:         "Capitale Scandinave - Mots Croises",
			MetaDescription:   "Solution pour capitale scandinave en mots croises : OSLO, STOCKHOLM, COPENHAGUE.",
			Slug:              "capitale-scandinave-mots-croises",
			HTML:              "<h1>Capitale Scandinave</h1><p>Les solutions possibles sont <strong>OSLO</strong>, <strong>STOCKHOLM</strong> et <strong>COPENHAGUE</strong>.</p>",
			TotalScore:        92,
			EvaluationSummary: "Excellent SEO optimization with rich keyword variations.",
			ChangesMade:       "Expanded answer list, added internal links.",
			ImageURL:          strPtr("https://images.example.com/capitale-scandinave.png"),
			ImageDescription:  strPtr("Map of the Scandinavian capitals"),
			ImagePromptUsed:   strPtr("Illustrated map of Oslo, Stockholm and Copenhagen for a crossword article"),
			Status:            types.StatusPublished,
			CreatedAt:         time.Date(2025, 2, 17, 14, 0, 0, 0, time.UTC),
		},
		{
			ID:                "sample-3",
			Query:             "fruit tropical",
			Title:             "Fruit Tropical : Reponses Mots Croises",
			MetaTitle:         "Fruit Tropical - Solution Mots Croises",
			MetaDescription:   "Toutes les solutions pour fruit tropical : MANGUE, PAPAYE, ANANAS, GOYAVE.",
			Slug:              "fruit-tropical-mots-croises",
			HTML:              "<h1>Fruit Tropical</h1><p>Solutions : <strong>MANGUE</strong>, <strong>PAPAYE</strong>, <strong>ANANAS</strong>.</p>",
			TotalScore:        74,
			EvaluationSummary: "Good content but needs more depth in explanations.",
			ChangesMade:       "Added more fruit options.",
			Status:            types.StatusPending,
			CreatedAt:         time.Date(2025, 2, 16, 9, 15, 0, 0, time.UTC),
		},
	}
}
