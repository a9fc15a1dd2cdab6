package examples

func getTargetingExamples() []ExampleSet {
	return []ExampleSet{
		{
			Name:        "Audience Targeting",
			Description: "Audience labels prefixed with caret targeting codes",
			Sheets: []ExampleSheet{
				{
					Name:        "Targeting",
					Description: "Audience names carrying ^CODE^ markers",
					CSV: `Audience
^AT^ Adults 25-54
^FB^ Lookalike audience
^GG^ In-market travel ^RT^
`,
				},
			},
			Recipes: []ExampleRecipe{
				{
					Name:     "Strip targeting codes",
					Filename: "example-strip-targeting.yaml",
					Content: `name: strip-targeting
description: Remove caret targeting codes from audience names
steps:
  - select: Targeting!A2:A4
    action: trim-targeting
`,
				},
				{
					Name:     "Keep targeting codes",
					Filename: "example-keep-targeting.yaml",
					Content: `name: keep-targeting
description: Reduce audience names to their targeting codes
steps:
  - select: Targeting!A2:A4
    action: keep-targeting
`,
				},
			},
		},
	}
}
