package examples

func getCampaignExamples() []ExampleSet {
	return []ExampleSet{
		{
			Name:        "Campaign Taxonomy",
			Description: "Pipe-delimited campaign names with activation ids",
			Sheets: []ExampleSheet{
				{
					Name:        "Campaigns",
					Description: "Media plan rows keyed by taxonomy string",
					CSV: `Taxonomy,Spend,Live
FY24_26|Q1-4|Tourism WA|WA |Always On Remarketing| 4LAOSO | SOC|Facebook_Instagram|Conversions:DJTDOM060725,1200,TRUE
FY25|Q2|Brand|NSW|Summer Launch|5XYZ|DIS|Google|Awareness:ABC123,850.5,TRUE
FY25|Q3|Retail|VIC|Click and Collect|7QRS|SEA|Bing|Traffic:RT9981,430,FALSE
FY25|Q4|Retail|QLD|Holiday Sale,,FALSE
`,
				},
			},
			Recipes: []ExampleRecipe{
				{
					Name:     "Extract client",
					Filename: "example-extract-client.yaml",
					Content: `name: extract-client
description: Replace each campaign taxonomy with its client segment
steps:
  - select: Campaigns!A2:A5
    action: extract-segment
    segment: 3
`,
				},
				{
					Name:     "Activation ids",
					Filename: "example-activation-ids.yaml",
					Content: `name: activation-ids
description: Pull activation ids out of the taxonomy column, then restore it
continue_on_error: true
steps:
  - select: Campaigns!A2:A5
    action: extract-activation
  - action: undo
`,
				},
			},
		},
	}
}
