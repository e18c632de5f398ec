package core

import "github.com/huangsam/storecheck/schema"

func weight(v float64) *float64 { return &v }

// simpleCatalog is the two-item catalog used by the scoring scenarios.
func simpleCatalog() *schema.Catalog {
	return &schema.Catalog{
		Type: "simple",
		Sections: []schema.ChecklistSection{
			{ID: "A", Title: "Section A", Items: []schema.ChecklistItem{
				{ID: "1", Question: "First?", Weight: 2},
				{ID: "2", Question: "Second?", Weight: 3},
			}},
		},
		Payload: schema.PayloadLayout{
			Header:   []schema.PayloadField{{Key: "storeId", Source: "meta.storeId"}},
			KeyStyle: schema.QualifiedKeys,
			Footer:   []schema.PayloadField{{Key: "percent", Source: "score.percent"}},
		},
	}
}

// mixedCatalog exercises every item kind, a bucketed section, variants and duplicate item ids.
func mixedCatalog() *schema.Catalog {
	return &schema.Catalog{
		Type: "mixed",
		Sections: []schema.ChecklistSection{
			{ID: "Basics", Title: "Basics", RemarksKey: "B", Items: []schema.ChecklistItem{
				{ID: "B_1", Question: "Materials available?", Weight: 1},
				{ID: "B_2", Question: "Induction completed?", Weight: 4, NegativeWeight: weight(-4)},
				{ID: "B_NAME", Question: "Employee name", Kind: schema.TextItem},
			}},
			{ID: "TSA", Title: "Skill Assessment", Bucketed: true, Items: []schema.ChecklistItem{
				{ID: "EMP", Question: "Employee id", Kind: schema.TextItem},
				{ID: "PH_1", Question: "Groomed?", Weight: 1},
				{ID: "PH_2", Question: "Hands washed?", Weight: 1},
				{ID: "PH_3", Question: "Gloves worn?", Weight: 1},
				{ID: "PH_4", Question: "Station clean?", Weight: 1},
			}},
			{ID: "TSA2", Title: "Second Assessment", Bucketed: true, Items: []schema.ChecklistItem{
				{ID: "PH_1", Question: "Groomed?", Weight: 1},
				{ID: "PH_2", Question: "Hands washed?", Weight: 1},
			}},
			{ID: "Timing", Title: "Timing", Variant: "technical", Items: []schema.ChecklistItem{
				{ID: "Start", Question: "Start time", Kind: schema.TimeItem},
				{ID: "End", Question: "End time", Kind: schema.TimeItem},
			}},
			{ID: "Sensory", Title: "Sensory", Variant: "sensory", Items: []schema.ChecklistItem{
				{ID: "Taste", Question: "Taste", Kind: schema.ChoiceItem, Choices: []schema.Choice{
					{Label: "Poor", Score: 1}, {Label: "Good", Score: 3}, {Label: "Great", Score: 5},
				}},
				{ID: "Photo", Question: "Cup image", Weight: 5, Kind: schema.ImageItem},
			}},
		},
		Payload: schema.PayloadLayout{
			Header: []schema.PayloadField{
				{Key: "timestamp", Source: "timestamp"},
				{Key: "storeName", Source: "meta.storeName"},
				{Key: "region", Source: "meta.region|Unknown"},
				{Key: "totalScore", Source: "score.total"},
				{Key: "maxScore", Source: "score.max"},
				{Key: "type", Source: "const.Mixed"},
				{Key: "tsaScore", Source: "bucket.TSA"},
				{Key: "basicsScore", Source: "section.Basics"},
				{Key: "timeTaken", Source: "elapsed.Timing_Start.Timing_End"},
			},
			KeyStyle:       schema.ItemKeys,
			SectionRemarks: true,
			Footer: []schema.PayloadField{
				{Key: "responses", Source: "json.responses"},
				{Key: "images", Source: "json.images"},
			},
		},
		Required: []schema.RequiredField{
			{Fields: []string{schema.FieldStoreName, schema.FieldStoreID}, Label: "Store Location"},
			{Fields: []string{schema.FieldTrainerName, schema.FieldTrainerID}, Label: "Trainer"},
			{Fields: []string{"mod"}, Label: "MOD"},
		},
	}
}
