package catalog

// TerpeneProfile describes a terpene's typical effects and aroma.
type TerpeneProfile struct {
	Effects []string
	Aroma   string
}

// TerpeneInfo is the reference table for common terpenes, used by the
// education responses in the composer.
var TerpeneInfo = map[string]TerpeneProfile{
	"myrcene": {
		Effects: []string{"relaxing", "sedating", "pain relief"},
		Aroma:   "earthy, musky, herbal",
	},
	"limonene": {
		Effects: []string{"mood elevation", "stress relief", "energizing"},
		Aroma:   "citrus, lemon, orange",
	},
	"caryophyllene": {
		Effects: []string{"anti-inflammatory", "pain relief", "anxiety relief"},
		Aroma:   "spicy, peppery, woody",
	},
	"pinene": {
		Effects: []string{"alertness", "memory retention", "anti-inflammatory"},
		Aroma:   "pine, fresh, forest",
	},
	"linalool": {
		Effects: []string{"calming", "anti-anxiety", "sedating"},
		Aroma:   "floral, lavender, sweet",
	},
	"humulene": {
		Effects: []string{"appetite suppressant", "anti-inflammatory"},
		Aroma:   "hoppy, earthy, woody",
	},
	"terpinolene": {
		Effects: []string{"uplifting", "sedating in high doses", "antioxidant"},
		Aroma:   "floral, herbal, piney",
	},
	"ocimene": {
		Effects: []string{"uplifting", "energizing", "decongestant"},
		Aroma:   "sweet, herbal, woody",
	},
}
