package catalog

import (
	"strings"
	"testing"

	"github.com/verdant/sommelier/pkg/types"
)

func loadCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return c
}

func TestLoadEmbeddedCatalog(t *testing.T) {
	c := loadCatalog(t)
	if c.Len() != 24 {
		t.Fatalf("Len = %d, want 24", c.Len())
	}
	for _, s := range c.All() {
		if err := s.Validate(); err != nil {
			t.Errorf("strain %s: %v", s.ID, err)
		}
	}
}

func TestLoadRejectsBadData(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty", "strains: []"},
		{"not yaml", "{{{"},
		{"bad type", "strains:\n  - id: x\n    name: X\n    type: ruderalis\n    thc_range: {min: 1, max: 2}"},
		{"duplicate id", `
strains:
  - id: x
    name: X
    type: hybrid
    thc_range: {min: 10, max: 20}
  - id: x
    name: X2
    type: hybrid
    thc_range: {min: 10, max: 20}
`},
	}
	for _, tc := range cases {
		if _, err := load([]byte(tc.data)); err == nil {
			t.Errorf("%s: load succeeded, want error", tc.name)
		}
	}
}

func TestGet(t *testing.T) {
	c := loadCatalog(t)
	if s := c.Get("blue-dream"); s == nil || s.Name != "Blue Dream" {
		t.Fatalf("Get(blue-dream) = %+v", s)
	}
	if s := c.Get("nope"); s != nil {
		t.Fatalf("Get(nope) = %+v, want nil", s)
	}
}

func TestSearch(t *testing.T) {
	c := loadCatalog(t)

	if got := c.Search("blue dream"); len(got) != 1 || got[0].ID != "blue-dream" {
		t.Errorf("Search(blue dream) = %v", ids(got))
	}
	if got := c.Search("SLEEPY"); len(got) == 0 {
		t.Error("Search is not case-insensitive on effects")
	}
	if got := c.Search("citrus"); len(got) == 0 {
		t.Error("Search does not match flavors")
	}
	if got := c.Search(""); got != nil {
		t.Errorf("Search(empty) = %v, want nil", ids(got))
	}
	if got := c.Search("e"); len(got) > 20 {
		t.Errorf("Search returned %d results, cap is 20", len(got))
	}
}

func TestByType(t *testing.T) {
	c := loadCatalog(t)
	counts := map[types.StrainType]int{
		types.TypeIndica: 7,
		types.TypeSativa: 7,
		types.TypeHybrid: 10,
	}
	for typ, want := range counts {
		got := c.ByType(typ)
		if len(got) != want {
			t.Errorf("ByType(%s) = %d strains, want %d", typ, len(got), want)
		}
		for _, s := range got {
			if s.Type != typ {
				t.Errorf("ByType(%s) returned %s with type %s", typ, s.ID, s.Type)
			}
		}
	}
}

func TestByAnyEffectPreservesCatalogOrder(t *testing.T) {
	c := loadCatalog(t)
	got := c.ByAnyEffect([]types.Effect{types.EffectSleepy, types.EffectRelaxed})
	if len(got) < 2 {
		t.Fatalf("too few results: %v", ids(got))
	}
	order := indexByID(c)
	for i := 1; i < len(got); i++ {
		if order[got[i].ID] < order[got[i-1].ID] {
			t.Fatalf("results out of catalog order at %s", got[i].ID)
		}
	}
}

func TestByMedicalUse(t *testing.T) {
	c := loadCatalog(t)
	got := c.ByMedicalUse("pain")
	if len(got) == 0 {
		t.Fatal("no strains for pain")
	}
	for _, s := range got {
		found := false
		for _, use := range s.MedicalUses {
			if strings.Contains(strings.ToLower(use), "pain") {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("%s returned for pain without a matching medical use", s.ID)
		}
	}
}

func TestForMood(t *testing.T) {
	c := loadCatalog(t)

	got := c.ForMood("relax")
	if len(got) == 0 {
		t.Fatal("no strains for relax")
	}
	if len(got) > 10 {
		t.Fatalf("ForMood returned %d strains, cap is 10", len(got))
	}
	if got := c.ForMood("confused"); got != nil {
		t.Fatalf("ForMood(confused) = %v, want nil", ids(got))
	}
}

func TestTopRated(t *testing.T) {
	c := loadCatalog(t)
	got := c.TopRated(5)
	if len(got) != 5 {
		t.Fatalf("TopRated(5) = %d strains", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Rating > got[i-1].Rating {
			t.Fatalf("ratings not descending at %s", got[i].ID)
		}
	}
}

func ids(strains []types.Strain) []string {
	out := make([]string, len(strains))
	for i, s := range strains {
		out[i] = s.ID
	}
	return out
}

func indexByID(c *Catalog) map[string]int {
	out := make(map[string]int, c.Len())
	for i, s := range c.All() {
		out[s.ID] = i
	}
	return out
}
