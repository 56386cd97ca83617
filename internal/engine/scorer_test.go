package engine

import (
	"reflect"
	"testing"

	"github.com/verdant/sommelier/pkg/types"
)

func testStrain(id string, typ types.StrainType, thcLo, thcHi float64, rating float64, effects ...types.Effect) types.Strain {
	return types.Strain{
		ID:       id,
		Name:     id,
		Type:     typ,
		THCRange: types.Range{Min: thcLo, Max: thcHi},
		Effects:  effects,
		Rating:   rating,
	}
}

func TestScoreNeutralProfileIsRatingDriven(t *testing.T) {
	p := types.NewDefaultProfile("u1")
	s := testStrain("a", types.TypeHybrid, 15, 20, 4.5, types.EffectHappy)

	got := Score([]types.Strain{s}, p)
	// base 50 + (4.5-4)*10 rating bonus.
	if got[0].Score != 55 {
		t.Fatalf("score = %v, want 55", got[0].Score)
	}
}

func TestScoreEffectWeights(t *testing.T) {
	p := types.NewDefaultProfile("u1")
	p.PreferredEffects[types.EffectRelaxed] = 5
	p.PreferredEffects[types.EffectEnergetic] = 1

	s := testStrain("a", types.TypeHybrid, 15, 20, 4.0, types.EffectRelaxed, types.EffectEnergetic)
	got := Score([]types.Strain{s}, p)
	// base 50 + (5-3)*5 + (1-3)*5 = 50.
	if got[0].Score != 50 {
		t.Fatalf("score = %v, want 50", got[0].Score)
	}
}

func TestScoreAvoidPenaltyAppliedOnce(t *testing.T) {
	p := types.NewDefaultProfile("u1")
	p.AvoidEffects = []types.Effect{types.EffectSleepy, types.EffectHungry}

	s := testStrain("a", types.TypeHybrid, 15, 20, 4.0, types.EffectSleepy, types.EffectHungry)
	got := Score([]types.Strain{s}, p)
	// base 50 - 30, not -60.
	if got[0].Score != 20 {
		t.Fatalf("score = %v, want 20", got[0].Score)
	}
}

func TestScoreTypeMatchBonus(t *testing.T) {
	p := types.NewDefaultProfile("u1")
	p.PreferredType = types.TypeIndica

	indica := testStrain("i", types.TypeIndica, 15, 20, 4.0, types.EffectRelaxed)
	sativa := testStrain("s", types.TypeSativa, 15, 20, 4.0, types.EffectRelaxed)

	got := Score([]types.Strain{sativa, indica}, p)
	if got[0].Strain.ID != "i" {
		t.Fatalf("top strain = %s, want i", got[0].Strain.ID)
	}
	if diff := got[0].Score - got[1].Score; diff != 10 {
		t.Fatalf("type bonus = %v, want 10", diff)
	}
}

func TestScoreToleranceAdjustments(t *testing.T) {
	strong := testStrain("strong", types.TypeHybrid, 22, 26, 4.0, types.EffectHappy) // mean 24
	mild := testStrain("mild", types.TypeHybrid, 12, 16, 4.0, types.EffectHappy)     // mean 14

	low := types.NewDefaultProfile("u1")
	low.THCTolerance = types.ToleranceLow
	if got := Score([]types.Strain{strong}, low); got[0].Score != 35 {
		t.Errorf("low tolerance vs strong: score = %v, want 35", got[0].Score)
	}

	high := types.NewDefaultProfile("u2")
	high.THCTolerance = types.ToleranceHigh
	if got := Score([]types.Strain{mild}, high); got[0].Score != 40 {
		t.Errorf("high tolerance vs mild: score = %v, want 40", got[0].Score)
	}
}

func TestScoreFlavorBonusAppliedOnce(t *testing.T) {
	p := types.NewDefaultProfile("u1")
	p.PreferredFlavors = []string{"berry", "citrus"}

	s := testStrain("a", types.TypeHybrid, 15, 20, 4.0, types.EffectHappy)
	s.Flavors = []string{"berry", "citrus", "sweet"}

	got := Score([]types.Strain{s}, p)
	// base 50 + 10, not +20.
	if got[0].Score != 60 {
		t.Fatalf("score = %v, want 60", got[0].Score)
	}
}

func TestScoreClamped(t *testing.T) {
	p := types.NewDefaultProfile("u1")
	for _, e := range types.AllEffects {
		p.PreferredEffects[e] = 5
	}

	rich := testStrain("rich", types.TypeHybrid, 15, 20, 5.0, types.AllEffects...)
	got := Score([]types.Strain{rich}, p)
	if got[0].Score != 100 {
		t.Fatalf("score = %v, want clamp at 100", got[0].Score)
	}

	p2 := types.NewDefaultProfile("u2")
	p2.AvoidEffects = []types.Effect{types.EffectSleepy}
	for _, e := range types.AllEffects {
		p2.PreferredEffects[e] = 1
	}
	got = Score([]types.Strain{rich}, p2)
	if got[0].Score != 0 {
		t.Fatalf("score = %v, want clamp at 0", got[0].Score)
	}
}

func TestScoreStableOrderOnTies(t *testing.T) {
	p := types.NewDefaultProfile("u1")
	a := testStrain("a", types.TypeHybrid, 15, 20, 4.0, types.EffectHappy)
	b := testStrain("b", types.TypeHybrid, 15, 20, 4.0, types.EffectHappy)
	c := testStrain("c", types.TypeHybrid, 15, 20, 4.0, types.EffectHappy)

	got := Score([]types.Strain{a, b, c}, p)
	order := []string{got[0].Strain.ID, got[1].Strain.ID, got[2].Strain.ID}
	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Fatalf("tie order = %v, want input order", order)
	}
}

func TestScoreDeterministic(t *testing.T) {
	p := types.NewDefaultProfile("u1")
	p.PreferredEffects[types.EffectRelaxed] = 5
	strains := []types.Strain{
		testStrain("a", types.TypeIndica, 18, 24, 4.4, types.EffectRelaxed, types.EffectSleepy),
		testStrain("b", types.TypeSativa, 16, 22, 4.6, types.EffectEnergetic),
		testStrain("c", types.TypeHybrid, 17, 23, 4.2, types.EffectRelaxed, types.EffectHappy),
	}

	first := Score(strains, p)
	for i := 0; i < 5; i++ {
		if again := Score(strains, p); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}
