package sade

import (
	"testing"
)

func TestRecommendRanksAllVariants(t *testing.T) {
	r := NewRecommender()
	recs := r.Recommend(ProblemCharacteristics{
		Dimensionality: 10,
		Modality:       Multimodal,
		Landscape:      Rugged,
	})

	if len(recs) != len(GetAllVariants()) {
		t.Fatalf("got %d recommendations, want %d", len(recs), len(GetAllVariants()))
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Score > recs[i-1].Score {
			t.Fatalf("recommendations not sorted by score at %d", i)
		}
	}
	for _, rec := range recs {
		if rec.Score < 0 || rec.Score > 1 {
			t.Errorf("%s: score %v outside [0, 1]", rec.Variant.Name(), rec.Score)
		}
		if rec.Confidence < 0 || rec.Confidence > 1 {
			t.Errorf("%s: confidence %v outside [0, 1]", rec.Variant.Name(), rec.Confidence)
		}
		if rec.Reasoning == "" {
			t.Errorf("%s: empty reasoning", rec.Variant.Name())
		}
	}
}

func TestRecommendBestForConstrainedProblems(t *testing.T) {
	r := NewRecommender()
	best := r.RecommendBest(ProblemCharacteristics{
		Dimensionality: 20,
		Constrained:    true,
	})
	if best.Variant.Name() != "sade" {
		t.Errorf("constrained problem recommended %s, want sade", best.Variant.Name())
	}
	if best.Selector != SelectorFeasibilityRule {
		t.Errorf("selector = %q, want feasibility rule", best.Selector)
	}
}

func TestRecommendSelectorForTightConstraints(t *testing.T) {
	best := NewRecommender().RecommendBest(ProblemCharacteristics{
		Constrained:      true,
		TightConstraints: true,
	})
	if best.Selector != SelectorEpsilon {
		t.Errorf("tight constraints recommended selector %q, want epsilon", best.Selector)
	}
}

func TestRecommendBestForUnimodal(t *testing.T) {
	best := NewRecommender().RecommendBest(ProblemCharacteristics{
		Modality:  Unimodal,
		Landscape: Smooth,
	})
	// Best-centered variants should beat pure random exploration here.
	name := best.Variant.Name()
	if name == "rand2bin" {
		t.Errorf("unimodal smooth problem recommended %s", name)
	}
}

func TestClassifyProblemDetectsConstraints(t *testing.T) {
	ranges := []Range{{-5, 5}, {-5, 5}, {-5, 5}}

	pc := ClassifyProblem(Unconstrained(Sphere), ranges, 11)
	if pc.Constrained {
		t.Error("unconstrained objective classified as constrained")
	}
	if pc.Dimensionality != 3 {
		t.Errorf("dimensionality %d, want 3", pc.Dimensionality)
	}

	pc = ClassifyProblem(ConstrainedSphere, ranges, 11)
	if !pc.Constrained {
		t.Error("constrained objective not detected")
	}
}

func TestClassifyProblemModality(t *testing.T) {
	ranges := []Range{{-5, 5}, {-5, 5}, {-5, 5}, {-5, 5}, {-5, 5}}
	pc := ClassifyProblem(Unconstrained(Sphere), ranges, 23)
	if pc.Modality == HighlyMultimodal {
		t.Errorf("sphere classified as highly multimodal")
	}
}

func TestEstimateModalityEdgeCases(t *testing.T) {
	if got := estimateModality([]float64{1, 2}); got != Multimodal {
		t.Errorf("tiny sample should default to Multimodal, got %v", got)
	}
	flat := make([]float64, 50)
	if got := estimateModality(flat); got != Multimodal {
		t.Errorf("zero-mean sample should default to Multimodal, got %v", got)
	}
}
