package crop

import (
	"testing"

	"github.com/talgya/field-station/internal/calendar"
)

func TestCatalogComplete(t *testing.T) {
	defs := All()
	if len(defs) != 8 {
		t.Fatalf("expected 8 crops in the catalog, got %d", len(defs))
	}

	for _, def := range defs {
		if def.GrowthTime < 60 || def.GrowthTime > 140 {
			t.Errorf("%s: growth time %d outside 60-140", def.ID, def.GrowthTime)
		}
		if def.Value < 15 || def.Value > 45 {
			t.Errorf("%s: base value %d outside 15-45", def.ID, def.Value)
		}
		if len(def.Seasons) == 0 {
			t.Errorf("%s: no planting seasons", def.ID)
		}
	}
}

func TestGetUnknown(t *testing.T) {
	if _, ok := Get("moon_wheat"); ok {
		t.Fatal("expected lookup of unknown crop to fail")
	}
}

func TestEligibleForSeasons(t *testing.T) {
	fall := EligibleFor(calendar.Fall)
	if len(fall) != 1 || fall[0] != WheatSoftRedWinter {
		t.Fatalf("fall should allow only winter wheat, got %v", fall)
	}

	if winter := EligibleFor(calendar.Winter); len(winter) != 0 {
		t.Fatalf("nothing should be plantable in winter, got %v", winter)
	}

	spring := EligibleFor(calendar.Spring)
	if len(spring) != 7 {
		t.Fatalf("expected 7 spring crops, got %v", spring)
	}
	for _, id := range spring {
		if id == WheatSoftRedWinter {
			t.Fatal("winter wheat should not be plantable in spring")
		}
	}
}

func TestSoybeanFixesNitrogen(t *testing.T) {
	def, ok := Get(Soybean)
	if !ok {
		t.Fatal("soybean missing from catalog")
	}
	if def.NitrogenNeed >= 0 {
		t.Fatalf("soybean should have negative nitrogen need, got %v", def.NitrogenNeed)
	}
}

func TestShortName(t *testing.T) {
	def, _ := Get(WheatSoftRedWinter)
	if got := def.ShortName(); got != "Wheat" {
		t.Fatalf("ShortName = %q, want Wheat", got)
	}
}
