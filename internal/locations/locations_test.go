package locations

import "testing"

func TestAll_WellFormed(t *testing.T) {
	if len(All) == 0 {
		t.Fatal("no locations defined")
	}

	seen := make(map[string]bool)
	for _, loc := range All {
		if loc.Name == "" {
			t.Error("location with empty name")
		}
		if seen[loc.Name] {
			t.Errorf("duplicate location %q", loc.Name)
		}
		seen[loc.Name] = true

		if loc.SiteID == "" {
			t.Errorf("%s: empty site ID", loc.Name)
		}
		if loc.Latitude < 49 || loc.Latitude > 61 {
			t.Errorf("%s: latitude %v outside the UK", loc.Name, loc.Latitude)
		}
		if loc.Longitude < -8.5 || loc.Longitude > 2 {
			t.Errorf("%s: longitude %v outside the UK", loc.Name, loc.Longitude)
		}
	}
}

func TestByName(t *testing.T) {
	loc, ok := ByName("Portsmouth")
	if !ok {
		t.Fatal("Portsmouth not found")
	}
	if loc.SiteID != "353595" {
		t.Errorf("SiteID = %q", loc.SiteID)
	}

	if _, ok := ByName("Atlantis"); ok {
		t.Error("unknown city should not resolve")
	}
}
