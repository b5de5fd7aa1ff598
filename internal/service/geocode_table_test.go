package service

import (
	"testing"

	"github.com/GTDGit/gtd_ongkir/internal/models"
)

const wardTableJSON = `{
  "Kota Adm. Jakarta Selatan": {
    "Setiabudi": {
      "Kuningan Timur": {"lat": -6.2297, "lng": 106.8295},
      "Karet": {"lat": -6.2203, "lng": 106.8155},
      "Menteng Atas": null
    },
    "Tebet": {
      "Tebet Barat": {"lat": 999, "lng": 106.85}
    }
  }
}`

func TestParseWardTable(t *testing.T) {
	table, err := ParseWardTable([]byte(wardTableJSON))
	if err != nil {
		t.Fatalf("ParseWardTable: %v", err)
	}
	if c := table["Kota Adm. Jakarta Selatan"]["Setiabudi"]["Menteng Atas"]; c != nil {
		t.Fatalf("null entry decoded as %+v", c)
	}

	g := NewGeocodeTable(testIndex(), table, nil)

	if _, ok := g.Lookup("3174021001"); !ok {
		t.Fatal("Kuningan Timur missing")
	}
	if _, ok := g.Lookup("3174021003"); ok {
		t.Fatal("null entry must be a miss")
	}
	if _, ok := g.Lookup("3174031001"); ok {
		t.Fatal("out of range entry must be ignored")
	}
	if _, ok := g.Lookup("0000000000"); ok {
		t.Fatal("unknown ward must be a miss")
	}

	c, ok := g.LookupByNames("KOTA ADM. JAKARTA SELATAN", "setiabudi", " Karet ")
	if !ok || c.Lat != -6.2203 {
		t.Fatalf("LookupByNames = %+v, %v", c, ok)
	}
}

func TestParseWardTableInvalid(t *testing.T) {
	if _, err := ParseWardTable([]byte(`[1,2]`)); err == nil {
		t.Fatal("expected error")
	}
}

func TestDistrictCentroids(t *testing.T) {
	g := testTable()

	c, ok := g.DistrictCentroid("317402")
	if !ok {
		t.Fatal("Setiabudi centroid missing")
	}
	if c.Lat != (-6.2297-6.2203)/2 || c.Lng != (106.8295+106.8155)/2 {
		t.Fatalf("centroid = %+v", c)
	}
	if _, ok := g.DistrictCentroid("317403"); ok {
		t.Fatal("Tebet has no known wards, centroid must be missing")
	}

	overrides, err := ParseDistrictCentroids([]byte(`{"317403": {"lat": -6.2260, "lng": 106.8580}}`))
	if err != nil {
		t.Fatalf("ParseDistrictCentroids: %v", err)
	}
	g = NewGeocodeTable(testIndex(), testWardTable(), overrides)
	if c, ok := g.DistrictCentroid("317403"); !ok || c.Lng != 106.8580 {
		t.Fatalf("override centroid = %+v, %v", c, ok)
	}
}

func TestCoverage(t *testing.T) {
	g := testTable()
	cov := g.Coverage("")
	if len(cov) != 2 {
		t.Fatalf("coverage = %+v", cov)
	}
	if cov[0].DistrictCode != "317402" || cov[0].TotalWards != 3 || len(cov[0].MissingWards) != 1 || cov[0].MissingWards[0] != "MENTENG ATAS" {
		t.Fatalf("setiabudi coverage = %+v", cov[0])
	}
	if cov[1].DistrictCode != "317403" || len(cov[1].MissingWards) != 1 {
		t.Fatalf("tebet coverage = %+v", cov[1])
	}

	if other := g.Coverage("3171"); len(other) != 0 {
		t.Fatalf("coverage of another city = %+v", other)
	}
}

func TestTerritoryIndexComplete(t *testing.T) {
	idx := testIndex()
	full := idx.Complete(models.AdministrativeAddress{WardID: "3174021002"})
	if full.DistrictID != "317402" || full.CityID != "3174" || full.ProvinceID != "31" {
		t.Fatalf("completed = %+v", full)
	}

	names := idx.Names(models.AdministrativeAddress{WardID: "3174021002"})
	if names.Ward != "KARET" || names.District != "SETIABUDI" || names.Province != "DKI JAKARTA" {
		t.Fatalf("names = %+v", names)
	}

	if got := idx.Counts()["wards"]; got != 4 {
		t.Fatalf("ward count = %d", got)
	}
	if len(idx.Wards("317402")) != 3 || len(idx.Districts("3174")) != 2 {
		t.Fatal("listing by parent broken")
	}
}
