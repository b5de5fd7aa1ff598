package service

import (
	"testing"

	"github.com/GTDGit/gtd_ongkir/internal/models"
)

func TestNormalizeCityName(t *testing.T) {
	cases := map[string]string{
		"Kota Administrasi Jakarta Selatan": "Jakarta Selatan",
		"KOTA ADM. JAKARTA TIMUR":           "JAKARTA TIMUR",
		"Kabupaten Bogor":                   "Bogor",
		"KAB. TANGERANG":                    "TANGERANG",
		"Kab.Bekasi":                        "Bekasi",
		"Kota Bandung":                      "Kota Bandung",
		"  Kabupaten   Sleman ":             "Sleman",
		"Kabupatenan":                       "Kabupatenan",
		"Kabupaten":                         "Kabupaten",
		"":                                  "",

		"Kabupaten Administrasi Kepulauan Seribu": "Kepulauan Seribu",
	}
	for in, want := range cases {
		if got := NormalizeCityName(in); got != want {
			t.Errorf("NormalizeCityName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeProvinceName(t *testing.T) {
	cases := map[string]string{
		"Daerah Khusus Ibukota Jakarta": "Jakarta",
		"DKI JAKARTA":                   "JAKARTA",
		"Daerah Khusus Jakarta":         "Jakarta",
		"Daerah Istimewa Yogyakarta":    "Yogyakarta",
		"Jawa Barat":                    "Jawa Barat",
	}
	for in, want := range cases {
		if got := NormalizeProvinceName(in); got != want {
			t.Errorf("NormalizeProvinceName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildGeocodeQuery(t *testing.T) {
	got := BuildGeocodeQuery(models.AddressNames{
		Province: "Daerah Khusus Ibukota Jakarta",
		City:     "Kota Administrasi Jakarta Selatan",
		District: "Setiabudi",
		Ward:     "Kuningan  Timur",
	})
	want := "Kuningan Timur, Setiabudi, Jakarta Selatan, Jakarta, Indonesia"
	if got != want {
		t.Fatalf("query = %q, want %q", got, want)
	}

	partial := BuildGeocodeQuery(models.AddressNames{City: "Kabupaten Bogor"})
	if partial != "Bogor, Indonesia" {
		t.Fatalf("partial query = %q", partial)
	}

	if empty := BuildGeocodeQuery(models.AddressNames{}); empty != "" {
		t.Fatalf("empty query = %q, want empty", empty)
	}
}
