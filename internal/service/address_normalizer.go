package service

import (
	"strings"

	"github.com/GTDGit/gtd_ongkir/internal/models"
)

// Longest prefixes first so "Kabupaten Administrasi" wins over "Kabupaten".
var cityPrefixes = []string{
	"kabupaten administrasi",
	"kota administrasi",
	"kab. adm.",
	"kota adm.",
	"kabupaten",
	"kab.",
}

var provincePrefixes = []string{
	"daerah khusus ibukota",
	"daerah khusus",
	"daerah istimewa",
	"provinsi",
	"dki",
}

// NormalizeCityName strips administrative honorifics geocoders do not
// understand, e.g. "Kota Administrasi Jakarta Selatan" -> "Jakarta Selatan".
// A bare "Kota" is kept so "Kota Bandung" stays distinct from the regency.
func NormalizeCityName(name string) string {
	return stripPrefix(name, cityPrefixes)
}

// NormalizeProvinceName strips province honorifics, e.g.
// "Daerah Khusus Ibukota Jakarta" -> "Jakarta".
func NormalizeProvinceName(name string) string {
	return stripPrefix(name, provincePrefixes)
}

// BuildGeocodeQuery joins the available names from most to least specific
// and appends the country. It returns "" when no administrative name is known.
func BuildGeocodeQuery(names models.AddressNames) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{
		collapseSpaces(names.Ward),
		collapseSpaces(names.District),
		NormalizeCityName(names.City),
		NormalizeProvinceName(names.Province),
	} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(append(parts, "Indonesia"), ", ")
}

func stripPrefix(name string, prefixes []string) string {
	s := collapseSpaces(name)
	lower := strings.ToLower(s)
	for _, p := range prefixes {
		if !strings.HasPrefix(lower, p) {
			continue
		}
		rest := s[len(p):]
		// "Kabupatenan" is not a prefix match; a dotted abbreviation may touch the name.
		if rest != "" && rest[0] != ' ' && !strings.HasSuffix(p, ".") {
			continue
		}
		if rest = strings.TrimSpace(rest); rest != "" {
			return rest
		}
	}
	return s
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// tableKey is the case-insensitive key of a ward in the coordinate table.
func tableKey(city, district, ward string) string {
	return strings.ToLower(collapseSpaces(city)) + "/" +
		strings.ToLower(collapseSpaces(district)) + "/" +
		strings.ToLower(collapseSpaces(ward))
}
