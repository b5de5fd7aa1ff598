package models

// Province represents a province (provinsi).
type Province struct {
	Code string `json:"code" db:"code"`
	Name string `json:"name" db:"name"`
}

// City represents a city or regency (kota/kabupaten). FullCode is the
// province code followed by the city code, e.g. "3171".
type City struct {
	Code         string `json:"code" db:"code"`
	ProvinceCode string `json:"provinceCode" db:"province_code"`
	FullCode     string `json:"fullCode" db:"full_code"`
	Name         string `json:"name" db:"name"`
}

// District represents a district (kecamatan), e.g. FullCode "317101".
type District struct {
	Code     string `json:"code" db:"code"`
	CityCode string `json:"cityCode" db:"city_code"`
	FullCode string `json:"fullCode" db:"full_code"`
	Name     string `json:"name" db:"name"`
}

// Ward represents a kelurahan/desa, e.g. FullCode "3171011001".
type Ward struct {
	Code         string `json:"code" db:"code"`
	DistrictCode string `json:"districtCode" db:"district_code"`
	FullCode     string `json:"fullCode" db:"full_code"`
	Name         string `json:"name" db:"name"`
}

// TerritoryItem is the API shape of any territory level.
type TerritoryItem struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	ParentCode string `json:"parentCode,omitempty"`
}

// AddressNames holds the display names behind an AdministrativeAddress.
// Missing levels are empty.
type AddressNames struct {
	Province string `json:"province,omitempty"`
	City     string `json:"city,omitempty"`
	District string `json:"district,omitempty"`
	Ward     string `json:"ward,omitempty"`
}

// WardCoverage reports wards of a district that have no table coordinate.
type WardCoverage struct {
	DistrictCode string   `json:"districtCode"`
	DistrictName string   `json:"districtName"`
	CityName     string   `json:"cityName"`
	TotalWards   int      `json:"totalWards"`
	MissingWards []string `json:"missingWards"`
}
