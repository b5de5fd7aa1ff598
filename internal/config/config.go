package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/gtd_ongkir/internal/models"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port      string
	Env       string
	JWTSecret string

	DB        DatabaseConfig
	Redis     RedisConfig
	Origin    models.Coordinate
	Google    GoogleConfig
	ORS       ORSConfig
	Routing   RoutingConfig
	Tariff    TariffConfig
	Reference ReferenceConfig
	S3        S3Config
	RateLimit RateLimitConfig

	CORSAllowedHosts []string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters. An empty Host disables
// the route cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	RouteTTL time.Duration
}

// GoogleConfig contains Google Maps Platform settings used for geocoding and
// two-wheeler routing.
type GoogleConfig struct {
	APIKey        string
	GeocodeURL    string
	RoutesURL     string
	GeocodeRegion string
}

// ORSConfig contains OpenRouteService settings used for car routing.
type ORSConfig struct {
	APIKey  string
	BaseURL string
}

// RoutingConfig tunes the geocoding and distance cascades.
type RoutingConfig struct {
	GeocodeTimeout    time.Duration
	MotorcycleTimeout time.Duration
	CarTimeout        time.Duration
	EstimateTimeout   time.Duration
	RoadFactor        float64
	RoadFactorMaxKm   float64
}

// TariffConfig holds the surge and fee parameters applied to every service.
type TariffConfig struct {
	PeakHours         []int
	PeakMultiplier    decimal.Decimal
	WeekendDays       []time.Weekday
	WeekendMultiplier decimal.Decimal
	FeeMultiplier     decimal.Decimal
	PeakEtaFactor     float64
}

// ReferenceConfig locates the static reference data loaded at startup.
type ReferenceConfig struct {
	Source                string // "file" or "s3"
	WardCoordinatesPath   string
	WardCoordinatesKey    string
	DistrictCentroidsPath string
	ServicesPath          string
}

// S3Config contains AWS S3 configuration for the reference bucket.
type S3Config struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// RateLimitConfig limits estimate requests per client IP.
type RateLimitConfig struct {
	EstimatePerMinute int
}

// DefaultTariff returns the standard surge and fee parameters.
func DefaultTariff() TariffConfig {
	return TariffConfig{
		PeakHours:         []int{7, 8, 9, 17, 18, 19, 20},
		PeakMultiplier:    decimal.RequireFromString("1.2"),
		WeekendDays:       []time.Weekday{time.Saturday, time.Sunday},
		WeekendMultiplier: decimal.RequireFromString("1.1"),
		FeeMultiplier:     decimal.RequireFromString("1.11"),
		PeakEtaFactor:     1.25,
	}
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first.
func Load() (*Config, error) {
	// A missing .env is fine: production sets real environment variables.
	_ = godotenv.Load()

	cfg, err := LoadEngine()
	if err != nil {
		return nil, err
	}

	cfg.Port = getEnv("PORT", "8080")
	cfg.JWTSecret = getEnv("JWT_SECRET", "")
	cfg.CORSAllowedHosts = splitList(getEnv("CORS_ALLOWED_HOSTS", "localhost:3000,127.0.0.1:3000,gtd.co.id,www.gtd.co.id,admin.gtd.co.id"))
	cfg.RateLimit = RateLimitConfig{
		EstimatePerMinute: getEnvInt("ESTIMATE_RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set for authentication")
	}

	return cfg, nil
}

// LoadEngine reads the settings needed by the quoting engine alone. The CLI
// uses it directly since it serves no HTTP.
func LoadEngine() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Env = getEnv("ENV", "development")

	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	cfg.Google = GoogleConfig{
		APIKey:        getEnv("GOOGLE_MAPS_API_KEY", ""),
		GeocodeURL:    getEnv("GOOGLE_GEOCODE_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		RoutesURL:     getEnv("GOOGLE_ROUTES_URL", "https://routes.googleapis.com/directions/v2:computeRoutes"),
		GeocodeRegion: getEnv("GOOGLE_GEOCODE_REGION", "id"),
	}

	cfg.ORS = ORSConfig{
		APIKey:  getEnv("ORS_API_KEY", ""),
		BaseURL: getEnv("ORS_BASE_URL", "https://api.openrouteservice.org"),
	}

	cfg.Reference = ReferenceConfig{
		Source:                getEnv("REFERENCE_SOURCE", "file"),
		WardCoordinatesPath:   getEnv("WARD_COORDINATES_PATH", "data/ward_coordinates.json"),
		WardCoordinatesKey:    getEnv("WARD_COORDINATES_KEY", "reference/ward_coordinates.json"),
		DistrictCentroidsPath: getEnv("DISTRICT_CENTROIDS_PATH", ""),
		ServicesPath:          getEnv("SERVICES_PATH", ""),
	}

	// S3 (AWS Jakarta region)
	cfg.S3 = S3Config{
		Region:          getEnv("S3_REGION", "ap-southeast-3"),
		Bucket:          getEnv("S3_BUCKET", "gtd-ongkir-reference"),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}

	var err error
	if cfg.Origin, err = parseOrigin(getEnv("ORIGIN_LAT", ""), getEnv("ORIGIN_LNG", "")); err != nil {
		return nil, err
	}

	if cfg.Redis.RouteTTL, err = parseDurationEnv("ROUTE_CACHE_TTL", "24h"); err != nil {
		return nil, fmt.Errorf("invalid ROUTE_CACHE_TTL: %w", err)
	}
	if cfg.Routing.GeocodeTimeout, err = parseDurationEnv("GEOCODE_TIMEOUT", "3s"); err != nil {
		return nil, fmt.Errorf("invalid GEOCODE_TIMEOUT: %w", err)
	}
	if cfg.Routing.MotorcycleTimeout, err = parseDurationEnv("MOTORCYCLE_ROUTE_TIMEOUT", "3s"); err != nil {
		return nil, fmt.Errorf("invalid MOTORCYCLE_ROUTE_TIMEOUT: %w", err)
	}
	if cfg.Routing.CarTimeout, err = parseDurationEnv("CAR_ROUTE_TIMEOUT", "3s"); err != nil {
		return nil, fmt.Errorf("invalid CAR_ROUTE_TIMEOUT: %w", err)
	}
	if cfg.Routing.EstimateTimeout, err = parseDurationEnv("ESTIMATE_TIMEOUT", "10s"); err != nil {
		return nil, fmt.Errorf("invalid ESTIMATE_TIMEOUT: %w", err)
	}
	cfg.Routing.RoadFactor = getEnvFloat("ROAD_FACTOR", 1.3)
	cfg.Routing.RoadFactorMaxKm = getEnvFloat("ROAD_FACTOR_MAX_KM", 100)

	cfg.Tariff = DefaultTariff()
	if v := getEnv("TARIFF_FEE_MULTIPLIER", ""); v != "" {
		if cfg.Tariff.FeeMultiplier, err = decimal.NewFromString(v); err != nil {
			return nil, fmt.Errorf("invalid TARIFF_FEE_MULTIPLIER: %w", err)
		}
	}
	if v := getEnv("TARIFF_PEAK_MULTIPLIER", ""); v != "" {
		if cfg.Tariff.PeakMultiplier, err = decimal.NewFromString(v); err != nil {
			return nil, fmt.Errorf("invalid TARIFF_PEAK_MULTIPLIER: %w", err)
		}
	}
	if v := getEnv("TARIFF_WEEKEND_MULTIPLIER", ""); v != "" {
		if cfg.Tariff.WeekendMultiplier, err = decimal.NewFromString(v); err != nil {
			return nil, fmt.Errorf("invalid TARIFF_WEEKEND_MULTIPLIER: %w", err)
		}
	}

	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	return cfg, nil
}

// parseOrigin reads the pickup coordinate. The origin is mandatory since every
// quote is measured from it.
func parseOrigin(rawLat, rawLng string) (models.Coordinate, error) {
	if rawLat == "" || rawLng == "" {
		return models.Coordinate{}, errors.New("ORIGIN_LAT and ORIGIN_LNG must be set")
	}
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid ORIGIN_LAT: %w", err)
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid ORIGIN_LNG: %w", err)
	}
	origin := models.Coordinate{Lat: lat, Lng: lng}
	if err := origin.Validate(); err != nil {
		return models.Coordinate{}, fmt.Errorf("invalid origin: %w", err)
	}
	return origin, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, strings.ToLower(part))
		}
	}
	return out
}
