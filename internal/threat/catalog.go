package threat

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BuiltIn returns the default catalogue of named threat origins. Each
// entry is instantiated once per session by the registry.
func BuiltIn() []Origin {
	return []Origin{
		{Name: "Moscow", Country: "Russia", Lat: 55.7558, Lng: 37.6173, Kind: KindMissile, Level: LevelCritical, VelocityKmh: 5500, AltitudeM: 18000},
		{Name: "Tehran", Country: "Iran", Lat: 35.6892, Lng: 51.3890, Kind: KindDrone, Level: LevelHigh, VelocityKmh: 185, AltitudeM: 1500},
		{Name: "Pyongyang", Country: "North Korea", Lat: 39.0392, Lng: 125.7625, Kind: KindMissile, Level: LevelCritical, VelocityKmh: 6100, AltitudeM: 22000},
		{Name: "Benghazi", Country: "Libya", Lat: 32.1167, Lng: 20.0667, Kind: KindArtillery, Level: LevelMedium, VelocityKmh: 3200, AltitudeM: 9000},
		{Name: "Minsk", Country: "Belarus", Lat: 53.9006, Lng: 27.5590, Kind: KindAircraft, Level: LevelHigh, VelocityKmh: 980, AltitudeM: 11000},
		{Name: "Damascus", Country: "Syria", Lat: 33.5138, Lng: 36.2765, Kind: KindDrone, Level: LevelMedium, VelocityKmh: 165, AltitudeM: 1200},
		{Name: "Caracas", Country: "Venezuela", Lat: 10.4806, Lng: -66.9036, Kind: KindCyber, Level: LevelLow, VelocityKmh: 0, AltitudeM: 0},
		{Name: "Grozny", Country: "Russia", Lat: 43.3178, Lng: 45.6949, Kind: KindArtillery, Level: LevelLow, VelocityKmh: 2800, AltitudeM: 7500},
	}
}

// LoadCatalog reads a YAML origin catalogue from disk, replacing the
// built-in set.
func LoadCatalog(path string) ([]Origin, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var doc struct {
		Origins []Origin `yaml:"origins"`
	}
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(doc.Origins) == 0 {
		return nil, fmt.Errorf("catalog %s defines no origins", path)
	}
	for i, o := range doc.Origins {
		if o.Name == "" {
			return nil, fmt.Errorf("catalog origin %d has no name", i)
		}
		switch o.Kind {
		case KindMissile, KindDrone, KindAircraft, KindCyber, KindArtillery:
		default:
			return nil, fmt.Errorf("origin %s: unknown kind %q", o.Name, o.Kind)
		}
		switch o.Level {
		case LevelCritical, LevelHigh, LevelMedium, LevelLow:
		default:
			return nil, fmt.Errorf("origin %s: unknown level %q", o.Name, o.Level)
		}
	}
	return doc.Origins, nil
}
