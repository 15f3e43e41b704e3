package threat

import "time"

// Kind classifies a threat's delivery vector.
type Kind string

const (
	KindMissile   Kind = "missile"
	KindDrone     Kind = "drone"
	KindAircraft  Kind = "aircraft"
	KindCyber     Kind = "cyber"
	KindArtillery Kind = "artillery"
)

// Level is the assessed severity of a threat.
type Level string

const (
	LevelCritical Level = "critical"
	LevelHigh     Level = "high"
	LevelMedium   Level = "medium"
	LevelLow      Level = "low"
)

// Threat is one tracked inbound entity. DistanceKm and ETASeconds are
// derived from Progress and the fixed origin-to-destination distance,
// never stored independently of them.
type Threat struct {
	ID            string  `json:"id"`
	OriginLat     float64 `json:"origin_lat"`
	OriginLng     float64 `json:"origin_lng"`
	OriginName    string  `json:"origin_name"`
	OriginCountry string  `json:"origin_country"`
	Kind          Kind    `json:"kind"`
	Level         Level   `json:"level"`
	VelocityKmh   float64 `json:"velocity_kmh"`
	AltitudeM     float64 `json:"altitude_m"`
	Progress      float64 `json:"progress"`
	DistanceKm    float64 `json:"distance_km"`
	ETASeconds    float64 `json:"eta_seconds"`
	Neutralized   bool    `json:"neutralized"`

	totalKm float64
}

// TotalDistanceKm is the fixed origin-to-destination great-circle
// distance this threat's derived fields are computed from.
func (t Threat) TotalDistanceKm() float64 { return t.totalKm }

// Origin describes one catalogue entry threats are spawned from.
type Origin struct {
	Name        string  `yaml:"name" json:"name"`
	Country     string  `yaml:"country" json:"country"`
	Lat         float64 `yaml:"lat" json:"lat"`
	Lng         float64 `yaml:"lng" json:"lng"`
	Kind        Kind    `yaml:"kind" json:"kind"`
	Level       Level   `yaml:"level" json:"level"`
	VelocityKmh float64 `yaml:"velocity_kmh" json:"velocity_kmh"`
	AltitudeM   float64 `yaml:"altitude_m" json:"altitude_m"`
}

// Row is one threat state record emitted per simulation tick, shaped
// for JSONL logs and the GreptimeDB sink.
type Row struct {
	SessionID     string    `json:"session_id"` // TAG
	ThreatID      string    `json:"threat_id"`  // TAG
	OriginName    string    `json:"origin_name"`
	OriginCountry string    `json:"origin_country"`
	Kind          Kind      `json:"kind"`
	Level         Level     `json:"level"`
	Progress      float64   `json:"progress"`
	DistanceKm    float64   `json:"distance_km"`
	ETASeconds    float64   `json:"eta_seconds"`
	BearingDeg    float64   `json:"bearing_deg"`
	Neutralized   bool      `json:"neutralized"`
	Timestamp     time.Time `json:"ts"` // TIME INDEX
}
