package pt2matsim

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// WayParams Default link attributes for a single highway/railway tag value.
// FreeSpeed is in m/s, LaneCapacity in vehicles per hour and lane.
type WayParams struct {
	OsmKey          string  `yaml:"osm-key"`
	OsmValue        string  `yaml:"osm-value"`
	Lanes           float64 `yaml:"lanes"`
	FreeSpeed       float64 `yaml:"freespeed"`
	FreeSpeedFactor float64 `yaml:"freespeed-factor"`
	LaneCapacity    float64 `yaml:"lane-capacity"`
	Oneway          bool    `yaml:"oneway"`
}

// ConverterConfig Conversion parameters and the rule table mapping
// highway/railway tag values to link defaults
type ConverterConfig struct {
	// MaxLinkLength Upper bound (in coordinate units) for links produced by
	// collapsing chains of intermediate nodes
	MaxLinkLength float64 `yaml:"max-link-length"`
	// KeepPaths Disables topology thinning entirely
	KeepPaths bool `yaml:"keep-paths"`
	// GuessFreeSpeed Retry unparseable maxspeed tags with their numeric prefix
	GuessFreeSpeed bool `yaml:"guess-free-speed"`
	// ScaleMaxSpeed Multiply freespeed by the rule's freespeed factor
	ScaleMaxSpeed bool `yaml:"scale-max-speed"`
	// CoordinateSystem Name of the target planar coordinate system
	// (identity / mercator)
	CoordinateSystem string      `yaml:"coordinate-system"`
	WayParams        []WayParams `yaml:"way-params"`
}

// ReadConfig Reads conversion parameters from a YAML file. Way parameter sets
// not given in the file fall back to the defaults.
func ReadConfig(file string) (*ConverterConfig, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read config file")
	}
	config := DefaultConfig()
	config.WayParams = nil
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "Can't unmarshal config file")
	}
	if len(config.WayParams) == 0 {
		config.WayParams = DefaultConfig().WayParams
	}
	return config, nil
}

// DefaultConfig Returns the default conversion parameters: thinning bounded at
// 500 units and the customary highway/railway defaults
func DefaultConfig() *ConverterConfig {
	return &ConverterConfig{
		MaxLinkLength:    500.0,
		KeepPaths:        false,
		GuessFreeSpeed:   false,
		ScaleMaxSpeed:    false,
		CoordinateSystem: "identity",
		WayParams: []WayParams{
			{tagHighway, "motorway", 2, 120.0 / 3.6, 1.0, 2000, true},
			{tagHighway, "motorway_link", 1, 80.0 / 3.6, 1.0, 1500, true},
			{tagHighway, "trunk", 1, 80.0 / 3.6, 1.0, 2000, false},
			{tagHighway, "trunk_link", 1, 50.0 / 3.6, 1.0, 1500, false},
			{tagHighway, "primary", 1, 80.0 / 3.6, 1.0, 1500, false},
			{tagHighway, "primary_link", 1, 60.0 / 3.6, 1.0, 1500, false},
			{tagHighway, "secondary", 1, 60.0 / 3.6, 1.0, 1000, false},
			{tagHighway, "secondary_link", 1, 60.0 / 3.6, 1.0, 1000, false},
			{tagHighway, "tertiary", 1, 45.0 / 3.6, 1.0, 600, false},
			{tagHighway, "tertiary_link", 1, 45.0 / 3.6, 1.0, 600, false},
			{tagHighway, "minor", 1, 45.0 / 3.6, 1.0, 600, false},
			{tagHighway, valueUnclassified, 1, 45.0 / 3.6, 1.0, 600, false},
			{tagHighway, "residential", 1, 30.0 / 3.6, 1.0, 600, false},
			{tagHighway, "living_street", 1, 15.0 / 3.6, 1.0, 300, false},
			{tagRailway, "rail", 1, 160.0 / 3.6, 1.0, 9999, false},
			{tagRailway, "light_rail", 1, 80.0 / 3.6, 1.0, 9999, false},
			{tagRailway, "subway", 1, 80.0 / 3.6, 1.0, 9999, false},
			{tagRailway, "tram", 1, 40.0 / 3.6, 1.0, 9999, true},
		},
	}
}
