package pt2matsim

import (
	"fmt"
	"strings"

	"github.com/paulmach/osm"
)

// Tag keys consulted during conversion
const (
	tagHighway  = "highway"
	tagRailway  = "railway"
	tagOneway   = "oneway"
	tagJunction = "junction"
	tagMaxspeed = "maxspeed"
	tagLanes    = "lanes"
	tagPSV      = "psv"
	tagRoute    = "route"
)

// Tag values with special meaning
const (
	valueRoundabout   = "roundabout"
	valueUnclassified = "unclassified"
	valueTrolleybus   = "trolleybus"
)

// Transport modes attached to synthesized links
const (
	ModeCar               = "car"
	ModeBus               = "bus"
	ModePublicTransit     = "pt"
	ModeUnknownStreetType = "unknownStreetType"
)

// OsmNode Source node. Coordinate is projected once before conversion starts,
// `used` and `wayCount` are maintained by the converter.
type OsmNode struct {
	ID       osm.NodeID
	Lon      float64
	Lat      float64
	geom     GeoPoint
	used     bool
	wayCount int
}

// OsmWay Source way: an ordered node sequence with tags. The node sequence is
// never mutated, only the `used` flag and the cached tag values are.
type OsmWay struct {
	ID    osm.WayID
	Nodes []osm.NodeID
	Tags  osm.Tags

	used bool

	// tags consulted during conversion, cached by prepareTags
	highway  string
	railway  string
	oneway   string
	junction string
	maxspeed string
	lanes    string
	psv      bool
}

func (way *OsmWay) prepareTags() {
	way.highway = way.Tags.Find(tagHighway)
	way.railway = way.Tags.Find(tagRailway)
	way.oneway = way.Tags.Find(tagOneway)
	way.junction = way.Tags.Find(tagJunction)
	way.maxspeed = way.Tags.Find(tagMaxspeed)
	way.lanes = way.Tags.Find(tagLanes)
	way.psv = way.Tags.Find(tagPSV) != ""
}

// tagSummary Compact representation of the whole tag set, used in the
// unrecognized-way warning
func (way *OsmWay) tagSummary() string {
	parts := make([]string, len(way.Tags))
	for i, tag := range way.Tags {
		parts[i] = fmt.Sprintf("%s=%s", tag.Key, tag.Value)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// OsmRelation Source relation, read-only during conversion. Only its `route`
// tag is consulted, per member way.
type OsmRelation struct {
	ID      osm.RelationID
	Members osm.Members
	Tags    osm.Tags
}

// OsmData In-memory source graph, populated by a provider (e.g. the PBF
// loader) before conversion starts. A single OsmData instance feeds a single
// conversion run; the converter releases the maps once the network is built.
type OsmData struct {
	Nodes     map[osm.NodeID]*OsmNode
	Ways      map[osm.WayID]*OsmWay
	Relations map[osm.RelationID]*OsmRelation
}

// NewOsmData Prepares an empty source graph
func NewOsmData() *OsmData {
	return &OsmData{
		Nodes:     make(map[osm.NodeID]*OsmNode),
		Ways:      make(map[osm.WayID]*OsmWay),
		Relations: make(map[osm.RelationID]*OsmRelation),
	}
}

func (data *OsmData) release() {
	data.Nodes = nil
	data.Ways = nil
	data.Relations = nil
}
