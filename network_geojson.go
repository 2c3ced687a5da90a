package pt2matsim

import (
	"os"
	"sort"
	"strings"

	geojson "github.com/paulmach/go.geojson"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

// The round trip through GeoJSON is complete: a network marshalled with
// MarshalNetworkGeoJSON and read back with UnmarshalNetworkGeoJSON carries all
// node and link attributes. The orchestrator relies on this between the two
// cleaner passes.

// MarshalNetworkGeoJSON Serializes a network into a GeoJSON FeatureCollection.
// Nodes become Point features, links LineString features.
func MarshalNetworkGeoJSON(net *Network) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, node := range net.Nodes {
		feature := geojson.NewPointFeature([]float64{node.Geom.X, node.Geom.Y})
		feature.SetProperty("type", "node")
		feature.SetProperty("id", int64(node.ID))
		fc.AddFeature(feature)
	}
	for _, link := range net.Links {
		fromNode, ok := net.Nodes[link.From]
		if !ok {
			return nil, errors.Errorf("link %d references missing node %d", link.ID, link.From)
		}
		toNode, ok := net.Nodes[link.To]
		if !ok {
			return nil, errors.Errorf("link %d references missing node %d", link.ID, link.To)
		}
		feature := geojson.NewLineStringFeature([][]float64{
			{fromNode.Geom.X, fromNode.Geom.Y},
			{toNode.Geom.X, toNode.Geom.Y},
		})
		feature.SetProperty("type", "link")
		feature.SetProperty("id", int64(link.ID))
		feature.SetProperty("from", int64(link.From))
		feature.SetProperty("to", int64(link.To))
		feature.SetProperty("length", link.LengthMeters)
		feature.SetProperty("freespeed", link.FreeSpeed)
		feature.SetProperty("capacity", link.Capacity)
		feature.SetProperty("permlanes", link.Lanes)
		feature.SetProperty("modes", joinModes(link.Modes))
		feature.SetProperty("origid", int64(link.OsmWayID))
		fc.AddFeature(feature)
	}
	return fc.MarshalJSON()
}

// UnmarshalNetworkGeoJSON Rebuilds a network from its GeoJSON form
func UnmarshalNetworkGeoJSON(data []byte) (*Network, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "Can't unmarshal feature collection")
	}
	net := NewNetwork()
	for _, feature := range fc.Features {
		featureType, err := feature.PropertyString("type")
		if err != nil {
			return nil, errors.Wrap(err, "Feature without type property")
		}
		switch featureType {
		case "node":
			id, err := feature.PropertyInt("id")
			if err != nil {
				return nil, errors.Wrap(err, "Node feature without id")
			}
			if !feature.Geometry.IsPoint() {
				return nil, errors.Errorf("node feature %d is not a point", id)
			}
			net.AddNode(&NetworkNode{
				ID:   NetworkNodeID(id),
				Geom: GeoPoint{X: feature.Geometry.Point[0], Y: feature.Geometry.Point[1]},
			})
		case "link":
			link, err := linkFromFeature(feature)
			if err != nil {
				return nil, err
			}
			net.AddLink(link)
		default:
			return nil, errors.Errorf("unknown feature type: '%s'", featureType)
		}
	}
	return net, nil
}

func linkFromFeature(feature *geojson.Feature) (*NetworkLink, error) {
	id, err := feature.PropertyInt("id")
	if err != nil {
		return nil, errors.Wrap(err, "Link feature without id")
	}
	from, err := feature.PropertyInt("from")
	if err != nil {
		return nil, errors.Wrap(err, "Link feature without from")
	}
	to, err := feature.PropertyInt("to")
	if err != nil {
		return nil, errors.Wrap(err, "Link feature without to")
	}
	length, err := feature.PropertyFloat64("length")
	if err != nil {
		return nil, errors.Wrap(err, "Link feature without length")
	}
	freeSpeed, err := feature.PropertyFloat64("freespeed")
	if err != nil {
		return nil, errors.Wrap(err, "Link feature without freespeed")
	}
	capacity, err := feature.PropertyFloat64("capacity")
	if err != nil {
		return nil, errors.Wrap(err, "Link feature without capacity")
	}
	lanes, err := feature.PropertyFloat64("permlanes")
	if err != nil {
		return nil, errors.Wrap(err, "Link feature without permlanes")
	}
	modesStr, err := feature.PropertyString("modes")
	if err != nil {
		return nil, errors.Wrap(err, "Link feature without modes")
	}
	origID, err := feature.PropertyInt("origid")
	if err != nil {
		return nil, errors.Wrap(err, "Link feature without origid")
	}
	return &NetworkLink{
		ID:           NetworkLinkID(id),
		From:         NetworkNodeID(from),
		To:           NetworkNodeID(to),
		LengthMeters: length,
		FreeSpeed:    freeSpeed,
		Capacity:     capacity,
		Lanes:        lanes,
		Modes:        splitModes(modesStr),
		OsmWayID:     osm.WayID(origID),
	}, nil
}

// ExportToGeoJSONFile Writes the network to a GeoJSON file
func ExportToGeoJSONFile(net *Network, fname string) error {
	data, err := MarshalNetworkGeoJSON(net)
	if err != nil {
		return errors.Wrap(err, "Can't marshal network")
	}
	if err := os.WriteFile(fname, data, 0644); err != nil {
		return errors.Wrap(err, "Can't write file")
	}
	return nil
}

// ImportFromGeoJSONFile Reads a network back from a GeoJSON file
func ImportFromGeoJSONFile(fname string) (*Network, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read file")
	}
	return UnmarshalNetworkGeoJSON(data)
}

func joinModes(modes map[string]struct{}) string {
	parts := make([]string, 0, len(modes))
	for mode := range modes {
		parts = append(parts, mode)
	}
	// stable order keeps serialized networks diffable
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func splitModes(joined string) map[string]struct{} {
	modes := make(map[string]struct{})
	for _, mode := range strings.Split(joined, ",") {
		if mode != "" {
			modes[mode] = struct{}{}
		}
	}
	return modes
}
