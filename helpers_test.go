package pt2matsim

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/require"
)

func testNode(data *OsmData, id int64, x, y float64) {
	data.Nodes[osm.NodeID(id)] = &OsmNode{
		ID:  osm.NodeID(id),
		Lon: x,
		Lat: y,
	}
}

func testWay(data *OsmData, id int64, nodeIDs []int64, tags map[string]string) {
	way := &OsmWay{
		ID:    osm.WayID(id),
		Nodes: make([]osm.NodeID, len(nodeIDs)),
	}
	for i, nodeID := range nodeIDs {
		way.Nodes[i] = osm.NodeID(nodeID)
	}
	for key, value := range tags {
		way.Tags = append(way.Tags, osm.Tag{Key: key, Value: value})
	}
	data.Ways[way.ID] = way
}

func testRelation(data *OsmData, id int64, wayIDs []int64, tags map[string]string) {
	relation := &OsmRelation{
		ID: osm.RelationID(id),
	}
	for _, wayID := range wayIDs {
		relation.Members = append(relation.Members, osm.Member{Type: osm.TypeWay, Ref: wayID})
	}
	for key, value := range tags {
		relation.Tags = append(relation.Tags, osm.Tag{Key: key, Value: value})
	}
	data.Relations[relation.ID] = relation
}

// runConversion Runs everything up to (but not including) the connectivity
// cleaning, so directed attribute derivation stays observable
func runConversion(t *testing.T, data *OsmData, cfg *ConverterConfig) *NetworkConverter {
	t.Helper()
	converter := NewNetworkConverter(data)
	require.NoError(t, converter.prepare(cfg))
	converter.convertToNetwork()
	return converter
}

// convertSingleWay Converts one two-node way with the given tags and returns
// the converter and the produced links
func convertSingleWay(t *testing.T, tags map[string]string, cfg *ConverterConfig, setup func(data *OsmData)) (*NetworkConverter, []*NetworkLink) {
	t.Helper()
	data := NewOsmData()
	testNode(data, 1, 0, 0)
	testNode(data, 2, 100, 0)
	testWay(data, 1, []int64{1, 2}, tags)
	if setup != nil {
		setup(data)
	}
	converter := runConversion(t, data, cfg)
	links := make([]*NetworkLink, 0, len(converter.network.Links))
	for _, link := range converter.network.Links {
		links = append(links, link)
	}
	return converter, links
}
