package pt2matsim

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkGeoJSONRoundTrip(t *testing.T) {
	net := NewNetwork()
	testNetworkNode(net, 1, 0.5, 1.5)
	testNetworkNode(net, 2, 100.25, 0)
	testNetworkLink(net, 1, 1, 2, ModeCar, ModeBus)
	testNetworkLink(net, 2, 2, 1, "rail")

	data, err := MarshalNetworkGeoJSON(net)
	require.NoError(t, err)

	restored, err := UnmarshalNetworkGeoJSON(data)
	require.NoError(t, err)

	require.Len(t, restored.Nodes, 2)
	require.Len(t, restored.Links, 2)
	assert.Equal(t, net.Nodes[1].Geom, restored.Nodes[1].Geom)
	for id, link := range net.Links {
		restoredLink, ok := restored.Links[id]
		require.True(t, ok)
		assert.Equal(t, link.From, restoredLink.From)
		assert.Equal(t, link.To, restoredLink.To)
		assert.InDelta(t, link.LengthMeters, restoredLink.LengthMeters, 1e-9)
		assert.InDelta(t, link.FreeSpeed, restoredLink.FreeSpeed, 1e-9)
		assert.InDelta(t, link.Capacity, restoredLink.Capacity, 1e-9)
		assert.InDelta(t, link.Lanes, restoredLink.Lanes, 1e-9)
		assert.Equal(t, link.Modes, restoredLink.Modes)
		assert.Equal(t, link.OsmWayID, restoredLink.OsmWayID)
	}
}

func TestNetworkGeoJSONFileRoundTrip(t *testing.T) {
	net := NewNetwork()
	testNetworkNode(net, 1, 0, 0)
	testNetworkNode(net, 2, 1, 1)
	testNetworkLink(net, 1, 1, 2, ModeCar)

	fname := filepath.Join(t.TempDir(), "network.geojson")
	require.NoError(t, ExportToGeoJSONFile(net, fname))

	restored, err := ImportFromGeoJSONFile(fname)
	require.NoError(t, err)
	require.Len(t, restored.Nodes, 2)
	require.Len(t, restored.Links, 1)
}

func TestMarshalNetworkGeoJSONRejectsDanglingLink(t *testing.T) {
	net := NewNetwork()
	testNetworkNode(net, 1, 0, 0)
	testNetworkLink(net, 1, 1, 99, ModeCar)

	_, err := MarshalNetworkGeoJSON(net)
	assert.Error(t, err)
}
