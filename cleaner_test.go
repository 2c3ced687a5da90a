package pt2matsim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNetworkNode(net *Network, id int64, x, y float64) {
	net.AddNode(&NetworkNode{ID: NetworkNodeID(id), Geom: GeoPoint{X: x, Y: y}})
}

func testNetworkLink(net *Network, id, from, to int64, modes ...string) {
	modeSet := make(map[string]struct{})
	for _, mode := range modes {
		modeSet[mode] = struct{}{}
	}
	if len(modeSet) == 0 {
		modeSet[ModeCar] = struct{}{}
	}
	net.AddLink(&NetworkLink{
		ID:           NetworkLinkID(id),
		From:         NetworkNodeID(from),
		To:           NetworkNodeID(to),
		LengthMeters: 100,
		FreeSpeed:    10,
		Capacity:     600,
		Lanes:        1,
		Modes:        modeSet,
	})
}

func TestCleanerKeepsBiggestCluster(t *testing.T) {
	net := NewNetwork()
	for i := int64(1); i <= 5; i++ {
		testNetworkNode(net, i, float64(i), 0)
	}
	// small cluster: 1 <-> 2
	testNetworkLink(net, 1, 1, 2)
	testNetworkLink(net, 2, 2, 1)
	// big cluster: 3 -> 4 -> 5 -> 3
	testNetworkLink(net, 3, 3, 4)
	testNetworkLink(net, 4, 4, 5)
	testNetworkLink(net, 5, 5, 3)

	NewNetworkCleaner().Run(net)

	require.Len(t, net.Nodes, 3)
	assert.Contains(t, net.Nodes, NetworkNodeID(3))
	assert.Contains(t, net.Nodes, NetworkNodeID(4))
	assert.Contains(t, net.Nodes, NetworkNodeID(5))
	require.Len(t, net.Links, 3)
}

func TestCleanerRemovesDanglingOneway(t *testing.T) {
	net := NewNetwork()
	testNetworkNode(net, 1, 0, 0)
	testNetworkNode(net, 2, 1, 0)
	testNetworkNode(net, 3, 2, 0)
	testNetworkLink(net, 1, 1, 2)
	testNetworkLink(net, 2, 2, 1)
	// one-way appendix, no way back
	testNetworkLink(net, 3, 2, 3)

	NewNetworkCleaner().Run(net)

	require.Len(t, net.Nodes, 2)
	assert.NotContains(t, net.Nodes, NetworkNodeID(3))
	require.Len(t, net.Links, 2)
}

func TestCleanerIsIdempotent(t *testing.T) {
	net := NewNetwork()
	testNetworkNode(net, 1, 0, 0)
	testNetworkNode(net, 2, 1, 0)
	testNetworkLink(net, 1, 1, 2)
	testNetworkLink(net, 2, 2, 1)

	cleaner := NewNetworkCleaner()
	cleaner.Run(net)
	nodesAfterFirst := len(net.Nodes)
	linksAfterFirst := len(net.Links)
	cleaner.Run(net)

	assert.Equal(t, nodesAfterFirst, len(net.Nodes))
	assert.Equal(t, linksAfterFirst, len(net.Links))
}

func TestCleanerEmptyNetwork(t *testing.T) {
	net := NewNetwork()
	NewNetworkCleaner().Run(net)
	assert.Empty(t, net.Nodes)
	assert.Empty(t, net.Links)
}
