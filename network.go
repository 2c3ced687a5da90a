package pt2matsim

import (
	"github.com/paulmach/osm"
)

/* Network stuff */

type NetworkNodeID int64
type NetworkLinkID int64

// NetworkNode Graph vertex of the final network
type NetworkNode struct {
	ID   NetworkNodeID
	Geom GeoPoint
}

// NetworkLink Directed attributed edge of the final network
type NetworkLink struct {
	ID           NetworkLinkID
	From         NetworkNodeID
	To           NetworkNodeID
	LengthMeters float64
	FreeSpeed    float64
	Capacity     float64
	Lanes        float64
	Modes        map[string]struct{}
	OsmWayID     osm.WayID
}

// Network Directed multigraph produced by the conversion
type Network struct {
	Nodes map[NetworkNodeID]*NetworkNode
	Links map[NetworkLinkID]*NetworkLink
}

// NewNetwork Prepares an empty network
func NewNetwork() *Network {
	return &Network{
		Nodes: make(map[NetworkNodeID]*NetworkNode),
		Links: make(map[NetworkLinkID]*NetworkLink),
	}
}

// AddNode Registers a vertex. Last write wins on duplicate identifiers.
func (net *Network) AddNode(node *NetworkNode) {
	net.Nodes[node.ID] = node
}

// AddLink Registers an edge. Both endpoints must already be present.
func (net *Network) AddLink(link *NetworkLink) {
	net.Links[link.ID] = link
}

func (net *Network) maxLinkID() NetworkLinkID {
	maxID := NetworkLinkID(0)
	for id := range net.Links {
		if id > maxID {
			maxID = id
		}
	}
	return maxID
}

func copyModes(modes map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(modes))
	for mode := range modes {
		out[mode] = struct{}{}
	}
	return out
}

func hasAnyMode(link *NetworkLink, modes map[string]struct{}) bool {
	for mode := range modes {
		if _, ok := link.Modes[mode]; ok {
			return true
		}
	}
	return false
}

// filterNetworkByModes Returns a new network containing only links carrying at
// least one of the given modes, together with their endpoint nodes
func filterNetworkByModes(net *Network, modes map[string]struct{}) *Network {
	return filterNetwork(net, func(link *NetworkLink) bool {
		return hasAnyMode(link, modes)
	})
}

// filterNetworkExceptModes Returns a new network containing only links carrying
// none of the given modes, together with their endpoint nodes
func filterNetworkExceptModes(net *Network, modes map[string]struct{}) *Network {
	return filterNetwork(net, func(link *NetworkLink) bool {
		return !hasAnyMode(link, modes)
	})
}

func filterNetwork(net *Network, keep func(*NetworkLink) bool) *Network {
	filtered := NewNetwork()
	for _, link := range net.Links {
		if !keep(link) {
			continue
		}
		if fromNode, ok := net.Nodes[link.From]; ok {
			filtered.AddNode(fromNode)
		}
		if toNode, ok := net.Nodes[link.To]; ok {
			filtered.AddNode(toNode)
		}
		linkCopy := *link
		linkCopy.Modes = copyModes(link.Modes)
		filtered.AddLink(&linkCopy)
	}
	return filtered
}

// integrateNetwork Merges all nodes and links of `from` into `into`. Links
// whose identifiers collide get fresh identifiers; nodes are shared by
// identifier.
func integrateNetwork(into, from *Network) {
	nextID := into.maxLinkID()
	for _, node := range from.Nodes {
		if _, ok := into.Nodes[node.ID]; !ok {
			into.AddNode(node)
		}
	}
	for _, link := range from.Links {
		if _, ok := into.Links[link.ID]; ok {
			nextID++
			linkCopy := *link
			linkCopy.ID = nextID
			into.AddLink(&linkCopy)
			continue
		}
		if link.ID > nextID {
			nextID = link.ID
		}
		into.AddLink(link)
	}
}
