package pt2matsim

import (
	"fmt"

	"golang.org/x/exp/slog"
)

// ConnectivityReducer Removes unreachable or dangling parts from a directed
// network, in place
type ConnectivityReducer interface {
	Run(net *Network)
}

// NetworkCleaner Connectivity reducer keeping only the biggest cluster of
// nodes that are mutually reachable through directed links. Everything outside
// that cluster, and every link touching a removed node, is dropped.
type NetworkCleaner struct {
	out map[NetworkNodeID][]NetworkNodeID
	in  map[NetworkNodeID][]NetworkNodeID
}

// NewNetworkCleaner Prepares a cleaner. Internal adjacency caches are rebuilt
// on every run.
func NewNetworkCleaner() *NetworkCleaner {
	return &NetworkCleaner{}
}

// Run Reduces the given network to its biggest strongly connected cluster
func (cleaner *NetworkCleaner) Run(net *Network) {
	cleaner.buildAdjacency(net)

	biggest := make(map[NetworkNodeID]struct{})
	visited := make(map[NetworkNodeID]struct{})
	for nodeID := range net.Nodes {
		if _, ok := visited[nodeID]; ok {
			continue
		}
		forward := cleaner.reachable(nodeID, cleaner.out)
		backward := cleaner.reachable(nodeID, cleaner.in)
		cluster := make(map[NetworkNodeID]struct{})
		for id := range forward {
			if _, ok := backward[id]; ok {
				cluster[id] = struct{}{}
				visited[id] = struct{}{}
			}
		}
		if len(cluster) > len(biggest) {
			biggest = cluster
		}
	}

	removedNodes := 0
	for nodeID := range net.Nodes {
		if _, ok := biggest[nodeID]; !ok {
			delete(net.Nodes, nodeID)
			removedNodes++
		}
	}
	removedLinks := 0
	for linkID, link := range net.Links {
		_, fromOK := biggest[link.From]
		_, toOK := biggest[link.To]
		if !fromOK || !toOK {
			delete(net.Links, linkID)
			removedLinks++
		}
	}

	cleaner.out = nil
	cleaner.in = nil
	if removedNodes > 0 || removedLinks > 0 {
		slog.Info("Network cleaned", "removed_nodes", fmt.Sprintf("%d", removedNodes), "removed_links", fmt.Sprintf("%d", removedLinks))
	}
}

func (cleaner *NetworkCleaner) buildAdjacency(net *Network) {
	cleaner.out = make(map[NetworkNodeID][]NetworkNodeID, len(net.Nodes))
	cleaner.in = make(map[NetworkNodeID][]NetworkNodeID, len(net.Nodes))
	for _, link := range net.Links {
		cleaner.out[link.From] = append(cleaner.out[link.From], link.To)
		cleaner.in[link.To] = append(cleaner.in[link.To], link.From)
	}
}

// reachable Breadth-first search over the given adjacency direction
func (cleaner *NetworkCleaner) reachable(start NetworkNodeID, adjacency map[NetworkNodeID][]NetworkNodeID) map[NetworkNodeID]struct{} {
	seen := map[NetworkNodeID]struct{}{start: {}}
	queue := []NetworkNodeID{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[current] {
			if _, ok := seen[next]; ok {
				continue
			}
			seen[next] = struct{}{}
			queue = append(queue, next)
		}
	}
	return seen
}
