package pt2matsim

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

// NetworkConverter Converts a parsed OSM road/rail graph into a simplified
// attributed directed network. One instance serves exactly one conversion run:
// the source collections are mutated in place and released at the end.
type NetworkConverter struct {
	cfg       *ConverterConfig
	data      *OsmData
	transform CoordTransform
	reducer   ConnectivityReducer

	highwayParams map[string]WayParams
	railwayParams map[string]WayParams
	relationIndex RelationIndex

	network    *Network
	lastLinkID NetworkLinkID

	unknownHighways     map[string]struct{}
	unknownRailways     map[string]struct{}
	unknownWays         map[string]struct{}
	unknownMaxspeedTags map[string]struct{}
	unknownLanesTags    map[string]struct{}
}

// NewNetworkConverter Prepares a converter for the given source graph
func NewNetworkConverter(data *OsmData) *NetworkConverter {
	return &NetworkConverter{
		data:                data,
		reducer:             NewNetworkCleaner(),
		unknownHighways:     make(map[string]struct{}),
		unknownRailways:     make(map[string]struct{}),
		unknownWays:         make(map[string]struct{}),
		unknownMaxspeedTags: make(map[string]struct{}),
		unknownLanesTags:    make(map[string]struct{}),
	}
}

// Convert Runs the whole conversion according to the given parameters and
// returns the final network
func (converter *NetworkConverter) Convert(cfg *ConverterConfig) (*Network, error) {
	if err := converter.prepare(cfg); err != nil {
		return nil, err
	}
	converter.convertToNetwork()
	if err := converter.cleanRoadNetwork(); err != nil {
		return nil, errors.Wrap(err, "Can't clean road network")
	}
	return converter.network, nil
}

func (converter *NetworkConverter) prepare(cfg *ConverterConfig) error {
	converter.cfg = cfg
	transform, err := transformByName(cfg.CoordinateSystem)
	if err != nil {
		return errors.Wrap(err, "Can't resolve coordinate transform")
	}
	converter.transform = transform
	converter.readWayParams()
	return nil
}

// readWayParams Splits the configured parameter sets into the two rule
// registries. Last write wins on duplicate tag values.
func (converter *NetworkConverter) readWayParams() {
	converter.highwayParams = make(map[string]WayParams)
	converter.railwayParams = make(map[string]WayParams)
	for _, params := range converter.cfg.WayParams {
		switch params.OsmKey {
		case tagHighway:
			converter.highwayParams[params.OsmValue] = params
		case tagRailway:
			converter.railwayParams[params.OsmValue] = params
		}
	}
}

func (converter *NetworkConverter) convertToNetwork() {
	st := time.Now()
	converter.network = NewNetwork()

	converter.relationIndex = buildRelationIndex(converter.data.Relations)
	converter.transformCoordinates()
	converter.markUsableWays()
	converter.countNodeUsage()
	if !converter.cfg.KeepPaths {
		converter.thinNodes()
		converter.fixLoops()
	}
	converter.createNetworkNodes()
	converter.createNetworkLinks()
	converter.data.release()

	slog.Info("Conversion done", "elapsed", time.Since(st))
	converter.logConversionStatistics()
}

// transformCoordinates Projects every source node once, so that all distance
// accumulation downstream happens in the target planar system
func (converter *NetworkConverter) transformCoordinates() {
	for _, node := range converter.data.Nodes {
		x, y := converter.transform(node.Lon, node.Lat)
		node.geom = GeoPoint{X: x, Y: y}
	}
}

// markUsableWays Removes ways that are neither classified by the rule
// registries nor referenced by any relation, and ways whose endpoint nodes are
// missing from the node set
func (converter *NetworkConverter) markUsableWays() {
	nodes := converter.data.Nodes
	for id, way := range converter.data.Ways {
		way.prepareTags()
		way.used = true
		_, knownHighway := converter.highwayParams[way.highway]
		_, knownRailway := converter.railwayParams[way.railway]
		if len(way.Nodes) < 2 {
			way.used = false
		} else if !knownHighway && !knownRailway && !converter.relationIndex.Contains(way.ID) {
			way.used = false
		} else if _, ok := nodes[way.Nodes[0]]; !ok {
			way.used = false
		} else if _, ok := nodes[way.Nodes[len(way.Nodes)-1]]; !ok {
			way.used = false
		}
		if !way.used {
			delete(converter.data.Ways, id)
		}
	}
}

// countNodeUsage Marks every node touched by a usable way and counts the ways
// passing through it. Endpoints are counted twice so they stay distinguishable
// from chain interiors and never get thinned away.
func (converter *NetworkConverter) countNodeUsage() {
	nodes := converter.data.Nodes
	for _, way := range converter.data.Ways {
		if first, ok := nodes[way.Nodes[0]]; ok {
			first.wayCount++
		}
		if last, ok := nodes[way.Nodes[len(way.Nodes)-1]]; ok {
			last.wayCount++
		}
		for _, nodeID := range way.Nodes {
			node, ok := nodes[nodeID]
			if !ok {
				slog.Warn("Way references missing node", "way", int64(way.ID), "node", int64(nodeID))
				continue
			}
			node.used = true
			node.wayCount++
		}
	}
}

// thinNodes Marks nodes as unused where only one way leads through, but only
// as long as this does not produce links longer than MaxLinkLength
func (converter *NetworkConverter) thinNodes() {
	nodes := converter.data.Nodes
	for _, way := range converter.data.Ways {
		length := 0.0
		lastNode, ok := nodes[way.Nodes[0]]
		if !ok {
			continue
		}
		for i := 1; i < len(way.Nodes); i++ {
			node, ok := nodes[way.Nodes[i]]
			if !ok {
				continue
			}
			if node.wayCount > 1 {
				length = 0.0
				lastNode = node
			} else if node.wayCount == 1 {
				length += euclideanDist(lastNode.geom, node.geom)
				if length <= converter.cfg.MaxLinkLength {
					node.used = false
					lastNode = node
				} else {
					length = 0.0
					lastNode = node
				}
			} else {
				slog.Warn("Way node with less than 1 ways found", "way", int64(way.ID), "node", int64(node.ID))
			}
		}
	}
}

// fixLoops Verifies no loop got fully absorbed by thinNodes. When a way
// revisits the vertex bounding the current span, a sparse subset of the
// absorbed nodes (stepping by sqrt of the span length) is marked used again,
// so the loop keeps at least one intermediate vertex instead of collapsing
// into a degenerate self-loop.
func (converter *NetworkConverter) fixLoops() {
	nodes := converter.data.Nodes
	for _, way := range converter.data.Ways {
		prevRealNodeIndex := 0
		prevRealNodeID := way.Nodes[0]
		for i := 1; i < len(way.Nodes); i++ {
			node, ok := nodes[way.Nodes[i]]
			if !ok || !node.used {
				continue
			}
			if node.ID == prevRealNodeID {
				increment := math.Sqrt(float64(i - prevRealNodeIndex))
				for j := float64(prevRealNodeIndex) + increment; j < float64(i); j += increment {
					index := int(math.Floor(j))
					if intermediary, ok := nodes[way.Nodes[index]]; ok {
						intermediary.used = true
					}
				}
			}
			prevRealNodeIndex = i
			prevRealNodeID = node.ID
		}
	}
}

// createNetworkNodes Turns every retained source node into a network vertex
func (converter *NetworkConverter) createNetworkNodes() {
	for _, node := range converter.data.Nodes {
		if node.used {
			converter.network.AddNode(&NetworkNode{
				ID:   NetworkNodeID(node.ID),
				Geom: node.geom,
			})
		}
	}
}

func (converter *NetworkConverter) createNetworkLinks() {
	converter.lastLinkID = 0
	for _, way := range converter.data.Ways {
		converter.createWayLinks(way)
	}
}

func (converter *NetworkConverter) nextLinkID() NetworkLinkID {
	converter.lastLinkID++
	return converter.lastLinkID
}

// cleanRoadNetwork Runs the connectivity reducer on the road subnetwork twice,
// with a serialization round trip in between to reset the reducer's derived
// state, then merges the non-road subnetwork back in
func (converter *NetworkConverter) cleanRoadNetwork() error {
	tmpFilename := filepath.Join(os.TempDir(), fmt.Sprintf("tmp_road_network_%d.geojson", time.Now().UnixNano()))
	roadModes := map[string]struct{}{ModeCar: {}, ModeBus: {}}
	roadNetwork := filterNetworkByModes(converter.network, roadModes)
	restNetwork := filterNetworkExceptModes(converter.network, roadModes)

	converter.reducer.Run(roadNetwork)
	if err := ExportToGeoJSONFile(roadNetwork, tmpFilename); err != nil {
		return errors.Wrap(err, "Can't write temporary road network")
	}
	roadNetworkReadAgain, err := ImportFromGeoJSONFile(tmpFilename)
	if err != nil {
		return errors.Wrap(err, "Can't read temporary road network back")
	}
	if err := os.Remove(tmpFilename); err != nil {
		slog.Info("Could not delete temporary road network file", "file", tmpFilename)
	}
	converter.reducer.Run(roadNetworkReadAgain)
	integrateNetwork(roadNetworkReadAgain, restNetwork)
	converter.network = roadNetworkReadAgain
	return nil
}

func (converter *NetworkConverter) logConversionStatistics() {
	slog.Info("= conversion statistics ==========================")
	slog.Info("Nodes created: " + fmt.Sprintf("%d", len(converter.network.Nodes)))
	slog.Info("Links created: " + fmt.Sprintf("%d", len(converter.network.Links)))
	logUnknownSet(converter.unknownHighways, "The following highway-types had no defaults set and were thus NOT converted:")
	logUnknownSet(converter.unknownRailways, "The following railway-types had no defaults set and were thus NOT converted:")
	logUnknownSet(converter.unknownWays, "The way-types with the following tags had no defaults set and were thus NOT converted:")
	logUnknownSet(converter.unknownMaxspeedTags, "The following maxspeed tags could not be parsed:")
	logUnknownSet(converter.unknownLanesTags, "The following lanes tags could not be parsed:")
	slog.Info("= end of conversion statistics ===================")
}

func logUnknownSet(set map[string]struct{}, header string) {
	if len(set) == 0 {
		return
	}
	slog.Info(header)
	for value := range set {
		slog.Info("- \"" + value + "\"")
	}
}
