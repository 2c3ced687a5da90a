package pt2matsim

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slog"
)

// createWayLinks Walks a usable way forward and synthesizes one link (or a
// pair of directed links) for every span between two retained nodes
func (converter *NetworkConverter) createWayLinks(way *OsmWay) {
	nodes := converter.data.Nodes
	fromNode, ok := nodes[way.Nodes[0]]
	if !ok || !fromNode.used {
		return
	}
	length := 0.0
	lastToNode := fromNode
	for i := 1; i < len(way.Nodes); i++ {
		toNode, ok := nodes[way.Nodes[i]]
		if !ok {
			continue
		}
		if toNode.ID == lastToNode.ID {
			// repeated node id, degenerate zero-length step
			continue
		}
		length += euclideanDist(lastToNode.geom, toNode.geom)
		if toNode.used {
			converter.createLink(way, fromNode, toNode, length)
			fromNode = toNode
			length = 0.0
		}
		lastToNode = toNode
	}
}

// createLink Derives the final link attributes for one span and emits the
// forward and/or reverse link
func (converter *NetworkConverter) createLink(way *OsmWay, fromNode, toNode *OsmNode, length float64) {
	onewayReverse := false
	busOnlyLink := false

	// load defaults
	var wayValues WayParams
	if way.highway != "" {
		values, ok := converter.highwayParams[way.highway]
		if !ok {
			// unknown highway type, but a bus route may still run on it
			if way.psv {
				busOnlyLink = true
				values, ok = converter.highwayParams[valueUnclassified]
				if !ok {
					converter.unknownHighways[way.highway] = struct{}{}
					return
				}
			} else {
				converter.unknownHighways[way.highway] = struct{}{}
				return
			}
		}
		wayValues = values
	} else if way.railway != "" {
		values, ok := converter.railwayParams[way.railway]
		if !ok {
			converter.unknownRailways[way.railway] = struct{}{}
			return
		}
		wayValues = values
	} else {
		converter.unknownWays[way.tagSummary()] = struct{}{}
		return
	}
	nofLanes := wayValues.Lanes
	laneCapacity := wayValues.LaneCapacity
	freeSpeed := wayValues.FreeSpeed
	freeSpeedFactor := wayValues.FreeSpeedFactor
	oneway := wayValues.Oneway

	// check if there are tags that overwrite defaults
	// - roundabouts are always oneway
	if way.junction == valueRoundabout {
		oneway = true
	}
	// - tag "oneway"
	switch way.oneway {
	case "yes", "true", "1":
		oneway = true
	case "-1":
		onewayReverse = true
		oneway = false
	case "no":
		oneway = false
	}
	// - oneway trunks, primary and secondary roads carry two lanes by
	//   convention when the default still says one
	if way.highway != "" {
		if strings.EqualFold(way.highway, "trunk") || strings.EqualFold(way.highway, "primary") || strings.EqualFold(way.highway, "secondary") {
			if oneway && nofLanes == 1.0 {
				nofLanes = 2.0
			}
		}
	}
	// - tag "maxspeed" (km/h), overrides the default freespeed
	if way.maxspeed != "" {
		if speed, err := strconv.ParseFloat(way.maxspeed, 64); err == nil {
			freeSpeed = speed / 3.6
		} else {
			parsed := false
			if converter.cfg.GuessFreeSpeed && len(way.maxspeed) >= 2 {
				// e.g. "50 km/h"; fixed two-character prefix on purpose
				if speed, err := strconv.ParseFloat(way.maxspeed[:2], 64); err == nil {
					freeSpeed = speed / 3.6
					parsed = true
				}
			}
			if !parsed {
				if _, ok := converter.unknownMaxspeedTags[way.maxspeed]; !ok {
					converter.unknownMaxspeedTags[way.maxspeed] = struct{}{}
					slog.Warn("Could not parse maxspeed tag, ignoring it", "value", way.maxspeed, "way", int64(way.ID))
				}
			}
		}
	}
	// - tag "lanes"
	if way.lanes != "" {
		if lanes, err := strconv.ParseFloat(way.lanes, 64); err == nil {
			if lanes > 0 {
				nofLanes = lanes
			}
		} else {
			if _, ok := converter.unknownLanesTags[way.lanes]; !ok {
				converter.unknownLanesTags[way.lanes] = struct{}{}
				slog.Warn("Could not parse lanes tag, ignoring it", "value", way.lanes, "way", int64(way.ID))
			}
		}
	}

	capacity := nofLanes * laneCapacity
	if converter.cfg.ScaleMaxSpeed {
		freeSpeed = freeSpeed * freeSpeedFactor
	}

	modes := converter.deriveModes(way, busOnlyLink)

	// both endpoints must have survived as vertices
	fromID := NetworkNodeID(fromNode.ID)
	toID := NetworkNodeID(toNode.ID)
	if _, ok := converter.network.Nodes[fromID]; !ok {
		return
	}
	if _, ok := converter.network.Nodes[toID]; !ok {
		return
	}

	if !onewayReverse {
		converter.network.AddLink(&NetworkLink{
			ID:           converter.nextLinkID(),
			From:         fromID,
			To:           toID,
			LengthMeters: length,
			FreeSpeed:    freeSpeed,
			Capacity:     capacity,
			Lanes:        nofLanes,
			Modes:        copyModes(modes),
			OsmWayID:     way.ID,
		})
	}
	if !oneway {
		converter.network.AddLink(&NetworkLink{
			ID:           converter.nextLinkID(),
			From:         toID,
			To:           fromID,
			LengthMeters: length,
			FreeSpeed:    freeSpeed,
			Capacity:     capacity,
			Lanes:        nofLanes,
			Modes:        copyModes(modes),
			OsmWayID:     way.ID,
		})
	}
}

// deriveModes Collects the allowed transport modes for a way: the basic mode
// of its classification plus the route modes of every relation referencing it.
// Never returns an empty set.
func (converter *NetworkConverter) deriveModes(way *OsmWay, busOnlyLink bool) map[string]struct{} {
	modes := make(map[string]struct{})
	if !busOnlyLink && way.highway != "" {
		modes[ModeCar] = struct{}{}
	}
	if busOnlyLink {
		modes[ModeBus] = struct{}{}
		modes[ModePublicTransit] = struct{}{}
	}
	if way.railway != "" {
		if _, ok := converter.railwayParams[way.railway]; ok {
			modes[way.railway] = struct{}{}
		}
	}
	for relationID := range converter.relationIndex.Relations(way.ID) {
		relation, ok := converter.data.Relations[relationID]
		if !ok {
			continue
		}
		mode := relation.Tags.Find(tagRoute)
		if mode == "" {
			continue
		}
		if mode == valueTrolleybus {
			mode = ModeBus
		}
		modes[mode] = struct{}{}
	}
	if len(modes) == 0 {
		modes[ModeUnknownStreetType] = struct{}{}
	}
	return modes
}
