package pt2matsim

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"
	"golang.org/x/exp/slog"
)

// ImportFromPBFFile Reads the source graph from a file of PBF-format (in OSM
// terms). Scans the file three times: relations first, then ways (keeping only
// candidates for conversion), then the nodes those ways reference.
/*
	File should have PBF (Protocolbuffer Binary Format) extension according to https://github.com/paulmach/osm
*/
func ImportFromPBFFile(fileName string) (*OsmData, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()

	data := NewOsmData()

	slog.Info("Scanning relations...")
	st := time.Now()
	scannerRelations := osmpbf.New(context.Background(), f, 4)
	scannerRelations.SkipNodes = true
	scannerRelations.SkipWays = true
	memberWays := make(map[osm.WayID]struct{})
	for scannerRelations.Scan() {
		obj := scannerRelations.Object()
		if obj.ObjectID().Type() != "relation" {
			continue
		}
		relation := obj.(*osm.Relation)
		prepared := &OsmRelation{
			ID:      relation.ID,
			Members: make(osm.Members, len(relation.Members)),
			Tags:    make(osm.Tags, len(relation.Tags)),
		}
		copy(prepared.Members, relation.Members)
		copy(prepared.Tags, relation.Tags)
		data.Relations[relation.ID] = prepared
		for _, member := range relation.Members {
			memberWays[osm.WayID(member.Ref)] = struct{}{}
		}
	}
	if scannerRelations.Err() != nil {
		return nil, errors.Wrap(scannerRelations.Err(), "Scanner error on Relations")
	}
	scannerRelations.Close()
	slog.Info("Done scanning relations", "elapsed", time.Since(st).String(), "relations", len(data.Relations))

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking")
	}

	slog.Info("Scanning ways...")
	st = time.Now()
	scannerWays := osmpbf.New(context.Background(), f, 4)
	scannerWays.SkipNodes = true
	scannerWays.SkipRelations = true
	nodesSeen := make(map[osm.NodeID]struct{})
	for scannerWays.Scan() {
		obj := scannerWays.Object()
		if obj.ObjectID().Type() != "way" {
			continue
		}
		way := obj.(*osm.Way)
		tagMap := way.TagMap()
		_, isHighway := tagMap[tagHighway]
		_, isRailway := tagMap[tagRailway]
		_, isPSV := tagMap[tagPSV]
		_, isMember := memberWays[way.ID]
		if !isHighway && !isRailway && !isPSV && !isMember {
			continue
		}
		preparedWay := &OsmWay{
			ID:    way.ID,
			Nodes: make([]osm.NodeID, len(way.Nodes)),
			Tags:  make(osm.Tags, len(way.Tags)),
		}
		for i, wayNode := range way.Nodes {
			preparedWay.Nodes[i] = wayNode.ID
		}
		copy(preparedWay.Tags, way.Tags)
		data.Ways[way.ID] = preparedWay
		for _, wayNode := range way.Nodes {
			nodesSeen[wayNode.ID] = struct{}{}
		}
	}
	if scannerWays.Err() != nil {
		return nil, errors.Wrap(scannerWays.Err(), "Scanner error on Ways")
	}
	scannerWays.Close()
	slog.Info("Done scanning ways", "elapsed", time.Since(st).String(), "ways", len(data.Ways))

	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "Can't repeat seeking")
	}

	slog.Info("Scanning nodes...")
	st = time.Now()
	scannerNodes := osmpbf.New(context.Background(), f, 4)
	scannerNodes.SkipWays = true
	scannerNodes.SkipRelations = true
	for scannerNodes.Scan() {
		obj := scannerNodes.Object()
		if obj.ObjectID().Type() != "node" {
			continue
		}
		node := obj.(*osm.Node)
		if _, ok := nodesSeen[node.ID]; !ok {
			continue
		}
		delete(nodesSeen, node.ID)
		data.Nodes[node.ID] = &OsmNode{
			ID:  node.ID,
			Lon: node.Lon,
			Lat: node.Lat,
		}
	}
	if scannerNodes.Err() != nil {
		return nil, errors.Wrap(scannerNodes.Err(), "Scanner error on Nodes")
	}
	scannerNodes.Close()
	slog.Info("Done scanning nodes", "elapsed", time.Since(st).String(), "nodes", len(data.Nodes))

	return data, nil
}
