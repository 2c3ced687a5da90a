package pt2matsim

import (
	"github.com/paulmach/osm"
)

// RelationIndex Reverse index from a way identifier to the set of relations
// referencing it. Built once by scanning all relation members.
type RelationIndex map[osm.WayID]map[osm.RelationID]struct{}

func buildRelationIndex(relations map[osm.RelationID]*OsmRelation) RelationIndex {
	index := make(RelationIndex)
	for _, relation := range relations {
		for _, member := range relation.Members {
			wayID := osm.WayID(member.Ref)
			if _, ok := index[wayID]; !ok {
				index[wayID] = make(map[osm.RelationID]struct{})
			}
			index[wayID][relation.ID] = struct{}{}
		}
	}
	return index
}

// Relations Returns the identifiers of all relations referencing the given way
// (nil when there are none)
func (index RelationIndex) Relations(wayID osm.WayID) map[osm.RelationID]struct{} {
	return index[wayID]
}

// Contains Reports whether any relation references the given way
func (index RelationIndex) Contains(wayID osm.WayID) bool {
	_, ok := index[wayID]
	return ok
}
