package pt2matsim

import (
	"testing"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRelationIndex(t *testing.T) {
	data := NewOsmData()
	testRelation(data, 10, []int64{1, 2}, map[string]string{"route": "bus"})
	testRelation(data, 11, []int64{2}, map[string]string{"route": "tram"})

	index := buildRelationIndex(data.Relations)

	assert.True(t, index.Contains(osm.WayID(1)))
	assert.True(t, index.Contains(osm.WayID(2)))
	assert.False(t, index.Contains(osm.WayID(3)))

	require.Len(t, index.Relations(osm.WayID(1)), 1)
	require.Len(t, index.Relations(osm.WayID(2)), 2)
	assert.Contains(t, index.Relations(osm.WayID(2)), osm.RelationID(10))
	assert.Contains(t, index.Relations(osm.WayID(2)), osm.RelationID(11))
	assert.Empty(t, index.Relations(osm.WayID(3)))
}
