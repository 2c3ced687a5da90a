package pt2matsim

import (
	"fmt"
	"math"
)

const (
	earthR = 20037508.34
)

// GeoPoint Planar point in the coordinate system the network is built in
type GeoPoint struct {
	X float64
	Y float64
}

// String Pretty printing for GeoPoint
func (pt GeoPoint) String() string {
	return fmt.Sprintf("X: %f | Y: %f", pt.X, pt.Y)
}

// CoordTransform Projects a WGS84 longitude/latitude pair onto a planar coordinate
type CoordTransform func(lon, lat float64) (x, y float64)

// TransformIdentity Keeps coordinates as they are
func TransformIdentity(lon, lat float64) (float64, float64) {
	return lon, lat
}

// TransformWebMercator EPSG:4326 -> EPSG:3857
func TransformWebMercator(lon, lat float64) (float64, float64) {
	x := lon * earthR / 180
	y := math.Log(math.Tan((90+lat)*math.Pi/360)) / (math.Pi / 180)
	y = y * earthR / 180
	return x, y
}

func transformByName(name string) (CoordTransform, error) {
	switch name {
	case "", "identity", "wgs84":
		return TransformIdentity, nil
	case "mercator", "epsg:3857":
		return TransformWebMercator, nil
	default:
		return nil, fmt.Errorf("unknown coordinate system: '%s'", name)
	}
}

// euclideanDist Returns distance between two planar points
func euclideanDist(p, q GeoPoint) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}
