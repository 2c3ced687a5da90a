package pt2matsim

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/pkg/errors"
)

// ExportToCSV Writes the network into two ';'-separated files:
// <name>_nodes.csv and <name>_links.csv
func ExportToCSV(net *Network, fname string) error {
	fnameParts := strings.Split(fname, ".csv")
	fnameNodes := fmt.Sprintf(fnameParts[0] + "_nodes.csv")
	fnameLinks := fmt.Sprintf(fnameParts[0] + "_links.csv")

	if err := exportNodesToCSV(net, fnameNodes); err != nil {
		return errors.Wrap(err, "Can't export nodes")
	}
	if err := exportLinksToCSV(net, fnameLinks); err != nil {
		return errors.Wrap(err, "Can't export links")
	}
	return nil
}

func exportNodesToCSV(net *Network, fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "x", "y", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, node := range net.Nodes {
		err = writer.Write([]string{
			fmt.Sprintf("%d", node.ID),
			fmt.Sprintf("%f", node.Geom.X),
			fmt.Sprintf("%f", node.Geom.Y),
			wkt.MarshalString(orb.Point{node.Geom.X, node.Geom.Y}),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write node")
		}
	}
	return nil
}

func exportLinksToCSV(net *Network, fname string) error {
	file, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "Can't create file")
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()
	writer.Comma = ';'

	err = writer.Write([]string{"id", "from_node", "to_node", "osm_way_id", "length_meters", "freespeed", "capacity", "permlanes", "modes", "geom"})
	if err != nil {
		return errors.Wrap(err, "Can't write header")
	}

	for _, link := range net.Links {
		geom := orb.LineString{}
		if fromNode, ok := net.Nodes[link.From]; ok {
			geom = append(geom, orb.Point{fromNode.Geom.X, fromNode.Geom.Y})
		}
		if toNode, ok := net.Nodes[link.To]; ok {
			geom = append(geom, orb.Point{toNode.Geom.X, toNode.Geom.Y})
		}
		err = writer.Write([]string{
			fmt.Sprintf("%d", link.ID),
			fmt.Sprintf("%d", link.From),
			fmt.Sprintf("%d", link.To),
			fmt.Sprintf("%d", link.OsmWayID),
			fmt.Sprintf("%f", link.LengthMeters),
			fmt.Sprintf("%f", link.FreeSpeed),
			fmt.Sprintf("%f", link.Capacity),
			fmt.Sprintf("%f", link.Lanes),
			joinModes(link.Modes),
			wkt.MarshalString(geom),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write link")
		}
	}
	return nil
}
