package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/LdDl/ch"
	"github.com/N-LGz/pt2matsim"
)

var (
	confFileName  = flag.String("conf", "", "Filename of YAML conversion config (optional, built-in defaults are used when empty)")
	osmFileName   = flag.String("file", "my_graph.osm.pbf", "Filename of *.osm.pbf file (it has to be compressed)")
	out           = flag.String("out", "my_network.csv", "Filename of 'Comma-Separated Values' (CSV) formatted output. E.g.: if file name is 'net.csv' then 2 files will be produced: 'net_nodes.csv' and 'net_links.csv'")
	geojsonOut    = flag.String("geojson", "", "Filename of GeoJSON output (optional)")
	doContraction = flag.Bool("contract", false, "Prepare contraction hierarchies for the road network?")
)

func main() {

	flag.Parse()

	cfg := pt2matsim.DefaultConfig()
	if *confFileName != "" {
		var err error
		cfg, err = pt2matsim.ReadConfig(*confFileName)
		if err != nil {
			fmt.Println(err)
			return
		}
	}

	data, err := pt2matsim.ImportFromPBFFile(*osmFileName)
	if err != nil {
		fmt.Println(err)
		return
	}

	converter := pt2matsim.NewNetworkConverter(data)
	network, err := converter.Convert(cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := pt2matsim.ExportToCSV(network, *out); err != nil {
		fmt.Println(err)
		return
	}

	if *geojsonOut != "" {
		if err := pt2matsim.ExportToGeoJSONFile(network, *geojsonOut); err != nil {
			fmt.Println(err)
			return
		}
	}

	if *doContraction {
		fnamePart := strings.Split(*out, ".csv")
		fnameShortcuts := fmt.Sprintf(fnamePart[0] + "_shortcuts.csv")

		graph := ch.Graph{}
		for _, link := range network.Links {
			source := int64(link.From)
			target := int64(link.To)
			if err := graph.CreateVertex(source); err != nil {
				fmt.Println(err)
				return
			}
			if err := graph.CreateVertex(target); err != nil {
				fmt.Println(err)
				return
			}
			if err := graph.AddEdge(source, target, link.LengthMeters); err != nil {
				fmt.Println(err)
				return
			}
		}

		fmt.Println("Starting contraction process....")
		st := time.Now()
		graph.PrepareContractionHierarchies()
		fmt.Printf("Done contraction process in %v\n", time.Since(st))

		if err := graph.ExportShortcutsToFile(fnameShortcuts); err != nil {
			fmt.Println(err)
			return
		}
	}
}
