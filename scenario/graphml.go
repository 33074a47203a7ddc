// SPDX-License-Identifier: MIT

package scenario

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"

	"github.com/katalvlaran/lvquant/network"
	"github.com/katalvlaran/lvquant/zones"
)

// weightKey is the GraphML data key holding an edge's link time in seconds.
const weightKey = "weight"

type graphmlDoc struct {
	Graph struct {
		Nodes []graphmlNode `xml:"node"`
		Edges []graphmlEdge `xml:"edge"`
	} `xml:"graph"`
}

type graphmlNode struct {
	ID  string `xml:"id,attr"`
	Lon string `xml:"lon,attr"`
	Lat string `xml:"lat,attr"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

func (e graphmlEdge) weight() (string, bool) {
	for _, d := range e.Data {
		if d.Key == weightKey {
			return d.Value, true
		}
	}
	if len(e.Data) > 0 {
		return e.Data[0].Value, true
	}

	return "", false
}

func parseCoord(s, what, node string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("node %q %s %q: %w", node, what, s, ErrMalformed)
	}

	return v, nil
}

// ReadGraphML reads a network of new links. Every node carries lon and lat
// attributes and is snapped to the zone with the nearest centroid; every
// edge becomes one change of mode between the snapped zones. The edge
// weight, in seconds, is the link time; edges without data stay untimed.
// Edges whose ends snap to the same zone are dropped.
func ReadGraphML(r io.Reader, mode network.Mode, table *zones.Table) ([]network.Change, error) {
	var doc graphmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "Can't decode graphml")
	}

	zoneOf := make(map[string]int, len(doc.Graph.Nodes))
	for _, n := range doc.Graph.Nodes {
		lon, err := parseCoord(n.Lon, "lon", n.ID)
		if err != nil {
			return nil, err
		}
		lat, err := parseCoord(n.Lat, "lat", n.ID)
		if err != nil {
			return nil, err
		}
		zoneOf[n.ID] = table.Nearest(orb.Point{lon, lat})
	}

	changes := make([]network.Change, 0, len(doc.Graph.Edges))
	for _, e := range doc.Graph.Edges {
		o, ok := zoneOf[e.Source]
		if !ok {
			return nil, fmt.Errorf("source %q: %w", e.Source, ErrUnknownNode)
		}
		d, ok := zoneOf[e.Target]
		if !ok {
			return nil, fmt.Errorf("target %q: %w", e.Target, ErrUnknownNode)
		}
		if o == d {
			continue
		}
		c := network.Change{Mode: mode, Origin: o, Destination: d, Seconds: network.UnsetSeconds}
		if w, ok := e.weight(); ok {
			secs, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
			if err != nil || secs < 0 {
				return nil, fmt.Errorf("edge %s→%s weight %q: %w", e.Source, e.Target, w, ErrMalformed)
			}
			c.Seconds = secs
		}
		changes = append(changes, c)
	}

	return changes, nil
}

// LoadGraphML reads a GraphML file and returns a source that yields its
// changes as a single scenario.
func LoadGraphML(path string, mode network.Mode, table *zones.Table) (*Static, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()

	changes, err := ReadGraphML(f, mode, table)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't read %s", path)
	}

	return NewStatic(changes), nil
}
