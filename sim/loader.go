//----------------------------------------------------------------------
// This file is part of apsim.
// Copyright (C) 2023 Bernd Fix >Y<
//
// apsim is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// apsim is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package sim

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"apsim/core"
)

//----------------------------------------------------------------------
// Real-world topology import from OpenFlights data: airports become
// nodes, routes become links weighted with the great-circle distance
// in whole kilometers. Only the busiest airports are kept and the
// graph is restricted to its largest connected component, so every
// run on flight data converges on a single connected graph.
//----------------------------------------------------------------------

// Airport record from the airports file
type Airport struct {
	Code     string  // IATA code
	Lat, Lon float64 // position (degrees)
}

// field indices in the OpenFlights CSV formats
const (
	apFieldIATA = 4
	apFieldLat  = 6
	apFieldLon  = 7
	rtFieldSrc  = 2
	rtFieldDst  = 4
)

// earth radius in kilometers
const earthRadius = 6371.

// Haversine returns the great-circle distance between two positions
// in whole kilometers (at least 1 for distinct positions).
func Haversine(lat1, lon1, lat2, lon2 float64) int64 {
	p1 := lat1 * math.Pi / 180
	p2 := lat2 * math.Pi / 180
	dp := (lat2 - lat1) * math.Pi / 180
	dl := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dp/2)*math.Sin(dp/2) +
		math.Cos(p1)*math.Cos(p2)*math.Sin(dl/2)*math.Sin(dl/2)
	d := 2 * earthRadius * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	km := int64(math.Round(d))
	if km < 1 {
		km = 1
	}
	return km
}

// LoadAirports reads the airports file and returns records by IATA
// code. Rows without a valid code or position are skipped.
func LoadAirports(fn string) (map[string]*Airport, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1
	recs, err := rd.ReadAll()
	if err != nil {
		return nil, err
	}
	list := make(map[string]*Airport)
	for _, rec := range recs {
		if len(rec) <= apFieldLon {
			continue
		}
		code := rec[apFieldIATA]
		if len(code) != 3 || code == `\N` {
			continue
		}
		lat, err1 := strconv.ParseFloat(rec[apFieldLat], 64)
		lon, err2 := strconv.ParseFloat(rec[apFieldLon], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		list[code] = &Airport{Code: code, Lat: lat, Lon: lon}
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("loader: no usable airports in '%s'", fn)
	}
	return list, nil
}

// routePair is one undirected airport connection
type routePair struct {
	a, b string
}

// LoadRoutes reads the routes file and returns the undirected
// connections between known airports plus a per-airport route count.
func LoadRoutes(fn string, airports map[string]*Airport) (map[routePair]bool, map[string]int, error) {
	f, err := os.Open(fn)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	rd := csv.NewReader(f)
	rd.FieldsPerRecord = -1
	recs, err := rd.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	pairs := make(map[routePair]bool)
	count := make(map[string]int)
	for _, rec := range recs {
		if len(rec) <= rtFieldDst {
			continue
		}
		src, dst := rec[rtFieldSrc], rec[rtFieldDst]
		if src == dst {
			continue
		}
		if _, ok := airports[src]; !ok {
			continue
		}
		if _, ok := airports[dst]; !ok {
			continue
		}
		count[src]++
		count[dst]++
		if src > dst {
			src, dst = dst, src
		}
		pairs[routePair{src, dst}] = true
	}
	return pairs, count, nil
}

// LoadFlightGraph builds the simulation topology from OpenFlights
// data: the busiest topN airports, linked by existing routes, weighted
// with great-circle kilometers, restricted to the largest component.
func LoadFlightGraph(cfg *DataCfg) (*Model, error) {
	airports, err := LoadAirports(cfg.Airports)
	if err != nil {
		return nil, err
	}
	pairs, count, err := LoadRoutes(cfg.Routes, airports)
	if err != nil {
		return nil, err
	}
	// rank airports by route count (code breaks ties for determinism)
	codes := make([]string, 0, len(count))
	for code := range count {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		if count[codes[i]] != count[codes[j]] {
			return count[codes[i]] > count[codes[j]]
		}
		return codes[i] < codes[j]
	})
	if cfg.TopN > 0 && len(codes) > cfg.TopN {
		codes = codes[:cfg.TopN]
	}
	mdl := &Model{
		Graph:  core.NewTopology(),
		Pos:    make(map[core.NodeID]*Position),
		Labels: make(map[core.NodeID]string),
	}
	idx := make(map[string]core.NodeID, len(codes))
	sort.Strings(codes)
	for i, code := range codes {
		id := core.NodeID(i)
		idx[code] = id
		mdl.Graph.AddNode(id)
		mdl.Labels[id] = code
		ap := airports[code]
		// equirectangular projection is good enough for a diagram
		mdl.Pos[id] = &Position{
			X: (ap.Lon + 180) / 3.6,
			Y: (90 - ap.Lat) / 1.8,
		}
	}
	for pair := range pairs {
		a, oka := idx[pair.a]
		b, okb := idx[pair.b]
		if !oka || !okb {
			continue
		}
		apA, apB := airports[pair.a], airports[pair.b]
		w := Haversine(apA.Lat, apA.Lon, apB.Lat, apB.Lon)
		if err := mdl.Graph.AddLink(a, b, w); err != nil {
			return nil, err
		}
	}
	return mdl.LargestComponent(), nil
}
