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
	"encoding/json"
	"fmt"
	"log"
	"os"
)

//----------------------------------------------------------------------
// Reporting: persist experiment results and summarize the variant
// comparison on the console.
//----------------------------------------------------------------------

// WriteResults stores the collected result rows as a JSON file.
func WriteResults(fn string, results []*RunStats) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fn, data, 0644)
}

// Summarize logs aggregate traffic per variant and the ratio between
// the two protocols.
func Summarize(results []*RunStats) {
	msgs := make(map[string]uint64)
	bits := make(map[string]uint64)
	var variants []string
	for _, r := range results {
		if _, ok := msgs[r.Variant]; !ok {
			variants = append(variants, r.Variant)
		}
		msgs[r.Variant] += r.Messages
		bits[r.Variant] += r.Bits
	}
	for _, v := range variants {
		log.Printf("total %-6s: %d messages, %d bits", v, msgs[v], bits[v])
	}
	if len(variants) == 2 {
		a, b := variants[0], variants[1]
		if msgs[b] > 0 {
			log.Printf("message ratio %s/%s: %.2f", a, b, float64(msgs[a])/float64(msgs[b]))
		}
		if bits[b] > 0 {
			log.Printf("bit volume ratio %s/%s: %.2f", a, b, float64(bits[a])/float64(bits[b]))
		}
	}
}

// ChartData extracts one metric of the result rows for rendering.
func ChartData(results []*RunStats, metric string) (labels []string, values []float64) {
	for _, r := range results {
		labels = append(labels, fmt.Sprintf("%s %s", r.Point, r.Variant))
		switch metric {
		case "bits":
			values = append(values, float64(r.Bits))
		case "time":
			values = append(values, r.Elapsed.Seconds())
		default:
			values = append(values, float64(r.Messages))
		}
	}
	return
}
