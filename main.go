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

package main

import (
	"flag"
	"log"

	"apsim/sim"
)

func main() {
	var (
		cfgFile string
		expName string
	)
	flag.StringVar(&cfgFile, "c", "", "configuration file")
	flag.StringVar(&expName, "e", "all", "experiment (scale,connectivity,complexity,flights,all)")
	flag.Parse()

	log.Println("=========================================")
	log.Println("apsim: all-pairs shortest-path simulation")
	log.Println("=========================================")
	if len(cfgFile) > 0 {
		if err := sim.ReadConfig(cfgFile); err != nil {
			log.Fatalf("config: %s", err)
		}
	}
	cfg := sim.Cfg

	var results []*sim.RunStats
	run := func(name string, f func(*sim.Config) ([]*sim.RunStats, error)) {
		if expName != "all" && expName != name {
			return
		}
		log.Printf("Running '%s' experiment...", name)
		out, err := f(cfg)
		if err != nil {
			log.Fatalf("%s: %s", name, err)
		}
		results = append(results, out...)
	}
	run("scale", sim.ScaleExperiment)
	run("connectivity", sim.ConnectivityExperiment)
	run("complexity", sim.ComplexityExperiment)
	if cfg.Data != nil && len(cfg.Data.Airports) > 0 {
		run("flights", sim.FlightExperiment)
	}
	if len(results) == 0 {
		log.Fatal("nothing to run (check -e and config)")
	}

	sim.Summarize(results)
	if cfg.Options != nil && len(cfg.Options.Out) > 0 {
		if err := sim.WriteResults(cfg.Options.Out, results); err != nil {
			log.Fatalf("results: %s", err)
		}
		log.Printf("Results written to '%s'", cfg.Options.Out)
	}
	if c := sim.GetCanvas(cfg.Render); c != nil {
		c.Open()
		labels, values := sim.ChartData(results, "messages")
		sim.DrawComparison(c, "messages until convergence", labels, values)
		c.Close()
		log.Printf("Chart written to '%s'", cfg.Render.File)
	}
	log.Println("Done.")
}
