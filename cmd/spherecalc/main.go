// Command spherecalc runs spherical geometry calculations from the command
// line and prints the result as text, GeoJSON, KML or an encoded polyline.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(os.Stderr, "spherecalc: %v\n", err)
		}
		os.Exit(1)
	}
}

type command struct {
	name    string
	usage   string
	example string
	run     func(env *environment, args []string) error
}

var commands = []command{
	{"distance", "Great-circle distance between two points",
		"spherecalc distance -from 38.0675,-120.5436 -to 38.1391,-120.4561 -unit mi", runDistance},
	{"bearing", "Initial, final and arrival bearings between two points",
		"spherecalc bearing -from 51.5074,-0.1278 -to 48.8566,2.3522", runBearing},
	{"interpolate", "Point at a fraction of the way between two points",
		"spherecalc interpolate -from 51.5074,-0.1278 -to 48.8566,2.3522 -fraction 0.25", runInterpolate},
	{"path", "Sampled great-circle path",
		"spherecalc path -from 51.5074,-0.1278 -to 40.7128,-74.0060 -points 50 -format geojson", runPath},
	{"circle", "Small circle around a center",
		"spherecalc circle -center 38.1377,-120.4652 -radius 10 -format kml", runCircle},
	{"triangle", "Solve a spherical triangle from vertices, sss, sas, aas or asa",
		"spherecalc triangle -construction sss -side-a 1000 -side-b 1000 -side-c 1000", runTriangle},
	{"decode-polyline", "Decode a Google encoded polyline",
		"spherecalc decode-polyline -polyline '_p~iF~ps|U_ulLnnqC_mqNvxq`@'", runDecodePolyline},
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		printUsage(stderr)
		return errors.New("no command given")
	}

	name := args[0]
	if name == "help" || name == "-h" || name == "--help" {
		printUsage(stdout)
		return nil
	}
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd.run(&environment{stdout: stdout, stderr: stderr, name: name}, args[1:])
		}
	}

	printUsage(stderr)
	return fmt.Errorf("unknown command: %s", name)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: spherecalc <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-16s %s\n", cmd.name, cmd.usage)
	}
	fmt.Fprintf(w, "  %-16s %s\n", "help", "Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Common options (also read from SPHERECALC_* environment variables):")
	fmt.Fprintln(w, "  -config     YAML file with sphere, sampling and cache sections")
	fmt.Fprintln(w, "  -radius-km  Sphere radius, overriding the config file")
	fmt.Fprintln(w, "  -format     text, geojson, kml or polyline")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %s\n", cmd.example)
	}
}
