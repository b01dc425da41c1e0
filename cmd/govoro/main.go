package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/phil-mansfield/govoro"
)

var (
	configFile = flag.String("Config", "", "Container configuration file.")
	wallsFile  = flag.String("Walls", "", "Optional YAML wall-list file.")
	format     = flag.String("Format", "%i %q %v",
		"Custom output format; see PrintCustom for the directives.")
	gnuplot = flag.String("Gnuplot", "", "Also write cells in gnuplot format to this file.")
	output  = flag.String("Output", "", "Output file; stdout when empty.")
	example = flag.Bool("ExampleConfig", false, "Print an example configuration and exit.")
)

func main() {
	flag.Parse()

	if *example {
		fmt.Print(govoro.ExampleConfig)
		return
	}
	if *configFile == "" {
		log.Fatal("No configuration file given. Run with -ExampleConfig to see one.")
	}

	cfg, err := govoro.ReadConfig(*configFile)
	if err != nil {
		log.Fatalf("Error reading %s: %v", *configFile, err)
	}

	in := os.Stdin
	if flag.NArg() > 0 {
		in, err = os.Open(flag.Arg(0))
		if err != nil {
			log.Fatal(err.Error())
		}
		defer in.Close()
	}

	out := os.Stdout
	if *output != "" {
		out, err = os.Create(*output)
		if err != nil {
			log.Fatal(err.Error())
		}
		defer out.Close()
	}

	if cfg.Container.Weighted {
		runPoly(cfg, in, out)
	} else {
		run(cfg, in, out)
	}
}

func run(cfg *govoro.Config, in, out *os.File) {
	con, err := cfg.Container.NewContainer()
	if err != nil {
		log.Fatal(err.Error())
	}
	addWalls(con)
	if err := con.Import(in); err != nil {
		log.Fatalf("Error importing particles: %v", err)
	}
	log.Printf("Imported %d particles", con.TotalParticles())

	if *gnuplot != "" {
		writeGnuplot(con.DrawCells)
	}
	if err := con.PrintCustom(*format, out); err != nil {
		log.Fatal(err.Error())
	}
}

func runPoly(cfg *govoro.Config, in, out *os.File) {
	con, err := cfg.Container.NewPolyContainer()
	if err != nil {
		log.Fatal(err.Error())
	}
	addWalls(con)
	if err := con.Import(in); err != nil {
		log.Fatalf("Error importing particles: %v", err)
	}
	log.Printf("Imported %d particles", con.TotalParticles())

	if *gnuplot != "" {
		writeGnuplot(con.DrawCells)
	}
	if err := con.PrintCustom(*format, out); err != nil {
		log.Fatal(err.Error())
	}
}

type wallAdder interface{ AddWall(govoro.Wall) }

func addWalls(con wallAdder) {
	if *wallsFile == "" {
		return
	}
	walls, err := govoro.ReadWallsFile(*wallsFile)
	if err != nil {
		log.Fatalf("Error reading %s: %v", *wallsFile, err)
	}
	for _, w := range walls {
		con.AddWall(w)
	}
	log.Printf("Added %d walls", len(walls))
}

func writeGnuplot(draw func(w io.Writer) error) {
	f, err := os.Create(*gnuplot)
	if err != nil {
		log.Fatal(err.Error())
	}
	defer f.Close()
	if err := draw(f); err != nil {
		log.Fatal(err.Error())
	}
}
