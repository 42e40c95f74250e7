// turbsim generates a coherent turbulent wind field and writes it to an
// AeroDyn/TurbSim .bts file: grid -> point spectra -> random phases ->
// coherence kernels -> inverse FFT -> binary output.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/wiless/turbulence"
	"github.com/wiless/turbulence/aerodyn"
	"github.com/wiless/turbulence/grid"
	"github.com/wiless/turbulence/spectrum"
	"github.com/wiless/turbulence/synthesis"
	"github.com/wiless/vlib"
)

var outdir string
var indir string

func init() {
	flag.StringVar(&outdir, "outdir", ".", "Directory where the output files are generated..")
	flag.StringVar(&indir, "indir", ".", "Directory where the input files are read..")
	help := flag.Bool("help", false, "prints this help")
	verbose := flag.Bool("v", true, "Print logs verbose mode")
	flag.Parse()

	if *help {
		flag.PrintDefaults()
		os.Exit(0)
		return
	}

	ReadAppConfig()
	if !*verbose {
		log.SetOutput(ioutil.Discard)
	}
}

// shearProfile is the power-law mean speed at height z referenced to the
// hub.
func shearProfile(z float64) float64 {
	return cfg.UHub * math.Pow(z/cfg.HubHeight, cfg.Shear)
}

func main() {
	start := time.Now()

	seedvalue := cfg.Seed
	if seedvalue == 0 {
		seedvalue = time.Now().Unix()
	}
	rng := rand.New(rand.NewSource(seedvalue))
	log.Println("Seed ", seedvalue)

	g, err := grid.NewRect(0, cfg.Width, cfg.NY, cfg.HubHeight-cfg.Height/2, cfg.Height, cfg.NZ)
	if err != nil {
		log.Fatal("grid: ", err)
	}
	np := g.Np()

	if cfg.NT < 2 || cfg.NT%2 != 0 {
		log.Fatal("NT must be even, got ", cfg.NT)
	}
	nf := cfg.NT / 2
	df := 1.0 / (float64(cfg.NT) * cfg.DT)
	f := vlib.NewVectorF(nf)
	for k := 0; k < nf; k++ {
		f[k] = df * float64(k+1)
	}

	// Per-point mean speeds in grid enumeration order.
	u := vlib.NewVectorF(np)
	for p := 0; p < np; p++ {
		u[p] = shearProfile(g.Loc(p).Z)
	}

	// Component sigmas per IEC: v and w scaled off the longitudinal one.
	sigmas := vlib.VectorF{cfg.SigmaU, 0.8 * cfg.SigmaU, 0.5 * cfg.SigmaU}

	field := aerodyn.NewData(g.Ny(), g.Nz(), cfg.NT)
	field.DY, field.DZ, field.DT = g.Dy(), g.Dz(), cfg.DT
	field.UHub, field.ZHub, field.ZBottom = cfg.UHub, cfg.HubHeight, g.Z[0]
	field.Desc = fmt.Sprintf("generated by turbsim-go, %s.", time.Now().Format("Jan 02, 2006, 15:04 (MST)"))

	for c := 0; c < 3; c++ {
		phr := synthesis.RandomPhasors(np, nf, rng)
		if err := synthesis.Assemble(phr, spectrum.Kaimal{SigmaU: sigmas[c]}, g, f, df, u); err != nil {
			log.Fatal("assemble: ", err)
		}

		// Coherence is applied to the streamwise component only; v and w
		// stay uncorrelated between points as in the reference tool.
		if c == 0 {
			switch strings.ToUpper(cfg.Model) {
			case "IEC":
				err = turbulence.ApplyIECCoherence(phr, f, g.Y, g.Z, cfg.UHub, cfg.CoefA, cfg.Lc, cfg.Ncpus)
			case "GENERIC":
				err = turbulence.ApplyGenericCoherence(phr, f, g.Y, g.Z, u, cfg.CoefA, cfg.CoefB, cfg.CoefExp, cfg.Ncpus)
			default:
				log.Fatal("Unknown coherence model ", cfg.Model)
			}
			if err != nil {
				log.Fatal("coherence: ", err)
			}
		}

		ts, err := synthesis.TimeSeries(phr)
		if err != nil {
			log.Fatal("synthesis: ", err)
		}
		for p := 0; p < np; p++ {
			iy, iz := g.Split(p)
			mean := 0.0
			if c == 0 {
				mean = u[p]
			}
			for it := 0; it < cfg.NT; it++ {
				field.U[c][iz][iy][it] = ts[p][it] + mean
			}
		}
	}

	outfile := filepath.Join(outdir, cfg.OutFile)
	if err := aerodyn.Write(outfile, field); err != nil {
		log.Fatal("write: ", err)
	}
	vlib.SaveStructure(cfg, outfile+"_run.json", true)

	if cfg.WriteReadback {
		if _, err := aerodyn.Read(outfile + ".bts"); err != nil {
			log.Fatal("readback: ", err)
		}
	}

	color.Green("Wrote %s.bts : %dx%d grid, %d samples, %d frequencies in %v",
		outfile, g.Ny(), g.Nz(), cfg.NT, nf, time.Since(start))
}
