// Package coherence implements the spatial coherence decay models used to
// correlate the per-point turbulence spectra of a wind-field grid.
package coherence

import (
	"encoding/json"
	"errors"
	"math"

	log "github.com/sirupsen/logrus"
)

// Model is a pure coherence evaluator. Coh maps a frequency f [Hz], a point
// separation sep [m] and the pair-mean advection speed um [m/s] to a decay
// magnitude in [0,1]. um is ignored by models that carry their own reference
// speed.
type Model interface {
	Coh(f, sep, um float64) float64
	Validate() error
}

type ModelType int

var ModelTypes = [...]string{
	"Generic",
	"IEC",
}

func (m ModelType) String() string {
	if int(m) >= len(ModelTypes) {
		return "Unknown-ModelType"
	}
	return ModelTypes[m]
}

const (
	Generic ModelType = iota
	IEC
)

var errUnknownType = errors.New("coherence: unknown model type")

// Setting is the serializable description of a coherence model, the same
// set of fields for both variants so configs stay a single flat object.
type Setting struct {
	Type ModelType

	// Generic model parameters
	CoefA   float64
	CoefB   float64
	CoefExp float64

	// IEC model parameters
	UHub    float64
	LambdaU float64 // turbulence scale parameter [m]; derives Lc when Lc is 0
	Lc      float64 // coherence scale length [m]
}

func NewSetting() *Setting {
	result := new(Setting)
	result.SetDefault()
	return result
}

func (s *Setting) SetDefault() {
	s.Type = IEC
	s.CoefA = 12
	s.CoefB = 0.12
	s.CoefExp = 2
	s.UHub = 10
	s.LambdaU = 42
	s.Lc = 0
}

func (s *Setting) Set(str string) {
	err := json.Unmarshal([]byte(str), s)
	if err != nil {
		log.Print("Error ", err)
	}
}

// Model constructs the configured evaluator. The IEC coherence scale length
// defaults to 8.1*LambdaU when Lc is left zero.
func (s Setting) Model() (Model, error) {
	switch s.Type {
	case Generic:
		m := GenericModel{CoefA: s.CoefA, CoefB: s.CoefB, CoefExp: s.CoefExp}
		return m, m.Validate()
	case IEC:
		lc := s.Lc
		if lc == 0 {
			lc = 8.1 * s.LambdaU
		}
		m := IECModel{UHub: s.UHub, A: s.CoefA, Lc: lc}
		return m, m.Validate()
	default:
		return nil, errUnknownType
	}
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
