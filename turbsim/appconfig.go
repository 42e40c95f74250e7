package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// AppConfig holds the generator parameters read from turbsim.json
type AppConfig struct {
	NY, NZ        int
	Width         float64 // grid width [m]
	Height        float64 // grid height [m]
	HubHeight     float64 // grid centre height [m]
	UHub          float64 // mean hub wind speed [m/s]
	Shear         float64 // power-law shear exponent
	SigmaU        float64 // longitudinal turbulence std [m/s]
	NT            int     // samples per point, power of two
	DT            float64 // sample interval [s]
	Ncpus         int
	Seed          int64
	Model         string // "IEC" or "Generic"
	CoefA         float64
	CoefB         float64
	CoefExp       float64
	Lc            float64 // IEC coherence scale length [m]
	OutFile       string
	WriteReadback bool
}

var cfg AppConfig

// ReadAppConfig reads all the configuration for the app
func ReadAppConfig() {
	viper.AddConfigPath(indir)
	viper.SetConfigName("turbsim")

	err := viper.ReadInConfig()
	if err != nil {
		log.Print("ReadInConfig ", err)
	}
	// Set all the default values
	{
		viper.SetDefault("NY", 5)
		viper.SetDefault("NZ", 5)
		viper.SetDefault("Width", 80.0)
		viper.SetDefault("Height", 80.0)
		viper.SetDefault("HubHeight", 90.0)
		viper.SetDefault("UHub", 10.0)
		viper.SetDefault("Shear", 0.2)
		viper.SetDefault("SigmaU", 1.6)
		viper.SetDefault("NT", 1024)
		viper.SetDefault("DT", 0.05)
		viper.SetDefault("Ncpus", 4)
		viper.SetDefault("Seed", 0)
		viper.SetDefault("Model", "IEC")
		viper.SetDefault("CoefA", 12.0)
		viper.SetDefault("CoefB", 0.12)
		viper.SetDefault("CoefExp", 2.0)
		viper.SetDefault("Lc", 8.1*42.0)
		viper.SetDefault("OutFile", "turbfield")
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatal("AppConfig ", err)
	}

	log.Println("Grid ", cfg.NY, "x", cfg.NZ, " Hub ", cfg.HubHeight, "m @", cfg.UHub, "m/s")
	log.Println("Coherence model ", cfg.Model)
}
