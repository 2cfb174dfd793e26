package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"reflect"
	"time"

	"github.com/creasty/defaults"
	yaml "gopkg.in/yaml.v2"
)

type (
	//StaticCfg is the container for other static config sections
	StaticCfg struct {
		MongoDB      MongoDBStaticCfg     `yaml:"MongoDB"`
		Log          LogStaticCfg         `yaml:"LogConfig"`
		Parser       ParserStaticCfg      `yaml:"Parser"`
		Anycast      AnycastStaticCfg     `yaml:"Anycast"`
		Geolocation  GeolocationStaticCfg `yaml:"Geolocation"`
		Registry     RegistryStaticCfg    `yaml:"Registry"`
		Output       OutputStaticCfg      `yaml:"Output"`
		Version      string               `yaml:"-"`
		ExactVersion string               `yaml:"-"`
	}

	//MongoDBStaticCfg contains the means for connecting to MongoDB
	MongoDBStaticCfg struct {
		ConnectionString string        `yaml:"ConnectionString" default:"mongodb://localhost:27017"`
		AuthMechanism    string        `yaml:"AuthenticationMechanism"`
		SocketTimeout    time.Duration `yaml:"SocketTimeout"`
		TLS              TLSStaticCfg  `yaml:"TLS"`
		Database         string        `yaml:"Database" default:"lgprobe"`
	}

	//TLSStaticCfg contains the means for connecting to MongoDB over TLS
	TLSStaticCfg struct {
		Enabled           bool   `yaml:"Enable"`
		VerifyCertificate bool   `yaml:"VerifyCertificate"`
		CAFile            string `yaml:"CAFile"`
	}

	//LogStaticCfg contains the configuration for logging
	LogStaticCfg struct {
		LogLevel  int    `yaml:"LogLevel" default:"2"`
		LogPath   string `yaml:"LogPath" default:"/var/lib/lgprobe/logs"`
		LogToFile bool   `yaml:"LogToFile"`
		LogToDB   bool   `yaml:"LogToDB"`
	}

	//ParserStaticCfg controls the traceroute parser and purifier
	ParserStaticCfg struct {
		AbortOnInvalidIP bool `yaml:"AbortOnInvalidIP" default:"true"`
		MaxHopIndex      int  `yaml:"MaxHopIndex" default:"64"`
	}

	//AnycastStaticCfg controls the edge subnet clustering
	AnycastStaticCfg struct {
		SubnetLengths   []int `yaml:"SubnetLengths" default:"[20,24,26,28,30]"`
		CanonicalLength int   `yaml:"CanonicalLength" default:"30"`
	}

	//GeolocationStaticCfg controls the site geolocator and its data sources
	GeolocationStaticCfg struct {
		NearRTT            float64             `yaml:"NearRTT" default:"3"`
		ClusterRadius      float64             `yaml:"ClusterRadius" default:"100"`
		EstSpeed           float64             `yaml:"EstSpeed" default:"100"`
		EmpSpeed           float64             `yaml:"EmpSpeed" default:"66.7"`
		MinRTTDiff         float64             `yaml:"MinRTTDiff" default:"0.3"`
		FallbackCandidates int                 `yaml:"FallbackCandidates" default:"3"`
		IPDatabase         string              `yaml:"IPDatabase"`
		HintLexicon        string              `yaml:"HintLexicon"`
		CacheExpiration    time.Duration       `yaml:"CacheExpiration" default:"1h"`
		ReverseDNS         ReverseDNSStaticCfg `yaml:"ReverseDNS"`
	}

	//ReverseDNSStaticCfg controls PTR lookups for hops the IP database misses
	ReverseDNSStaticCfg struct {
		Enabled bool          `yaml:"Enabled"`
		Server  string        `yaml:"Server" default:"127.0.0.1:53"`
		Timeout time.Duration `yaml:"Timeout" default:"2s"`
	}

	//RegistryStaticCfg points at the vantage point and replica site data
	RegistryStaticCfg struct {
		VantagePoints string            `yaml:"VantagePoints"`
		ReplicaSites  string            `yaml:"ReplicaSites"`
		CustomerToCDN map[string]string `yaml:"CustomerToCDN"`
	}

	//OutputStaticCfg controls where reports go
	OutputStaticCfg struct {
		Directory string `yaml:"Directory" default:"./output"`
		Threads   int    `yaml:"Threads"`
		ToMongoDB bool   `yaml:"ToMongoDB"`
	}
)

// loadStaticConfig attempts to parse a config file
func loadStaticConfig(cfgPath string) (*StaticCfg, error) {
	var config = new(StaticCfg)
	if err := defaults.Set(config); err != nil {
		return config, err
	}

	_, err := os.Stat(cfgPath)
	if os.IsNotExist(err) {
		return config, err
	}

	cfgFile, err := ioutil.ReadFile(cfgPath)
	if err != nil {
		return config, err
	}

	if err := parseStaticConfig(cfgFile, config); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read config: %s\n", err.Error())
		return config, err
	}

	// grab the version constants set by the build process
	config.Version = Version
	config.ExactVersion = ExactVersion

	return config, nil
}

// parseStaticConfig overlays yaml onto config, which should already hold
// its defaults
func parseStaticConfig(cfgFile []byte, config *StaticCfg) error {
	if err := yaml.Unmarshal(cfgFile, config); err != nil {
		return err
	}

	// expand env variables, config is a pointer
	// so we have to call elem on the reflect value
	expandConfig(reflect.ValueOf(config).Elem())

	// set the socket time out in hours
	config.MongoDB.SocketTimeout *= time.Hour

	return nil
}
