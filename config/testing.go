package config

import (
	"github.com/creasty/defaults"
)

const testConfig = `
MongoDB:
    AuthenticationMechanism: null
    SocketTimeout: 2
    TLS:
        Enable: false
        VerifyCertificate: false
        CAFile: null
    Database: lgprobe-test
LogConfig:
    LogLevel: 3
    LogPath: null
    LogToFile: false
    LogToDB: false
Parser:
    AbortOnInvalidIP: true
    MaxHopIndex: 64
Anycast:
    SubnetLengths: [20, 24, 26, 28, 30]
    CanonicalLength: 30
Geolocation:
    NearRTT: 3
    ClusterRadius: 100
    EstSpeed: 100
    EmpSpeed: 66.7
    MinRTTDiff: 0.3
    FallbackCandidates: 3
    ReverseDNS:
        Enabled: false
Registry:
    CustomerToCDN:
        example.com: TestCDN
Output:
    Threads: 2
`

// LoadTestingConfig loads the hard coded testing config
func LoadTestingConfig(mongoURI string) (*Config, error) {
	config := &Config{}

	// Initialize table config to the default values
	if err := defaults.Set(&config.T); err != nil {
		return nil, err
	}

	// Initialize static config to the default values
	if err := defaults.Set(&config.S); err != nil {
		return nil, err
	}

	config.S.MongoDB.ConnectionString = mongoURI

	// Deserialize the yaml file contents into the static config
	if err := parseStaticConfig([]byte(testConfig), &config.S); err != nil {
		return nil, err
	}

	config.S.Version = "v0.0.0+testing"
	config.S.ExactVersion = "v0.0.0+testing"

	// Use the static config to initialize the running config
	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return nil, err
	}

	return config, nil
}
