package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io/ioutil"

	"github.com/activecm/lgprobe/pkg/replica"
	"github.com/activecm/lgprobe/util"
	"github.com/activecm/mgosec"
	"github.com/blang/semver"
	"github.com/pkg/errors"
)

type (
	//RunningCfg holds configuration options that are parsed at run time
	RunningCfg struct {
		MongoDB  MongoDBRunningCfg
		Registry RegistryRunningCfg
		Version  semver.Version
	}

	//MongoDBRunningCfg holds parsed information for connecting to MongoDB
	MongoDBRunningCfg struct {
		AuthMechanismParsed mgosec.AuthMechanism
		TLS                 struct {
			TLSConfig *tls.Config
		}
	}

	//RegistryRunningCfg holds the effective host to CDN provider mapping:
	//the built in defaults overridden by the static config
	RegistryRunningCfg struct {
		CustomerToCDN map[string]string
	}
)

// initRunningConfig validates the static config and derives the running config
func initRunningConfig(static *StaticCfg, running *RunningCfg) error {
	if err := validateStaticConfig(static); err != nil {
		return err
	}

	//parse the tls configuration
	if static.MongoDB.TLS.Enabled {
		tlsConf := &tls.Config{}
		if !static.MongoDB.TLS.VerifyCertificate {
			tlsConf.InsecureSkipVerify = true
		}
		if len(static.MongoDB.TLS.CAFile) > 0 {
			pem, err := ioutil.ReadFile(static.MongoDB.TLS.CAFile)
			if err != nil {
				return errors.Wrap(err, "could not read MongoDB CA file")
			}
			tlsConf.RootCAs = x509.NewCertPool()
			tlsConf.RootCAs.AppendCertsFromPEM(pem)
		}
		running.MongoDB.TLS.TLSConfig = tlsConf
	}

	//parse out the mongo authentication mechanism
	authMechanism, err := mgosec.ParseAuthMechanism(
		static.MongoDB.AuthMechanism,
	)
	if err != nil {
		authMechanism = mgosec.None
		fmt.Println("[!] Could not parse MongoDB authentication mechanism")
	}
	running.MongoDB.AuthMechanismParsed = authMechanism

	running.Registry.CustomerToCDN = make(map[string]string, len(replica.DefaultCustomerToCDN))
	for host, provider := range replica.DefaultCustomerToCDN {
		running.Registry.CustomerToCDN[host] = provider
	}
	for host, provider := range static.Registry.CustomerToCDN {
		running.Registry.CustomerToCDN[host] = provider
	}

	running.Version, err = semver.ParseTolerant(static.Version)
	return errors.Wrapf(err, "invalid version %q", static.Version)
}

// validateStaticConfig rejects settings the analysis cannot run with
func validateStaticConfig(static *StaticCfg) error {
	if static.Log.LogLevel < 0 || static.Log.LogLevel > 3 {
		return errors.Errorf("LogLevel must be between 0 and 3, got %d", static.Log.LogLevel)
	}
	if static.Parser.MaxHopIndex <= 0 {
		return errors.Errorf("MaxHopIndex must be positive, got %d", static.Parser.MaxHopIndex)
	}

	for _, length := range static.Anycast.SubnetLengths {
		if length < 0 || length > 128 {
			return errors.Errorf("subnet length /%d is out of range", length)
		}
	}
	if !util.IntInSlice(static.Anycast.CanonicalLength, static.Anycast.SubnetLengths) {
		return errors.Errorf("CanonicalLength /%d must be one of SubnetLengths %v",
			static.Anycast.CanonicalLength, static.Anycast.SubnetLengths)
	}

	geo := static.Geolocation
	if geo.EstSpeed <= 0 || geo.EmpSpeed <= 0 {
		return errors.New("EstSpeed and EmpSpeed must be positive")
	}
	if geo.NearRTT < 0 || geo.ClusterRadius < 0 || geo.MinRTTDiff < 0 || geo.FallbackCandidates < 0 {
		return errors.New("geolocation thresholds must not be negative")
	}
	if static.Output.Threads < 0 {
		return errors.Errorf("Threads must not be negative, got %d", static.Output.Threads)
	}
	return nil
}
