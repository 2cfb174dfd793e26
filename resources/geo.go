package resources

import (
	"github.com/activecm/lgprobe/config"
	"github.com/activecm/lgprobe/pkg/geo"
	"github.com/activecm/lgprobe/pkg/locate"
	"github.com/activecm/lgprobe/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// initResolver wires the configured geolocation sources into one cached
// resolver. Missing sources leave the matching lookups empty.
func initResolver(geoConfig *config.GeolocationStaticCfg, logger *log.Logger) (geo.Resolver, error) {
	var hints geo.HintLocator
	if geoConfig.HintLexicon != "" {
		if !util.Exists(geoConfig.HintLexicon) {
			return nil, errors.Errorf("hint lexicon %s does not exist", geoConfig.HintLexicon)
		}
		matcher, err := geo.LoadLexicon(geoConfig.HintLexicon)
		if err != nil {
			return nil, err
		}
		hints = matcher
	} else {
		logger.Warn("No hint lexicon configured, hostnames will not be geolocated")
	}

	var ips []geo.IPLocator
	if geoConfig.IPDatabase != "" {
		table, err := geo.LoadPrefixTable(geoConfig.IPDatabase)
		if err != nil {
			return nil, err
		}
		logger.WithFields(log.Fields{
			"Prefixes": table.Len(),
		}).Info("Loaded IP geolocation database")
		ips = append(ips, table)
	} else {
		logger.Warn("No IP database configured, addresses will not be geolocated")
	}

	if geoConfig.ReverseDNS.Enabled {
		if hints == nil {
			return nil, errors.New("reverse DNS geolocation requires a hint lexicon")
		}
		ips = append(ips, geo.NewPTRLocator(geoConfig.ReverseDNS.Server, geoConfig.ReverseDNS.Timeout, hints))
	}

	return geo.NewCachedResolver(geo.NewResolver(hints, ips...), geoConfig.CacheExpiration), nil
}

// LocateConfig converts the geolocation section into locator constants
func LocateConfig(geoConfig *config.GeolocationStaticCfg) locate.Config {
	return locate.Config{
		NearRTT:            geoConfig.NearRTT,
		ClusterRadius:      geoConfig.ClusterRadius,
		EstSpeed:           geoConfig.EstSpeed,
		EmpSpeed:           geoConfig.EmpSpeed,
		MinRTTDiff:         geoConfig.MinRTTDiff,
		FallbackCandidates: geoConfig.FallbackCandidates,
	}
}
