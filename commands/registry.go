package commands

import (
	"github.com/activecm/lgprobe/pkg/replica"
	"github.com/activecm/lgprobe/pkg/vantage"
	"github.com/activecm/lgprobe/resources"
	"github.com/activecm/lgprobe/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// registries holds the vantage point and replica site snapshots used by a run
type registries struct {
	vps     *vantage.Registry
	catalog replica.Catalog
}

// loadRegistries reads the configured registry files
func loadRegistries(res *resources.Resources) (*registries, error) {
	conf := res.Config.S.Registry
	if conf.VantagePoints == "" {
		return nil, errors.New("Registry.VantagePoints is not configured")
	}
	if conf.ReplicaSites == "" {
		return nil, errors.New("Registry.ReplicaSites is not configured")
	}
	for _, path := range []string{conf.VantagePoints, conf.ReplicaSites} {
		if !util.Exists(path) {
			return nil, errors.Errorf("registry file %s does not exist", path)
		}
	}

	vps, err := vantage.Load(conf.VantagePoints)
	if err != nil {
		return nil, errors.Wrap(err, "loading vantage points")
	}

	catalog, err := replica.LoadCatalog(conf.ReplicaSites)
	if err != nil {
		return nil, errors.Wrap(err, "loading replica sites")
	}

	res.Log.WithFields(log.Fields{
		"VantagePoints": vps.Len(),
		"Providers":     len(catalog.Providers()),
	}).Info("Loaded registries")

	return &registries{vps: vps, catalog: catalog}, nil
}
