package hostanalysis

import (
	"sort"

	"github.com/activecm/lgprobe/config"
	"github.com/activecm/lgprobe/database"
	"github.com/activecm/lgprobe/pkg/hostname"
	"github.com/globalsign/mgo"
	"github.com/globalsign/mgo/bson"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type (
	//reportDoc is the MongoDB form of a Report. Destination IPs and city
	//keys contain dots, so keyed maps become slices.
	reportDoc struct {
		RunID               string                   `bson:"run_id"`
		Host                string                   `bson:"host"`
		Provider            string                   `bson:"provider"`
		Skipped             bool                     `bson:"skipped"`
		SkipReason          string                   `bson:"skip_reason,omitempty"`
		NumLogs             int                      `bson:"num_logs"`
		NumPurified         int                      `bson:"num_purified"`
		AnycastCandidates   []CandidateSite          `bson:"anycast_candidates"`
		SuccessfulSites     []LocatedSite            `bson:"successful_sites"`
		NumUniqueLocations  int                      `bson:"num_unique_locations"`
		LocatedSitesSubnets []locatedSubnetsDoc      `bson:"located_sites_subnets"`
		FailedCandidates    []FailedCandidate        `bson:"failed_candidates"`
		PerVPAnalysis       []*VPAnalysis            `bson:"per_vp_analysis"`
		Hostnames           []hostname.Entry         `bson:"hostnames"`
		DstRedirection      []hostname.RedirectEntry `bson:"dst_redirection"`
	}

	locatedSubnetsDoc struct {
		Site    string   `bson:"site"`
		Subnets []string `bson:"subnets"`
	}

	//siteDoc is one located site in the sites collection
	siteDoc struct {
		RunID       string `bson:"run_id"`
		Host        string `bson:"host"`
		Provider    string `bson:"provider"`
		LocatedSite `bson:",inline"`
	}

	//MongoRepository upserts reports into the reports collection and
	//their located sites into the sites collection
	MongoRepository struct {
		db     *database.DB
		conf   *config.Config
		log    *log.Logger
		writer *database.MgoBulkWriter
	}
)

//NewMongoRepository creates a report repository on the selected database
func NewMongoRepository(db *database.DB, conf *config.Config, logger *log.Logger) *MongoRepository {
	return &MongoRepository{
		db:   db,
		conf: conf,
		log:  logger,
	}
}

//Prepare creates the collections and starts the bulk writer
func (r *MongoRepository) Prepare() error {
	err := r.db.EnsureCollection(r.conf.T.Reports.ReportTable, []mgo.Index{
		{Key: []string{"host"}, Unique: true},
		{Key: []string{"run_id"}},
		{Key: []string{"provider"}},
	})
	if err != nil {
		return errors.Wrap(err, "creating report collection")
	}

	err = r.db.EnsureCollection(r.conf.T.Reports.SiteTable, []mgo.Index{
		{Key: []string{"host", "dest_ip", "site_index"}, Unique: true},
		{Key: []string{"location.country_code", "location.city"}},
	})
	if err != nil {
		return errors.Wrap(err, "creating site collection")
	}

	r.writer = database.NewBulkWriter(r.db, r.log, "hostanalysis")
	r.writer.Start()
	return nil
}

//Save queues the report for writing
func (r *MongoRepository) Save(report *Report) error {
	if r.writer == nil {
		return errors.New("mongo repository used before Prepare")
	}
	r.writer.Collect(r.changes(report))
	return nil
}

//Close flushes queued reports
func (r *MongoRepository) Close() error {
	if r.writer == nil {
		return nil
	}
	failed := r.writer.Close()
	r.writer = nil
	if failed > 0 {
		return errors.Errorf("%d bulk writes failed", failed)
	}
	return nil
}

//changes replaces the host's report and located sites
func (r *MongoRepository) changes(report *Report) database.BulkChanges {
	selector := bson.M{"host": report.Host}

	sites := []database.BulkChange{{Selector: selector, Remove: true, SelectAll: true}}
	for _, site := range report.SuccessfulSites {
		sites = append(sites, database.BulkChange{
			Selector: bson.M{"host": report.Host, "dest_ip": site.DestIP, "site_index": site.SiteIndex},
			Update: siteDoc{
				RunID:       report.RunID,
				Host:        report.Host,
				Provider:    report.Provider,
				LocatedSite: site,
			},
		})
	}

	return database.BulkChanges{
		r.conf.T.Reports.ReportTable: {{Selector: selector, Update: newReportDoc(report)}},
		r.conf.T.Reports.SiteTable:   sites,
	}
}

func newReportDoc(report *Report) reportDoc {
	doc := reportDoc{
		RunID:              report.RunID,
		Host:               report.Host,
		Provider:           report.Provider,
		Skipped:            report.Skipped,
		SkipReason:         report.SkipReason,
		NumLogs:            report.NumLogs,
		NumPurified:        report.NumPurified,
		AnycastCandidates:  report.Candidates(),
		SuccessfulSites:    report.SuccessfulSites,
		NumUniqueLocations: report.NumUniqueLocations,
		FailedCandidates:   report.FailedCandidates,
		Hostnames:          report.Hostnames,
		DstRedirection:     report.DstRedirection,
	}

	keys := make([]string, 0, len(report.LocatedSitesSubnets))
	for key := range report.LocatedSitesSubnets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		doc.LocatedSitesSubnets = append(doc.LocatedSitesSubnets, locatedSubnetsDoc{
			Site:    key,
			Subnets: report.LocatedSitesSubnets[key],
		})
	}

	for _, analysis := range report.PerVPAnalysis {
		doc.PerVPAnalysis = append(doc.PerVPAnalysis, analysis)
	}
	sort.Slice(doc.PerVPAnalysis, func(i, j int) bool {
		return doc.PerVPAnalysis[i].VPIndex < doc.PerVPAnalysis[j].VPIndex
	})
	return doc
}
