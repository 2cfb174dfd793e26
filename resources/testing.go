package resources

import (
	"os"
	"testing"

	"github.com/activecm/lgprobe/config"
	"github.com/activecm/lgprobe/database"
	"github.com/activecm/lgprobe/pkg/geo"
)

//MongoURIEnv names the environment variable holding the MongoDB URI used by
//integration tests
const MongoURIEnv = "LGPROBE_TEST_MONGODB"

//InitTestResources creates a resource bundle without a database, using the
//testing config and the given resolver
func InitTestResources(t *testing.T, resolver geo.Resolver) *Resources {
	conf, err := config.LoadTestingConfig("")
	if err != nil {
		t.Fatal(err)
	}

	if resolver == nil {
		resolver = geo.NewResolver(nil)
	}

	return &Resources{
		Config:   conf,
		Log:      initLogger(&conf.S.Log),
		Resolver: resolver,
	}
}

//InitIntegrationTestingResources creates a default testing
//resource bundle for use with integration testing.
//The MongoDB server is contacted via the URI in LGPROBE_TEST_MONGODB.
func InitIntegrationTestingResources(t *testing.T) *Resources {
	if testing.Short() {
		t.Skip()
	}

	mongoURI := os.Getenv(MongoURIEnv)
	if mongoURI == "" {
		t.Skip(MongoURIEnv + " is not set")
	}

	conf, err := config.LoadTestingConfig(mongoURI)
	if err != nil {
		t.Fatal(err)
	}

	// Fire up the logging system
	log := initLogger(&conf.S.Log)

	// Allows code to interact with the database
	db, err := database.NewDB(conf, log)
	if err != nil {
		t.Fatal(err)
	}
	db.SelectDB(conf.S.MongoDB.Database)

	//bundle up the system resources
	r := &Resources{
		Config:   conf,
		Log:      log,
		DB:       db,
		Resolver: geo.NewResolver(nil),
	}
	return r
}
