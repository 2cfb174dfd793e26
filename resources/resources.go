package resources

import (
	"fmt"
	"os"

	"github.com/activecm/lgprobe/config"
	"github.com/activecm/lgprobe/database"
	"github.com/activecm/lgprobe/pkg/geo"
	log "github.com/sirupsen/logrus"
)

type (
	// Resources provides a data structure for passing system Resources
	Resources struct {
		Config   *config.Config
		Log      *log.Logger
		DB       *database.DB
		Resolver geo.Resolver
	}
)

// InitResources grabs the configuration file and intitializes the configuration data
// returning a *Resources object which has all of the necessary configuration information
func InitResources(userConfig string) *Resources {
	conf, err := config.GetConfig(userConfig)
	if err != nil {
		fmt.Fprintf(os.Stdout, "Failed to config: %s\n", err.Error())
		os.Exit(-1)
	}

	// Fire up the logging system
	log := initLogger(&conf.S.Log)

	if conf.S.Log.LogToFile {
		if err := addFileLogger(log, conf.S.Log.LogPath); err != nil {
			fmt.Fprintf(os.Stdout, "Failed to create file logger: %s\n", err.Error())
			os.Exit(-1)
		}
	}

	// the database is only needed for report storage and database logging
	var db *database.DB
	if conf.S.Output.ToMongoDB || conf.S.Log.LogToDB {
		db, err = database.NewDB(conf, log)
		if err != nil {
			fmt.Printf("Failed to connect to database: %s\n", err.Error())
			os.Exit(-1)
		}
		db.SelectDB(conf.S.MongoDB.Database)

		//Begin logging to the database
		if conf.S.Log.LogToDB {
			err = addMongoLogger(log, db.Session, conf.S.MongoDB.Database, conf.T.Log.LogTable)
			if err != nil {
				fmt.Printf("Failed to connect database logger: %s\n", err.Error())
				os.Exit(-1)
			}
		}
	}

	resolver, err := initResolver(&conf.S.Geolocation, log)
	if err != nil {
		fmt.Printf("Failed to load geolocation data: %s\n", err.Error())
		os.Exit(-1)
	}

	//bundle up the system resources
	r := &Resources{
		Config:   conf,
		Log:      log,
		DB:       db,
		Resolver: resolver,
	}
	return r
}
