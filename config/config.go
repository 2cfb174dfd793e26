package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"reflect"

	"github.com/creasty/defaults"
)

var (
	//Version is filled at compile time with the tagged version of lgprobe
	Version = "v0.0.0-dev"

	//ExactVersion is filled at compile time with the git describe output
	ExactVersion = "v0.0.0-dev"
)

type (
	//Config holds the configuration for the running system
	Config struct {
		R RunningCfg
		S StaticCfg
		T TableCfg
	}
)

// GetConfig retrieves a configuration in order of precedence
func GetConfig(cfgPath string) (*Config, error) {
	if cfgPath != "" {
		return LoadConfig(cfgPath)
	}

	// Get the user's homedir
	user, err := user.Current()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not get user info: %s\n", err.Error())
	} else {
		userPath := filepath.Join(user.HomeDir, ".lgprobe", "config.yaml")
		if _, err := os.Stat(userPath); err == nil {
			return LoadConfig(userPath)
		}
	}

	// If none of the other configs have worked, go for the global config
	return LoadConfig("/etc/lgprobe/config.yaml")
}

// LoadConfig initializes every section to its defaults, then overlays the
// static config file and derives the running config from it
func LoadConfig(cfgPath string) (*Config, error) {
	config := new(Config)

	if err := defaults.Set(&config.T); err != nil {
		return config, err
	}

	static, err := loadStaticConfig(cfgPath)
	if err != nil {
		return config, err
	}
	config.S = *static

	if err := initRunningConfig(&config.S, &config.R); err != nil {
		return config, err
	}

	return config, nil
}

// expandConfig expands environment variables in config strings
func expandConfig(reflected reflect.Value) {
	for i := 0; i < reflected.NumField(); i++ {
		f := reflected.Field(i)
		// process sub configs
		if f.Kind() == reflect.Struct {
			expandConfig(f)
		} else if f.Kind() == reflect.String {
			f.SetString(os.ExpandEnv(f.String()))
		} else if f.Kind() == reflect.Slice && f.Type().Elem().Kind() == reflect.String {
			strs := f.Interface().([]string)
			for i, str := range strs {
				strs[i] = os.ExpandEnv(str)
			}
			f.Set(reflect.ValueOf(strs))
		}
	}
}
