package config

import (
	"os"

	"github.com/spf13/viper"
)

// Global configuration keys, readable from ~/.gitstack.yaml or GITSTACK_*
// environment variables.
const (
	keyTrunk    = "trunk"
	keyRemote   = "remote"
	keyAutoPush = "autopush"
)

// InitGlobal loads the global config file and environment overrides.
// When cfgFile is empty the default ~/.gitstack.yaml is used. A missing
// config file is not an error.
func InitGlobal(cfgFile string) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".gitstack")
		}
	}

	viper.SetEnvPrefix("GITSTACK")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

// GlobalTrunkDefault returns the globally configured trunk name, or ""
func GlobalTrunkDefault() string {
	return viper.GetString(keyTrunk)
}

// GlobalRemoteDefault returns the globally configured remote name, or ""
func GlobalRemoteDefault() string {
	return viper.GetString(keyRemote)
}

// GlobalAutoPush reports whether restacked branches should be pushed by
// default, without requiring --push
func GlobalAutoPush() bool {
	return viper.GetBool(keyAutoPush)
}
