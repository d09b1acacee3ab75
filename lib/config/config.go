package config

import (
	"errors"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/viper"

	"github.com/udpchat/udpchat/lib/util"
	"github.com/udpchat/udpchat/lib/util/logger"
)

var (
	CfgFile string
	log     = logger.GetLogger()
)

var ErrInvalidConfig = errors.New("invalid configuration")

const UDPCHAT_BASE_DIR = ".udpchat"

// InitConfig prepares viper. A missing default config file is fine; a
// missing file named with --config is an error.
func InitConfig() error {
	if CfgFile != "" {
		if !util.CheckFileExists(CfgFile) {
			return oops.Errorf("config file %s does not exist or is not a regular file", CfgFile)
		}
		viper.SetConfigFile(CfgFile)
	} else {
		viper.AddConfigPath(BuildDirPath())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("UDPCHAT")
	viper.AutomaticEnv()

	setDefaults()

	return handleConfigFile()
}

func setDefaults() {
	d := DefaultChatConfig()
	viper.SetDefault("host", d.Host)
	viper.SetDefault("port", d.Port)
	viper.SetDefault("connect_host", d.ConnectHost)
	viper.SetDefault("connect_port", d.ConnectPort)
	viper.SetDefault("quit_token", d.QuitToken)
	viper.SetDefault("max_datagram_size", d.MaxDatagramSize)
	viper.SetDefault("log_level", d.LogLevel)
}

func handleConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && CfgFile == "" {
			log.Debug("No config file found, using defaults")
			return nil
		}
		return oops.Wrapf(err, "error reading config file")
	}
	log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	return nil
}

// NewChatConfigFromViper builds a ChatConfig from the current viper state
// and validates it.
func NewChatConfigFromViper() (*ChatConfig, error) {
	cfg := &ChatConfig{
		Host:            viper.GetString("host"),
		Port:            viper.GetInt("port"),
		ConnectHost:     viper.GetString("connect_host"),
		ConnectPort:     viper.GetInt("connect_port"),
		QuitToken:       viper.GetString("quit_token"),
		MaxDatagramSize: viper.GetInt("max_datagram_size"),
		LogLevel:        viper.GetString("log_level"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func BuildDirPath() string {
	return filepath.Join(util.UserHome(), UDPCHAT_BASE_DIR)
}
