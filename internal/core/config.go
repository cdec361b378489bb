package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config contains all of the configuration options available to the server.
type Config struct {
	// Hostname or IP address on which the server will listen for connections.
	// Blank binds to all interfaces.
	Hostname string `mapstructure:"hostname"`
	// Maximum number of concurrent connections the server will allow.
	MaxConnections int `mapstructure:"max_connections"`

	LobbyServer struct {
		// Port on which the lobby server will listen.
		Port int `mapstructure:"port"`
	} `mapstructure:"lobby_server"`

	Logging struct {
		// Minimum level of a log required to be written. Options: debug, info, warn, error
		LogLevel string `mapstructure:"log_level"`
		// Full path to file to which logs will be written. Blank will write to stdout.
		LogFilePath string `mapstructure:"log_file_path"`
	} `mapstructure:"logging"`

	Debugging struct {
		// Enable the pprof HTTP server.
		PprofEnabled bool `mapstructure:"pprof_enabled"`
		// Port on which the pprof server will be started if enabled.
		PprofPort int `mapstructure:"pprof_port"`
		// Log parsed client messages to the logger at debug level.
		PacketLoggingEnabled bool `mapstructure:"packet_logging_enabled"`
	} `mapstructure:"debugging"`
}

const envVarPrefix = "GOMOKUD"

// DefaultPort is the well-known lobby port used when neither the config
// file nor the -port flag specifies one.
const DefaultPort = 4396

// LoadConfig initializes Viper with the contents of the config file under
// configPath. A missing config file is not an error; the declared defaults
// are used so that the server can be started with no configuration at all.
func LoadConfig(configPath string) (*Config, error) {
	viper.AddConfigPath(configPath)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("hostname", "")
	viper.SetDefault("max_connections", 1000)
	viper.SetDefault("lobby_server.port", DefaultPort)
	viper.SetDefault("logging.log_level", "info")
	viper.SetDefault("logging.log_file_path", "")
	viper.SetDefault("debugging.pprof_enabled", false)
	viper.SetDefault("debugging.pprof_port", 6060)
	viper.SetDefault("debugging.packet_logging_enabled", false)

	viper.SetEnvPrefix(envVarPrefix)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// This allows us to set nested yaml config options through environment
	// variables. For example, lobby_server.port can be set using:
	// <envVarPrefix>_LOBBY_SERVER_PORT
	for _, k := range viper.AllKeys() {
		envVar := strings.ReplaceAll(strings.ToUpper(k), ".", "_")
		if err := viper.BindEnv(k, envVarPrefix+"_"+envVar); err != nil {
			return nil, fmt.Errorf("error binding %s to %s: %w", k, envVarPrefix+"_"+envVar, err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config object: %w", err)
	}
	return config, nil
}
