package sh

import (
	"flag"
	"os"
	"strconv"

	"github.com/robotalks/romi.go/pkg/collector"
	"github.com/robotalks/romi.go/pkg/transport"
)

// Config provides the options of the host console.
type Config struct {
	// Port is a serial port name or a console URL (ws://host:port/console).
	Port string
	Baud int

	// MQTTURL is the broker telemetry is read from.
	// e.g. mqtt://host:port/topic-prefix
	MQTTURL string

	// LogDir is where collected batches are saved.
	LogDir string
}

var defaultConfig = Config{
	Baud:    transport.DefaultBaudRate,
	MQTTURL: "mqtt://localhost:1883/",
	LogDir:  collector.DefaultDir,
}

func init() {
	if val := os.Getenv("ROMI_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("ROMI_BAUD"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			defaultConfig.Baud = n
		}
	}
	if val := os.Getenv("ROMI_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("ROMI_LOG_DIR"); val != "" {
		defaultConfig.LogDir = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port or console URL to open.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Serial baud rate.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL for telemetry.")
	flag.StringVar(&defaultConfig.LogDir, "log-dir", defaultConfig.LogDir, "Directory of collected data.")
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}
