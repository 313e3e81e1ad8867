package romi

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/romi.go/pkg/cotask"
	fx "github.com/robotalks/romi.go/pkg/framework"
	"github.com/robotalks/romi.go/pkg/tasks/motor"
	"github.com/robotalks/romi.go/pkg/tasks/observer"
	"github.com/robotalks/romi.go/pkg/transport"
)

// Console kinds.
const (
	ConsoleStdio     = "stdio"
	ConsoleSerial    = "serial"
	ConsoleWebsocket = "websocket"
)

// Control laws.
const (
	LawProportional = "p"
	LawPI           = "pi"
	LawBangBang     = "bangbang"
)

// Config provides the options of a controller.
type Config struct {
	// Console is one of stdio, serial or websocket.
	Console    string
	Port       string
	Baud       int
	ListenAddr string

	MotorPeriod time.Duration
	QueueSize   int
	Law         string
	Ki          float64
	Measure     string
	Gain        float64
	Setpoint    float64
	LineGain    float64
	// LineFollow enables the line sensor array.
	LineFollow bool

	// ObserverModel is a YAML model file; empty selects the built-in model.
	ObserverModel  string
	ObserverReport bool
	// EffortScale converts effort percent into observer input units.
	EffortScale float64

	// TuningFile is watched for parameter updates when set.
	TuningFile string

	// MQTTURL enables telemetry when set.
	// e.g. mqtt://host:port/topic-prefix
	MQTTURL           string
	TelemetryInterval time.Duration

	FaultPolicy   string
	OverrunPolicy string
}

var defaultConfig = Config{
	Console:           ConsoleStdio,
	Baud:              transport.DefaultBaudRate,
	ListenAddr:        ":8080",
	MotorPeriod:       20 * time.Millisecond,
	QueueSize:         50,
	Law:               LawProportional,
	Measure:           "velocity",
	Gain:              0.5,
	Setpoint:          100,
	LineGain:          2,
	ObserverReport:    true,
	EffortScale:       0.031,
	TelemetryInterval: 500 * time.Millisecond,
	FaultPolicy:       cotask.FaultHalt.String(),
	OverrunPolicy:     cotask.OverrunLog.String(),
}

func envFloat(name string, v *float64) {
	if val := os.Getenv(name); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*v = f
		}
	}
}

func init() {
	if val := os.Getenv("ROMI_CONSOLE"); val != "" {
		defaultConfig.Console = val
	}
	if val := os.Getenv("ROMI_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("ROMI_MQTT_URL"); val != "" {
		defaultConfig.MQTTURL = val
	}
	if val := os.Getenv("ROMI_OBSERVER_MODEL"); val != "" {
		defaultConfig.ObserverModel = val
	}
	if val := os.Getenv("ROMI_TUNING_FILE"); val != "" {
		defaultConfig.TuningFile = val
	}
	envFloat("ROMI_GAIN", &defaultConfig.Gain)
	envFloat("ROMI_SETPOINT", &defaultConfig.Setpoint)
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Console, "console", defaultConfig.Console, "Console transport: stdio, serial or websocket.")
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port of the serial console.")
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Baud rate of the serial console.")
	flag.StringVar(&defaultConfig.ListenAddr, "listen", defaultConfig.ListenAddr, "Listen address of the websocket console.")
	flag.DurationVar(&defaultConfig.MotorPeriod, "period", defaultConfig.MotorPeriod, "Motor and observer task period.")
	flag.IntVar(&defaultConfig.QueueSize, "samples", defaultConfig.QueueSize, "Samples recorded per batch.")
	flag.StringVar(&defaultConfig.Law, "law", defaultConfig.Law, "Control law: p, pi or bangbang.")
	flag.Float64Var(&defaultConfig.Ki, "ki", defaultConfig.Ki, "Integral gain of the pi law.")
	flag.StringVar(&defaultConfig.Measure, "measure", defaultConfig.Measure, "Regulated measurement: velocity or position.")
	flag.Float64Var(&defaultConfig.Gain, "gain", defaultConfig.Gain, "Initial proportional gain.")
	flag.Float64Var(&defaultConfig.Setpoint, "setpoint", defaultConfig.Setpoint, "Initial setpoint.")
	flag.Float64Var(&defaultConfig.LineGain, "kp-line", defaultConfig.LineGain, "Initial line following gain.")
	flag.BoolVar(&defaultConfig.LineFollow, "line", defaultConfig.LineFollow, "Enable the line sensor array.")
	flag.StringVar(&defaultConfig.ObserverModel, "observer-model", defaultConfig.ObserverModel, "Observer model YAML file.")
	flag.BoolVar(&defaultConfig.ObserverReport, "observer-report", defaultConfig.ObserverReport, "Print observer outputs on the console.")
	flag.StringVar(&defaultConfig.TuningFile, "tuning", defaultConfig.TuningFile, "Tuning YAML file to watch.")
	flag.StringVar(&defaultConfig.MQTTURL, "mqtt", defaultConfig.MQTTURL, "MQTT broker URL for telemetry.")
	flag.DurationVar(&defaultConfig.TelemetryInterval, "telemetry-interval", defaultConfig.TelemetryInterval, "Telemetry period.")
	flag.StringVar(&defaultConfig.FaultPolicy, "fault", defaultConfig.FaultPolicy, "Task fault policy: halt or isolate.")
	flag.StringVar(&defaultConfig.OverrunPolicy, "overrun", defaultConfig.OverrunPolicy, "Timing overrun policy: log or halt.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewLaw creates a fresh control law instance.
func (c *Config) NewLaw() (motor.ControlLaw, error) {
	switch c.Law {
	case LawProportional, "":
		return motor.Proportional{}, nil
	case LawPI:
		return &motor.PI{Ki: c.Ki, Dt: c.MotorPeriod.Seconds()}, nil
	case LawBangBang:
		return motor.BangBang{}, nil
	}
	return nil, fx.Misconfigured("control law", fmt.Sprintf("unknown law %q", c.Law))
}

// LoadModel loads the observer model.
func (c *Config) LoadModel() (*observer.Model, error) {
	if c.ObserverModel == "" {
		return observer.DefaultModel(), nil
	}
	return observer.LoadModel(c.ObserverModel)
}

// NewConsole opens the console transport. The returned Runnable pumps it.
func (c *Config) NewConsole() (transport.Transport, fx.Runnable, error) {
	switch c.Console {
	case ConsoleStdio, "":
		s := transport.Stdio()
		return s, s, nil
	case ConsoleSerial:
		if c.Port == "" {
			return nil, nil, fx.Misconfigured("serial console", "no port")
		}
		s, err := transport.OpenSerial(c.Port, c.Baud)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	case ConsoleWebsocket:
		ws := transport.NewConsole(c.ListenAddr)
		return ws, ws, nil
	}
	return nil, nil, fx.Misconfigured("console", fmt.Sprintf("unknown console %q", c.Console))
}

// MustNewConsole opens the console and fails on error.
func (c *Config) MustNewConsole() (transport.Transport, fx.Runnable) {
	t, r, err := c.NewConsole()
	if err != nil {
		log.Fatalln(err)
	}
	return t, r
}

// MustNewRobot creates a Robot and fails on error.
func (c *Config) MustNewRobot(clock fx.TimeSource, console transport.Transport) *Robot {
	r, err := c.NewRobot(clock, console)
	if err != nil {
		log.Fatalln(err)
	}
	return r
}
