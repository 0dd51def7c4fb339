package env

import (
	"flag"
	"os"
	"time"
)

// LogToStderr makes glog write to stderr unless -logtostderr is given.
func LogToStderr() {
	flag.Set("logtostderr", "true")
}

// Config is the configuration of a stream scanning daemon.
type Config struct {
	// Formats is the YAML file declaring the formats.
	Formats string
	// Source is the byte source: a device or file path, "-" for stdin,
	// or a ws:// URL.
	Source string
	// Sink is the URL matches are published to, see publish.NewSink.
	Sink string
	// Metrics is the listen address for /metrics, disabled when empty.
	Metrics string
	// Device names this machine in published matches.
	Device string
	// Interval is the polling interval of the loop.
	Interval time.Duration
}

var defaultConfig = Config{
	Formats:  "formats.yaml",
	Source:   "-",
	Interval: 100 * time.Millisecond,
}

func init() {
	if val := os.Getenv("STREAMS_FORMATS"); val != "" {
		defaultConfig.Formats = val
	}
	if val := os.Getenv("STREAMS_SOURCE"); val != "" {
		defaultConfig.Source = val
	}
	if val := os.Getenv("STREAMS_SINK"); val != "" {
		defaultConfig.Sink = val
	}
	if val := os.Getenv("STREAMS_METRICS"); val != "" {
		defaultConfig.Metrics = val
	}
	if val := os.Getenv("STREAMS_DEVICE"); val != "" {
		defaultConfig.Device = val
	}
}

// SetupFormatsFlag sets up the -formats flag only.
func SetupFormatsFlag() {
	flag.StringVar(&defaultConfig.Formats, "formats", defaultConfig.Formats, "YAML file declaring the formats.")
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	SetupFormatsFlag()
	flag.StringVar(&defaultConfig.Source, "source", defaultConfig.Source, "Byte source: device path, - for stdin, or ws:// URL.")
	flag.StringVar(&defaultConfig.Sink, "sink", defaultConfig.Sink, "Sink URL: mqtt://, nats://, redis:// or log:.")
	flag.StringVar(&defaultConfig.Metrics, "metrics", defaultConfig.Metrics, "Listen address for Prometheus metrics.")
	flag.StringVar(&defaultConfig.Device, "device", defaultConfig.Device, "Device name in published matches, defaults to machine id.")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Polling interval.")
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

// DeviceName returns Device, or DeviceID when unset.
func (c *Config) DeviceName() string {
	if c.Device != "" {
		return c.Device
	}
	return DeviceID()
}
