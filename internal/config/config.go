package config

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vango-dev/markup/internal/errors"
	"github.com/vango-dev/markup/pkg/markup"
)

const (
	// ConfigName is the configuration file name without extension.
	ConfigName = "markup"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "MARKUP"

	// DefaultPort is the default preview server port.
	DefaultPort = 3000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultIndent is the default number of spaces per nesting level.
	DefaultIndent = 2

	// DefaultOutput is the default publish directory.
	DefaultOutput = "dist"
)

// Publish targets.
const (
	TargetDisk = "disk"
	TargetS3   = "s3"
)

// Config is the complete project configuration.
type Config struct {
	Render  RenderConfig  `mapstructure:"render"`
	Server  ServerConfig  `mapstructure:"server"`
	Data    DataConfig    `mapstructure:"data"`
	Publish PublishConfig `mapstructure:"publish"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Tracing TracingConfig `mapstructure:"tracing"`

	// configFile is the file the settings were read from, if any.
	configFile string
}

// RenderConfig controls HTML output.
type RenderConfig struct {
	// Indent is the number of spaces per nesting level.
	Indent int `mapstructure:"indent"`

	// DropNil removes nil content instead of rendering it as empty text.
	DropNil bool `mapstructure:"drop_nil"`
}

// ServerConfig contains preview server settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// Watch reloads the context data file and notifies preview clients
	// when it changes.
	Watch bool `mapstructure:"watch"`
}

// DataConfig points at the render context data.
type DataConfig struct {
	// File is a YAML or JSON mapping used as the render context.
	File string `mapstructure:"file"`
}

// PublishConfig controls where rendered pages are stored.
type PublishConfig struct {
	// Target is "disk" or "s3".
	Target string `mapstructure:"target"`

	// Dir is the output directory for the disk target.
	Dir string `mapstructure:"dir"`

	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
	Region   string `mapstructure:"region"`
	Endpoint string `mapstructure:"endpoint"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Tracer string `mapstructure:"tracer"`
}

// setDefaults registers every key, which also makes AutomaticEnv see them
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("render.indent", DefaultIndent)
	v.SetDefault("render.drop_nil", false)
	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.watch", true)
	v.SetDefault("data.file", "")
	v.SetDefault("publish.target", TargetDisk)
	v.SetDefault("publish.dir", DefaultOutput)
	v.SetDefault("publish.bucket", "")
	v.SetDefault("publish.prefix", "")
	v.SetDefault("publish.region", "")
	v.SetDefault("publish.endpoint", "")
	v.SetDefault("metrics.namespace", "markup")
	v.SetDefault("tracing.tracer", "markup")
}

// New returns a Config holding only default values.
func New() *Config {
	cfg, err := Load("", nil)
	if err != nil {
		// Defaults alone always validate.
		panic(err)
	}
	return cfg
}

// Load reads configuration from dir (empty for none), MARKUP_ environment
// variables and the given flag bindings. Bindings map a configuration key
// (e.g. "server.port") to a command-line flag; a flag overrides the file and
// environment only when it was set explicitly.
func Load(dir string, bindings map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range bindings {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, errors.New("C101").
				WithDetailf("cannot bind flag --%s to %s", flag.Name, key).
				Wrap(err)
		}
	}

	if dir != "" {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !stderrors.As(err, &notFound) {
				return nil, errors.New("C001").
					WithDetailf("Failed to parse %s config in %s", ConfigName, dir).
					WithSuggestion("Check that markup.yaml is valid YAML (or markup.json valid JSON)").
					Wrap(err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("C001").Wrap(err)
	}
	cfg.configFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("C002").
			WithDetail("server.port must be between 0 and 65535")
	}
	if c.Render.Indent < 1 || c.Render.Indent > 16 {
		return errors.New("C002").
			WithDetail("render.indent must be between 1 and 16")
	}
	switch c.Publish.Target {
	case TargetDisk:
		if c.Publish.Dir == "" {
			return errors.New("C002").
				WithDetail("publish.dir is required for the disk target")
		}
	case TargetS3:
		if c.Publish.Bucket == "" {
			return errors.New("C002").
				WithDetail("publish.bucket is required for the s3 target").
				WithSuggestion("Set publish.bucket or MARKUP_PUBLISH_BUCKET")
		}
	default:
		return errors.New("C002").
			WithDetailf("publish.target %q is not one of disk, s3", c.Publish.Target)
	}
	return nil
}

// File returns the configuration file that was read, or "".
func (c *Config) File() string {
	return c.configFile
}

// Address returns the host:port string for the preview server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// RendererConfig converts the render settings for markup.NewRenderer.
func (c *Config) RendererConfig() markup.RendererConfig {
	return markup.RendererConfig{
		Indent:  strings.Repeat(" ", c.Render.Indent),
		DropNil: c.Render.DropNil,
	}
}
