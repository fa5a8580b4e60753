package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
	defaultConfigFile = "/config.yaml"
)

const (
	StorageMemory  = "memory"
	StorageLevelDB = "leveldb"
	StorageSQL     = "sql"
)

var ErrInvalidConfig = errors.New("invalid config")

type api struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type storage struct {
	Driver  string `mapstructure:"driver"`
	Path    string `mapstructure:"path"`
	SQLDSN  string `mapstructure:"sql_dsn"`
	Profile string `mapstructure:"profile"`
}

type cart struct {
	MergeOnAdd bool `mapstructure:"merge_on_add"`
}

type routes struct {
	Login   string `mapstructure:"login"`
	Landing string `mapstructure:"landing"`
}

type topics struct {
	Checkouts string `mapstructure:"checkouts"`
	Feedback  string `mapstructure:"feedback"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type broker struct {
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topics             topics   `mapstructure:"topics"`
	TLS                tlsFiles `mapstructure:"tls"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	API            api        `mapstructure:"api"`
	Storage        storage    `mapstructure:"storage"`
	Cart           cart       `mapstructure:"cart"`
	Routes         routes     `mapstructure:"routes"`
	Broker         broker     `mapstructure:"broker"`
}

// BrokerEnabled reports whether checkouts and feedback go to the broker.
func (c Config) BrokerEnabled() bool {
	return len(c.Broker.SeedBrokers) != 0
}

// TLSEnabled reports whether the broker connection uses mutual TLS.
func (c Config) TLSEnabled() bool {
	t := c.Broker.TLS
	return t.CA != "" && t.Cert != "" && t.Key != ""
}

func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		die(err)
	}

	path, explicit := getConfigFilepath()
	cfg, err := load(viper.GetViper(), path, explicit)
	if err != nil {
		die(err)
	}
	return cfg
}

func load(v *viper.Viper, path string, explicit bool) (Config, error) {
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", "127.0.0.1:8080")
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("storage.driver", StorageLevelDB)
	v.SetDefault("storage.path", "storefront.db")
	v.SetDefault("storage.sql_dsn", "")
	v.SetDefault("storage.profile", "default")
	v.SetDefault("cart.merge_on_add", false)
	v.SetDefault("routes.login", "/login")
	v.SetDefault("routes.landing", "/")
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.checkouts", "checkouts")
	v.SetDefault("broker.topics.feedback", "feedback")
	v.SetDefault("broker.tls.ca", "")
	v.SetDefault("broker.tls.cert", "")
	v.SetDefault("broker.tls.key", "")
}

func (c Config) validate() error {
	var errs []error

	switch c.Storage.Driver {
	case StorageMemory:
	case StorageLevelDB:
		if c.Storage.Path == "" {
			errs = append(errs, errors.New("storage.path: required for leveldb"))
		}
	case StorageSQL:
		if c.Storage.SQLDSN == "" {
			errs = append(errs, errors.New("storage.sql_dsn: required for sql"))
		}
	default:
		errs = append(errs, fmt.Errorf("storage.driver: unknown %q", c.Storage.Driver))
	}

	if c.API.BaseURL == "" {
		errs = append(errs, errors.New("api.base_url: required"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, errors.New("api.timeout: negative"))
	}

	if c.BrokerEnabled() {
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("broker.schema_registry_urls: required"))
		}
		if c.Broker.Topics.Checkouts == "" || c.Broker.Topics.Feedback == "" {
			errs = append(errs, errors.New("broker.topics: required"))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// getConfigFilepath reports the config path and whether it was set
// explicitly. The environment takes precedence over the flag.
func getConfigFilepath() (string, bool) {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", defaultConfigFile, "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env, true
	}
	return *arg, cmdLine.Changed("config")
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	API:
		BaseURL=%q
		Timeout=%q
	Storage:
		Driver=%q
		Path=%q
		Profile=%q
	Cart:
		MergeOnAdd=%t
	Routes:
		Login=%q
		Landing=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		Checkouts=%q
		Feedback=%q
	TLS=%t

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.API.BaseURL,
		c.API.Timeout,
		c.Storage.Driver,
		c.Storage.Path,
		c.Storage.Profile,
		c.Cart.MergeOnAdd,
		c.Routes.Login,
		c.Routes.Landing,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.Checkouts,
		c.Broker.Topics.Feedback,
		c.TLSEnabled(),
	)
}
