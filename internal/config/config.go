package config

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DatabaseMode has the following constants: DatabaseModePostgres
type DatabaseMode string

const (
	DatabaseModePostgres DatabaseMode = "postgres"
)

// CacheMode has the following constants: CacheModeMemory, CacheModeRedis
type CacheMode string

const (
	CacheModeMemory CacheMode = "memory"
	CacheModeRedis  CacheMode = "redis"
)

type PostgresConfig struct {
	Database string
	Host     string
	Port     int
	Username string
	Password string
	SslMode  string
}

type ServerConfig struct {
	ExternalUrl    string
	Host           string
	Port           int
	AllowedOrigins []string
}

type OAuthProviderConfig struct {
	IssuerUrl    string
	ClientId     string
	ClientSecret string
	Scopes       []string
	RedirectUrl  string
}

type Config struct {
	Server   ServerConfig
	Frontend struct {
		ExternalUrl string
	}
	Database struct {
		Mode     DatabaseMode
		Postgres PostgresConfig
	}
	Cache struct {
		Mode  CacheMode
		Redis struct {
			Host     string
			Port     int
			Username string
			Password string
			Database int
		}
	}
	RelyingParty struct {
		Id     string
		Name   string
		Origin string
	}
	Jwt struct {
		Secret               string
		Issuer               string
		AccessTokenLifetime  time.Duration
		RefreshTokenLifetime time.Duration
	}
	Cookie struct {
		Name   string
		Domain string
		Secure bool
	}
	OAuth struct {
		Providers map[string]OAuthProviderConfig
	}
	RateLimit struct {
		// Disabled turns ceremony throttling off (tests, local dev). The zero
		// value keeps limiting on.
		Disabled           bool
		CeremonyPerMinute  int
		AssertionPerMinute int
	}
}

var configFilePath string
var environment string
var C Config

func IsProduction() bool {
	return environment == "PRODUCTION"
}

func Init() {
	// read flags (read config file path)
	readFlags()

	// read values from different sources (env vars & files)
	readConfigFile()
}

var k = koanf.New(".")

func readConfigFile() {
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			log.Fatalf("error loading config from file: %v", err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: "REVIV_",
		TransformFunc: func(k, v string) (string, any) {
			// Transform the key.
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "REVIV_")), "_", ".")

			if strings.Contains(v, " ") {
				return k, strings.Split(v, " ")
			}

			return k, v
		},
	}), nil)
	if err != nil {
		log.Fatalf("error loading config from env: %v", err)
	}

	err = k.Unmarshal("", &C)
	if err != nil {
		log.Fatalf("error unmarshalling config: %v", err)
	}

	setDefaultsOrPanic()
}

func setDefaultsOrPanic() {
	setServerDefaultsOrPanic()
	setFrontendDefaultsOrPanic()
	setDatabaseDefaultsOrPanic()
	setCacheDefaultsOrPanic()
	setRelyingPartyDefaultsOrPanic()
	setJwtDefaultsOrPanic()
	setCookieDefaultsOrPanic()
	setOAuthDefaultsOrPanic()
	setRateLimitDefaultsOrPanic()
}

func setServerDefaultsOrPanic() {
	if C.Server.Host == "" {
		if IsProduction() {
			panic("missing server hostname in config")
		}

		C.Server.Host = "localhost"
	}

	if C.Server.Port == 0 {
		C.Server.Port = 8080
	}

	if C.Server.ExternalUrl == "" {
		if IsProduction() {
			panic("missing external url")
		}

		C.Server.ExternalUrl = fmt.Sprintf("http://%s:%d", C.Server.Host, C.Server.Port)
	}

	if len(C.Server.AllowedOrigins) == 0 {
		if IsProduction() {
			panic("missing allowed origins")
		}

		C.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
}

func setFrontendDefaultsOrPanic() {
	if C.Frontend.ExternalUrl == "" {
		if IsProduction() {
			panic("missing frontend external url")
		}
		C.Frontend.ExternalUrl = "http://localhost:5173"
	}
}

func setDatabaseDefaultsOrPanic() {
	switch C.Database.Mode {
	case DatabaseModePostgres:
		setPostgresDefaultsOrPanic()

	default:
		panic("database mode missing or not supported")
	}
}

func setPostgresDefaultsOrPanic() {
	if C.Database.Postgres.Database == "" {
		C.Database.Postgres.Database = "reviv"
	}

	if C.Database.Postgres.Username == "" {
		panic("missing postgres username")
	}

	if C.Database.Postgres.Port == 0 {
		C.Database.Postgres.Port = 5432
	}

	if C.Database.Postgres.Host == "" {
		panic("missing postgres host")
	}

	if C.Database.Postgres.SslMode == "" {
		C.Database.Postgres.SslMode = "require"
	}

	if C.Database.Postgres.Password == "" {
		panic("missing postgres password")
	}
}

func setCacheDefaultsOrPanic() {
	switch C.Cache.Mode {
	case CacheModeMemory:
		// nothing to do
		break

	case CacheModeRedis:
		setRedisDefaultsOrPanic()

	default:
		panic("cache mode missing or not supported")
	}
}

func setRedisDefaultsOrPanic() {
	if C.Cache.Redis.Host == "" {
		if IsProduction() {
			panic("missing redis host")
		}

		C.Cache.Redis.Host = "localhost"
	}

	if C.Cache.Redis.Port == 0 {
		C.Cache.Redis.Port = 6379
	}
}

func setRelyingPartyDefaultsOrPanic() {
	if C.RelyingParty.Id == "" {
		if IsProduction() {
			panic("missing relying party id")
		}

		C.RelyingParty.Id = "localhost"
	}

	if C.RelyingParty.Name == "" {
		C.RelyingParty.Name = "reviv.pics"
	}

	if C.RelyingParty.Origin == "" {
		C.RelyingParty.Origin = C.Frontend.ExternalUrl
	}
}

func setJwtDefaultsOrPanic() {
	if C.Jwt.Secret == "" {
		panic("missing jwt secret")
	}

	if C.Jwt.Issuer == "" {
		C.Jwt.Issuer = C.Server.ExternalUrl
	}

	if C.Jwt.AccessTokenLifetime == 0 {
		C.Jwt.AccessTokenLifetime = 15 * time.Minute
	}

	if C.Jwt.RefreshTokenLifetime == 0 {
		C.Jwt.RefreshTokenLifetime = 7 * 24 * time.Hour
	}
}

func setCookieDefaultsOrPanic() {
	if C.Cookie.Name == "" {
		C.Cookie.Name = "reviv_refresh"
	}
}

func setOAuthDefaultsOrPanic() {
	for name, provider := range C.OAuth.Providers {
		if provider.IssuerUrl == "" {
			panic(fmt.Sprintf("missing issuer url for oauth provider %s", name))
		}

		if provider.ClientId == "" {
			panic(fmt.Sprintf("missing client id for oauth provider %s", name))
		}

		if provider.ClientSecret == "" {
			panic(fmt.Sprintf("missing client secret for oauth provider %s", name))
		}

		if len(provider.Scopes) == 0 {
			provider.Scopes = []string{"openid", "email", "profile"}
		}

		if provider.RedirectUrl == "" {
			provider.RedirectUrl = fmt.Sprintf("%s/auth/oauth/callback/%s", C.Server.ExternalUrl, name)
		}

		C.OAuth.Providers[name] = provider
	}
}

func setRateLimitDefaultsOrPanic() {
	if C.RateLimit.CeremonyPerMinute == 0 {
		C.RateLimit.CeremonyPerMinute = 5
	}

	if C.RateLimit.AssertionPerMinute == 0 {
		C.RateLimit.AssertionPerMinute = 10
	}
}

func readFlags() {
	// read flags passed to the program
	flag.StringVar(&configFilePath, "config", "", "The path for the config file.")
	flag.StringVar(&environment, "environment", "PRODUCTION", "The environment that this application is running in (can be PRODUCTION or DEVELOPMENT).")
	flag.Parse()
}
