package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration pulled from the environment so
// main stays lean. Admission-gate parameters that are mutable at runtime
// (issuer key, verifier ref, base URI, allow-list) live in the access service,
// not here; these are only their boot-time seeds.
type Server struct {
	Addr          string
	JWTSigningKey string

	// Typed-data domain separator inputs. ChainID and RegistryAddress scope
	// vouchers to one deployment; reusing a voucher elsewhere fails recovery.
	SystemName      string
	SystemVersion   string
	ChainID         uint64
	RegistryAddress string

	// Boot-time admission seeds.
	OwnerAddress  string
	IssuerAddress string
	GroupID       uint64
	EpochPrefix   string

	// Collaborators.
	VerifierURL         string
	FactoryURL          string
	AccountTemplate     string
	BaseMetadataURI     string
	EmbeddedMetadata    bool
	CollaboratorTimeout time.Duration

	Postgres PostgresConfig
	Redis    RedisConfig
}

// PostgresConfig holds the SQL connection settings. An empty DSN means the
// in-memory stores are used.
type PostgresConfig struct {
	DSN string
}

// RedisConfig holds connection pool settings for the shared Redis client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	return Server{
		Addr:          envOr("MINTGATE_ADDR", ":8080"),
		JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),

		SystemName:      envOr("MINTGATE_DOMAIN_NAME", "mintgate"),
		SystemVersion:   envOr("MINTGATE_DOMAIN_VERSION", "1"),
		ChainID:         envUint("MINTGATE_CHAIN_ID", 1),
		RegistryAddress: envOr("MINTGATE_REGISTRY_ADDRESS", "0x0000000000000000000000000000000000000000"),

		OwnerAddress:  os.Getenv("MINTGATE_OWNER"),
		IssuerAddress: os.Getenv("MINTGATE_ISSUER_KEY"),
		GroupID:       envUint("MINTGATE_GROUP_ID", 1),
		EpochPrefix:   envOr("MINTGATE_EPOCH_PREFIX", "MINTGATE"),

		VerifierURL:         os.Getenv("MINTGATE_VERIFIER_URL"),
		FactoryURL:          os.Getenv("MINTGATE_FACTORY_URL"),
		AccountTemplate:     envOr("MINTGATE_ACCOUNT_TEMPLATE", "0x0000000000000000000000000000000000000000"),
		BaseMetadataURI:     envOr("MINTGATE_BASE_METADATA_URI", "ipfs://"),
		EmbeddedMetadata:    os.Getenv("MINTGATE_EMBEDDED_METADATA") == "true",
		CollaboratorTimeout: envDuration("MINTGATE_COLLABORATOR_TIMEOUT", 10*time.Second),

		Postgres: PostgresConfig{DSN: os.Getenv("MINTGATE_POSTGRES_DSN")},
		Redis: RedisConfig{
			URL:          os.Getenv("MINTGATE_REDIS_URL"),
			PoolSize:     int(envUint("MINTGATE_REDIS_POOL_SIZE", 10)),
			MinIdleConns: int(envUint("MINTGATE_REDIS_MIN_IDLE", 2)),
			DialTimeout:  envDuration("MINTGATE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("MINTGATE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("MINTGATE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envUint(key string, fallback uint64) uint64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
