package config

import (
	"flag"
	"log"
	"os"
	"time"
)

type Config struct {
	RunAddress   string
	BackendURL   string
	LogLevel     string
	SessionTTL   time.Duration
	StoreBackend string
	StorePath    string
}

func Parse() *Config {
	cfg := Config{
		// Defaults
		RunAddress:   "localhost:3000",
		BackendURL:   "http://localhost:8080/graphql",
		LogLevel:     "debug",
		SessionTTL:   time.Hour,
		StoreBackend: "file",
		StorePath:    "", // store picks its own default location
	}
	cfg.updateFromFlags()
	cfg.updateFromEnv()
	return &cfg
}

func (cfg *Config) updateFromFlags() {
	flagRunAddress := flag.String("a", cfg.RunAddress, "Client address.")
	flagBackendURL := flag.String("b", cfg.BackendURL, "Backend GraphQL endpoint.")
	flagStoreBackend := flag.String("s", cfg.StoreBackend, "Session store backend (file|sqlite).")
	flagStorePath := flag.String("p", cfg.StorePath, "Session store path.")

	flag.Parse()

	cfg.RunAddress = *flagRunAddress
	cfg.BackendURL = *flagBackendURL
	cfg.StoreBackend = *flagStoreBackend
	cfg.StorePath = *flagStorePath
}

func (cfg *Config) updateFromEnv() {
	if addr, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		cfg.RunAddress = addr
	}
	if u, ok := os.LookupEnv("BACKEND_URL"); ok {
		cfg.BackendURL = u
	}
	if lvl, ok := os.LookupEnv("LOG_LEVEL"); ok {
		cfg.LogLevel = lvl
	}
	if ttl, ok := os.LookupEnv("SESSION_TTL"); ok {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			log.Printf("config: can't parse SESSION_TTL `%s`: %v", ttl, err)
		} else {
			cfg.SessionTTL = d
		}
	}
	if backend, ok := os.LookupEnv("STORE_BACKEND"); ok {
		cfg.StoreBackend = backend
	}
	if path, ok := os.LookupEnv("STORE_PATH"); ok {
		cfg.StorePath = path
	}
}
