package config

import (
	"time"

	"github.com/joeshaw/envdecode"
)

// Config carries everything the service needs from the environment. The
// platform credentials and collection coordinates are required; the process
// must not come up without them.
type Config struct {
	Addr          string        `env:"API_ADDR,default=:8080"`
	Endpoint      string        `env:"APPWRITE_ENDPOINT,default=https://cloud.appwrite.io/v1"`
	ProjectID     string        `env:"APPWRITE_PROJECT_ID,required"`
	APIKey        string        `env:"APPWRITE_API_KEY,required"`
	DatabaseID    string        `env:"DATABASE_ID,required"`
	CollectionID  string        `env:"COLLECTION_ID,required"`
	SessionSecret string        `env:"SESSION_SECRET,required"`
	SessionTTL    time.Duration `env:"SESSION_TTL,default=720h"`
	Debug         bool          `env:"DEBUG,default=false"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
