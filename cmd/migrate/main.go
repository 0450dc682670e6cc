// Package main applies the match journal schema migrations.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	source := flag.String("source", "file://migrations", "migration source URL")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	v := config.NewViper()
	v.SetConfigFile(*configPath)
	v.SetEnvPrefix("ARENA")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("reading config: %v", err)
	}

	dbCfg, err := databaseConfig(v)
	if err != nil {
		log.Fatalf("parsing database config: %v", err)
	}

	var up bool
	switch *direction {
	case "up":
		up = true
	case "down":
	default:
		log.Fatalf("invalid direction %q: must be 'up' or 'down'", *direction)
	}
	n := *steps
	if !up {
		n = -n
	}

	res, err := postgres.Migrate(*source, dbCfg.DSN(), up, n)
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	elapsed := time.Since(start)
	if res.NoChange {
		fmt.Fprintf(os.Stdout, "no changes (version=%d dirty=%v) [%s]\n", res.Version, res.Dirty, elapsed)
		return
	}
	fmt.Fprintf(os.Stdout, "migrated %s to version=%d dirty=%v [%s]\n", *direction, res.Version, res.Dirty, elapsed)
}

// databaseConfig reads only the database section so that migrating does not
// require the simulation's content paths to be valid.
func databaseConfig(v *viper.Viper) (config.DatabaseConfig, error) {
	var cfg config.DatabaseConfig
	sub := v.Sub("database")
	if sub == nil {
		return cfg, fmt.Errorf("config has no database section")
	}
	if err := sub.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
