// Package main seeds the configured PostgreSQL database from roster YAML.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cory-johannsen/arena/internal/config"
	"github.com/cory-johannsen/arena/internal/importer"
	"github.com/cory-johannsen/arena/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	format := flag.String("format", "file", "source format: file or dir")
	source := flag.String("source", "", "path to roster file or directory")
	timeout := flag.Duration("timeout", time.Minute, "import timeout")
	flag.Parse()

	if *source == "" {
		fmt.Fprintln(os.Stderr, "usage: import-roster [-config <file>] [-format file|dir] -source <path>")
		os.Exit(1)
	}

	src, err := importer.NewSource(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: loading config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	start := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	sum, err := importer.New(src, postgres.NewCharacterRepository(pool.DB()), os.Stdout).Run(ctx, *source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		pool.Close()
		os.Exit(1)
	}
	fmt.Printf("import complete in %s: %d characters, %d skills created, %d reused\n",
		time.Since(start).Round(time.Millisecond), sum.Characters, sum.SkillsCreated, sum.SkillsReused)
}
