package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/erazemk/exotics/internal/api"
	"github.com/erazemk/exotics/internal/config"
	"github.com/erazemk/exotics/internal/db"
	"github.com/erazemk/exotics/internal/hexcolor"
	"github.com/erazemk/exotics/internal/imaging"
	"github.com/erazemk/exotics/internal/model"
	"github.com/erazemk/exotics/internal/profile"
	"github.com/erazemk/exotics/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: exotics <init|import|serve>")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init":
		cmdInit(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\nUsage: exotics <init|import|serve>\n", os.Args[1])
		os.Exit(1)
	}
}

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	dbPath := fs.String("db", "exotics.sqlite3", "path to SQLite database file")
	fs.Parse(args)

	if _, err := os.Stat(*dbPath); err == nil {
		fmt.Fprintf(os.Stderr, "Error: database file %s already exists\n", *dbPath)
		os.Exit(1)
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		os.Remove(*dbPath)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Database created: %s\n", *dbPath)
	fmt.Println("Load a dump with: exotics import -db", *dbPath, "-file items.json")
}

// dumpItem is one record of the import file.
type dumpItem struct {
	UUID   string          `json:"uuid"`
	Name   string          `json:"name"`
	Color  string          `json:"color"`
	Rarity string          `json:"rarity"`
	Price  float64         `json:"price"`
	Extra  json.RawMessage `json:"extra"`
}

func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	dbPath := fs.String("db", "exotics.sqlite3", "path to SQLite database file")
	file := fs.String("file", "", "path to JSON dump of items")
	fs.Parse(args)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Error: -file is required")
		os.Exit(1)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("Failed to read dump: %v", err)
	}

	var dump []dumpItem
	if err := json.Unmarshal(data, &dump); err != nil {
		log.Fatalf("Failed to parse dump: %v", err)
	}

	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	ctx := context.Background()
	imported, skipped := 0, 0
	for _, d := range dump {
		if _, err := uuid.Parse(d.UUID); err != nil {
			slog.Warn("skipping record with invalid uuid", "uuid", d.UUID, "name", d.Name)
			skipped++
			continue
		}
		if d.Name == "" {
			slog.Warn("skipping record without a name", "uuid", d.UUID)
			skipped++
			continue
		}

		item := &model.Item{
			UUID:   d.UUID,
			Name:   d.Name,
			Color:  hexcolor.Normalize(d.Color), // "" for undyed or unparseable
			Rarity: d.Rarity,
			Price:  d.Price,
		}
		if err := store.UpsertItem(ctx, database, item, string(d.Extra)); err != nil {
			log.Fatalf("Failed to import %s: %v", d.UUID, err)
		}
		imported++
	}

	fmt.Printf("Imported %d items (%d skipped)\n", imported, skipped)
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "exotics.yaml", "path to YAML config file (optional)")
	addr := fs.String("addr", "", "listen address (overrides config)")
	dbPath := fs.String("db", "", "path to SQLite database file (overrides config)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *dbPath != "" {
		cfg.DB = *dbPath
	}

	database, err := db.Open(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	// Run migrations (idempotent).
	if err := db.Migrate(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	resolver := profile.NewResolver(database, cfg.ProfileAPI)
	resolver.Client = &http.Client{Timeout: cfg.LookupTimeout.Std()}
	resolver.TTL = cfg.CacheTTL.Std()
	resolver.NegativeTTL = cfg.NegativeTTL.Std()

	renderer := imaging.NewRenderer(cfg.PreviewCache)

	handler := api.LoggingMiddleware(api.NewRouter(database, resolver, renderer))

	fmt.Printf("Server listening on %s\n", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
