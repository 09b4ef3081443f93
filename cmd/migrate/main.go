// Command migrate manages the ERP Obras PostgreSQL schema.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/erp-obras/backend/internal/infrastructure/config"
	"github.com/erp-obras/backend/internal/infrastructure/logger"
	"github.com/erp-obras/backend/internal/infrastructure/migration"
	"github.com/erp-obras/backend/migrations"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const usage = `ERP Obras schema migrations

Usage:
  migrate [flags] <command> [args]

Commands:
  up                    apply every pending migration
  down                  roll every migration back
  step <n>              apply n migrations (negative rolls back)
  goto <version>        migrate to a version
  version               print the applied version
  force <version>       mark a version applied (clears a dirty state)
  drop -confirm         drop every database object
  create <name> [desc]  scaffold a migration pair in -dir
  list                  list migrations

Flags:
`

func main() {
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set (required by create)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(&logger.Config{Level: *logLevel, Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(args[0], args[1:], *dir, log); err != nil {
		log.Fatal("Migration command failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func run(command string, args []string, dir string, log *zap.Logger) error {
	var source fs.FS = migrations.FS
	if dir != "" {
		source = os.DirFS(dir)
	}

	switch command {
	case "create":
		if dir == "" {
			return fmt.Errorf("create needs -dir pointing at the migrations directory")
		}
		if len(args) == 0 {
			return fmt.Errorf("usage: migrate -dir migrations create <name> [description]")
		}
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		nf, err := migration.Create(dir, args[0], description, time.Now())
		if err != nil {
			return err
		}
		log.Info("Migration created", zap.String("up", nf.UpPath), zap.String("down", nf.DownPath))
		return nil
	case "list":
		names, err := migration.List(source)
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("schema migrations target postgres, configured driver is %q", cfg.Database.Driver)
	}
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	m, err := migration.New(db, source, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Warn("Closing migrator", zap.Error(err))
		}
	}()

	switch command {
	case "up":
		return m.Up()
	case "down":
		return m.Down()
	case "step":
		n, err := intArg(args, "step <n>")
		if err != nil {
			return err
		}
		return m.Steps(n)
	case "goto":
		v, err := intArg(args, "goto <version>")
		if err != nil {
			return err
		}
		if v < 0 {
			return fmt.Errorf("version must not be negative")
		}
		return m.To(uint(v))
	case "force":
		v, err := intArg(args, "force <version>")
		if err != nil {
			return err
		}
		return m.Force(v)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			return err
		}
		log.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		return nil
	case "drop":
		if len(args) == 0 || (args[0] != "-confirm" && args[0] != "--confirm") {
			return fmt.Errorf("drop destroys every table; rerun as 'migrate drop -confirm'")
		}
		return m.Drop()
	}
	flag.Usage()
	return fmt.Errorf("unknown command %q", command)
}

func intArg(args []string, form string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("usage: migrate %s", form)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("usage: migrate %s: %w", form, err)
	}
	return n, nil
}
