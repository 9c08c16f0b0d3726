package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/riskibarqy/fanbet/internal/platform/logging"
)

var errUsage = errors.New("usage")

var migrationDirCandidates = []string{"./db/migrations", "/app/db/migrations"}

// command runs against an open migrator. args excludes the command name.
type command struct {
	usage string
	run   func(m *migrate.Migrate, args []string, logger *logging.Logger) error
}

var commands = map[string]command{
	"up":      {usage: "up", run: runUp},
	"down":    {usage: "down [steps]", run: runDown},
	"version": {usage: "version", run: runVersion},
	"force":   {usage: "force <version>", run: runForce},
	"goto":    {usage: "goto <version>", run: runGoto},
}

func main() {
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Format: logging.FormatConsole}).Named("migration")
	defer func() { _ = logger.Sync() }()

	_ = godotenv.Load()

	if err := run(os.Args[1:], logger); err != nil {
		if errors.Is(err, errUsage) {
			printUsage(os.Stderr)
			_ = logger.Sync()
			os.Exit(2)
		}
		logger.Error("migration command failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(args []string, logger *logging.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	name := strings.ToLower(strings.TrimSpace(args[0]))
	if name == "migrate" {
		name = "goto"
	}
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}

	dbURL := strings.TrimSpace(os.Getenv("DB_URL"))
	if dbURL == "" {
		return errors.New("DB_URL is required")
	}
	dir, err := resolveMigrationsDir(os.Getenv("MIGRATIONS_DIR"), os.Getenv("MIGRATIONS_PATH"))
	if err != nil {
		return err
	}

	sourceURL := "file://" + filepath.ToSlash(dir)
	m, err := migrate.New(sourceURL, withPreparedBinaryFlag(dbURL, envBool("DB_DISABLE_PREPARED_BINARY_RESULT")))
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil || dbErr != nil {
			logger.Warn("close migrator", "source_error", srcErr, "db_error", dbErr)
		}
	}()

	logger.Info("running migration command", "command", name, "source", sourceURL)
	return cmd.run(m, args[1:], logger)
}

func runUp(m *migrate.Migrate, _ []string, logger *logging.Logger) error {
	return report(logger, m.Up(), "migrations applied")
}

func runDown(m *migrate.Migrate, args []string, logger *logging.Logger) error {
	steps, err := parseSteps(args)
	if err != nil {
		return err
	}
	return report(logger, m.Steps(-steps), "migrations rolled back", "steps", steps)
}

func runVersion(m *migrate.Migrate, _ []string, _ *logging.Logger) error {
	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		fmt.Println("version: none")
		fmt.Println("dirty: false")
		return nil
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	}
	fmt.Printf("version: %d\ndirty: %t\n", version, dirty)
	return nil
}

func runForce(m *migrate.Migrate, args []string, logger *logging.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: force requires a version", errUsage)
	}
	version, err := parseVersion(args[0])
	if err != nil {
		return err
	}
	if err := m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	logger.Info("forced version", "version", version)
	return nil
}

func runGoto(m *migrate.Migrate, args []string, logger *logging.Logger) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: goto requires a version", errUsage)
	}
	version, err := parseVersion(args[0])
	if err != nil {
		return err
	}
	return report(logger, m.Migrate(uint(version)), "migrated", "version", version)
}

// report treats ErrNoChange as success.
func report(logger *logging.Logger, err error, msg string, args ...any) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info(msg, args...)
	return nil
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid down steps %q: %w", args[0], err)
	}
	if steps <= 0 {
		return 0, fmt.Errorf("down steps must be > 0, got %d", steps)
	}
	return steps, nil
}

func parseVersion(raw string) (int, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(raw), 10, strconv.IntSize-1)
	if err != nil {
		return 0, fmt.Errorf("invalid version %q: %w", raw, err)
	}
	return int(value), nil
}

func resolveMigrationsDir(overrides ...string) (string, error) {
	candidates := append(append([]string{}, overrides...), migrationDirCandidates...)
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return abs, nil
		}
	}
	return "", fmt.Errorf("migration directory not found in %v", candidates)
}

func withPreparedBinaryFlag(raw string, enabled bool) string {
	if !enabled {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" {
		return raw
	}
	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") != "" {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

func envBool(key string) bool {
	enabled, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && enabled
}

func printUsage(w io.Writer) {
	bin := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "usage: %s <command> [args]\n\ncommands:\n", bin)
	for _, name := range []string{"up", "down", "version", "force", "goto"} {
		fmt.Fprintf(w, "  %s %s\n", bin, commands[name].usage)
	}
	fmt.Fprintf(w, "\nexample: %s goto 1760000400\n", bin)
}
