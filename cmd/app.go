// Package cmd implements the fin command line application.
//
// Global flags select where the snapshot lives and how it is displayed. Each
// of them defaults to a FIN_* environment variable, which a .env file in the
// working directory may set.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/finance"
	"github.com/etnz/finance/date"
	"github.com/etnz/finance/sqlstore"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// Commands are all the fin subcommands.
var Commands = []subcommands.Command{
	&registerCmd{},
	&loginCmd{},
	&logoutCmd{},
	&whoamiCmd{},
	&recordCmd{typ: finance.Income},
	&recordCmd{typ: finance.Expense},
	&txCmd{},
	&balanceCmd{},
	&goalCmd{},
	&goalsCmd{},
	&contributeCmd{},
	&importCmd{},
	&checkCmd{},
	&topicCmd{},
	&serveCmd{},
	&assistCmd{},
}

// Environment variables holding the defaults of the global flags. They are
// also passed to extensions.
const (
	EnvStore          = "FIN_STORE"
	EnvProfile        = "FIN_PROFILE"
	EnvDSN            = "FIN_DSN"
	EnvKey            = "FIN_KEY"
	EnvCredentials    = "FIN_CREDENTIALS"
	EnvCurrency       = "FIN_CURRENCY"
	EnvRecoverCorrupt = "FIN_RECOVER_CORRUPT"
	EnvPlain          = "FIN_PLAIN"
	EnvVerbose        = "FIN_VERBOSE"

	// EnvTestingNow freezes the clock, with the layout "2006-01-02 15:04:05".
	EnvTestingNow = "FIN_TESTING_NOW"
)

var (
	storeFlag          = flag.String("store", "", "Storage backend: file or postgres. Defaults to $"+EnvStore+" or file.")
	profileFlag        = flag.String("profile", "", "Folder of the file store. Defaults to $"+EnvProfile+" or .fin")
	dsnFlag            = flag.String("dsn", "", "PostgreSQL connection string of the postgres store. Defaults to $"+EnvDSN+".")
	keyFlag            = flag.String("key", "", "Storage key of the snapshot. Defaults to $"+EnvKey+" or "+finance.DefaultKey+".")
	credentialsFlag    = flag.String("credentials", "", "How passwords are stored: plain or bcrypt. Defaults to $"+EnvCredentials+" or plain.")
	currencyFlag       = flag.String("currency", "", "Currency used to display amounts. Defaults to $"+EnvCurrency+" or USD.")
	recoverCorruptFlag = flag.Bool("recover-corrupt", false, "Start from an empty snapshot when the stored one is corrupt. Also set by $"+EnvRecoverCorrupt+".")
	plainFlag          = flag.Bool("plain", false, "Print raw markdown instead of styled output. Also set by $"+EnvPlain+".")
	Verbose            = flag.Bool("v", false, "Verbose logging. Also set by $"+EnvVerbose+".")
)

// LoadDotEnv loads the .env file of the working directory, if any. Variables
// already set in the environment win.
func LoadDotEnv() error {
	err := godotenv.Load()
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// setting returns the flag value, or the environment variable name, or def.
func setting(flagValue, name, def string) string {
	if flagValue != "" {
		return flagValue
	}
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// enabled returns whether a boolean flag or its environment variable is set.
func enabled(flagValue bool, name string) bool {
	if flagValue {
		return true
	}
	v, err := strconv.ParseBool(os.Getenv(name))
	return err == nil && v
}

func storeKind() string   { return setting(*storeFlag, EnvStore, "file") }
func profile() string     { return setting(*profileFlag, EnvProfile, ".fin") }
func dsn() string         { return setting(*dsnFlag, EnvDSN, "") }
func storageKey() string  { return setting(*keyFlag, EnvKey, finance.DefaultKey) }
func credentials() string { return setting(*credentialsFlag, EnvCredentials, "plain") }
func currency() string    { return setting(*currencyFlag, EnvCurrency, "USD") }
func recoverCorrupt() bool {
	return enabled(*recoverCorruptFlag, EnvRecoverCorrupt)
}
func plain() bool { return enabled(*plainFlag, EnvPlain) }

// IsVerbose reports whether logs should be printed.
func IsVerbose() bool { return enabled(*Verbose, EnvVerbose) }

// now returns the current time, unless frozen by EnvTestingNow.
func now() time.Time {
	if v := os.Getenv(EnvTestingNow); v != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04:05", v, time.Local)
		if err == nil {
			return t
		}
		log.Printf("ignoring invalid %s=%q: %v", EnvTestingNow, v, err)
	}
	return time.Now()
}

func today() date.Date { return date.Of(now()) }

// openStore returns the configured store and the function releasing it.
func openStore() (finance.Store, func() error, error) {
	switch kind := storeKind(); kind {
	case "file":
		return finance.NewFileStore(profile()), func() error { return nil }, nil
	case "postgres":
		if dsn() == "" {
			return nil, nil, fmt.Errorf("the postgres store needs a connection string: use -dsn or $%s", EnvDSN)
		}
		st, err := sqlstore.Open(dsn())
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q, want file or postgres", kind)
	}
}

// withSession opens the session configured by the global flags, runs fn on
// it and releases the store.
func withSession(ctx context.Context, fn func(s *finance.Session) subcommands.ExitStatus) subcommands.ExitStatus {
	creds, err := finance.ParseCredentials(credentials())
	if err != nil {
		return fail(err)
	}
	store, release, err := openStore()
	if err != nil {
		return fail(err)
	}
	defer func() {
		if err := release(); err != nil {
			log.Printf("cannot close store: %v", err)
		}
	}()

	opts := []finance.Option{finance.WithKey(storageKey()), finance.WithCredentials(creds), finance.WithClock(now)}
	if recoverCorrupt() {
		opts = append(opts, finance.RecoverCorrupt())
	}
	s, err := finance.Open(ctx, store, opts...)
	if errors.Is(err, finance.ErrCorruptSnapshot) {
		fmt.Fprintf(os.Stderr, "Error: %v\nUse -recover-corrupt to start over from an empty snapshot.\n", err)
		return subcommands.ExitFailure
	}
	if err != nil {
		return fail(err)
	}
	return fn(s)
}

// fail prints err and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// usage prints a usage error and returns the usage status.
func usage(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}

// printMarkdown prints md styled for the terminal, or as is with -plain.
func printMarkdown(md string) {
	if plain() {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		log.Printf("cannot style markdown: %v", err)
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		log.Printf("cannot style markdown: %v", err)
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
