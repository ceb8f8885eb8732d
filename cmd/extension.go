package cmd

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
)

// RunExtension attempts to find and execute an external fin-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The extension receives the resolved global settings as FIN_* environment
// variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "fin-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Printf("External command %q not found in PATH: %v", externalCmdName, err)
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extensionEnv()...)

	if err := cmd.Run(); err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			if status, ok := exitError.Sys().(syscall.WaitStatus); ok {
				return true, status.ExitStatus()
			}
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv returns the global settings as environment variables.
func extensionEnv() []string {
	prof := profile()
	if abs, err := filepath.Abs(prof); err == nil {
		prof = abs
	}
	return []string{
		EnvStore + "=" + storeKind(),
		EnvProfile + "=" + prof,
		EnvDSN + "=" + dsn(),
		EnvKey + "=" + storageKey(),
		EnvCredentials + "=" + credentials(),
		EnvCurrency + "=" + currency(),
		EnvRecoverCorrupt + "=" + strconv.FormatBool(recoverCorrupt()),
		EnvPlain + "=" + strconv.FormatBool(plain()),
		EnvVerbose + "=" + strconv.FormatBool(IsVerbose()),
	}
}
