package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"slices"
	"strconv"
)

// EnvVerbose tells an extension whether -v was given.
const EnvVerbose = "TB_VERBOSE"

// IsCommand reports whether name is a built-in command.
func IsCommand(name string) bool {
	if slices.Contains([]string{"help", "flags", "commands"}, name) {
		return true
	}
	for _, c := range Commands {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// RunExtension attempts to find and execute an external tb-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// The extension receives the resolved configuration in the environment, so
// that it works on the same ledger.
func RunExtension(subcommand string, args []string) (bool, int) {
	externalCmdName := "tb-" + subcommand

	lp, err := exec.LookPath(externalCmdName)
	if err != nil {
		log.Printf("External command %q not found in PATH: %v", externalCmdName, err)
		return false, 0
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return true, 1
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(),
		EnvLedgerFile+"="+cfg.Ledger,
		EnvBackend+"="+cfg.Backend,
		EnvCurrency+"="+cfg.Currency,
		EnvVerbose+"="+strconv.FormatBool(*Verbose),
	)

	if err := cmd.Run(); err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			return true, exitError.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", externalCmdName, err)
		return true, 1
	}
	return true, 0
}
