package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

func promptLine(label string) string {
	fmt.Printf("%s: ", label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptSecret(label string) (string, error) {
	fmt.Printf("%s: ", label)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// flagValue scans args for "--name VALUE" and returns the value, the
// remaining args, and whether the flag was present.
func flagValue(args []string, name string) (string, []string, bool) {
	for i, a := range args {
		if a != name {
			continue
		}
		if i+1 >= len(args) {
			fmt.Fprintf(os.Stderr, "%s requires a value\n", name)
			os.Exit(1)
		}
		value := args[i+1]
		rest := append(append([]string{}, args[:i]...), args[i+2:]...)
		return value, rest, true
	}
	return "", args, false
}

// flagBool scans args for a bare "--name" flag.
func flagBool(args []string, name string) ([]string, bool) {
	for i, a := range args {
		if a == name {
			rest := append(append([]string{}, args[:i]...), args[i+1:]...)
			return rest, true
		}
	}
	return args, false
}

func fatal(format string, a ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", a...)
	os.Exit(1)
}
