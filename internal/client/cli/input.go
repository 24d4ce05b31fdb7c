package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads one line from reader. A
// partial last line before EOF is returned as is.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prompts on w and reads a password from the terminal without
// echo. The caller should wipe the result.
func GetPassword(prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
