package patch

import (
	"bufio"
	"fmt"
	"io"
)

// ReadScript parses one command per line. Blank lines and comments are skipped.
func ReadScript(r io.Reader) ([]Command, error) {
	var commands []Command
	scanner := bufio.NewScanner(r)
	for line := 1; scanner.Scan(); line++ {
		cmd, err := Parse(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if cmd.Name != "" {
			commands = append(commands, cmd)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return commands, nil
}
