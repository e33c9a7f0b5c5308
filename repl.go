package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

func completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, cmd := range commands {
		items = append(items, readline.PcItem(cmd.name))
	}
	return readline.NewPrefixCompleter(items...)
}

// repl runs console commands until quit or EOF.
func repl(s *session) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		result, err := s.eval(line)
		if err == errQuit {
			return nil
		}
		if err != nil {
			fmt.Fprintln(rl.Stderr(), err)
		} else if result != "" {
			fmt.Fprintln(rl.Stdout(), result)
		}
	}
}
