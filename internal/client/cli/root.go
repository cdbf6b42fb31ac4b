package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

// Root runs the interactive prompt until EOF or an exit command.
func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to the report sync CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("rsync> ")
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			fmt.Println("Available commands: list, show, new, delete, drain, exit")

		case "list":
			a.list(ctx)
		case "show":
			a.show(ctx)
		case "new":
			a.newReport(ctx)
		case "delete":
			a.delete(ctx)
		case "drain":
			a.drainer.Pass(ctx)
		case "exit", "quit":
			fmt.Println("Bye!")
			return

		default:
			fmt.Println("Unknown command. Type 'help' for commands.")
		}
	}
}
