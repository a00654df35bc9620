package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

const helpText = `Available commands:
  decks                               list decks
  create <file>                       generate a deck from a document
  delete <id>                         delete a deck
  edit <id>                           open a deck for editing
  set name|description [text]         change the open deck
  card <id> question|answer [text]    change a card of the open deck
  show                                show the open deck
  save                                save the open deck
  study <id>                          study a deck
  next | prev | flip                  move through the cards
  upload <file>...                    upload documents to ask about
  retry                               upload the same documents again
  ask [question]                      ask about the uploaded documents
  summarize <file> [action]           actions: summarize-paragraph, summarize-bullets, list-concepts, quiz
  calendar [question]                 ask the calendar assistant
  exit | quit                         leave the program`

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests provide a stub.
type execIface interface {
	Decks(ctx context.Context, args []string) error
	Create(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Set(ctx context.Context, args []string) error
	Card(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Save(ctx context.Context, args []string) error
	Study(ctx context.Context, args []string) error
	Next(ctx context.Context, args []string) error
	Prev(ctx context.Context, args []string) error
	Flip(ctx context.Context, args []string) error
	Upload(ctx context.Context, args []string) error
	Retry(ctx context.Context, args []string) error
	Ask(ctx context.Context, args []string) error
	Summarize(ctx context.Context, args []string) error
	Calendar(ctx context.Context, args []string) error
}

// runREPL reads commands line by line and dispatches them to a. A failed
// command prints one failure line and the loop goes on. The loop ends on
// end of input, "exit"/"quit" or when ctx is done. The prompt is printed
// only when promptFn returns a non-empty string.
func runREPL(ctx context.Context, a execIface, promptFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		if p := promptFn(); p != "" {
			printFn(p)
		}
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			printlnFn(helpText)
		case "decks", "list", "l":
			cmdErr = a.Decks(ctx, args)
		case "create":
			cmdErr = a.Create(ctx, args)
		case "delete":
			cmdErr = a.Delete(ctx, args)
		case "edit":
			cmdErr = a.Edit(ctx, args)
		case "set":
			cmdErr = a.Set(ctx, args)
		case "card":
			cmdErr = a.Card(ctx, args)
		case "show":
			cmdErr = a.Show(ctx, args)
		case "save":
			cmdErr = a.Save(ctx, args)
		case "study":
			cmdErr = a.Study(ctx, args)
		case "next", "n":
			cmdErr = a.Next(ctx, args)
		case "prev", "p":
			cmdErr = a.Prev(ctx, args)
		case "flip", "f":
			cmdErr = a.Flip(ctx, args)
		case "upload":
			cmdErr = a.Upload(ctx, args)
		case "retry":
			cmdErr = a.Retry(ctx, args)
		case "ask":
			cmdErr = a.Ask(ctx, args)
		case "summarize":
			cmdErr = a.Summarize(ctx, args)
		case "calendar":
			cmdErr = a.Calendar(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(failureLine(cmdErr))
		}
	}
}
