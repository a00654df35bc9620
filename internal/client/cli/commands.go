package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/studydeck/internal/client/api"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/client/services"
)

func (a *App) Decks(ctx context.Context, _ []string) error {
	if err := a.decks.Refresh(ctx); err != nil {
		return err
	}
	printlnFn(formatDeckList(a.decks.Decks()))
	return nil
}

func (a *App) Create(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("create <file>")
	}
	fd, err := fileArg(strings.Join(args, " "))
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Generating flash cards from %s ...", fd.Name))
	created, err := a.decks.Create(ctx, fd)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Created deck #%d %s", created.ID, created.Name))
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("delete <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.decks.Delete(ctx, id); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Deleted deck #%d", id))
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("edit <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.editor.Hydrate(ctx, id); err != nil {
		return err
	}
	return a.Show(ctx, nil)
}

func (a *App) Set(_ context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("set name|description [text]")
	}
	field := args[0]

	value := strings.Join(args[1:], " ")
	if value == "" {
		var err error
		if value, err = GetMultiline(a.reader, "Enter "+field+":", a.out); err != nil {
			return err
		}
	}
	if err := a.editor.SetField(field, value); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Updated %s (not saved yet)", field))
	return nil
}

func (a *App) Card(_ context.Context, args []string) error {
	if len(args) < 2 {
		return usageError("card <id> question|answer [text]")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	field := args[1]

	deck, ok := a.editor.Snapshot()
	if ok && deck.CardIndex(id) < 0 {
		printlnFn(fmt.Sprintf("Deck #%d has no card %d; nothing changed.", deck.ID, id))
		return nil
	}

	value := strings.Join(args[2:], " ")
	if value == "" && ok {
		if value, err = GetSimpleText(a.reader, fmt.Sprintf("Enter %s of card %d:", field, id), a.out); err != nil {
			return err
		}
	}
	if err := a.editor.SetCardField(id, field, value); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Updated card %d %s (not saved yet)", id, field))
	return nil
}

func (a *App) Show(_ context.Context, _ []string) error {
	deck, ok := a.editor.Snapshot()
	if !ok {
		return a.editorErr()
	}
	printlnFn(formatDeck(deck))
	if a.editor.Confirmed() {
		printlnFn("Saved.")
	}
	return nil
}

func (a *App) Save(ctx context.Context, _ []string) error {
	if err := a.editor.Submit(ctx); err != nil {
		return err
	}
	printlnFn("Saved.")
	return nil
}

// editorErr explains why there is no buffer to show.
func (a *App) editorErr() error {
	if err := a.editor.Err(); err != nil {
		return err
	}
	return services.ErrNotLoaded
}

func (a *App) Study(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("study <id>")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := a.study.Load(ctx, id); err != nil {
		return err
	}
	printlnFn(formatStudyView(a.study.View()))
	return nil
}

func (a *App) Next(_ context.Context, _ []string) error {
	if !a.study.Advance() && a.study.View().HasCard {
		printlnFn("(last card)")
	}
	printlnFn(formatStudyView(a.study.View()))
	return nil
}

func (a *App) Prev(_ context.Context, _ []string) error {
	if !a.study.Retreat() && a.study.View().HasCard {
		printlnFn("(first card)")
	}
	printlnFn(formatStudyView(a.study.View()))
	return nil
}

func (a *App) Flip(_ context.Context, _ []string) error {
	a.study.Flip()
	printlnFn(formatStudyView(a.study.View()))
	return nil
}

func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("upload <file>...")
	}
	files := make([]models.FileDescriptor, 0, len(args))
	for _, p := range args {
		fd, err := fileArg(p)
		if err != nil {
			return err
		}
		files = append(files, fd)
	}

	printlnFn(fmt.Sprintf("Uploading %d file(s) ...", len(files)))
	if err := a.upload.SelectAndUpload(ctx, files); err != nil {
		return err
	}
	printlnFn("Uploaded. Ask about the documents with 'ask <question>'.")
	return nil
}

func (a *App) Retry(ctx context.Context, _ []string) error {
	st := a.upload.State()
	if len(st.Files) == 0 {
		return usageError("upload <file>... (nothing to retry)")
	}
	printlnFn(fmt.Sprintf("Uploading %d file(s) ...", len(st.Files)))
	if err := a.upload.Upload(ctx); err != nil {
		return err
	}
	printlnFn("Uploaded.")
	return nil
}

func (a *App) Ask(ctx context.Context, args []string) error {
	q, err := a.questionArg(args, "Your question about the uploaded documents:")
	if err != nil {
		return err
	}
	answer, err := a.upload.Ask(ctx, q)
	if err != nil {
		return err
	}
	printlnFn(renderMarkdown(answer))
	return nil
}

func (a *App) Summarize(ctx context.Context, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return usageError("summarize <file> [action]")
	}
	fd, err := fileArg(args[0])
	if err != nil {
		return err
	}
	var action models.ChatAction
	if len(args) == 2 {
		action = models.ChatAction(args[1])
	}

	out, err := a.assistant.Summarize(ctx, fd, action)
	if err != nil {
		return err
	}
	printlnFn(renderMarkdown(out))
	return nil
}

func (a *App) Calendar(ctx context.Context, args []string) error {
	q, err := a.questionArg(args, "Your question for the calendar assistant:")
	if err != nil {
		return err
	}
	out, err := a.assistant.AskCalendar(ctx, q)
	if err != nil {
		return err
	}
	printlnFn(renderMarkdown(out))
	return nil
}

func (a *App) questionArg(args []string, prompt string) (string, error) {
	if q := strings.Join(args, " "); q != "" {
		return q, nil
	}
	return GetSimpleText(a.reader, prompt, a.out)
}

// fileArg describes a local file; a missing file is a validation failure.
func fileArg(path string) (models.FileDescriptor, error) {
	fd, err := models.NewFileDescriptor(path)
	if err != nil {
		return models.FileDescriptor{}, fmt.Errorf("%w: %w", api.ErrValidation, err)
	}
	return fd, nil
}
