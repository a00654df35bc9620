package models

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

var ErrNotRegularFile = errors.New("not a regular file")

// FileDescriptor is a local document selected by the user. The content is
// read from Path every time it is sent, so a failed upload can be retried.
type FileDescriptor struct {
	Name string
	Path string
	Size int64
}

// NewFileDescriptor stats path and describes it.
func NewFileDescriptor(path string) (FileDescriptor, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return FileDescriptor{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return FileDescriptor{}, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	return FileDescriptor{Name: filepath.Base(path), Path: path, Size: fi.Size()}, nil
}

// ContentType guesses the MIME type from the file extension. The server
// extracts text from PDFs only when the part says application/pdf.
func (f FileDescriptor) ContentType() string {
	ext := strings.ToLower(filepath.Ext(f.Name))
	if ext == ".pdf" {
		return "application/pdf"
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// ChatAction tells the chat endpoint what to do with a document.
type ChatAction string

const (
	ActionSummarizeParagraph ChatAction = "summarize-paragraph"
	ActionSummarizeBullets   ChatAction = "summarize-bullets"
	ActionListConcepts       ChatAction = "list-concepts"
	// ActionQuiz is also what the server does for any unrecognised action.
	ActionQuiz ChatAction = "quiz"
)

// ChatActions lists the actions in the order they are offered to the user.
var ChatActions = []ChatAction{ActionSummarizeParagraph, ActionSummarizeBullets, ActionListConcepts, ActionQuiz}
