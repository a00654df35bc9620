package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dmitrijs2005/studydeck/internal/client/api"
	"github.com/dmitrijs2005/studydeck/internal/client/models"
	"github.com/dmitrijs2005/studydeck/internal/logging"
	"github.com/dmitrijs2005/studydeck/internal/syncx"
)

// UploadState is a copy of the upload session.
type UploadState struct {
	Files     []models.FileDescriptor
	Uploading bool
	Confirmed bool
	Query     string
	Answer    string
}

// UploadSession uploads a set of documents and answers questions about
// them.
type UploadSession interface {
	// Select replaces the file set. The new set is unconfirmed, the answer
	// about the old set is cleared and requests for the old set still in
	// flight are ignored when they complete.
	Select(files []models.FileDescriptor)
	// Upload sends the current set in one request. On failure the set is
	// kept so Upload can simply be called again.
	Upload(ctx context.Context) error
	SelectAndUpload(ctx context.Context, files []models.FileDescriptor) error
	// Ask needs a confirmed upload. The previous answer stays until the new
	// one arrives.
	Ask(ctx context.Context, question string) (string, error)
	State() UploadState

	Busy() bool
	Err() error
	Close()
}

type uploadSession struct {
	status

	client api.Client
	log    logging.Logger

	selGen syncx.Generation
	askGen syncx.Generation

	mu        sync.Mutex
	files     []models.FileDescriptor
	uploading int
	confirmed bool
	query     string
	answer    string
}

func NewUploadSession(client api.Client, log logging.Logger) UploadSession {
	if log == nil {
		log = logging.Nop()
	}
	return &uploadSession{client: client, log: log.With("component", "upload")}
}

func (u *uploadSession) Select(files []models.FileDescriptor) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.selGen.Next()
	u.askGen.Next()
	u.files = slices.Clone(files)
	u.uploading = 0
	u.confirmed = false
	u.query = ""
	u.answer = ""
}

func (u *uploadSession) Upload(ctx context.Context) error {
	u.mu.Lock()
	tok := u.selGen.Peek()
	files := slices.Clone(u.files)
	if len(files) > 0 {
		u.uploading++
	}
	u.mu.Unlock()

	if len(files) == 0 {
		err := fmt.Errorf("%w: no files selected", api.ErrValidation)
		u.setErr(err)
		return err
	}

	u.begin()
	err := u.client.UploadDocuments(ctx, files)
	u.end()

	u.mu.Lock()
	current := u.selGen.Current(tok)
	if current {
		u.uploading--
		if err == nil {
			u.confirmed = true
		}
	}
	u.mu.Unlock()

	if err != nil {
		u.log.Error(ctx, "failed to upload documents", "files", len(files), "error", err)
		if current {
			u.setErr(err)
		}
		return fmt.Errorf("failed to upload documents: %w", err)
	}
	if current {
		u.log.Info(ctx, "documents uploaded", "files", len(files))
		u.setErr(nil)
	}
	return nil
}

func (u *uploadSession) SelectAndUpload(ctx context.Context, files []models.FileDescriptor) error {
	u.Select(files)
	return u.Upload(ctx)
}

func (u *uploadSession) Ask(ctx context.Context, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is required", api.ErrValidation)
	}

	u.mu.Lock()
	selTok := u.selGen.Peek()
	askTok := u.askGen.Next()
	if !u.confirmed {
		u.mu.Unlock()
		return "", ErrNotConfirmed
	}
	u.query = question
	u.mu.Unlock()

	u.begin()
	answer, err := u.client.AskUploads(ctx, question)
	u.end()

	current := u.selGen.Current(selTok) && u.askGen.Current(askTok)
	if err != nil {
		u.log.Error(ctx, "failed to ask about uploads", "error", err)
		if current {
			u.setErr(err)
		}
		return "", fmt.Errorf("failed to ask about uploads: %w", err)
	}

	if current {
		u.mu.Lock()
		u.answer = answer
		u.mu.Unlock()
		u.setErr(nil)
	}
	return answer, nil
}

func (u *uploadSession) State() UploadState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return UploadState{
		Files:     slices.Clone(u.files),
		Uploading: u.uploading > 0,
		Confirmed: u.confirmed,
		Query:     u.query,
		Answer:    u.answer,
	}
}

func (u *uploadSession) Close() {
	u.selGen.Close()
	u.askGen.Close()
}
