package download

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/songwall/internal/shared"
)

const (
	// DefaultFilename is the name every download is saved under.
	DefaultFilename = "audio.mp3"

	// ErrorMessage is the fixed text shown to the user when a download fails.
	ErrorMessage = "error download"
)

// Blob is downloaded audio content.
type Blob struct {
	Data        []byte
	ContentType string
}

// Size returns the blob length in bytes.
func (b Blob) Size() int { return len(b.Data) }

// Fetcher retrieves the content at url as a [Blob].
type Fetcher interface {
	GetAudioBlob(ctx context.Context, url string) (Blob, error)
}

// Saver persists a blob under filename.
type Saver interface {
	SaveBlobAsFile(blob Blob, filename string) error
}

// Notifier shows a transient message to the user.
type Notifier interface {
	Error(message string)
}

// NotifierFunc adapts a function to [Notifier].
type NotifierFunc func(message string)

func (f NotifierFunc) Error(message string) { f(message) }

// Trigger runs the fetch-then-save flow for a single URL.
type Trigger struct {
	fetcher  Fetcher
	saver    Saver
	notifier Notifier
	filename string
	logger   *log.Logger
}

// TriggerOpts configures a [Trigger]. Filename defaults to [DefaultFilename] and Logger to [shared.NewLogger].
type TriggerOpts struct {
	Fetcher  Fetcher
	Saver    Saver
	Notifier Notifier
	Filename string
	Logger   *log.Logger
}

// NewTrigger creates a Trigger. A nil Notifier discards notifications.
func NewTrigger(opts TriggerOpts) *Trigger {
	if opts.Filename == "" {
		opts.Filename = DefaultFilename
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Notifier == nil {
		opts.Notifier = NotifierFunc(func(string) {})
	}

	return &Trigger{
		fetcher:  opts.Fetcher,
		saver:    opts.Saver,
		notifier: opts.Notifier,
		filename: opts.Filename,
		logger:   shared.WithLogger(opts.Logger, "component", "download"),
	}
}

// Download fetches url and saves it. It reports whether the blob was saved.
//
// Any failure, including a panic inside a collaborator, is logged and reported once through the notifier.
func (t *Trigger) Download(ctx context.Context, url string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			t.fail(url, fmt.Errorf("%w: panic: %v", shared.ErrDownloadFailed, r))
			ok = false
		}
	}()

	if err := t.run(ctx, url); err != nil {
		t.fail(url, err)
		return false
	}
	return true
}

// Start runs [Trigger.Download] in a new goroutine and returns immediately.
//
// The returned channel receives the outcome once and is then closed.
func (t *Trigger) Start(ctx context.Context, url string) <-chan bool {
	done := make(chan bool, 1)
	go func() {
		defer close(done)
		done <- t.Download(ctx, url)
	}()
	return done
}

func (t *Trigger) run(ctx context.Context, url string) error {
	if t.fetcher == nil || t.saver == nil {
		return fmt.Errorf("%w: trigger is missing a fetcher or saver", shared.ErrDownloadFailed)
	}
	if url == "" {
		return fmt.Errorf("%w: empty URL", shared.ErrInvalidArgument)
	}

	blob, err := t.fetcher.GetAudioBlob(ctx, url)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrDownloadFailed, err)
	}

	if err := t.saver.SaveBlobAsFile(blob, t.filename); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrDownloadFailed, err)
	}

	t.logger.Debug("download saved", "url", url, "bytes", blob.Size(), "filename", t.filename)
	return nil
}

func (t *Trigger) fail(url string, err error) {
	t.logger.Error("Error occurred", "url", url, "error", err)
	t.notifier.Error(ErrorMessage)
}
