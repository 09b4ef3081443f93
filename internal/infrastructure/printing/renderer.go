package printing

import (
	"context"
	"strings"
	"time"
)

// PaperSize is a sheet in millimeters.
type PaperSize struct {
	Width, Height float64
}

func (p PaperSize) valid() bool { return p.Width > 0 && p.Height > 0 }

var (
	PaperA4     = PaperSize{Width: 210, Height: 297}
	PaperLetter = PaperSize{Width: 215.9, Height: 279.4}
)

// Margins are in millimeters.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// DefaultMargins leave room for binding on the left and right edges.
func DefaultMargins() Margins {
	return Margins{Top: 15, Right: 12, Bottom: 15, Left: 12}
}

// PrintJob is one HTML document to print.
type PrintJob struct {
	HTML      string
	Title     string
	Paper     PaperSize
	Landscape bool
	Margins   Margins
	// FooterHTML repeats on every page. Chrome fills elements with the
	// pageNumber and totalPages classes.
	FooterHTML string
	// Timeout replaces the printer default when positive.
	Timeout time.Duration
}

// PrintedPDF is the outcome of a successful job.
type PrintedPDF struct {
	PDF     []byte
	Pages   int
	Elapsed time.Duration
}

// PDFPrinter turns a PrintJob into PDF bytes. ChromeRenderer is the
// production implementation.
type PDFPrinter interface {
	Render(ctx context.Context, job *PrintJob) (*PrintedPDF, error)
	Close() error
}

// Failure classifies a PrintError.
type Failure string

const (
	FailTimeout  Failure = "RENDER_TIMEOUT"
	FailChrome   Failure = "RENDER_FAILED"
	FailInput    Failure = "INVALID_HTML"
	FailPaper    Failure = "INVALID_PAPER_SIZE"
	FailTemplate Failure = "TEMPLATE_FAILED"
)

type PrintError struct {
	Kind    Failure
	Message string
	Cause   error
}

func newPrintError(kind Failure, message string, cause error) *PrintError {
	return &PrintError{Kind: kind, Message: message, Cause: cause}
}

func (e *PrintError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *PrintError) Unwrap() error { return e.Cause }

func (job *PrintJob) validate() error {
	switch {
	case job == nil:
		return newPrintError(FailInput, "print job is nil", nil)
	case strings.TrimSpace(job.HTML) == "":
		return newPrintError(FailInput, "HTML content is empty", nil)
	case !job.Paper.valid():
		return newPrintError(FailPaper, "paper dimensions must be positive", nil)
	}
	return nil
}
