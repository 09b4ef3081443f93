package printing

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	chromeRenderTimeout = 30 * time.Second
	// Chrome draws the footer inside the bottom margin.
	footerMinMarginMM = 10
	mmPerInch         = 25.4
)

// ChromeConfig configures ChromeRenderer.
type ChromeConfig struct {
	// Timeout bounds one render unless the request sets its own.
	Timeout time.Duration
	// RemoteURL is the DevTools endpoint of a running Chrome. Empty launches
	// a local headless browser.
	RemoteURL string
	// NoSandbox is required when Chrome runs as root inside a container.
	NoSandbox bool
	Scale     float64
	Logger    *zap.Logger
}

// ChromeRenderer prints HTML through headless Chrome. One browser process
// (or remote connection) is shared and every render opens its own tab.
type ChromeRenderer struct {
	timeout time.Duration
	scale   float64
	log     *zap.Logger

	browser     context.Context
	closeBrowse context.CancelFunc
}

// NewChromeRenderer prepares the browser allocator. Chrome itself starts on
// the first render.
func NewChromeRenderer(cfg ChromeConfig) *ChromeRenderer {
	r := &ChromeRenderer{
		timeout: cfg.Timeout,
		scale:   cfg.Scale,
		log:     cfg.Logger,
	}
	if r.timeout <= 0 {
		r.timeout = chromeRenderTimeout
	}
	if r.scale <= 0 {
		r.scale = 1
	}
	if r.log == nil {
		r.log = zap.NewNop()
	}

	if cfg.RemoteURL != "" {
		r.browser, r.closeBrowse = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return r
	}
	flags := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	flags = append(flags,
		chromedp.DisableGPU,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if cfg.NoSandbox {
		flags = append(flags, chromedp.NoSandbox)
	}
	r.browser, r.closeBrowse = chromedp.NewExecAllocator(context.Background(), flags...)
	return r
}

// Render prints req to PDF in a fresh tab.
func (r *ChromeRenderer) Render(ctx context.Context, req *PrintJob) (*PrintedPDF, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	began := time.Now()

	timeout := r.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// The tab hangs off the shared allocator, so the caller's deadline is
	// forwarded by hand.
	tab, closeTab := chromedp.NewContext(r.browser, chromedp.WithLogf(r.log.Sugar().Debugf))
	defer closeTab()
	defer context.AfterFunc(ctx, closeTab)()

	var pdf []byte
	err := chromedp.Run(tab,
		chromedp.Navigate("about:blank"),
		loadDocument(wrapDocument(req)),
		printToPDF(r.pageSetup(req), &pdf),
	)
	switch {
	case err == nil:
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, newPrintError(FailTimeout, fmt.Sprintf("rendering exceeded %s", timeout), err)
	case errors.Is(ctx.Err(), context.Canceled):
		return nil, newPrintError(FailTimeout, "rendering cancelled", err)
	default:
		r.log.Error("Chrome could not print document", zap.String("title", req.Title), zap.Error(err))
		return nil, newPrintError(FailChrome, "chrome print failed", err)
	}
	if len(pdf) == 0 {
		return nil, newPrintError(FailChrome, "chrome returned an empty PDF", nil)
	}

	result := &PrintedPDF{PDF: pdf, Pages: countPages(pdf), Elapsed: time.Since(began)}
	r.log.Info("Document printed",
		zap.String("title", req.Title),
		zap.Int("size", len(pdf)),
		zap.Int("pages", result.Pages),
		zap.Duration("took", result.Elapsed),
	)
	return result, nil
}

// Close stops the local browser or drops the remote connection.
func (r *ChromeRenderer) Close() error {
	r.closeBrowse()
	return nil
}

func loadDocument(doc string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return fmt.Errorf("frame tree: %w", err)
		}
		return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
	})
}

func printToPDF(setup pageSetup, out *[]byte) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		params := page.PrintToPDF().
			WithPrintBackground(true).
			WithPaperWidth(setup.width).
			WithPaperHeight(setup.height).
			WithMarginTop(setup.top).
			WithMarginRight(setup.right).
			WithMarginBottom(setup.bottom).
			WithMarginLeft(setup.left).
			WithScale(setup.scale).
			WithLandscape(setup.landscape)
		if setup.footer != "" {
			params = params.
				WithDisplayHeaderFooter(true).
				WithHeaderTemplate("<span></span>").
				WithFooterTemplate(setup.footer)
		}
		data, _, err := params.Do(ctx)
		*out = data
		return err
	})
}

// pageSetup is the sheet geometry handed to Chrome, in inches.
type pageSetup struct {
	width, height            float64
	top, right, bottom, left float64
	scale                    float64
	landscape                bool
	footer                   string
}

func (r *ChromeRenderer) pageSetup(req *PrintJob) pageSetup {
	s := pageSetup{
		width:     inches(req.Paper.Width),
		height:    inches(req.Paper.Height),
		top:       inches(req.Margins.Top),
		right:     inches(req.Margins.Right),
		bottom:    inches(req.Margins.Bottom),
		left:      inches(req.Margins.Left),
		scale:     r.scale,
		landscape: req.Landscape,
		footer:    req.FooterHTML,
	}
	if s.footer != "" {
		s.bottom = max(s.bottom, inches(footerMinMarginMM))
	}
	return s
}

func inches(mm float64) float64 {
	return mm / mmPerInch
}

// wrapDocument turns a fragment into a standalone page. Input that already
// is a document passes through.
func wrapDocument(req *PrintJob) string {
	head := strings.ToLower(req.HTML[:min(len(req.HTML), 512)])
	if strings.Contains(head, "<!doctype") || strings.Contains(head, "<html") {
		return req.HTML
	}

	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html lang="pt-BR"><head><meta charset="UTF-8">`)
	if req.Title != "" {
		fmt.Fprintf(&b, "<title>%s</title>", html.EscapeString(req.Title))
	}
	fmt.Fprintf(&b, "</head><body>%s</body></html>", req.HTML)
	return b.String()
}

var pdfPageObject = regexp.MustCompile(`/Type\s*/Page[^s]`)

// countPages counts page objects; unparseable output counts as one page.
func countPages(pdf []byte) int {
	return max(len(pdfPageObject.FindAllIndex(pdf, -1)), 1)
}

var _ PDFPrinter = (*ChromeRenderer)(nil)
