package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"os"
	"time"

	"tienda-joyas/logger"
	"tienda-joyas/models"
	"tienda-joyas/utils"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	itemsPerPrintPage = 9
	pdfTimeout        = 30 * time.Second
)

//go:embed templates/catalog.html
var templatesFS embed.FS

var catalogTemplate = template.Must(template.ParseFS(templatesFS, "templates/catalog.html"))

// PrintServiceInterface defines the contract for the printable catalog
type PrintServiceInterface interface {
	RenderCatalogHTML(products []models.Product, title string) (string, error)
	GeneratePDF(ctx context.Context, renderURL string) ([]byte, error)
}

// CatalogPrintService renders the catalog as printable HTML and PDF
type CatalogPrintService struct {
	baseURL    string // Base URL for image endpoints (e.g., "http://localhost:8080")
	chromePath string
	log        *zap.Logger
}

// NewCatalogPrintService creates a new CatalogPrintService
func NewCatalogPrintService(baseURL, chromePath string, log *zap.Logger) *CatalogPrintService {
	return &CatalogPrintService{
		baseURL:    baseURL,
		chromePath: chromePath,
		log:        logger.OrNop(log),
	}
}

// Ensure CatalogPrintService implements PrintServiceInterface
var _ PrintServiceInterface = (*CatalogPrintService)(nil)

type printProduct struct {
	ID        string
	Name      string
	Material  string
	Emoji     string
	ImageURL  string
	Price     string
	OldPrice  string
	PriceNote string
}

type printPage struct {
	Number   int
	Products []printProduct
}

// detectChromePath detects the path to Chrome/Chromium executable
// Checks the configured path first, then common installation paths
func detectChromePath(configured string) string {
	if configured != "" {
		if _, err := os.Stat(configured); err == nil {
			return configured
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// paginateProducts splits products into pages of 9 items each
func paginateProducts(products []printProduct) []printPage {
	var pages []printPage
	for i := 0; i < len(products); i += itemsPerPrintPage {
		end := i + itemsPerPrintPage
		if end > len(products) {
			end = len(products)
		}
		pages = append(pages, printPage{Number: len(pages) + 1, Products: products[i:end]})
	}
	return pages
}

// RenderCatalogHTML renders the catalog template for the given products
func (s *CatalogPrintService) RenderCatalogHTML(products []models.Product, title string) (string, error) {
	items := make([]printProduct, 0, len(products))
	for _, p := range products {
		item := printProduct{
			ID:        p.ID,
			Name:      p.Name,
			Material:  p.Material,
			Emoji:     p.Emoji,
			Price:     utils.FormatPrice(p.EffectivePrice()),
			PriceNote: string(p.PriceNote),
		}
		if p.HasPromo() {
			item.OldPrice = utils.FormatPrice(p.Price)
		}
		if p.Image != "" {
			item.ImageURL = fmt.Sprintf("%s/api/products/%s/image?size=%s", s.baseURL, url.PathEscape(p.ID), SizeMedium)
		}
		items = append(items, item)
	}

	pages := paginateProducts(items)
	data := struct {
		Title      string
		Subtitle   string
		Pages      []printPage
		TotalPages int
	}{
		Title:      title,
		Subtitle:   fmt.Sprintf("%d productos disponibles", len(items)),
		Pages:      pages,
		TotalPages: len(pages),
	}

	var buf bytes.Buffer
	if err := catalogTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// GeneratePDF prints the page at renderURL to a 210mm x 350mm PDF using chromedp
func (s *CatalogPrintService) GeneratePDF(ctx context.Context, renderURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, pdfTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox, // Required for running in Docker/containers
		chromedp.Flag("enable-print-preview", true),
	)
	if chromePath := detectChromePath(s.chromePath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
	} else {
		s.log.Warn("chrome not found, letting chromedp auto-detect")
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	chromedpCtx, chromedpCancel := chromedp.NewContext(allocCtx)
	defer chromedpCancel()

	var pdfBuf []byte
	start := time.Now()
	// 210mm = 794px at 96 DPI
	err := chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(794, 5000),
		chromedp.Navigate(renderURL),
		chromedp.WaitReady("body"),
		// Wait for fonts and images to load
		chromedp.Evaluate(`
			Promise.all([
				document.fonts.ready,
				Promise.all(Array.from(document.querySelectorAll('img')).map(img => new Promise((resolve) => {
					if (img.complete) { resolve(); return; }
					const timeout = setTimeout(resolve, 5000);
					img.onload = () => { clearTimeout(timeout); resolve(); };
					img.onerror = () => { clearTimeout(timeout); resolve(); };
				})))
			]).then(() => true)
		`, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			// 210mm x 350mm = 8.27" x 13.78"
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(13.78).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	s.log.Info("catalog PDF generated", zap.Int("bytes", len(pdfBuf)), zap.Duration("elapsed", time.Since(start)))
	return pdfBuf, nil
}
