// Package printing renders management reports to PDF.
//
// Reports are first rendered to HTML with html/template and then printed
// by a headless Chrome driven over the DevTools protocol (chromedp).
//
//	pdf := NewChromeRenderer(ChromeConfig{RemoteURL: cfg.Printing.RemoteURL})
//	defer pdf.Close()
//
//	reports, err := NewManagementReportRenderer(pdf, logger)
//	data, err := reports.RenderManagementReport(ctx, managementReport)
package printing
