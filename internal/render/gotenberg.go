package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

//go:embed templates/invoice_pdf.html
var templates embed.FS

// Renderer wraps Gotenberg interactions for invoice PDF generation.
// Concurrent renders of the same invoice collapse into one upstream call.
type Renderer struct {
	Endpoint string
	Client   *http.Client

	templates *template.Template
	group     singleflight.Group
}

// NewRenderer creates a Renderer with parsed templates.
func NewRenderer(endpoint string, client *http.Client) (*Renderer, error) {
	funcMap := template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"money": formatMoney,
		"formatQty": func(qty float64) string {
			s := fmt.Sprintf("%.4f", qty)
			s = strings.TrimRight(s, "0")
			s = strings.TrimRight(s, ".")
			return s
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"title": func(s string) string {
			return strings.ReplaceAll(s, "_", " ")
		},
		"upper": strings.ToUpper,
	}

	tpl, err := template.New("invoice_pdf.html").Funcs(funcMap).ParseFS(
		templates, "templates/invoice_pdf.html",
	)
	if err != nil {
		return nil, fmt.Errorf("parse invoice template: %w", err)
	}

	return &Renderer{
		Endpoint:  endpoint,
		Client:    client,
		templates: tpl,
	}, nil
}

// RenderInvoice sends HTML content to Gotenberg and returns the PDF bytes.
func (r *Renderer) RenderInvoice(ctx context.Context, doc InvoiceDocument) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("renderer not initialized")
	}
	result, err, _ := r.group.Do(doc.ID, func() (interface{}, error) {
		return r.render(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

func (r *Renderer) render(ctx context.Context, doc InvoiceDocument) ([]byte, error) {
	endpoint := strings.TrimRight(r.Endpoint, "/")
	if endpoint == "" {
		return nil, fmt.Errorf("gotenberg endpoint required")
	}
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	html, err := r.BuildHTML(doc)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("files", "invoice.html")
	if err != nil {
		return nil, err
	}
	if _, err := io.WriteString(part, html); err != nil {
		return nil, err
	}

	fields := map[string]string{
		"paperWidth":   "8.27",
		"paperHeight":  "11.69",
		"marginTop":    "0.5",
		"marginBottom": "0.5",
		"marginLeft":   "0.5",
		"marginRight":  "0.5",
		"waitDelay":    "100",
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("gotenberg response %d: %s", resp.StatusCode, string(data))
	}

	return io.ReadAll(resp.Body)
}

// BuildHTML renders the invoice template without converting it to PDF.
func (r *Renderer) BuildHTML(doc InvoiceDocument) (string, error) {
	if r.templates == nil {
		return "", fmt.Errorf("templates not initialized")
	}

	buf := &bytes.Buffer{}
	if err := r.templates.ExecuteTemplate(buf, "invoice_pdf.html", doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}
