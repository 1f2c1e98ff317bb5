package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"alterego/internal/logging"

	"github.com/ledongthuc/pdf"
)

// LoadOptions points at the files a Context is built from.
type LoadOptions struct {
	Name        string
	SummaryPath string
	ProfilePath string
}

// Load reads the summary and profile files and builds a Context.
// A profile with a .pdf extension is text-extracted; anything else is read as text.
func Load(opts LoadOptions) (Context, error) {
	summary, err := os.ReadFile(opts.SummaryPath)
	if err != nil {
		return Context{}, fmt.Errorf("failed to read summary: %w", err)
	}

	var profile string
	if strings.EqualFold(filepath.Ext(opts.ProfilePath), ".pdf") {
		profile, err = ExtractPDFText(opts.ProfilePath)
	} else {
		var data []byte
		data, err = os.ReadFile(opts.ProfilePath)
		profile = string(data)
	}
	if err != nil {
		return Context{}, fmt.Errorf("failed to read profile: %w", err)
	}

	logging.Persona("Loaded persona %q: summary=%d bytes profile=%d bytes", opts.Name, len(summary), len(profile))
	return New(opts.Name, string(summary), profile), nil
}

// ExtractPDFText concatenates the plain text of every page that has any.
func ExtractPDFText(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	var sb strings.Builder
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			logging.PersonaWarn("Skipping page %d of %s: %v", i, path, err)
			continue
		}
		if text == "" {
			continue
		}
		sb.WriteString(text)
	}

	logging.PersonaDebug("Extracted %d bytes from %d pages of %s", sb.Len(), total, path)
	return sb.String(), nil
}
