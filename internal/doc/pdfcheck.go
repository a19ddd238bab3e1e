package doc

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// VerifyAgainstPDF cross-checks a token dump against the PDF it was
// extracted from. A page-count mismatch almost always means the dump was
// produced from a different revision of the file, which would silently
// shift every page-indexed region.
func VerifyAgainstPDF(d *Document, pdfPath string) error {
	f, err := os.Open(pdfPath)
	if err != nil {
		return fmt.Errorf("failed to open PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	pageCount, err := api.PageCount(f, nil)
	if err != nil {
		return fmt.Errorf("failed to get page count for %s: %w", pdfPath, err)
	}

	if pageCount != d.PageCount() {
		return fmt.Errorf("token dump has %d pages but %s has %d", d.PageCount(), pdfPath, pageCount)
	}
	return nil
}
