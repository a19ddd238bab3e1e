package doc

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load reads a token dump from r. The dump is the wire format of the
// upstream extraction stage:
//
//	{"pages": [{"tokens": [{"text": "INVOICE", "bbox": [0.1, 0.05, 0.3, 0.08]}],
//	            "tables": [{"bbox": [0.05, 0.4, 0.95, 0.8]}]}]}
//
// All coordinates must already be normalized to [0,1] with a top origin.
func Load(r io.Reader) (*Document, error) {
	var d Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode token dump: %w", err)
	}

	for i := range d.Pages {
		d.Pages[i].Index = i
		for _, tok := range d.Pages[i].Tokens {
			if !tok.BBox.InUnit() {
				return nil, fmt.Errorf("page %d: token %q bbox %s outside [0,1]", i, tok.Text, tok.BBox)
			}
		}
		for _, tbl := range d.Pages[i].Tables {
			if !tbl.BBox.InUnit() {
				return nil, fmt.Errorf("page %d: table bbox %s outside [0,1]", i, tbl.BBox)
			}
		}
	}
	return &d, nil
}

// LoadFile reads a token dump from the file at path.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token dump: %w", err)
	}
	defer f.Close()

	d, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
