package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	if _, err := ParseFormat("yaml"); err != nil {
		t.Errorf("yaml: %v", err)
	}
	if _, err := ParseFormat("json"); err != nil {
		t.Errorf("json: %v", err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestPrint(t *testing.T) {
	value := map[string]any{"name": "acme", "pages": 3}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := New(&buf, FormatJSON).Print(value); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), `"name": "acme"`) {
			t.Errorf("unexpected json: %s", buf.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := New(&buf, FormatYAML).Print(value); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(buf.String(), "name: acme") {
			t.Errorf("unexpected yaml: %s", buf.String())
		}
	})
}
