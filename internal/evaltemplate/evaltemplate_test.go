package evaltemplate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInstall_WritesFixedFilename(t *testing.T) {
	for _, lang := range []Language{JS, Python} {
		out := t.TempDir()
		dest, err := Install(lang, out)
		if err != nil {
			t.Fatalf("Install(%s): %v", lang, err)
		}
		if filepath.Base(dest) != Filename {
			t.Fatalf("unexpected filename: %s", dest)
		}
		data, err := os.ReadFile(dest)
		if err != nil {
			t.Fatalf("read installed template: %v", err)
		}
		if len(data) == 0 {
			t.Fatalf("installed template is empty")
		}
	}
}

func TestParseLanguage_RejectsUnknown(t *testing.T) {
	if _, err := ParseLanguage("ruby"); err == nil {
		t.Fatalf("expected error for unsupported language")
	}
}
