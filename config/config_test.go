package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/skein-dev/skein"
)

func TestDefaults(t *testing.T) {
	c := Default()

	if c.StackSize != skein.StackSize {
		t.Fatal("default stack size mismatch:", c.StackSize)
	}
	if c.TableCap != skein.DefaultCap {
		t.Fatal("default table capacity mismatch:", c.TableCap)
	}
	if c.Listen != DefaultListen {
		t.Fatal("default listen address mismatch:", c.Listen)
	}
}

func TestParse(t *testing.T) {
	// comments and trailing commas are fine
	c, err := Parse([]byte(`{
		// half a meg is plenty for the demos
		"stackSize": 524288,
		"tableCap": 32,
		"listen": "localhost:9000",
	}`))
	if err != nil {
		t.Fatal(err)
	}

	if c.StackSize != 524288 || c.TableCap != 32 || c.Listen != "localhost:9000" {
		t.Fatal("bad config:", c)
	}
}

func TestParsePartial(t *testing.T) {
	c, err := Parse([]byte(`{"tableCap": 64}`))
	if err != nil {
		t.Fatal(err)
	}

	if c.TableCap != 64 {
		t.Fatal("table capacity not applied:", c.TableCap)
	}
	if c.StackSize != skein.StackSize || c.Listen != DefaultListen {
		t.Fatal("absent fields did not default:", c)
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse([]byte(`{"stackSize": `)); err == nil {
		t.Fatal("expected parse error")
	}

	// zero and negative values fall back rather than breaking Open
	c, err := Parse([]byte(`{"stackSize": -1, "tableCap": 0}`))
	if err != nil {
		t.Fatal(err)
	}
	if c.StackSize != skein.StackSize || c.TableCap != skein.DefaultCap {
		t.Fatal("bad fallback:", c)
	}
}

func TestLoadMissing(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.hujson"))
	if err != nil {
		t.Fatal(err)
	}
	if c != Default() {
		t.Fatal("missing file did not default:", c)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skeind.hujson")
	if err := os.WriteFile(path, []byte(`{"tableCap": 8}`), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.TableCap != 8 {
		t.Fatal("bad config:", c)
	}
}

func TestOpen(t *testing.T) {
	c := Default()
	c.TableCap = 4

	s := c.Open()
	defer s.Close()

	if tcap := s.Cap(); tcap != 4 {
		t.Fatal("expected capacity 4, got", tcap)
	}
}
