package svgform_test

import (
	"errors"
	"strings"
	"testing"

	svgform "github.com/lvillar/svgform"
)

func TestErrorFormatting(t *testing.T) {
	err := svgform.Wrap("Split", "table", "rows_per_page=0", svgform.ErrRowsPerPage)
	msg := err.Error()
	for _, part := range []string{"svgform.Split", "[table]", "rows_per_page=0"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("message %q missing %q", msg, part)
		}
	}
	if !errors.Is(err, svgform.ErrRowsPerPage) {
		t.Fatal("wrapped sentinel must survive errors.Is")
	}
}

func TestIsFatal(t *testing.T) {
	if svgform.IsFatal(nil) {
		t.Fatal("nil is not fatal")
	}
	if svgform.IsFatal(svgform.BindingError("Render", "missing-id")) {
		t.Fatal("missing bound elements are recoverable")
	}
	if !svgform.IsFatal(svgform.ConfigError("Render", "tpl", svgform.ErrNoFirstPage)) {
		t.Fatal("config errors are fatal")
	}
	if !svgform.IsFatal(svgform.DataError("Render", "tpl", svgform.ErrNoMetaSource)) {
		t.Fatal("data errors are fatal")
	}
}

func TestConstructorScopes(t *testing.T) {
	if got := svgform.ConfigError("Op", "d", svgform.ErrNoBaseDocument).Scope; got != "template" {
		t.Fatalf("config scope %q", got)
	}
	if got := svgform.DataError("Op", "d", svgform.ErrNoMetaSource).Scope; got != "data" {
		t.Fatalf("data scope %q", got)
	}
	if got := svgform.BindingError("Op", "id").Scope; got != "svg" {
		t.Fatalf("binding scope %q", got)
	}
}
