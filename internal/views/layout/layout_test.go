package layout

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestLinkState(t *testing.T) {
	if got := linkState("dishes", "dishes"); got != "active" {
		t.Fatalf("expected active state when sections match, got %q", got)
	}
	if got := linkState("meals", "dishes"); got != "inactive" {
		t.Fatalf("expected inactive state when sections differ, got %q", got)
	}
}

func TestLayoutRendersProvidedContent(t *testing.T) {
	content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := w.Write([]byte("<p>content</p>"))
		return err
	})

	var buf bytes.Buffer
	if err := Layout("Dishes & more", "dishes", content, true).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>Dishes &amp; more</title>") {
		t.Fatalf("expected escaped document title: %s", out)
	}
	if !strings.Contains(out, "<p>content</p>") {
		t.Fatalf("expected content in layout: %s", out)
	}
	if !strings.Contains(out, `data-state="active" data-nav-section="dishes"`) {
		t.Fatalf("expected active dishes link: %s", out)
	}
	if !strings.Contains(out, `action="/logout"`) {
		t.Fatalf("expected logout control: %s", out)
	}
}

func TestLayoutWithoutNavigation(t *testing.T) {
	var buf bytes.Buffer
	if err := Layout("Login", "", templ.NopComponent, false).Render(context.Background(), &buf); err != nil {
		t.Fatalf("render layout: %v", err)
	}
	if strings.Contains(buf.String(), "<nav>") {
		t.Fatalf("expected navigation to be hidden: %s", buf.String())
	}
}
