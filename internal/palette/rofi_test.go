package palette

import (
	"errors"
	"strings"
	"testing"
)

func TestRofiFormatItem_UsesSingleNullSeparator(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)

	out := b.formatItem(Item{
		Label:    "Header",
		IsHeader: true,
		Icon:     "folder",
		Meta:     "meta",
		IsActive: true,
	})

	if got := strings.Count(out, "\x00"); got != 1 {
		t.Fatalf("expected exactly 1 NUL separator, got %d (%q)", got, out)
	}
	if !strings.Contains(out, "\x00nonselectable\x1ftrue") {
		t.Fatalf("expected nonselectable property, got %q", out)
	}
	if strings.Contains(out, "\x00icon\x1f") {
		t.Fatalf("expected icon attribute to follow nonselectable, got %q", out)
	}
	if !strings.Contains(out, "icon\x1ffolder") || !strings.Contains(out, "meta\x1fmeta") {
		t.Fatalf("expected icon/meta attributes, got %q", out)
	}
}

func TestRofiFormatItem_DimDivider(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)

	out := b.formatItem(Item{
		Label:     "────────",
		IsDivider: true,
	})

	if !strings.Contains(out, "<span foreground='#666666'>") {
		t.Fatalf("expected dim span for divider, got %q", out)
	}
	if !strings.Contains(out, "\x00nonselectable\x1ftrue") {
		t.Fatalf("expected nonselectable property for divider, got %q", out)
	}
}

func TestRofiFormatItem_EscapesMarkup(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)

	out := b.formatItem(Item{Label: "Restore 'a<b>'"})
	if !strings.Contains(out, "a&lt;b&gt;") {
		t.Fatalf("expected escaped label, got %q", out)
	}
}

func TestDmenuFormatItem_PlainText(t *testing.T) {
	b := NewDmenuBackend().(*dmenuLikeBackend)

	out := b.formatItem(Item{Label: "Section", IsHeader: true, Icon: "folder"})
	if out != "Section" {
		t.Fatalf("expected plain label, got %q", out)
	}
}

func TestRofiBuildArgs_UsesIndexFormatAndNoCustom(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)

	_, selected := b.formatInput([]Item{
		{Label: "Header", IsHeader: true},
		{Label: "a"},
		{Label: "b", IsActive: true},
	})
	args := b.buildArgs("prompt", "message", selected)

	if !containsArgs(args, "-format", "i") {
		t.Fatalf("expected -format i in args, got %v", args)
	}
	if !containsArg(args, "-no-custom") {
		t.Fatalf("expected -no-custom in args, got %v", args)
	}
	if !containsArgs(args, "-selected-row", "2") {
		t.Fatalf("expected -selected-row 2 in args, got %v", args)
	}
	if !containsArgs(args, "-mesg", "message") {
		t.Fatalf("expected -mesg in args, got %v", args)
	}
}

func TestFormatInput_PreselectsFirstSelectable(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)

	_, selected := b.formatInput([]Item{
		{Label: "Header", IsHeader: true},
		{Label: "a"},
	})
	if selected != 1 {
		t.Fatalf("expected row 1, got %d", selected)
	}
}

func TestInputArgs(t *testing.T) {
	tests := []struct {
		backend Backend
		want    []string
	}{
		{NewRofiBackend(), []string{"-dmenu", "-p", "Name", "-lines", "0"}},
		{NewFuzzelBackend(), []string{"--dmenu", "--prompt", "Name ", "--lines", "0"}},
		{NewWofiBackend(), []string{"--dmenu", "--prompt", "Name", "--lines", "1"}},
		{NewDmenuBackend(), []string{"-p", "Name"}},
	}

	for _, tt := range tests {
		b := tt.backend.(*dmenuLikeBackend)
		t.Run(b.command, func(t *testing.T) {
			got := b.inputArgs("Name")
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Fatalf("inputArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRofiParseSelection_Index(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)
	items := []Item{
		{Label: "a", Action: "a"},
		{Label: "b", Action: "b"},
	}
	got, err := b.parseSelection("1", items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != "b" {
		t.Fatalf("expected action b, got %q", got.Action)
	}

	if _, err := b.parseSelection("7", items); err == nil {
		t.Fatal("expected out-of-range error")
	}
}

func TestDmenuParseSelection_Label(t *testing.T) {
	b := NewDmenuBackend().(*dmenuLikeBackend)
	items := []Item{
		{Label: "Save as 'default'", Action: "save:default"},
		{Label: "Show current windows", Action: "current"},
	}
	got, err := b.parseSelection("Show current windows", items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Action != "current" {
		t.Fatalf("expected action current, got %q", got.Action)
	}

	if _, err := b.parseSelection("nope", items); err == nil {
		t.Fatal("expected unknown selection error")
	}
}

func TestShow_NoItems(t *testing.T) {
	b := NewRofiBackend()
	if _, err := b.Show("p", nil, ""); !errors.Is(err, errNoItems) {
		t.Fatalf("expected errNoItems, got %v", err)
	}
}

func TestFormatInput_DisambiguatesDuplicateLabels(t *testing.T) {
	b := NewDmenuBackend().(*dmenuLikeBackend)
	items := []Item{
		{Label: "Dup", Action: "a"},
		{Label: "Dup", Action: "b"},
	}

	_, _ = b.formatInput(items)
	if items[0].Label != "Dup" {
		t.Fatalf("expected first label unchanged, got %q", items[0].Label)
	}
	if items[1].Label != "Dup (2)" {
		t.Fatalf("expected second label disambiguated, got %q", items[1].Label)
	}
}

func TestFormatInput_IndexBackendsDoNotDisambiguateDuplicateLabels(t *testing.T) {
	b := NewRofiBackend().(*dmenuLikeBackend)
	items := []Item{
		{Label: "Dup", Action: "a"},
		{Label: "Dup", Action: "b"},
	}

	_, _ = b.formatInput(items)
	if items[0].Label != "Dup" || items[1].Label != "Dup" {
		t.Fatalf("expected labels unchanged for index backend, got %#v", items)
	}
}

func containsArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

func containsArgs(args []string, a string, b string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == a && args[i+1] == b {
			return true
		}
	}
	return false
}
