package hxtag

import (
	"errors"
	"strings"
	"testing"

	"github.com/a-h/templ"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Kind
		wantErr bool
		suggest string
	}{
		{"empty", "", KindPrimary, false, ""},
		{"known", "negative", KindNegative, false, ""},
		{"custom", "custom", KindCustom, false, ""},
		{"typo", "purpel", "", true, "purple"},
		{"far off", "magenta", "", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKind(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if err == nil {
				return
			}
			if !errors.Is(err, ErrUnknownKind) {
				t.Errorf("error = %v, want ErrUnknownKind", err)
			}
			hasHint := strings.Contains(err.Error(), "did you mean")
			if hasHint != (tt.suggest != "") || !strings.Contains(err.Error(), tt.suggest) {
				t.Errorf("error %q, want suggestion %q", err, tt.suggest)
			}
		})
	}
}

func TestParseVariant(t *testing.T) {
	for _, v := range Variants() {
		got, err := ParseVariant(string(v))
		if err != nil || got != v {
			t.Errorf("ParseVariant(%q) = %q, %v", v, got, err)
		}
	}
	if got, _ := ParseVariant(""); got != VariantLight {
		t.Errorf("ParseVariant(\"\") = %q, want %q", got, VariantLight)
	}
	_, err := ParseVariant("solod")
	if !errors.Is(err, ErrUnknownVariant) || !strings.Contains(err.Error(), `"solid"`) {
		t.Errorf("ParseVariant(\"solod\") error = %v", err)
	}
}

func TestStateInteractive(t *testing.T) {
	tests := []struct {
		name   string
		state  State
		expect bool
	}{
		{"none", State{}, false},
		{"clickable", State{Clickable: true}, true},
		{"closeable", State{Closeable: true}, true},
		{"both", State{Clickable: true, Closeable: true}, true},
		{"disabled", State{Clickable: true, Closeable: true, Disabled: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Interactive(); got != tt.expect {
				t.Errorf("Interactive() = %v, want %v", got, tt.expect)
			}
		})
	}
}

func TestStateAttrsRoundTrip(t *testing.T) {
	s := State{
		Clickable:      true,
		Closeable:      true,
		Color:          "red",
		IsHovered:      true,
		Kind:           KindWarning,
		Variant:        VariantOutlined,
		IsFocusVisible: true,
	}
	if got := StateFromAttrs(s.Attrs()); got != s {
		t.Errorf("StateFromAttrs(Attrs()) = %+v, want %+v", got, s)
	}
	for k := range s.Attrs() {
		if !strings.HasPrefix(k, "$") {
			t.Errorf("state key %q should be $-prefixed", k)
		}
	}
}

func TestStateFromAttrsLenient(t *testing.T) {
	got := StateFromAttrs(templ.Attributes{
		KeyKind:     "blue",
		KeyVariant:  "solid",
		KeyDisabled: "yes",
	})
	want := State{Kind: KindBlue, Variant: VariantSolid}
	if got != want {
		t.Errorf("StateFromAttrs() = %+v, want %+v", got, want)
	}
}
