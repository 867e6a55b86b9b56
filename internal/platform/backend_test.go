package platform

import (
	"errors"
	"testing"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		goos    string
		env     map[string]string
		want    string
		wantErr error
	}{
		{name: "windows", goos: "windows", want: KindWindows},
		{name: "darwin", goos: "darwin", want: KindMacOS},
		{name: "linux x11", goos: "linux", env: map[string]string{"DISPLAY": ":0"}, want: KindX11},
		{name: "xwayland", goos: "linux", env: map[string]string{"DISPLAY": ":0", "WAYLAND_DISPLAY": "wayland-0"}, want: KindX11},
		{name: "pure wayland", goos: "linux", env: map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, wantErr: ErrUnsupported},
		{name: "plan9", goos: "plan9", wantErr: ErrUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Detect(tt.goos, envFrom(tt.env))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Detect() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Detect() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Detect() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectHeadlessLinux(t *testing.T) {
	if _, err := Detect("linux", envFrom(nil)); err == nil {
		t.Fatal("expected error without DISPLAY")
	}
}

func TestFamily(t *testing.T) {
	cases := map[string]string{
		KindX11:     "Linux",
		KindWmctrl:  "Linux",
		KindMacOS:   "Darwin",
		KindWindows: "Windows",
		"bogus":     "Unknown",
	}
	for kind, want := range cases {
		if got := Family(kind); got != want {
			t.Errorf("Family(%q) = %q, want %q", kind, got, want)
		}
	}
}

func TestNewUnknownKind(t *testing.T) {
	if _, err := New("beos", Options{}); err == nil {
		t.Fatal("expected error for unknown platform kind")
	}
}

func TestCanMoveResize(t *testing.T) {
	if CanMoveResize(NewMacOSSource(0)) {
		t.Fatal("macOS source should not support move/resize")
	}
	if !CanMoveResize(&WmctrlSource{}) {
		t.Fatal("wmctrl source should support move/resize")
	}
}

func TestOnAnyDisplay(t *testing.T) {
	displays := []Rect{
		{X: 0, Y: 0, Width: 1920, Height: 1080},
		{X: 1920, Y: 0, Width: 2560, Height: 1440},
	}
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"inside first", Rect{X: 10, Y: 10, Width: 100, Height: 100}, true},
		{"spans both", Rect{X: 1800, Y: 0, Width: 400, Height: 300}, true},
		{"second only", Rect{X: 3000, Y: 1200, Width: 100, Height: 100}, true},
		{"touching edge", Rect{X: 4480, Y: 0, Width: 100, Height: 100}, false},
		{"below first", Rect{X: 0, Y: 1080, Width: 500, Height: 200}, false},
		{"negative", Rect{X: -900, Y: -700, Width: 800, Height: 600}, false},
	}
	for _, tt := range tests {
		if got := OnAnyDisplay(tt.r, displays); got != tt.want {
			t.Errorf("%s: OnAnyDisplay(%+v) = %v, want %v", tt.name, tt.r, got, tt.want)
		}
	}
}
