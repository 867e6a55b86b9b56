package hotkeys

import (
	"fmt"
	"sort"
	"sync"

	"github.com/1broseidon/windowsnap/internal/config"
	"github.com/1broseidon/windowsnap/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// x11Accessor is an optional interface for sources that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Binding is a successfully registered hotkey.
type Binding struct {
	Keys     string
	Sequence string
	Action   config.HotkeyAction
}

// Handler manages global keyboard shortcuts on the X11 root window.
type Handler struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	mu    sync.Mutex
	bound []Binding
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler. Only X11 sources support global hotkeys.
func NewHandler(src platform.Source) (*Handler, error) {
	accessor, ok := src.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("global hotkeys require the x11 platform (got %s): %w", src.Name(), platform.ErrUnsupported)
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:   xu,
		root: accessor.RootWindow(),
	}, nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Rebind drops every existing binding and registers bindings (key combo ->
// action). Entries that fail to parse or grab are skipped and reported.
func (h *Handler) Rebind(bindings map[string]string, dispatch func(config.HotkeyAction)) ([]Binding, []error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	keybind.Detach(h.xu, h.root)
	h.bound = nil

	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, combo := range keys {
		action, err := config.ParseHotkeyAction(bindings[combo])
		if err != nil {
			errs = append(errs, fmt.Errorf("hotkey %q: %w", combo, err))
			continue
		}
		seq, err := KeySequence(combo)
		if err != nil {
			errs = append(errs, fmt.Errorf("hotkey %q: %w", combo, err))
			continue
		}
		if err := h.RegisterFunc(seq, func() { dispatch(action) }); err != nil {
			errs = append(errs, fmt.Errorf("hotkey %q: %w", combo, err))
			continue
		}
		h.bound = append(h.bound, Binding{Keys: combo, Sequence: seq, Action: action})
	}
	return append([]Binding(nil), h.bound...), errs
}

// Bound returns the currently registered bindings.
func (h *Handler) Bound() []Binding {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Binding(nil), h.bound...)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
