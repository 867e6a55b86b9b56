package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// macOSListScript enumerates windows of visible processes through System
// Events. It needs the Accessibility permission for the calling terminal.
const macOSListScript = `
const se = Application("System Events");
const out = [];
se.processes.whose({visible: true})().forEach(p => {
  const name = p.name();
  let wins = [];
  try { wins = p.windows(); } catch (e) { return; }
  wins.forEach(w => {
    let title = "";
    try { title = w.name() || ""; } catch (e) {}
    if (!title) return;
    const pos = w.position();
    const size = w.size();
    out.push({title: title, process: name, pid: p.unixId(), x: pos[0], y: pos[1], width: size[0], height: size[1]});
  });
});
JSON.stringify(out);
`

// MacOSSource lists windows via osascript. macOS offers no move primitive
// to unprivileged processes here, so it does not implement Mover.
type MacOSSource struct {
	timeout time.Duration
	run     runFunc
}

var _ Source = (*MacOSSource)(nil)

func NewMacOSSource(timeout time.Duration) *MacOSSource {
	return &MacOSSource{timeout: timeout, run: execOutput}
}

func (s *MacOSSource) Name() string   { return KindMacOS }
func (s *MacOSSource) Family() string { return Family(KindMacOS) }
func (s *MacOSSource) Close() error   { return nil }

type macOSWindow struct {
	Title   string  `json:"title"`
	Process string  `json:"process"`
	PID     int     `json:"pid"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

func (s *MacOSSource) ListWindows(ctx context.Context) ([]Window, error) {
	ctx, cancel := commandContext(ctx, s.timeout)
	defer cancel()

	out, err := s.run(ctx, "osascript", "-l", "JavaScript", "-e", macOSListScript)
	if err != nil {
		return nil, fmt.Errorf("%w: osascript: %v (grant Accessibility access to your terminal)", ErrEnumeration, err)
	}
	return parseMacOSList(out)
}

func parseMacOSList(out []byte) ([]Window, error) {
	var raw []macOSWindow
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode osascript output: %v", ErrEnumeration, err)
	}

	windows := make([]Window, 0, len(raw))
	for _, w := range raw {
		if w.Title == "" {
			continue
		}
		windows = append(windows, Window{
			PID:     w.PID,
			Process: w.Process,
			Title:   w.Title,
			Bounds: Rect{
				X:      int(w.X),
				Y:      int(w.Y),
				Width:  int(w.Width),
				Height: int(w.Height),
			},
		})
	}
	return windows, nil
}
