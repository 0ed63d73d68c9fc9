package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports layout and cache events to a structured logger at debug
// level. The CLI installs it when --verbose is set.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to l, or to log.Default() when l is nil.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{Logger: l}
}

func (h *LogHooks) OnPackStart(items, tracks int) {
	h.Logger.Debug("packing", "items", items, "tracks", tracks)
}

func (h *LogHooks) OnPackComplete(items, unplaceable int, d time.Duration) {
	if unplaceable > 0 {
		h.Logger.Warn("packed with unplaceable items", "items", items, "unplaceable", unplaceable, "duration", d)
		return
	}
	h.Logger.Debug("packed", "items", items, "duration", d)
}

func (h *LogHooks) OnScroll(requested, applied int) {
	if requested != applied {
		h.Logger.Debug("scroll hit edge", "requested", requested, "applied", applied)
	}
}

func (h *LogHooks) OnJump(index, offset int, moved bool) {
	h.Logger.Debug("jump", "index", index, "offset", offset, "moved", moved)
}

func (h *LogHooks) OnRecycle(visible, bound, released int) {
	h.Logger.Debug("recycle", "visible", visible, "bound", bound, "released", released)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ LayoutHooks = (*LogHooks)(nil)
	_ CacheHooks  = (*LogHooks)(nil)
)
