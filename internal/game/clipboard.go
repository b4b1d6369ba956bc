package game

import (
	"errors"

	"github.com/atotto/clipboard"
)

var errClipboardUnsupported = errors.New("clipboard not supported on this platform")

// copyConfig puts the running configuration on the system clipboard as YAML.
func (g *Game) copyConfig() {
	data, err := g.cfg.Marshal()
	if err != nil {
		g.logger.Error("marshal config", "err", err)
		return
	}
	if err := setClipboardText(string(data)); err != nil {
		g.logger.Warn("clipboard unavailable", "err", err)
		g.events.Add(g.tick, g.effectName(), EventError, "clipboard unavailable")
		return
	}
	g.events.Add(g.tick, g.effectName(), EventConfig, "config copied")
}

func setClipboardText(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}
