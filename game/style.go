package game

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/pthm-cable/solaris/params"
	"github.com/pthm-cable/solaris/remote"
	"github.com/pthm-cable/solaris/stylegen"
	"github.com/pthm-cable/solaris/telemetry"
)

// requestStyle generates a style in the background. Only one request runs at
// a time; extra requests while busy are dropped.
func (g *Game) requestStyle(prompt string) {
	if !g.styleBusy.CompareAndSwap(false, true) {
		slog.Info("style request ignored, generation in flight", "prompt", prompt)
		return
	}

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.styleBusy.Store(false)

		res := g.styles.Generate(g.ctx, prompt)
		if err := g.store.Apply(params.Replace{Set: res.Config}); err != nil {
			slog.Error("failed to apply style", "error", err)
			return
		}
		g.publishStyle(res)
	}()
}

// publishStyle hands a result to the frame loop. Results are dropped when
// the loop has fallen far behind.
func (g *Game) publishStyle(res stylegen.Result) {
	select {
	case g.styleResults <- res:
	default:
		slog.Warn("style result dropped", "prompt", res.Prompt)
	}
}

// drainStyles records results produced since the last frame.
func (g *Game) drainStyles() {
	for {
		select {
		case res := <-g.styleResults:
			g.recordStyle(res)
		default:
			return
		}
	}
}

func (g *Game) recordStyle(res stylegen.Result) {
	g.lastStyle = &res
	g.collector.RecordStyle(res.Fallback)

	slog.Info("style applied",
		"prompt", res.Prompt,
		"fallback", res.Fallback,
		"clamped", res.Clamped,
		"config", res.Config,
	)

	if g.outputManager != nil {
		rec := telemetry.StyleRecord{
			Frame:     g.tick,
			Prompt:    res.Prompt,
			Config:    res.Config,
			Reasoning: res.Reasoning,
			Fallback:  res.Fallback,
		}
		if err := g.outputManager.WriteStyle(rec); err != nil {
			slog.Error("failed to write style", "error", err)
		}
	}
}

// startRemote serves the websocket controller until the game is unloaded.
func (g *Game) startRemote(addr string) {
	g.remote = remote.NewServer(g.store, g.styles)
	g.remote.OnStyle = g.publishStyle

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		err := g.remote.ListenAndServe(g.ctx, addr)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("remote server stopped", "error", err)
		}
	}()
}

// StyleBusy reports whether a style request is in flight.
func (g *Game) StyleBusy() bool {
	return g.styleBusy.Load()
}
