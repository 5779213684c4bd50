package main

import (
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/keyframe/anim"
	"github.com/milk9111/keyframe/ecs"
	"github.com/milk9111/keyframe/ecs/entity"
	"github.com/milk9111/keyframe/ecs/system"
	"github.com/milk9111/keyframe/prefabs"
	"golang.org/x/image/colornames"
)

const (
	screenWidth  = 640
	screenHeight = 480
)

type viewer struct {
	sceneName string
	world     *ecs.World
	anim      *system.AnimationSystem
	watcher   *prefabs.Watcher

	paused  bool
	pauseUI *ebitenui.UI
	status  string
}

func newViewer(sceneName string) (*viewer, error) {
	v := &viewer{sceneName: sceneName}
	if err := v.reload(); err != nil {
		return nil, err
	}
	v.pauseUI = newPauseUI(v)
	return v, nil
}

// reload rebuilds the world from the scene document. On error the current
// world keeps running.
func (v *viewer) reload() error {
	lib := anim.NewLibrary()
	w := ecs.NewWorld()
	sys := system.NewAnimationSystem(lib)
	w.AddSystem(sys)

	if _, err := entity.LoadScene(w, v.sceneName, lib); err != nil {
		return err
	}
	v.world, v.anim = w, sys
	v.status = fmt.Sprintf("loaded %s (%d shared sets)", v.sceneName, len(lib.Names()))
	return nil
}

func (v *viewer) tryReload(reason string) {
	if err := v.reload(); err != nil {
		log.Printf("animview: reload after %s: %v", reason, err)
		v.status = "reload failed: " + err.Error()
	}
}

func (v *viewer) Update() error {
	v.pollWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		v.paused = !v.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.tryReload("restart")
	}

	if v.paused {
		v.pauseUI.Update()
		return nil
	}
	v.world.Update()
	return nil
}

func (v *viewer) pollWatcher() {
	if v.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-v.watcher.Events:
			if !ok {
				v.watcher = nil
				return
			}
			v.tryReload(filepath.Base(path) + " changed")
		case err, ok := <-v.watcher.Errors:
			if !ok {
				v.watcher = nil
				return
			}
			log.Printf("animview: watcher: %v", err)
		default:
			return
		}
	}
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	for _, e := range ecs.Entities(v.world) {
		x, xOK := scalarProperty(v.world, e, "x")
		y, yOK := scalarProperty(v.world, e, "y")
		if !xOK || !yOK {
			continue
		}
		w, ok := scalarProperty(v.world, e, "w")
		if !ok {
			w = 16
		}
		h, ok := scalarProperty(v.world, e, "h")
		if !ok {
			h = 16
		}
		vector.DrawFilledRect(screen, x, y, w, h, colorProperty(v.world, e), true)
	}

	ebitenutil.DebugPrint(screen, fmt.Sprintf("t=%.2fs  FPS: %.1f  entities: %d\n%s",
		v.anim.Clock().Seconds(), ebiten.ActualFPS(), len(ecs.Entities(v.world)), v.status))

	if v.paused {
		v.pauseUI.Draw(screen)
	}
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func scalarProperty(w *ecs.World, e ecs.Entity, key string) (float32, bool) {
	raw, ok := w.PropertyValue(e, key)
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case anim.Animatable:
		if v.IsZero() {
			return 0, false
		}
		return v.Scalar(), true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	}
	return 0, false
}

func colorProperty(w *ecs.World, e ecs.Entity) color.Color {
	raw, ok := w.PropertyValue(e, "color")
	if !ok {
		return colornames.Lightgrey
	}
	v, ok := raw.(anim.Animatable)
	if !ok || v.Len() < 3 {
		return colornames.Lightgrey
	}
	a := float32(1)
	if v.Len() == 4 {
		a = v.At(3)
	}
	return color.NRGBA{
		R: channel(v.At(0)),
		G: channel(v.At(1)),
		B: channel(v.At(2)),
		A: channel(a),
	}
}

func channel(f float32) uint8 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}
