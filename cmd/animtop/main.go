package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/keyframe/anim"
	"github.com/milk9111/keyframe/ecs"
	"github.com/milk9111/keyframe/ecs/entity"
	"github.com/milk9111/keyframe/ecs/system"
	"github.com/milk9111/keyframe/prefabs"
)

type top struct {
	sceneName string
	screen    tcell.Screen
	world     *ecs.World
	anim      *system.AnimationSystem
	paused    bool
	status    string
}

func (t *top) load() error {
	lib := anim.NewLibrary()
	w := ecs.NewWorld()
	sys := system.NewAnimationSystem(lib)
	sys.Logger = nil
	w.AddSystem(sys)
	if _, err := entity.LoadScene(w, t.sceneName, lib); err != nil {
		return err
	}
	t.world, t.anim = w, sys
	return nil
}

func (t *top) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				t.paused = !t.paused
			case 'r':
				if err := t.load(); err != nil {
					t.status = "reload failed: " + err.Error()
				} else {
					t.status = "reloaded"
				}
			}
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

func (t *top) run() {
	ticker := time.NewTicker(system.DefaultStep)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- t.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if ev == nil || !t.handleInput(ev) {
				return
			}
		case <-ticker.C:
			if !t.paused {
				t.world.Update()
			}
			t.draw()
		}
	}
}

func (t *top) draw() {
	t.screen.Clear()
	header := fmt.Sprintf("%s  t=%.2fs  [space] pause  [r] reload  [q] quit", t.sceneName, t.anim.Clock().Seconds())
	if t.paused {
		header += "  PAUSED"
	}
	drawText(t.screen, 0, 0, tcell.StyleDefault.Bold(true), header)
	drawText(t.screen, 0, 1, tcell.StyleDefault.Foreground(tcell.ColorYellow), t.status)

	y := 3
	for _, r := range propertyRows(t.world) {
		style := tcell.StyleDefault
		if r.animated {
			style = style.Foreground(tcell.ColorGreen)
		}
		drawText(t.screen, 0, y, style, fmt.Sprintf("%-12s %-10s %s", r.entity, r.key, r.value))
		if r.swatch != nil {
			swatch := tcell.StyleDefault.Background(*r.swatch)
			drawText(t.screen, 50, y, swatch, "    ")
		}
		y++
	}
	t.screen.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, style)
	}
}

func main() {
	sceneName := flag.String("scene", "demo_scene.yaml", "scene document (embedded name or file under -dir)")
	dir := flag.String("dir", "prefabs", "directory searched before the embedded documents")
	flag.Parse()
	prefabs.Dir = *dir

	t := &top{sceneName: *sceneName}
	if err := t.load(); err != nil {
		fmt.Fprintf(os.Stderr, "animtop: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	t.screen = screen
	t.run()
}
