package main

import (
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/keyframe/prefabs"
)

func main() {
	sceneName := flag.String("scene", "demo_scene.yaml", "scene document (embedded name or file under -dir)")
	dir := flag.String("dir", "prefabs", "directory searched before the embedded documents and watched for changes")
	watch := flag.Bool("watch", true, "reload the scene when a document under -dir changes")
	flag.Parse()

	prefabs.Dir = *dir

	v, err := newViewer(*sceneName)
	if err != nil {
		log.Fatal(err)
	}

	if *watch {
		if info, err := os.Stat(*dir); err == nil && info.IsDir() {
			w, err := prefabs.NewWatcher(*dir)
			if err != nil {
				log.Printf("animview: watch %s: %v", *dir, err)
			} else {
				v.watcher = w
				defer w.Close()
			}
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("animview: " + *sceneName)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}
