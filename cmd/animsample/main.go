package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/milk9111/keyframe/anim"
	"github.com/milk9111/keyframe/prefabs"
)

type sample struct {
	At            time.Duration
	Contributions []anim.Contribution
}

func sampleTrack(track anim.Track, step, until time.Duration) []sample {
	if step <= 0 {
		step = 100 * time.Millisecond
	}
	var out []sample
	for at := time.Duration(0); at <= until; at += step {
		out = append(out, sample{At: at, Contributions: track.ValueAt(at)})
	}
	return out
}

func writeSamples(w io.Writer, samples []sample) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "time\tproperty\tvalue")
	for _, s := range samples {
		if len(s.Contributions) == 0 {
			fmt.Fprintf(tw, "%.3fs\t-\t-\n", s.At.Seconds())
			continue
		}
		for _, c := range s.Contributions {
			fmt.Fprintf(tw, "%.3fs\t%s\t%s\n", s.At.Seconds(), c.Property, c.Value)
		}
	}
	return tw.Flush()
}

func readDocument(name string) ([]byte, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	return prefabs.Load(name)
}

func main() {
	trackName := flag.String("track", "bounce.yaml", "track document (file path or embedded name)")
	sceneName := flag.String("library", "", "scene document whose library resolves resource references")
	step := flag.Duration("step", 100*time.Millisecond, "sampling step")
	until := flag.Duration("until", 2*time.Second, "last sample time")
	encode := flag.Bool("encode", false, "print the parsed track back as YAML instead of sampling it")
	flag.Parse()

	lib := anim.NewLibrary()
	if *sceneName != "" {
		data, err := readDocument(*sceneName)
		if err != nil {
			log.Fatal(err)
		}
		scene, err := prefabs.ParseSceneSpec(data)
		if err != nil {
			log.Fatal(err)
		}
		if err := prefabs.BuildLibrary(&scene.Library, lib); err != nil {
			log.Fatal(err)
		}
	}

	data, err := readDocument(*trackName)
	if err != nil {
		log.Fatal(err)
	}
	track, err := prefabs.ParseTrack(data, lib)
	if err != nil {
		log.Fatal(err)
	}

	if *encode {
		out, err := prefabs.MarshalTrack(track)
		if err != nil {
			log.Fatal(err)
		}
		os.Stdout.Write(out)
		return
	}

	if err := writeSamples(os.Stdout, sampleTrack(track, *step, *until)); err != nil {
		log.Fatal(err)
	}
}
