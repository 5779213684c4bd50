package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/milk9111/keyframe/anim"
	"github.com/milk9111/keyframe/ecs"
	"github.com/milk9111/keyframe/ecs/entity"
	"github.com/milk9111/keyframe/ecs/system"
	"github.com/milk9111/keyframe/prefabs"
)

type app struct {
	Config Config
	Client mqtt.Client
	World  *ecs.World
	Anim   *system.AnimationSystem
}

func (a *app) load() error {
	lib := anim.NewLibrary()
	w := ecs.NewWorld()
	sys := system.NewAnimationSystem(lib)
	sys.Step = a.Config.interval()
	w.AddSystem(sys)

	if _, err := entity.LoadScene(w, a.Config.Scene, lib); err != nil {
		return err
	}
	a.World, a.Anim = w, sys
	return nil
}

func (a *app) publish() {
	b, err := buildFrame(a.World, a.Anim).MarshalBinary()
	if err != nil {
		log.Printf("animstream: encode frame: %v", err)
		return
	}
	token := a.Client.Publish(a.Config.Mqtt.Topic, a.Config.Mqtt.QoS, a.Config.Mqtt.Retain, b)
	if token.WaitTimeout(time.Second) && token.Error() != nil {
		log.Printf("animstream: publish: %v", token.Error())
	}
}

func (a *app) run(ctx context.Context) {
	ticker := time.NewTicker(a.Config.interval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.World.Update()
			a.publish()
		}
	}
}

func main() {
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	configPath := flag.String("config", "config.yaml", "YAML config file.")
	flag.Parse()

	cfg, err := readConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Config: scene=%s topic=%s rate=%d", cfg.Scene, cfg.Mqtt.Topic, cfg.Rate)
	prefabs.Dir = cfg.PrefabDir

	a := &app{Config: cfg}
	if err := a.load(); err != nil {
		log.Fatal(err)
	}

	options := mqtt.NewClientOptions().
		AddBroker(cfg.Mqtt.URL).
		SetClientID(cfg.Mqtt.ClientID).
		SetUsername(cfg.Mqtt.Username).
		SetPassword(cfg.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(mqtt.Client) { log.Println("Connected") })
	a.Client = mqtt.NewClient(options)

	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal(token.Error())
	}
	defer a.Client.Disconnect(250)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a.run(ctx)
}
