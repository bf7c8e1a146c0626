package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"mazewalk/internal/config"
	"mazewalk/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	g, err := view.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	ebiten.SetWindowTitle("Mazewalk")
	ebiten.SetWindowSize(g.WindowSize())
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
