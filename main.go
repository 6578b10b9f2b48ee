package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/Arcadaos/ffxiii2-enigme/internal/config"
	"github.com/Arcadaos/ffxiii2-enigme/internal/controller"
	"github.com/Arcadaos/ffxiii2-enigme/internal/game"
	"github.com/Arcadaos/ffxiii2-enigme/internal/solve"
)

func main() {
	cfg := config.Default()
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()

	client := solve.NewClient(cfg.SolverURL, cfg.Timeout,
		solve.WithLogger(log.New(os.Stderr, "[solve] ", log.LstdFlags)))
	ctrl := controller.New(client, game.CanvasLayout(),
		controller.WithLogger(log.New(os.Stderr, "[view] ", log.LstdFlags)))
	if cfg.InitialDials > 0 {
		ctrl.SetDialCount(cfg.InitialDials)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := game.NewGame(ctx, ctrl,
		game.WithLogger(log.New(os.Stderr, "[game] ", log.LstdFlags)),
		game.WithMute(cfg.Mute))

	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle("FFXIII-2 Clock Solver - Up/Down: dials, click a dial to edit, Enter: solve, Esc/Q: quit")

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
