// Command simulate replays a synthetic evening of drinking through the
// engine and prints the resulting group leaderboard. Useful for eyeballing
// the model without wiring a transport.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	service "github.com/blakkis/promille/internal/app"
	"github.com/blakkis/promille/internal/domain/model"
	"github.com/blakkis/promille/internal/domain/units"
	"github.com/blakkis/promille/pkg/logger"
)

type member struct {
	id       string
	name     string
	weightKg float64
	sex      model.Sex
}

func main() {
	userCount := flag.Int("users", 4, "number of simulated users")
	seed := flag.Int64("seed", 42, "random seed")
	spanHours := flag.Float64("span", 6, "length of the simulated evening in hours")
	flag.Parse()

	if err := run(*userCount, *seed, *spanHours); err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}
}

func run(userCount int, seed int64, spanHours float64) error {
	if err := logger.Init(); err != nil {
		return err
	}
	ctx := context.Background()

	svc := service.New(service.WithMilestoneInterval(10))
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop(ctx)

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // deterministic simulation
	now := time.Now()
	start := now.Add(-time.Duration(spanHours * float64(time.Hour)))

	names := []string{"Aino", "Ville", "Pekka", "Sanna", "Juho", "Leena", "Mikko", "Kaisa"}
	sexes := []model.Sex{model.SexFemale, model.SexMale, model.SexMale, model.SexFemale,
		model.SexMale, model.SexFemale, model.SexMale, model.SexFemale}
	presets := units.PresetNames()

	members := make([]member, 0, userCount)
	for i := 0; i < userCount; i++ {
		m := member{
			id:       fmt.Sprintf("user-%d", i),
			name:     names[i%len(names)],
			weightKg: 55 + float64(rng.Intn(45)),
			sex:      sexes[i%len(sexes)],
		}
		if err := svc.RegisterUser(ctx, m.id, m.name, m.weightKg, m.sex); err != nil {
			return err
		}
		if err := svc.JoinGroup(ctx, m.id, "simulated-evening"); err != nil {
			return err
		}
		members = append(members, m)
	}

	// Everyone drinks presets at random instants over the evening.
	for _, m := range members {
		drinks := 2 + rng.Intn(6)
		for j := 0; j < drinks; j++ {
			at := start.Add(time.Duration(rng.Float64() * spanHours * float64(time.Hour)))
			preset := presets[rng.Intn(len(presets))]
			if _, err := svc.LogPreset(ctx, m.id, preset, at); err != nil {
				return err
			}
		}
	}

	// One member forgot to log and backfills a couple of drinks.
	straggler := members[rng.Intn(len(members))]
	plan := model.RetroPlan{
		SpanHours: 2,
		Drinks: []model.DrinkSpec{
			{VolumeLiters: 0.33, FractionByVolume: 0.047, Description: "forgotten beer"},
			{VolumeLiters: 0.04, FractionByVolume: 0.40, Description: "forgotten shot"},
		},
	}
	if _, err := svc.Backfill(ctx, straggler.id, plan, now); err != nil {
		return err
	}

	board, err := svc.RenderGroup(ctx, "simulated-evening", now)
	if err != nil {
		return err
	}
	fmt.Println(board)
	return nil
}
