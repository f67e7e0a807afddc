// Command botsim runs a bot-only ascend lobby on a simulated clock and prints
// the standings as the floor catches up with the field.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"time"

	"github.com/Bold014/typeio-backend/config"
	"github.com/Bold014/typeio-backend/game"
	"github.com/Bold014/typeio-backend/services"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

var (
	colorTitle = color.New(color.FgGreen, color.Bold)
	colorAlive = color.New(color.FgCyan)
	colorDead  = color.New(color.FgHiBlack)
	colorAlert = color.New(color.FgRed)
)

func main() {
	var (
		seed       int64
		bots       int
		tuningPath string
		every      time.Duration
		limit      time.Duration
	)
	flag.Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	flag.IntVar(&bots, "bots", 0, "fixed bot count (0 keeps the tuning range)")
	flag.StringVar(&tuningPath, "tuning", "", "tuning ini file")
	flag.DurationVar(&every, "every", 15*time.Second, "simulated time between standings")
	flag.DurationVar(&limit, "limit", time.Hour, "simulated time limit")
	flag.Parse()

	tuning, err := config.LoadTuning(tuningPath)
	if err != nil {
		colorAlert.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if bots > 0 {
		tuning.BotMin, tuning.BotMax = bots, bots
	}

	clock := game.NewManualClock(time.Now())
	closed := false
	lobby := game.NewLobby("botsim", tuning, game.Deps{
		Clock:     clock,
		Sentences: services.NewSentenceBank(nil, rand.New(rand.NewSource(seed+1))),
		Logger:    zap.NewNop().Sugar(),
		Rand:      rand.New(rand.NewSource(seed)),
		Spawn:     func(f func()) { f() },
	}, game.LobbyHooks{OnClosed: func(*game.Lobby) { closed = true }})
	lobby.Open()

	colorTitle.Printf("botsim seed=%d bots=%d\n", seed, lobby.Info().Bots)

	var elapsed, sincePrint time.Duration
	for !closed && elapsed < limit {
		clock.Advance(tuning.TickInterval)
		elapsed += tuning.TickInterval
		sincePrint += tuning.TickInterval
		if sincePrint >= every {
			sincePrint = 0
			printStandings(elapsed, lobby.Snapshots())
		}
	}

	if closed {
		colorTitle.Printf("lobby drained and closed after %s\n", elapsed)
		return
	}
	colorAlert.Printf("lobby still running after %s\n", elapsed)
	printStandings(elapsed, lobby.Snapshots())
}

func printStandings(at time.Duration, snaps []game.SessionSnapshot) {
	sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].Height > snaps[j].Height })

	colorTitle.Printf("\n-- t=%s, %d climbers --\n", at, len(snaps))
	for i, s := range snaps {
		line := fmt.Sprintf("%2d. %-12s h=%7.1f floor=%7.1f tier=%2d hp=%5.1f m=%2d wpm=%5.1f ko=%d",
			i+1, s.Identity.Username, s.Height, s.FloorHeight, s.Tier, s.HP, s.Momentum, s.WPM, s.Knockouts)
		if s.Eliminated {
			colorDead.Println(line + "  out")
			continue
		}
		colorAlive.Println(line)
	}
}
