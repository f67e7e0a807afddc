package config

import (
	"fmt"

	"github.com/Bold014/typeio-backend/game"
	"gopkg.in/ini.v1"
)

// LoadTuning overlays the ini file at path on game.DefaultTuning. An empty
// path returns the defaults.
func LoadTuning(path string) (game.Tuning, error) {
	t := game.DefaultTuning()
	if path == "" {
		return t, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return t, fmt.Errorf("load tuning %s: %w", path, err)
	}

	loop := file.Section("loop")
	t.TickInterval = loop.Key("tick_interval").MustDuration(t.TickInterval)
	t.CountdownSeconds = loop.Key("countdown_seconds").MustInt(t.CountdownSeconds)
	t.EmptyLobbyTimeout = loop.Key("empty_lobby_timeout").MustDuration(t.EmptyLobbyTimeout)

	combat := file.Section("combat")
	t.MaxHP = combat.Key("max_hp").MustFloat64(t.MaxHP)
	t.ComboThreshold = combat.Key("combo_threshold").MustInt(t.ComboThreshold)
	t.ErrorHPPenalty = combat.Key("error_hp_penalty").MustFloat64(t.ErrorHPPenalty)
	t.CompletionHPRestore = combat.Key("completion_hp_restore").MustFloat64(t.CompletionHPRestore)
	t.IdleThreshold = combat.Key("idle_threshold").MustDuration(t.IdleThreshold)
	t.IdleHPDecay = combat.Key("idle_hp_decay").MustFloat64(t.IdleHPDecay)
	t.HeightRate = combat.Key("height_rate").MustFloat64(t.HeightRate)
	t.ChaosSpan = combat.Key("chaos_span").MustInt(t.ChaosSpan)
	if combat.HasKey("filler_words") {
		t.FillerWords = combat.Key("filler_words").Strings(",")
	}

	momentum := file.Section("momentum")
	if momentum.HasKey("thresholds") {
		t.MomentumThresholds = momentum.Key("thresholds").Float64s(",")
	}
	t.MomentumDecayBase = momentum.Key("decay_base").MustFloat64(t.MomentumDecayBase)
	t.MomentumDecayStep = momentum.Key("decay_step").MustFloat64(t.MomentumDecayStep)
	t.MomentumDecayPause = momentum.Key("decay_pause").MustDuration(t.MomentumDecayPause)
	t.MomentumReseed = momentum.Key("reseed").MustFloat64(t.MomentumReseed)
	if momentum.HasKey("tier_thresholds") {
		t.TierThresholds = momentum.Key("tier_thresholds").Float64s(",")
	}

	floor := file.Section("floor")
	t.FloorBaseSpeed = floor.Key("base_speed").MustFloat64(t.FloorBaseSpeed)
	t.FloorHeightFactor = floor.Key("height_factor").MustFloat64(t.FloorHeightFactor)
	t.FloorMaxSpeed = floor.Key("max_speed").MustFloat64(t.FloorMaxSpeed)
	t.FloorGracePeriod = floor.Key("grace_period").MustDuration(t.FloorGracePeriod)

	bots := file.Section("bots")
	t.BotMin = bots.Key("min").MustInt(t.BotMin)
	t.BotMax = bots.Key("max").MustInt(t.BotMax)
	t.BotRetireAtReal = bots.Key("retire_at_players").MustInt(t.BotRetireAtReal)
	t.BotWPMMin = bots.Key("wpm_min").MustInt(t.BotWPMMin)
	t.BotWPMMax = bots.Key("wpm_max").MustInt(t.BotWPMMax)
	t.BotErrorChance = bots.Key("error_chance").MustFloat64(t.BotErrorChance)
	t.BotWPMJitter = bots.Key("wpm_jitter").MustInt(t.BotWPMJitter)
	if bots.HasKey("names") {
		t.BotNames = bots.Key("names").Strings(",")
	}

	knockout := file.Section("knockout")
	t.KnockoutHPBonus = knockout.Key("hp_bonus").MustFloat64(t.KnockoutHPBonus)
	t.KnockoutHeightBonus = knockout.Key("height_bonus").MustFloat64(t.KnockoutHeightBonus)
	t.KnockoutWindow = knockout.Key("window").MustDuration(t.KnockoutWindow)

	if err := validateTuning(t); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

func validateTuning(t game.Tuning) error {
	switch {
	case t.TickInterval <= 0:
		return fmt.Errorf("tick_interval must be positive")
	case t.MaxHP <= 0:
		return fmt.Errorf("max_hp must be positive")
	case t.ComboThreshold <= 0:
		return fmt.Errorf("combo_threshold must be positive")
	case len(t.TierThresholds) == 0:
		return fmt.Errorf("tier_thresholds is empty")
	case len(t.MomentumThresholds) == 0:
		return fmt.Errorf("thresholds is empty")
	case len(t.FillerWords) == 0:
		return fmt.Errorf("filler_words is empty")
	case t.BotMin < 0 || t.BotMax < t.BotMin:
		return fmt.Errorf("bot range [%d, %d] is invalid", t.BotMin, t.BotMax)
	case t.BotRetireAtReal < 2:
		return fmt.Errorf("retire_at_players must be at least 2")
	case t.BotWPMMin <= 0 || t.BotWPMMax < t.BotWPMMin:
		return fmt.Errorf("bot wpm range [%d, %d] is invalid", t.BotWPMMin, t.BotWPMMax)
	case t.BotMax > 0 && len(t.BotNames) == 0:
		return fmt.Errorf("names is empty")
	}
	for i := 1; i < len(t.TierThresholds); i++ {
		if t.TierThresholds[i] < t.TierThresholds[i-1] {
			return fmt.Errorf("tier_thresholds must be ascending")
		}
	}
	return nil
}
