package config

import (
	"time"

	"github.com/caarlos0/env/v11"

	"scrap-rally/internal/game"
)

// GameConfig exposes the process-wide gameplay constants as env knobs.
// Per-room options stay with the room host.
type GameConfig struct {
	HandSize      int `env:"HAND_SIZE" envDefault:"5"`
	DrawOnSkip    int `env:"DRAW_ON_SKIP" envDefault:"2"`
	MaxMoveEffect int `env:"MAX_MOVE_EFFECT" envDefault:"6"`
	MaxLaneShift  int `env:"MAX_LANE_SHIFT" envDefault:"2"`
	MaxGear       int `env:"MAX_GEAR" envDefault:"3"`

	TimeBankInitial   time.Duration `env:"TIME_BANK_INITIAL" envDefault:"60s"`
	TimeBankIncrement time.Duration `env:"TIME_BANK_INCREMENT" envDefault:"5s"`
	TurnTimeout       time.Duration `env:"TURN_TIMEOUT" envDefault:"20s"`
	DiscardAutoSkip   time.Duration `env:"DISCARD_AUTO_SKIP" envDefault:"30s"`
	TimeoutNoticeAt   time.Duration `env:"TIMEOUT_NOTICE_AT" envDefault:"15s"`

	TurnLogCap int `env:"TURN_LOG_CAP" envDefault:"100"`
}

func LoadGame() (GameConfig, error) {
	var cfg GameConfig
	err := env.Parse(&cfg)
	return cfg, err
}

func (c GameConfig) Tunables() game.Tunables {
	return game.Tunables{
		HandSize:          c.HandSize,
		DrawOnSkip:        c.DrawOnSkip,
		MaxMoveEffect:     c.MaxMoveEffect,
		MaxLaneShift:      c.MaxLaneShift,
		MaxGear:           c.MaxGear,
		TimeBankInitial:   c.TimeBankInitial,
		TimeBankIncrement: c.TimeBankIncrement,
		TurnTimeout:       c.TurnTimeout,
		DiscardAutoSkip:   c.DiscardAutoSkip,
		TimeoutNoticeAt:   c.TimeoutNoticeAt,
		TurnLogCap:        c.TurnLogCap,
	}
}
