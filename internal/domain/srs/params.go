package srs

import "github.com/mkondo/kanaquiz/internal/domain"

// Params defines all configurable parameters for the scheduling algorithm.
type Params struct {
	// Core limits
	MinEaseFactor     float64
	InitialEaseFactor float64

	// Ease factor adjustments per outcome
	CorrectEaseBonus float64 // added after every correct answer, uncapped above
	LapseEasePenalty float64 // subtracted after a lapse, clamped at MinEaseFactor

	// Interval ladder for the first correct answers after a lapse or for a
	// new item, in days. Beyond the ladder the interval grows by the ease
	// factor.
	FirstInterval  int
	SecondInterval int

	// LapseInterval is the spacing forced after an incorrect answer.
	LapseInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values leave the corresponding default untouched.
type ParamsConfig struct {
	MinEaseFactor     float64
	InitialEaseFactor float64
	CorrectEaseBonus  float64
	LapseEasePenalty  float64
	FirstInterval     int
	SecondInterval    int
	LapseInterval     int
}

// NewDefaultParams creates a new Params instance with default values.
// The defaults implement the simplified SM-2 variant: a lapse resets spacing
// to one day and costs 0.2 ease, a correct answer follows the 1/6/interval*EF
// ladder and earns 0.1 ease.
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:     domain.MinEaseFactor,
		InitialEaseFactor: domain.DefaultEaseFactor,

		CorrectEaseBonus: 0.1,
		LapseEasePenalty: 0.2,

		FirstInterval:  1,
		SecondInterval: 6,
		LapseInterval:  1,
	}
}

// NewParams creates a new Params instance with custom configuration.
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.InitialEaseFactor > 0 {
		params.InitialEaseFactor = config.InitialEaseFactor
	}
	if config.CorrectEaseBonus > 0 {
		params.CorrectEaseBonus = config.CorrectEaseBonus
	}
	if config.LapseEasePenalty > 0 {
		params.LapseEasePenalty = config.LapseEasePenalty
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.LapseInterval > 0 {
		params.LapseInterval = config.LapseInterval
	}

	return params
}
