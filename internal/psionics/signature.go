package psionics

import "time"

// lingerMinutesFactor scales signature linger time:
// tier * powerLevel * 10 minutes.
const lingerMinutesFactor = 10

// Manifestation describes how a psionic signature presents to observers.
type Manifestation struct {
	Visual    string `json:"visual"`
	Auditory  string `json:"auditory"`
	Emotional string `json:"emotional"`
	Intensity string `json:"intensity"`
}

// IntensityBand is one of the four named strength bands.
type IntensityBand string

const (
	IntensityFaint        IntensityBand = "faint"
	IntensityNoticeable   IntensityBand = "noticeable"
	IntensityVivid        IntensityBand = "vivid"
	IntensityOverwhelming IntensityBand = "overwhelming"
)

// Signature is a character's lingering psionic trace.
type Signature struct {
	// Emotion is the character's emotional baseline keying the
	// manifestation lookup.
	Emotion string `json:"emotion"`

	// DetectabilityRange is in feet.
	DetectabilityRange int `json:"detectabilityRange"`

	// LastUsed is when a power last flared the signature.
	LastUsed time.Time `json:"lastUsed"`

	// PowerLevel is the level of the last power used.
	PowerLevel int `json:"powerLevel"`

	// Tier is the caster's psionic tier at last use.
	Tier int `json:"tier"`
}

// IntensityAfterUse computes the raw intensity of a signature flare:
// floor(powerTier + powerLevel/3).
func IntensityAfterUse(powerTier, powerLevel int) int {
	return powerTier + powerLevel/3
}

// BandForIntensity buckets a raw intensity into the four named bands.
func BandForIntensity(intensity int) IntensityBand {
	switch {
	case intensity <= 1:
		return IntensityFaint
	case intensity <= 3:
		return IntensityNoticeable
	case intensity <= 5:
		return IntensityVivid
	default:
		return IntensityOverwhelming
	}
}

// RecordUse marks a power use, refreshing the linger window.
func (s Signature) RecordUse(tier, powerLevel int, now time.Time) Signature {
	s.Tier = tier
	s.PowerLevel = powerLevel
	s.LastUsed = now
	return s
}

// LingerDuration is how long a signature stays detectable after use:
// tier * powerLevel * 10 minutes.
func LingerDuration(tier, powerLevel int) time.Duration {
	return time.Duration(tier*powerLevel*lingerMinutesFactor) * time.Minute
}

// IsDetectable reports whether the signature still lingers at the given
// moment. A signature that has never flared is not detectable.
func (s Signature) IsDetectable(now time.Time) bool {
	if s.LastUsed.IsZero() {
		return false
	}
	return now.Sub(s.LastUsed) < LingerDuration(s.Tier, s.PowerLevel)
}

// ManifestationFor looks an emotion up in a manifestation table (fixed
// rules data compiled by the rules package). The bool reports whether the
// emotion is known.
func ManifestationFor(table map[string]Manifestation, emotion string) (Manifestation, bool) {
	m, ok := table[emotion]
	return m, ok
}
