package app

// Celebration holds the parameters handed to the confetti effect when a game is won.
// The JSON form is passed to canvas-confetti unchanged.
type Celebration struct {
	ParticleCount int    `json:"particleCount"`
	Spread        int    `json:"spread"`
	Origin        Origin `json:"origin"`
}

// Origin is the launch point as a fraction of the viewport.
type Origin struct {
	Y float64 `json:"y"`
}

// DefaultCelebration is fired on every win.
var DefaultCelebration = Celebration{
	ParticleCount: 150,
	Spread:        80,
	Origin:        Origin{Y: 0.6},
}
