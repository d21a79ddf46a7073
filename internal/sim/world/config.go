package world

type WorldConfig struct {
	Seed int64

	// Worker pool and chunk budget.
	Workers   int
	MaxChunks int

	// Radii in chunks around the observed player.
	CreateRadius int
	RenderRadius int
	DeleteRadius int
	SignRadius   int

	ShowLights bool
	ShowPlants bool
	ShowTrees  bool
	ShowClouds bool

	FrameRateHz int
	MaxPlayers  int

	// Viewport used for frustum tests during scheduling.
	Width  int
	Height int
	FOV    float32
}

func (c *WorldConfig) applyDefaults() {
	if c.Workers <= 0 {
		c.Workers = 4
	}
	if c.MaxChunks <= 0 {
		c.MaxChunks = 8192
	}
	if c.CreateRadius <= 0 {
		c.CreateRadius = 10
	}
	if c.RenderRadius <= 0 {
		c.RenderRadius = 10
	}
	if c.DeleteRadius <= 0 {
		c.DeleteRadius = 14
	}
	if c.SignRadius <= 0 {
		c.SignRadius = 4
	}
	if c.FrameRateHz <= 0 {
		c.FrameRateHz = 60
	}
	if c.MaxPlayers <= 0 {
		c.MaxPlayers = 128
	}
	if c.Width <= 0 {
		c.Width = 1024
	}
	if c.Height <= 0 {
		c.Height = 768
	}
	if c.FOV <= 0 {
		c.FOV = 65
	}
}
