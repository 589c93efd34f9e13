package core

// Default simulation constants.
const (
	DefaultWidth           = 9
	DefaultHeight          = 9
	DefaultMaxRank         = 6
	DefaultBasePoints      = 10
	DefaultPointMultiplier = 1.5
	DefaultComboWindow     = 2.0
	DefaultComboIncrement  = 0.5
	DefaultComboCap        = 10.0
)

// Config holds the simulation parameters. Zero or negative fields fall
// back to defaults, so a zero ComboIncrement means 0.5, not "no combo".
// Set ComboCap to 1 to turn the combo bonus off.
type Config struct {
	Width           int
	Height          int
	MaxRank         int
	BasePoints      int
	PointMultiplier float64
	ComboWindow     float64 // Seconds
	ComboIncrement  float64 // 0 means DefaultComboIncrement
	ComboCap        float64 // 1 disables the combo bonus
}

// DefaultConfig returns the default simulation parameters.
func DefaultConfig() Config {
	return Config{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		MaxRank:         DefaultMaxRank,
		BasePoints:      DefaultBasePoints,
		PointMultiplier: DefaultPointMultiplier,
		ComboWindow:     DefaultComboWindow,
		ComboIncrement:  DefaultComboIncrement,
		ComboCap:        DefaultComboCap,
	}
}

// WithDefaults returns c with every non-positive field replaced by its default.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.MaxRank <= 0 {
		c.MaxRank = d.MaxRank
	}
	if c.BasePoints <= 0 {
		c.BasePoints = d.BasePoints
	}
	if c.PointMultiplier <= 0 {
		c.PointMultiplier = d.PointMultiplier
	}
	if c.ComboWindow <= 0 {
		c.ComboWindow = d.ComboWindow
	}
	if c.ComboIncrement <= 0 {
		c.ComboIncrement = d.ComboIncrement
	}
	if c.ComboCap <= 0 {
		c.ComboCap = d.ComboCap
	}
	return c
}

// Score returns the scoring subset of the configuration.
func (c Config) Score() ScoreConfig {
	return ScoreConfig{
		BasePoints:      c.BasePoints,
		PointMultiplier: c.PointMultiplier,
		ComboWindow:     c.ComboWindow,
		ComboIncrement:  c.ComboIncrement,
		ComboCap:        c.ComboCap,
	}
}

// DefaultStarThresholds are percentages of the target score for 1, 2 and 3 stars.
var DefaultStarThresholds = [3]int{100, 150, 200}

// Goal is the target an attempt plays against. A zero Target means endless play.
type Goal struct {
	Target         int
	StarThresholds [3]int // Percent of Target
}

// Stars returns 0-3 stars for score.
func (g Goal) Stars(score int) int {
	if g.Target <= 0 {
		return 0
	}
	thresholds := g.StarThresholds
	if thresholds == [3]int{} {
		thresholds = DefaultStarThresholds
	}
	percent := score * 100 / g.Target
	stars := 0
	for _, t := range thresholds {
		if percent >= t {
			stars++
		}
	}
	return stars
}

// Reached reports whether score meets the target.
func (g Goal) Reached(score int) bool {
	return g.Target > 0 && score >= g.Target
}
