package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/harmonica"
	"github.com/spacebird/cosmicflight/internal/space"
)

const gaugeWidth = 12

// speedGauge eases the displayed speed toward the scene speed with a spring.
type speedGauge struct {
	spring   harmonica.Spring
	pos, vel float64
	bar      progress.Model
}

func newSpeedGauge(fps int) speedGauge {
	return speedGauge{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 0.7),
		pos:    space.InitialSpeed / space.MaxSpeed,
		bar: progress.New(
			progress.WithGradient("#22D3EE", "#F472B6"),
			progress.WithoutPercentage(),
			progress.WithWidth(gaugeWidth),
		),
	}
}

func (g *speedGauge) update(speed float64) {
	g.pos, g.vel = g.spring.Update(g.pos, g.vel, speed/space.MaxSpeed)
}

func (g speedGauge) view(r space.Report) string {
	level := min(max(g.pos, 0), 1)
	return fmt.Sprintf("speed %s %5.1f  %d LY", g.bar.ViewAs(level), r.Speed, r.LightYears())
}
