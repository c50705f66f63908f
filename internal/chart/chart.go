// Package chart renders a one-day glucose chart to PNG: the reading line,
// the 70-180 mg/dL target band, detected crash spans and meal markers.
package chart

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/mlevkov/glucodip/schema"
)

// Default canvas size. Wide enough that a five-minute CGM cadence, 288
// samples per day, gets at least two pixels per sample.
const (
	DefaultWidth  = 1200
	DefaultHeight = 500
)

// Plot margins in pixels.
const (
	marginLeft   = 60.0
	marginRight  = 20.0
	marginTop    = 40.0
	marginBottom = 40.0
)

// dayChart carries the scaling state for one render pass.
type dayChart struct {
	dc         *gg.Context
	dayStart   time.Time
	dayEnd     time.Time
	minGlucose float64
	maxGlucose float64
	plotX      float64
	plotY      float64
	plotW      float64
	plotH      float64
}

// RenderDay draws the chart for one calendar day and returns the encoded
// PNG. Readings are expected sorted ascending and already filtered to the
// day; crashes and meals outside the day are skipped during drawing.
func RenderDay(dayStart time.Time, readings []schema.AugmentedReading, crashes []schema.CrashEvent, meals []schema.MealResult, width, height int) ([]byte, error) {
	if len(readings) == 0 {
		return nil, fmt.Errorf("no glucose readings on %s", dayStart.Format(schema.DayLayout))
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	c := &dayChart{
		dc:       gg.NewContext(width, height),
		dayStart: dayStart,
		dayEnd:   dayStart.Add(24 * time.Hour),
		plotX:    marginLeft,
		plotY:    marginTop,
		plotW:    float64(width) - marginLeft - marginRight,
		plotH:    float64(height) - marginTop - marginBottom,
	}
	c.setGlucoseScale(readings)

	labelFace, titleFace, err := loadFaces()
	if err != nil {
		return nil, fmt.Errorf("failed to load chart font: %w", err)
	}

	c.drawBackground()
	c.drawTargetBand()
	c.drawCrashSpans(crashes)
	c.drawAxes(labelFace)
	c.drawGlucoseLine(readings)
	c.drawMealMarkers(meals, labelFace)
	c.drawTitle(titleFace)

	var buf bytes.Buffer
	if err := png.Encode(&buf, c.dc.Image()); err != nil {
		return nil, fmt.Errorf("failed to encode chart PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDayChart renders the day chart and writes it to path.
func WriteDayChart(path string, dayStart time.Time, readings []schema.AugmentedReading, crashes []schema.CrashEvent, meals []schema.MealResult, width, height int) error {
	data, err := RenderDay(dayStart, readings, crashes, meals, width, height)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write chart file: %w", err)
	}
	return nil
}

// loadFaces parses the bundled Go Regular font once per render and returns
// the label and title faces.
func loadFaces() (labelFace, titleFace font.Face, err error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, nil, err
	}
	labelFace = truetype.NewFace(f, &truetype.Options{Size: 12})
	titleFace = truetype.NewFace(f, &truetype.Options{Size: 16})
	return labelFace, titleFace, nil
}

// setGlucoseScale picks the y-axis bounds: the standard 40-240 mg/dL window
// widened when readings fall outside it, so the line never clips.
func (c *dayChart) setGlucoseScale(readings []schema.AugmentedReading) {
	c.minGlucose, c.maxGlucose = 40, 240
	for _, r := range readings {
		if r.GlucoseMgDl-10 < c.minGlucose {
			c.minGlucose = r.GlucoseMgDl - 10
		}
		if r.GlucoseMgDl+10 > c.maxGlucose {
			c.maxGlucose = r.GlucoseMgDl + 10
		}
	}
	if c.minGlucose < 0 {
		c.minGlucose = 0
	}
}

// xAt maps a timestamp onto the plot's horizontal axis.
func (c *dayChart) xAt(t time.Time) float64 {
	frac := t.Sub(c.dayStart).Minutes() / c.dayEnd.Sub(c.dayStart).Minutes()
	return c.plotX + frac*c.plotW
}

// yAt maps a glucose value onto the plot's vertical axis.
func (c *dayChart) yAt(glucose float64) float64 {
	frac := (glucose - c.minGlucose) / (c.maxGlucose - c.minGlucose)
	return c.plotY + (1-frac)*c.plotH
}

func (c *dayChart) drawBackground() {
	c.dc.SetRGB(1, 1, 1)
	c.dc.Clear()
}

// drawTargetBand shades the standard 70-180 mg/dL range in pale green.
func (c *dayChart) drawTargetBand() {
	top := c.yAt(schema.RangeHighMgDl)
	bottom := c.yAt(schema.RangeLowMgDl)
	c.dc.SetRGBA(0.55, 0.85, 0.55, 0.25)
	c.dc.DrawRectangle(c.plotX, top, c.plotW, bottom-top)
	c.dc.Fill()
}

// drawCrashSpans shades each crash interval in pale red across the full
// plot height.
func (c *dayChart) drawCrashSpans(crashes []schema.CrashEvent) {
	c.dc.SetRGBA(0.92, 0.35, 0.35, 0.25)
	for _, crash := range crashes {
		if crash.EndTime.Before(c.dayStart) || crash.StartTime.After(c.dayEnd) {
			continue
		}
		x0 := c.clampX(c.xAt(crash.StartTime))
		x1 := c.clampX(c.xAt(crash.EndTime))
		if x1-x0 < 2 {
			// A short crash still deserves a visible stripe.
			x1 = x0 + 2
		}
		c.dc.DrawRectangle(x0, c.plotY, x1-x0, c.plotH)
		c.dc.Fill()
	}
}

// drawAxes draws the plot frame, hour ticks every three hours and glucose
// gridlines every 40 mg/dL.
func (c *dayChart) drawAxes(labelFace font.Face) {
	dc := c.dc
	dc.SetFontFace(labelFace)

	// Frame
	dc.SetRGB(0.35, 0.35, 0.35)
	dc.SetLineWidth(1)
	dc.DrawRectangle(c.plotX, c.plotY, c.plotW, c.plotH)
	dc.Stroke()

	// Hour ticks
	for hour := 0; hour <= 24; hour += 3 {
		tick := c.dayStart.Add(time.Duration(hour) * time.Hour)
		x := c.xAt(tick)
		dc.SetRGBA(0.5, 0.5, 0.5, 0.3)
		dc.DrawLine(x, c.plotY, x, c.plotY+c.plotH)
		dc.Stroke()
		dc.SetRGB(0.25, 0.25, 0.25)
		dc.DrawStringAnchored(fmt.Sprintf("%02d:00", hour%24), x, c.plotY+c.plotH+14, 0.5, 0.5)
	}

	// Glucose gridlines
	for g := 40.0; g <= c.maxGlucose; g += 40 {
		if g < c.minGlucose {
			continue
		}
		y := c.yAt(g)
		dc.SetRGBA(0.5, 0.5, 0.5, 0.3)
		dc.DrawLine(c.plotX, y, c.plotX+c.plotW, y)
		dc.Stroke()
		dc.SetRGB(0.25, 0.25, 0.25)
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", g), c.plotX-8, y, 1, 0.5)
	}
}

// drawGlucoseLine draws the reading polyline with danger-zone samples
// overdrawn as red dots.
func (c *dayChart) drawGlucoseLine(readings []schema.AugmentedReading) {
	dc := c.dc

	dc.SetRGB(0.15, 0.35, 0.7)
	dc.SetLineWidth(2)
	for i, r := range readings {
		x, y := c.xAt(r.Timestamp), c.yAt(r.GlucoseMgDl)
		if i == 0 {
			dc.MoveTo(x, y)
			continue
		}
		dc.LineTo(x, y)
	}
	dc.Stroke()

	dc.SetRGB(0.85, 0.2, 0.2)
	for _, r := range readings {
		if !r.IsDangerZone {
			continue
		}
		dc.DrawCircle(c.xAt(r.Timestamp), c.yAt(r.GlucoseMgDl), 3)
		dc.Fill()
	}
}

// drawMealMarkers draws a dashed orange line at each meal time with the
// group name along the top edge.
func (c *dayChart) drawMealMarkers(meals []schema.MealResult, labelFace font.Face) {
	dc := c.dc
	dc.SetFontFace(labelFace)
	for _, m := range meals {
		if m.MealTime.Before(c.dayStart) || m.MealTime.After(c.dayEnd) {
			continue
		}
		x := c.xAt(m.MealTime)
		dc.SetRGBA(0.95, 0.6, 0.1, 0.8)
		dc.SetLineWidth(1.5)
		dc.SetDash(5, 4)
		dc.DrawLine(x, c.plotY, x, c.plotY+c.plotH)
		dc.Stroke()
		dc.SetDash()
		dc.SetRGB(0.75, 0.45, 0.05)
		dc.DrawStringAnchored(m.Group, x, c.plotY-10, 0.5, 0.5)
	}
}

func (c *dayChart) drawTitle(titleFace font.Face) {
	c.dc.SetFontFace(titleFace)
	c.dc.SetRGB(0.1, 0.1, 0.1)
	title := fmt.Sprintf("Glucose %s", c.dayStart.Format(schema.DayLayout))
	c.dc.DrawStringAnchored(title, c.plotX, 18, 0, 0.5)
}

func (c *dayChart) clampX(x float64) float64 {
	if x < c.plotX {
		return c.plotX
	}
	if x > c.plotX+c.plotW {
		return c.plotX + c.plotW
	}
	return x
}
