package ui

import (
	"fmt"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/solaris/params"
)

const (
	hexBoxChars    = 8
	promptBoxChars = 256
)

// PanelActions is what the user asked for during one frame.
type PanelActions struct {
	Events []params.Event // edits for the parameter store
	Prompt string         // non-empty when a style generation was requested
	Reset  bool           // restore the default look
}

// ControlsPanel renders the parameter sliders, color inputs and the prompt box.
type ControlsPanel struct {
	renderer *Renderer
	sliders  []SliderDescriptor
	x, y     int32
	width    int32
	height   int32 // as last drawn
	visible  bool

	coreHex, outerHex       string
	editingCore, editingOut bool

	prompt        string
	editingPrompt bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32, ranges params.Ranges) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		sliders:  Sliders(ranges),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Contains reports whether a screen point lies over the panel.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x < float32(c.x+c.width) &&
		y >= float32(c.y) && y < float32(c.y+c.height)
}

// Editing reports whether a text box has keyboard focus. Hotkeys should be
// ignored while it does.
func (c *ControlsPanel) Editing() bool {
	return c.visible && (c.editingCore || c.editingOut || c.editingPrompt)
}

// Draw renders the panel for the current store snapshot and returns the
// user's actions. busy disables the generate button while a request is in
// flight.
func (c *ControlsPanel) Draw(p params.ParameterSet, busy bool) PanelActions {
	var actions PanelActions
	if !c.visible {
		return actions
	}

	r := c.renderer
	padding := r.Theme.Padding
	line := r.Theme.LineHeight
	inner := c.width - padding*2

	c.height = line*3 + int32(len(c.sliders))*(line+22) + 2*(line+28) + 5*line + padding*4
	r.DrawPanel(c.x, c.y, c.width, c.height)

	x := c.x + padding
	y := c.y + padding

	rl.DrawText("Plasma Controls", x, y, 16, rl.White)
	y += line + 8

	for _, s := range c.sliders {
		current, _ := p.Scalar(s.Field)
		rl.DrawText(s.Label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
		readout := fmt.Sprintf(s.Format, current)
		rl.DrawText(readout, x+inner-rl.MeasureText(readout, r.Theme.FontSize), y, r.Theme.FontSize, r.Theme.ValueColor)
		y += line

		next := gui.SliderBar(
			rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner), Height: 16},
			"", "",
			float32(current), float32(s.Range.Min), float32(s.Range.Max),
		)
		if next != float32(current) {
			actions.Events = append(actions.Events, params.SetScalar{Field: s.Field, Value: float64(next)})
		}
		y += 22
	}

	y = r.DrawSectionHeader(x, y+4, "Colors")
	var ev params.Event
	y, ev = c.colorInput(x, y, inner, "Core", params.FieldColorCore, p.ColorCore, &c.coreHex, &c.editingCore)
	if ev != nil {
		actions.Events = append(actions.Events, ev)
	}
	y, ev = c.colorInput(x, y, inner, "Outer", params.FieldColorOuter, p.ColorOuter, &c.outerHex, &c.editingOut)
	if ev != nil {
		actions.Events = append(actions.Events, ev)
	}

	y = r.DrawSectionHeader(x, y+4, "Describe a star")
	bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner), Height: 24}
	if gui.TextBox(bounds, &c.prompt, promptBoxChars, c.editingPrompt) {
		c.editingPrompt = !c.editingPrompt
		if !c.editingPrompt && strings.TrimSpace(c.prompt) != "" && !busy {
			actions.Prompt = strings.TrimSpace(c.prompt)
		}
	}
	y += 30

	label := "Generate"
	if busy {
		label = "Generating..."
	}
	half := float32(inner-padding) / 2
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 24}, label) && !busy {
		if prompt := strings.TrimSpace(c.prompt); prompt != "" {
			actions.Prompt = prompt
		}
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + float32(padding), Y: float32(y), Width: half, Height: 24}, "Reset") {
		actions.Reset = true
	}

	return actions
}

// colorInput draws a swatch and a hex text box. The box mirrors the live
// color until it gains focus; leaving edit mode submits the typed value.
func (c *ControlsPanel) colorInput(x, y, width int32, label string, field params.Field, current params.RGB, text *string, editing *bool) (int32, params.Event) {
	r := c.renderer
	if !*editing {
		*text = current.Hex()
	}

	rl.DrawText(label, x, y+6, r.Theme.FontSize, r.Theme.LabelColor)
	r.DrawColorSwatch(x+r.Theme.LabelWidth-28, y+2, current.RGBA8(1), 20)

	var ev params.Event
	bounds := rl.Rectangle{X: float32(x + r.Theme.LabelWidth), Y: float32(y), Width: float32(width - r.Theme.LabelWidth), Height: 24}
	if gui.TextBox(bounds, text, hexBoxChars, *editing) {
		*editing = !*editing
		if !*editing && *text != current.Hex() {
			ev = params.SetColor{Field: field, Hex: strings.TrimSpace(*text)}
		}
	}
	return y + 28, ev
}
