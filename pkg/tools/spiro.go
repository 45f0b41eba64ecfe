package tools

import (
	"fmt"

	"github.com/richard-senior/spiro/internal/logger"
	"github.com/richard-senior/spiro/pkg/protocol"
	"github.com/richard-senior/spiro/pkg/spiro"
	"github.com/richard-senior/spiro/pkg/util"
	"github.com/richard-senior/spiro/pkg/web"
)

// Handler runs one tool invocation with the decoded "arguments" object
type Handler func(params any) (any, error)

// SpiroTools exposes a session as tools. Every handler goes through the
// session so tool calls and web requests see the same state.
type SpiroTools struct {
	Session *spiro.Session
	Options spiro.DrawOptions
}

func NewSpiroTools(s *spiro.Session, opts spiro.DrawOptions) *SpiroTools {
	return &SpiroTools{Session: s, Options: opts}
}

// Registration pairs a tool definition with the handler that serves it
type Registration struct {
	Tool    protocol.Tool
	Handler Handler
}

// Tools returns every tool in listing order
func (t *SpiroTools) Tools() []Registration {
	return []Registration{
		{RenderTool(), t.HandleRender},
		{ShuffleTool(), t.HandleShuffle},
		{SetTool(), t.HandleSet},
		{SettingsTool(), t.HandleSettings},
		{SaveTool(), t.HandleSave},
	}
}

func RenderTool() protocol.Tool {
	return protocol.Tool{
		Name:        "spiro_render",
		Description: "Draws the current spirograph curve and returns it as an SVG document",
		InputSchema: protocol.InputSchema{
			Type:       "object",
			Properties: map[string]protocol.ToolProperty{},
			Required:   []string{},
		},
	}
}

// HandleRender samples the current params and returns the SVG text
func (t *SpiroTools) HandleRender(params any) (any, error) {
	logger.Info("Handling spiro_render tool invocation")
	drawing, err := t.Session.Frame().Drawing(t.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to draw curve: %w", err)
	}
	return protocol.ToolResult{Content: []protocol.Content{{
		Type:     "text",
		Text:     drawing.String(),
		MimeType: "image/svg+xml",
	}}}, nil
}

func ShuffleTool() protocol.Tool {
	return protocol.Tool{
		Name:        "spiro_shuffle",
		Description: "Picks new random values for A, B and C below the current max and returns the new settings",
		InputSchema: protocol.InputSchema{
			Type:       "object",
			Properties: map[string]protocol.ToolProperty{},
			Required:   []string{},
		},
	}
}

func (t *SpiroTools) HandleShuffle(params any) (any, error) {
	logger.Info("Handling spiro_shuffle tool invocation")
	return settingsResult(t.Session.Randomize())
}

func SetTool() protocol.Tool {
	shape := func(name string) protocol.ToolProperty {
		return protocol.ToolProperty{
			Type:        "integer",
			Description: name + ", clamped to [1, param_max]",
			Minimum:     protocol.Float(1),
		}
	}
	return protocol.Tool{
		Name: "spiro_set",
		Description: "Changes one or more curve settings. Values out of range are clamped. " +
			"param_max is applied first so a, b and c are checked against the new bound.",
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.ToolProperty{
				"a": shape("Fixed circle radius"),
				"b": shape("Rolling circle radius"),
				"c": shape("Pen distance from the rolling circle's centre"),
				"param_max": {
					Type:        "integer",
					Description: "Shared upper bound for a, b and c",
					Minimum:     protocol.Float(1),
					Maximum:     protocol.Float(float64(spiro.ParamMaxLimit)),
				},
				"width": {
					Type:        "number",
					Description: "Stroke width",
					Minimum:     protocol.Float(float64(spiro.MinWidth)),
					Maximum:     protocol.Float(float64(spiro.MaxWidth)),
				},
				"color": {
					Type:        "string",
					Description: "Stroke colour as #rrggbb or #rrggbbaa",
				},
			},
			Required: []string{},
		},
	}
}

// HandleSet applies whatever subset of settings was given
func (t *SpiroTools) HandleSet(params any) (any, error) {
	logger.Info("Handling spiro_set tool invocation")

	edit, err := ParseEdit(params)
	if err != nil {
		return nil, err
	}
	if edit.Empty() {
		return nil, fmt.Errorf("at least one of a, b, c, param_max, width or color is required")
	}
	return settingsResult(t.Session.Update(edit.Apply))
}

// ParseEdit reads tool arguments into an edit. Numbers may arrive as JSON
// numbers or numeric strings.
func ParseEdit(params any) (spiro.Edit, error) {
	var e spiro.Edit
	if params == nil {
		return e, nil
	}
	paramsMap, ok := params.(map[string]any)
	if !ok {
		return e, fmt.Errorf("invalid parameters format")
	}

	ints := []struct {
		name string
		dst  **int
	}{{"a", &e.A}, {"b", &e.B}, {"c", &e.C}, {"param_max", &e.ParamMax}}
	for _, f := range ints {
		raw, ok := paramsMap[f.name]
		if !ok {
			continue
		}
		v, err := util.GetAsInteger(raw)
		if err != nil {
			return spiro.Edit{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.dst = &v
	}

	if raw, ok := paramsMap["width"]; ok {
		v, err := util.GetAsFloat(raw)
		if err != nil {
			return spiro.Edit{}, fmt.Errorf("width: %w", err)
		}
		e.Width = &v
	}

	if raw, ok := paramsMap["color"]; ok {
		s, err := util.GetAsString(raw)
		if err != nil {
			return spiro.Edit{}, fmt.Errorf("color: %w", err)
		}
		c, err := spiro.ParseColor(s)
		if err != nil {
			return spiro.Edit{}, err
		}
		e.Color = &c
	}
	return e, nil
}

func SettingsTool() protocol.Tool {
	return protocol.Tool{
		Name:        "spiro_settings",
		Description: "Returns the current curve settings as markdown",
		InputSchema: protocol.InputSchema{
			Type:       "object",
			Properties: map[string]protocol.ToolProperty{},
			Required:   []string{},
		},
	}
}

func (t *SpiroTools) HandleSettings(params any) (any, error) {
	logger.Info("Handling spiro_settings tool invocation")
	return settingsResult(t.Session.Params())
}

func SaveTool() protocol.Tool {
	return protocol.Tool{
		Name:        "spiro_save",
		Description: "Persists the current settings so the next start resumes from them",
		InputSchema: protocol.InputSchema{
			Type:       "object",
			Properties: map[string]protocol.ToolProperty{},
			Required:   []string{},
		},
	}
}

func (t *SpiroTools) HandleSave(params any) (any, error) {
	logger.Info("Handling spiro_save tool invocation")
	if err := t.Session.Save(); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	return protocol.NewTextResult("saved"), nil
}

func settingsResult(p spiro.Params) (any, error) {
	md, err := web.PanelMarkdown(p)
	if err != nil {
		return nil, err
	}
	return protocol.NewTextResult(md), nil
}
