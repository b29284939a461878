package contrast

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

var errEmptyColor = errors.New("empty color")

// ParseColor parses a CSS color string as found in web app manifests.
// Supported forms: #rgb, #rgba, #rrggbb, #rrggbbaa, rgb(), rgba() and named colors.
func ParseColor(raw string) (color.NRGBA, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return color.NRGBA{}, errEmptyColor
	}
	if strings.HasPrefix(value, "#") {
		return parseHex(value[1:])
	}
	if strings.HasPrefix(value, "rgb") {
		return parseFunctional(value)
	}
	if named, ok := namedColors[value]; ok {
		return named, nil
	}
	return color.NRGBA{}, fmt.Errorf("unsupported color %q", raw)
}

// ParseColorOr is ParseColor with a fallback for unparseable input.
func ParseColorOr(raw string, fallback color.NRGBA) color.NRGBA {
	c, err := ParseColor(raw)
	if err != nil {
		return fallback
	}
	return c
}

func parseHex(hex string) (color.NRGBA, error) {
	switch len(hex) {
	case 3, 4:
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length %d", len(hex))
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color: %w", err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func parseFunctional(value string) (color.NRGBA, error) {
	open := strings.IndexByte(value, '(')
	if open < 0 || !strings.HasSuffix(value, ")") {
		return color.NRGBA{}, fmt.Errorf("malformed color function %q", value)
	}
	name := value[:open]
	if name != "rgb" && name != "rgba" {
		return color.NRGBA{}, fmt.Errorf("unsupported color function %q", name)
	}
	body := value[open+1 : len(value)-1]
	// Accept both the legacy comma form and the space/slash form.
	body = strings.NewReplacer(",", " ", "/", " ").Replace(body)
	parts := strings.Fields(body)
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, fmt.Errorf("color function %q needs 3 or 4 components", value)
	}
	var channels [3]uint8
	for i := 0; i < 3; i++ {
		ch, err := parseChannel(parts[i])
		if err != nil {
			return color.NRGBA{}, err
		}
		channels[i] = ch
	}
	alpha := uint8(0xFF)
	if len(parts) == 4 {
		a, err := parseAlpha(parts[3])
		if err != nil {
			return color.NRGBA{}, err
		}
		alpha = a
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, nil
}

func parseChannel(s string) (uint8, error) {
	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid channel %q: %w", s, err)
		}
		return clampByte(pct * 255 / 100), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid channel %q: %w", s, err)
	}
	return clampByte(v), nil
}

func parseAlpha(s string) (uint8, error) {
	if strings.HasSuffix(s, "%") {
		pct, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return 0, fmt.Errorf("invalid alpha %q: %w", s, err)
		}
		return clampByte(pct * 255 / 100), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid alpha %q: %w", s, err)
	}
	return clampByte(v * 255), nil
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}

var namedColors = map[string]color.NRGBA{
	"black":         {0x00, 0x00, 0x00, 0xFF},
	"white":         {0xFF, 0xFF, 0xFF, 0xFF},
	"red":           {0xFF, 0x00, 0x00, 0xFF},
	"green":         {0x00, 0x80, 0x00, 0xFF},
	"lime":          {0x00, 0xFF, 0x00, 0xFF},
	"blue":          {0x00, 0x00, 0xFF, 0xFF},
	"navy":          {0x00, 0x00, 0x80, 0xFF},
	"yellow":        {0xFF, 0xFF, 0x00, 0xFF},
	"orange":        {0xFF, 0xA5, 0x00, 0xFF},
	"purple":        {0x80, 0x00, 0x80, 0xFF},
	"fuchsia":       {0xFF, 0x00, 0xFF, 0xFF},
	"magenta":       {0xFF, 0x00, 0xFF, 0xFF},
	"aqua":          {0x00, 0xFF, 0xFF, 0xFF},
	"cyan":          {0x00, 0xFF, 0xFF, 0xFF},
	"teal":          {0x00, 0x80, 0x80, 0xFF},
	"olive":         {0x80, 0x80, 0x00, 0xFF},
	"maroon":        {0x80, 0x00, 0x00, 0xFF},
	"silver":        {0xC0, 0xC0, 0xC0, 0xFF},
	"gray":          {0x80, 0x80, 0x80, 0xFF},
	"grey":          {0x80, 0x80, 0x80, 0xFF},
	"darkgray":      {0xA9, 0xA9, 0xA9, 0xFF},
	"lightgray":     {0xD3, 0xD3, 0xD3, 0xFF},
	"whitesmoke":    {0xF5, 0xF5, 0xF5, 0xFF},
	"rebeccapurple": {0x66, 0x33, 0x99, 0xFF},
	"indigo":        {0x4B, 0x00, 0x82, 0xFF},
	"pink":          {0xFF, 0xC0, 0xCB, 0xFF},
	"gold":          {0xFF, 0xD7, 0x00, 0xFF},
	"brown":         {0xA5, 0x2A, 0x2A, 0xFF},
	"transparent":   {0x00, 0x00, 0x00, 0x00},
}
