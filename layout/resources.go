package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/quire/dsl"
)

// DefaultFontName 是没有声明任何字体时使用的字体资源名。
const DefaultFontName = "Body"

// defaultFont 使用内置的 Latin Modern Roman。
var defaultFont = FontResource{
	Name:   DefaultFontName,
	Src:    "builtin:lmroman10-regular",
	Family: DefaultFontName,
}

func collectResources(doc *dsl.Document) (ResourceSet, error) {
	res := ResourceSet{
		Fonts:  map[string]FontResource{},
		Colors: map[string]Color{},
		Images: map[string]ImageResource{},
		Styles: map[string]Style{},
	}
	rawStyles := map[string]Style{}

	for _, section := range doc.Sections {
		if section.Resources == nil {
			continue
		}
		for _, cmd := range section.Resources.Block.Commands() {
			switch cmd.Name {
			case "font":
				font := parseFontResource(cmd)
				if font.Name != "" {
					res.Fonts[font.Name] = font
				}
			case "color":
				name, value := parseColorResource(cmd)
				if name == "" || value == "" {
					return res, fmt.Errorf("%w: line %d: color needs a name and a value", ErrInvalidConfig, cmd.Pos.Line)
				}
				c, err := parseColor(value)
				if err != nil {
					return res, fmt.Errorf("line %d: %w", cmd.Pos.Line, err)
				}
				res.Colors[name] = c
			case "image":
				image, err := parseImageResource(cmd)
				if err != nil {
					return res, fmt.Errorf("line %d: %w", cmd.Pos.Line, err)
				}
				if image.Name != "" {
					res.Images[image.Name] = image
				}
			case "style":
				style := parseStyleResource(cmd)
				if style.Name != "" {
					rawStyles[style.Name] = style
				}
			default:
				return res, fmt.Errorf("%w: line %d: unknown resource %q", ErrInvalidConfig, cmd.Pos.Line, cmd.Name)
			}
		}
	}

	if len(res.Fonts) == 0 {
		res.Fonts[DefaultFontName] = defaultFont
	}

	resolvedStyles, err := resolveStyles(rawStyles, res.Fonts)
	if err != nil {
		return res, err
	}
	res.Styles = resolvedStyles
	return res, nil
}

func collectMeta(doc *dsl.Document) DocumentMeta {
	meta := DocumentMeta{Creator: "quire"}
	for _, section := range doc.Sections {
		if section.Meta == nil {
			continue
		}
		for key, val := range section.Meta.Block.Assignments() {
			switch key {
			case "title":
				meta.Title = val.Text()
			case "author":
				meta.Author = val.Text()
			case "subject":
				meta.Subject = val.Text()
			case "creator":
				meta.Creator = val.Text()
			case "keywords":
				meta.Keywords = val.Strings()
			}
		}
	}
	return meta
}

// parseFontResource 解析 `font Name { src: "..." style: "bold" fallback: "..." }`。
func parseFontResource(cmd *dsl.Command) FontResource {
	words := cmd.Words()
	if len(words) == 0 {
		return FontResource{}
	}
	font := FontResource{Name: words[0].Text, Family: words[0].Text}
	for key, val := range cmd.Block.Assignments() {
		switch key {
		case "src":
			font.Src = val.Text()
		case "style":
			font.Style = val.Text()
		case "family":
			font.Family = val.Text()
		case "fallback":
			font.Fallback = val.Text()
		}
	}
	if font.Src == "" && strings.HasPrefix(font.Name, "builtin:") {
		font.Src = font.Name
	}
	return font
}

func parseImageResource(cmd *dsl.Command) (ImageResource, error) {
	words := cmd.Words()
	if len(words) == 0 {
		return ImageResource{}, nil
	}
	image := ImageResource{Name: words[0].Text}
	for key, val := range cmd.Block.Assignments() {
		var err error
		switch key {
		case "src":
			image.Src = val.Text()
		case "width":
			image.Width, err = ParseLength(val.Text())
		case "height":
			image.Height, err = ParseLength(val.Text())
		}
		if err != nil {
			return image, fmt.Errorf("%w: image %s %s: %v", ErrInvalidConfig, image.Name, key, err)
		}
	}
	return image, nil
}

// parseStyleResource 解析 `style Name [extends Parent] { key: value ... }`。
func parseStyleResource(cmd *dsl.Command) Style {
	words := cmd.Words()
	if len(words) == 0 {
		return Style{}
	}
	style := Style{Name: words[0].Text, Props: map[string]string{}}
	if len(words) >= 3 && strings.EqualFold(words[1].Text, "extends") {
		style.Extends = words[2].Text
	}
	for key, val := range cmd.Block.Assignments() {
		if v := val.Text(); v != "" {
			style.Props[key] = v
		}
	}
	return style
}

// resolveStyles 展开样式继承。继承的名字是字体而不是样式时，视为设置了 font。
func resolveStyles(styles map[string]Style, fonts map[string]FontResource) (map[string]Style, error) {
	resolved := map[string]Style{}
	visiting := map[string]bool{}

	var dfs func(name string) (Style, error)
	dfs = func(name string) (Style, error) {
		if style, ok := resolved[name]; ok {
			return style, nil
		}
		style, ok := styles[name]
		if !ok {
			return Style{}, fmt.Errorf("%w: style %s is not defined", ErrInvalidConfig, name)
		}
		if visiting[name] {
			return Style{}, fmt.Errorf("%w: style inheritance cycle at %s", ErrInvalidConfig, name)
		}
		visiting[name] = true

		props := map[string]string{}
		_, isStyle := styles[style.Extends]
		_, isFont := fonts[style.Extends]
		switch {
		case style.Extends == "":
		case !isStyle && isFont:
			props["font"] = style.Extends
		default:
			parent, err := dfs(style.Extends)
			if err != nil {
				return Style{}, err
			}
			for k, v := range parent.Props {
				props[k] = v
			}
		}
		for k, v := range style.Props {
			props[k] = v
		}
		style.Props = props
		resolved[name] = style
		delete(visiting, name)
		return style, nil
	}

	for name := range styles {
		if _, err := dfs(name); err != nil {
			return nil, err
		}
	}
	return resolved, nil
}

// parseColorResource 解析 `color Name = #RRGGBB`，等号可以省略。
func parseColorResource(cmd *dsl.Command) (string, string) {
	words := cmd.Words()
	if len(words) == 0 {
		return "", ""
	}
	name := words[0].Text
	value := ""
	if len(words) > 1 {
		value = words[len(words)-1].Text
	}
	if value == "=" {
		value = ""
	}
	return name, value
}

// resolveFontResource 按名称查找字体，找不到时退回 Body 或任意已声明的字体。
func resolveFontResource(name string, res ResourceSet) (FontResource, error) {
	if font, ok := res.Fonts[name]; ok {
		return font, nil
	}
	if name != "" {
		return FontResource{}, fmt.Errorf("%w: font %s is not defined", ErrInvalidConfig, name)
	}
	if font, ok := res.Fonts[DefaultFontName]; ok {
		return font, nil
	}
	for _, font := range res.Fonts {
		return font, nil
	}
	return defaultFont, nil
}

// parseFontSize 解析字号，纯数字按 pt 处理，返回 mm。
func parseFontSize(value string) (float64, error) {
	l, err := ParseLengthValue(value)
	if err != nil {
		return 0, fmt.Errorf("%w: font size: %v", ErrInvalidConfig, err)
	}
	if l.Unit == UnitNone {
		l.Unit = UnitPT
	}
	if l.Value <= 0 {
		return 0, fmt.Errorf("%w: font size %q must be positive", ErrInvalidConfig, value)
	}
	return l.MM(), nil
}

// resolveColor 先按资源名查找，再按 #hex 解析。
func resolveColor(value string, res ResourceSet) (Color, error) {
	if c, ok := res.Colors[value]; ok {
		return c, nil
	}
	switch strings.ToLower(value) {
	case "black":
		return Black, nil
	case "white":
		return White, nil
	case "red":
		return Red, nil
	}
	if strings.HasPrefix(value, "#") {
		return parseColor(value)
	}
	return Color{}, fmt.Errorf("%w: color %s is not defined", ErrInvalidConfig, value)
}

// parseColor 解析 #RGB、#RRGGBB 与 #RRGGBBAA（忽略透明度）。
func parseColor(value string) (Color, error) {
	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("%w: cannot parse color %s", ErrInvalidConfig, value)
	}
	v, err := strconv.ParseUint(hex[:6], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: cannot parse color %s", ErrInvalidConfig, value)
	}
	return Color{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}
