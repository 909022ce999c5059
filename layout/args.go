package layout

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/ByLCY/quire/dsl"
	"github.com/ByLCY/quire/logger"
)

// 命令参数的形式：开头的位置参数（样式名、资源名、尺寸等），随后是 key value 对与开关。
// margin/padding 可以跟 1 到 4 个长度。

var argFlags = map[string]bool{
	"keep-together":      true,
	"new-page":           true,
	"overlay":            true,
	"showmargins":        true,
	"portrait":           true,
	"landscape":          true,
	"keep-leading-space": true,
}

var argInsets = map[string]bool{
	"margin":  true,
	"padding": true,
}

var argKeys = map[string]bool{
	"width": true, "height": true,
	"font": true, "size": true, "color": true,
	"align": true, "block-align": true, "line-spacing": true,
	"space-before": true, "space-after": true,
	"gap-before": true, "gap-after": true, "indent-left": true, "indent-right": true,
	"border": true, "border-color": true, "border-style": true, "radius": true,
	"background": true, "need-space": true,
	"x": true, "y": true, "dx": true, "dy": true,
	"spacing": true, "rotation": true, "columns": true, "dash": true,
	"header-height": true, "footer-height": true, "header-style": true,
}

// cmdArgs 是解析后的命令参数。
type cmdArgs struct {
	pos   []string
	attrs map[string]string
	lists map[string][]string
	flags map[string]bool
}

func isArgWord(w dsl.Word) bool {
	if w.Quoted || w.List != nil {
		return false
	}
	k := strings.ToLower(w.Text)
	return argFlags[k] || argInsets[k] || argKeys[k]
}

// parseArgs 解析命令参数；where 用于警告信息。
func parseArgs(words []dsl.Word, where string) (cmdArgs, error) {
	a := cmdArgs{attrs: map[string]string{}, lists: map[string][]string{}, flags: map[string]bool{}}
	i := 0
	for ; i < len(words) && !isArgWord(words[i]); i++ {
		a.pos = append(a.pos, words[i].Text)
	}
	for i < len(words) {
		w := words[i]
		key := strings.ToLower(w.Text)
		i++
		switch {
		case w.Quoted || w.List != nil:
			return a, fmt.Errorf("%w: unexpected value %q in %s", ErrInvalidConfig, w.Text, where)
		case argFlags[key]:
			a.flags[key] = true
		case argInsets[key]:
			var vals []string
			for i < len(words) && len(vals) < 4 && !isArgWord(words[i]) {
				if _, err := ParseLength(words[i].Text); err != nil {
					break
				}
				vals = append(vals, words[i].Text)
				i++
			}
			if len(vals) == 0 {
				return a, fmt.Errorf("%w: %s needs 1 to 4 lengths in %s", ErrInvalidConfig, key, where)
			}
			a.attrs[key] = strings.Join(vals, " ")
		case argKeys[key]:
			if i >= len(words) || isArgWord(words[i]) {
				return a, fmt.Errorf("%w: missing value for %s in %s", ErrInvalidConfig, key, where)
			}
			if words[i].List != nil {
				a.lists[key] = words[i].List
			}
			a.attrs[key] = words[i].Text
			i++
		default:
			logger.WarningLogger.Printf("%s: ignoring unknown attribute %q", where, w.Text)
		}
	}
	return a, nil
}

// withStyle 把样式属性合并到参数中，命令上显式写出的属性优先。
func (a cmdArgs) withStyle(style Style) cmdArgs {
	for k, v := range style.Props {
		k = strings.ToLower(k)
		if argFlags[k] {
			if v == "true" || v == "yes" {
				a.flags[k] = true
			}
			continue
		}
		if _, ok := a.attrs[k]; !ok {
			a.attrs[k] = v
		}
	}
	return a
}

func (a cmdArgs) clone() cmdArgs {
	return cmdArgs{
		pos:   slices.Clone(a.pos),
		attrs: maps.Clone(a.attrs),
		lists: maps.Clone(a.lists),
		flags: maps.Clone(a.flags),
	}
}

func (a cmdArgs) has(key string) bool {
	_, ok := a.attrs[key]
	return ok
}

// length 返回以 mm 为单位的属性值，属性不存在时返回 def。
func (a cmdArgs) length(key string, def float64) (float64, error) {
	v, ok := a.attrs[key]
	if !ok {
		return def, nil
	}
	mm, err := ParseLength(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return mm, nil
}

// dimension 与 length 相同，但允许相对 reference 的百分比。
func (a cmdArgs) dimension(key string, reference, def float64) (float64, error) {
	v, ok := a.attrs[key]
	if !ok {
		return def, nil
	}
	mm, err := parseDimension(v, reference)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return mm, nil
}

func (a cmdArgs) insets(key string) (Insets, bool, error) {
	v, ok := a.attrs[key]
	if !ok {
		return Insets{}, false, nil
	}
	in, err := ParseInsets(v)
	if err != nil {
		return Insets{}, false, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err)
	}
	return in, true, nil
}

// position 返回 x/y 属性给出的绝对位置，两者都没有时返回 nil。
func (a cmdArgs) position() (*Position, error) {
	if !a.has("x") && !a.has("y") {
		return nil, nil
	}
	x, err := a.length("x", 0)
	if err != nil {
		return nil, err
	}
	y, err := a.length("y", 0)
	if err != nil {
		return nil, err
	}
	return &Position{X: x, Y: y}, nil
}

// parseDimension 解析长度或相对 reference 的百分比。
func parseDimension(value string, reference float64) (float64, error) {
	if num, ok := strings.CutSuffix(strings.TrimSpace(value), "%"); ok {
		l, err := ParseLengthValue(num)
		if err != nil || l.Unit != UnitNone {
			return 0, fmt.Errorf("invalid percentage %q", value)
		}
		return reference * l.Value / 100, nil
	}
	return ParseLength(value)
}

func parseAlignment(value string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "left", "start":
		return AlignLeft, nil
	case "center", "middle":
		return AlignCenter, nil
	case "right", "end":
		return AlignRight, nil
	case "justify":
		return AlignJustify, nil
	}
	return AlignLeft, fmt.Errorf("%w: unknown alignment %q", ErrInvalidConfig, value)
}

// parseDash 接受 solid、dashed、dotted 或以空格分隔的长度序列。
func parseDash(value string) ([]float64, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "solid":
		return nil, nil
	case "dashed":
		return []float64{1.5, 1}, nil
	case "dotted":
		return []float64{0.3, 0.6}, nil
	}
	var dash []float64
	for _, f := range strings.Fields(strings.ReplaceAll(value, ",", " ")) {
		mm, err := ParseLength(f)
		if err != nil {
			return nil, fmt.Errorf("%w: dash %q: %v", ErrInvalidConfig, value, err)
		}
		dash = append(dash, mm)
	}
	return dash, nil
}
