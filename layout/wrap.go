package layout

import (
	"math"
	"strings"
	"unicode"
)

// MeasureFunc 测量单个 TextRun。
type MeasureFunc func(run TextRun) (TextMetrics, error)

type tokenKind int

const (
	tokenWord tokenKind = iota
	tokenSpace
	tokenNewline
)

type wrapToken struct {
	run  int
	text string
	kind tokenKind
}

// GreedyWrap 以贪心方式把多个样式片段折成行，供各个 Typesetter 共用。
//
// 断行处的空白保留在上一行末尾（不计入行宽），超出 maxWidth 的单词按字符拆开，
// maxWidth <= 0 表示不限制宽度。对同一段文本的前缀或后缀再次折行会得到相同的行。
func GreedyWrap(runs []TextRun, maxWidth float64, measure MeasureFunc) ([]TextLine, error) {
	limit := maxWidth
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	tokens := tokenizeRuns(runs)
	if len(tokens) == 0 {
		return nil, nil
	}

	var (
		lines    []TextLine
		current  TextLine
		lastRun  = -1
		cur      float64 // 当前行宽（含行尾空白）
		hasWords bool
	)

	extend := func(runIdx int) error {
		m, err := measure(TextRun{Font: runs[runIdx].Font, Size: runs[runIdx].Size, Color: runs[runIdx].Color})
		if err != nil {
			return err
		}
		current.Height = max(current.Height, m.Height)
		current.Ascent = max(current.Ascent, m.Ascent)
		return nil
	}
	add := func(runIdx int, text string, w float64) error {
		if n := len(current.Fragments); n > 0 && lastRun == runIdx {
			current.Fragments[n-1].Text += text
			current.Fragments[n-1].Width += w
		} else {
			r := runs[runIdx]
			r.Text = text
			current.Fragments = append(current.Fragments, Fragment{TextRun: r, Width: w})
			lastRun = runIdx
			if err := extend(runIdx); err != nil {
				return err
			}
		}
		cur += w
		return nil
	}
	emit := func(hard bool) {
		current.HardBreak = hard
		lines = append(lines, current)
		current = TextLine{}
		lastRun = -1
		cur = 0
		hasWords = false
	}
	width := func(runIdx int, text string) (float64, error) {
		r := runs[runIdx]
		r.Text = text
		m, err := measure(r)
		if err != nil {
			return 0, err
		}
		return m.Width, nil
	}

	for _, tok := range tokens {
		switch tok.kind {
		case tokenNewline:
			if err := add(tok.run, tok.text, 0); err != nil {
				return nil, err
			}
			emit(true)
		case tokenSpace:
			w, err := width(tok.run, tok.text)
			if err != nil {
				return nil, err
			}
			if err := add(tok.run, tok.text, w); err != nil {
				return nil, err
			}
		case tokenWord:
			w, err := width(tok.run, tok.text)
			if err != nil {
				return nil, err
			}
			chunks := []string{tok.text}
			if w > limit {
				if chunks, err = splitByWidth(tok.text, limit, func(s string) (float64, error) { return width(tok.run, s) }); err != nil {
					return nil, err
				}
			}
			for _, chunk := range chunks {
				cw := w
				if len(chunks) > 1 {
					if cw, err = width(tok.run, chunk); err != nil {
						return nil, err
					}
				}
				if hasWords && cur+cw > limit {
					emit(false)
				}
				if err := add(tok.run, chunk, cw); err != nil {
					return nil, err
				}
				current.Width = cur
				hasWords = true
			}
		}
	}
	if len(current.Fragments) > 0 {
		emit(false)
	}
	return lines, nil
}

func tokenizeRuns(runs []TextRun) []wrapToken {
	var tokens []wrapToken
	for i, run := range runs {
		var b strings.Builder
		kind := tokenWord
		flush := func() {
			if b.Len() == 0 {
				return
			}
			tokens = append(tokens, wrapToken{run: i, text: b.String(), kind: kind})
			b.Reset()
		}
		for _, r := range run.Text {
			if r == '\n' {
				flush()
				tokens = append(tokens, wrapToken{run: i, text: "\n", kind: tokenNewline})
				continue
			}
			k := tokenWord
			if unicode.IsSpace(r) {
				k = tokenSpace
			}
			if b.Len() > 0 && k != kind {
				flush()
			}
			kind = k
			b.WriteRune(r)
		}
		flush()
	}
	return tokens
}

// splitByWidth 把过长的单词按宽度拆成若干块，每块至少包含一个字符。
func splitByWidth(token string, limit float64, width func(string) (float64, error)) ([]string, error) {
	var parts []string
	var runes []rune
	for _, r := range token {
		runes = append(runes, r)
		if len(runes) < 2 {
			continue
		}
		w, err := width(string(runes))
		if err != nil {
			return nil, err
		}
		if w > limit {
			parts = append(parts, string(runes[:len(runes)-1]))
			runes = runes[len(runes)-1:]
		}
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts, nil
}

// linesToRuns 把若干行还原为样式片段，用于构造切分后的段落。
// 相邻且样式相同的片段会合并，保证再次折行时单词边界不变；
// 这只依赖片段自身的样式，任何 WrapLines 实现产生的行都适用。
func linesToRuns(lines []TextLine) []TextRun {
	var runs []TextRun
	for _, l := range lines {
		for _, f := range l.Fragments {
			if n := len(runs); n > 0 && sameStyle(runs[n-1], f.TextRun) {
				runs[n-1].Text += f.Text
				continue
			}
			runs = append(runs, f.TextRun)
		}
	}
	return runs
}

// sameStyle 报告两段文本的字体、字号与颜色是否一致。
func sameStyle(a, b TextRun) bool {
	return a.Font == b.Font && a.Size == b.Size && a.Color == b.Color
}
