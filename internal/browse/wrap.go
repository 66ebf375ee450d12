package browse

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes renders one excerpt line. Rhyming vowels are either
// upper-cased letters or, when bracketed is set, the text between "| " and
// "|" markers; the markers themselves are dropped.
func buildStyledRunes(line []rune, bracketed bool) []styledRune {
	out := make([]styledRune, 0, len(line))
	inRhyme := false
	for i := 0; i < len(line); i++ {
		r := line[i]
		if bracketed && r == '|' {
			if !inRhyme && i+1 < len(line) && line[i+1] == ' ' {
				i++
			}
			inRhyme = !inRhyme
			continue
		}
		style := textStyle
		if (bracketed && inRhyme) || (!bracketed && unicode.IsUpper(r)) {
			style = rhymeStyle
		}
		out = append(out, styledRune{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks a styled line at the last space that fits width,
// or mid-word when a single word is wider than the line.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

// wrapExcerpt styles and wraps every line of a rendered rhyme.
func wrapExcerpt(excerpt string, bracketed bool, width int) string {
	lines := strings.Split(excerpt, "\n")
	for i, line := range lines {
		lines[i] = wrapStyledRunes(buildStyledRunes([]rune(line), bracketed), width)
	}
	return strings.Join(lines, "\n")
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
