package docmerge

import (
	"fmt"
	"html"
	"sort"
	"strings"
)

// textNode is one <w:t> element inside a paragraph. Offsets index the raw part.
type textNode struct {
	openStart  int
	contentEnd int
	openTag    string
	text       string
}

type paragraph struct {
	nodes []textNode
}

// token is a {NAME} occurrence in a paragraph's concatenated text.
type token struct {
	start int
	end   int
	name  string
}

type replacement struct {
	start int
	end   int
	value string
}

type edit struct {
	start int
	end   int
	text  string
}

// partResult carries what rendering one XML part produced.
type partResult struct {
	output     string
	changed    bool
	unresolved []string
	problems   []string
	tokens     []string
}

// renderPart substitutes tokens in one WordprocessingML part. Unresolved tokens are
// reported and left as literal text. When keys is nil the part is only scanned.
func renderPart(partName, xmlText string, keys KeyMap) partResult {
	var res partResult
	var edits []edit

	var stack []*paragraph
	flush := func(p *paragraph) {
		res.merge(renderParagraph(partName, p, keys, &edits))
	}

	i := 0
	for i < len(xmlText) {
		lt := strings.IndexByte(xmlText[i:], '<')
		if lt < 0 {
			break
		}
		start := i + lt
		switch {
		case strings.HasPrefix(xmlText[start:], "<!--"):
			end := strings.Index(xmlText[start:], "-->")
			if end < 0 {
				i = len(xmlText)
				continue
			}
			i = start + end + 3
			continue
		case strings.HasPrefix(xmlText[start:], "<![CDATA["):
			end := strings.Index(xmlText[start:], "]]>")
			if end < 0 {
				i = len(xmlText)
				continue
			}
			i = start + end + 3
			continue
		case strings.HasPrefix(xmlText[start:], "<?"):
			end := strings.Index(xmlText[start:], "?>")
			if end < 0 {
				i = len(xmlText)
				continue
			}
			i = start + end + 2
			continue
		}

		tagEnd := findTagEnd(xmlText, start)
		if tagEnd < 0 {
			break
		}
		tag := xmlText[start:tagEnd]
		name, closing, selfClosing := tagName(tag)
		i = tagEnd

		switch name {
		case "w:p":
			switch {
			case selfClosing:
			case closing:
				if n := len(stack); n > 0 {
					p := stack[n-1]
					stack = stack[:n-1]
					flush(p)
				}
			default:
				stack = append(stack, &paragraph{})
			}
		case "w:t":
			if closing || selfClosing || len(stack) == 0 {
				continue
			}
			closeIdx := strings.Index(xmlText[tagEnd:], "</w:t>")
			if closeIdx < 0 {
				continue
			}
			contentEnd := tagEnd + closeIdx
			p := stack[len(stack)-1]
			p.nodes = append(p.nodes, textNode{
				openStart:  start,
				contentEnd: contentEnd,
				openTag:    tag,
				text:       html.UnescapeString(xmlText[tagEnd:contentEnd]),
			})
			i = contentEnd
		}
	}
	for n := len(stack) - 1; n >= 0; n-- {
		flush(stack[n])
	}

	if len(edits) == 0 {
		res.output = xmlText
		return res
	}
	sort.Slice(edits, func(a, b int) bool { return edits[a].start < edits[b].start })
	var b strings.Builder
	b.Grow(len(xmlText))
	pos := 0
	for _, e := range edits {
		b.WriteString(xmlText[pos:e.start])
		b.WriteString(e.text)
		pos = e.end
	}
	b.WriteString(xmlText[pos:])
	res.output = b.String()
	res.changed = true
	return res
}

func (r *partResult) merge(o partResult) {
	r.unresolved = append(r.unresolved, o.unresolved...)
	r.problems = append(r.problems, o.problems...)
	r.tokens = append(r.tokens, o.tokens...)
}

func renderParagraph(partName string, p *paragraph, keys KeyMap, edits *[]edit) partResult {
	var res partResult
	if len(p.nodes) == 0 {
		return res
	}

	offsets := make([]int, len(p.nodes)+1)
	var sb strings.Builder
	for i, n := range p.nodes {
		offsets[i] = sb.Len()
		sb.WriteString(n.text)
	}
	offsets[len(p.nodes)] = sb.Len()
	text := sb.String()

	tokens, problems := scanTokens(text)
	for _, pr := range problems {
		res.problems = append(res.problems, partName+": "+pr)
	}
	if len(tokens) == 0 {
		return res
	}

	var repls []replacement
	for _, t := range tokens {
		res.tokens = append(res.tokens, t.name)
		if keys == nil {
			continue
		}
		value, ok := keys.Resolve(t.name)
		if !ok {
			res.unresolved = append(res.unresolved, t.name)
			continue
		}
		repls = append(repls, replacement{start: t.start, end: t.end, value: value})
	}
	if len(repls) == 0 {
		return res
	}

	for i, n := range p.nodes {
		ns, ne := offsets[i], offsets[i+1]
		var out strings.Builder
		changed := false
		pos := ns
		for _, r := range repls {
			if r.end <= pos || r.start >= ne {
				continue
			}
			if r.start > pos {
				out.WriteString(text[pos:r.start])
			}
			if r.start >= ns {
				out.WriteString(r.value)
			}
			changed = true
			pos = r.end
			if pos > ne {
				pos = ne
			}
		}
		if !changed {
			continue
		}
		if pos < ne {
			out.WriteString(text[pos:ne])
		}
		*edits = append(*edits, edit{
			start: n.openStart,
			end:   n.contentEnd,
			text:  encodeTextNode(n.openTag, out.String()),
		})
	}
	return res
}

// scanTokens finds {NAME} tokens in a paragraph's text and reports malformed
// delimiters. Tokens never span paragraphs.
func scanTokens(text string) ([]token, []string) {
	var tokens []token
	var problems []string
	open := -1
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if open >= 0 {
				problems = append(problems, fmt.Sprintf("unclosed tag %q", text[open:i]))
			}
			open = i
		case '}':
			if open < 0 {
				problems = append(problems, fmt.Sprintf("unopened tag near %q", around(text, i)))
				continue
			}
			name := strings.TrimSpace(text[open+1 : i])
			if name == "" {
				problems = append(problems, "empty tag {}")
			} else {
				tokens = append(tokens, token{start: open, end: i + 1, name: name})
			}
			open = -1
		}
	}
	if open >= 0 {
		problems = append(problems, fmt.Sprintf("unclosed tag %q", text[open:]))
	}
	return tokens, problems
}

func around(text string, i int) string {
	from := i - 20
	if from < 0 {
		from = 0
	}
	return text[from : i+1]
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// encodeTextNode renders the opening <w:t> tag and escaped content for a modified
// node. Newlines become <w:br/> breaks inside the same run.
func encodeTextNode(openTag, text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	needsPreserve := strings.Contains(text, "\n") ||
		strings.TrimSpace(text) != text
	if needsPreserve && !strings.Contains(openTag, "xml:space") {
		openTag = strings.TrimSuffix(openTag, ">") + ` xml:space="preserve">`
	}
	lines := strings.Split(text, "\n")
	var b strings.Builder
	b.WriteString(openTag)
	for i, line := range lines {
		if i > 0 {
			b.WriteString(`</w:t><w:br/><w:t xml:space="preserve">`)
		}
		b.WriteString(textEscaper.Replace(line))
	}
	return b.String()
}

// findTagEnd returns the index just past the '>' closing the tag at start,
// skipping quoted attribute values.
func findTagEnd(s string, start int) int {
	var quote byte
	for i := start + 1; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			return i + 1
		}
	}
	return -1
}

func tagName(tag string) (name string, closing, selfClosing bool) {
	body := tag[1 : len(tag)-1]
	if strings.HasPrefix(body, "/") {
		closing = true
		body = body[1:]
	}
	if strings.HasSuffix(body, "/") {
		selfClosing = true
		body = body[:len(body)-1]
	}
	end := strings.IndexAny(body, " \t\r\n")
	if end < 0 {
		end = len(body)
	}
	return body[:end], closing, selfClosing
}
