package base

import (
	stdhtml "html"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/raushankrgupta/udyam-registration/schema"
)

var labelPolicy = bluemonday.StrictPolicy()

// ExtractFields describes every input, select and textarea on the page in
// document order.
func ExtractFields(doc *goquery.Document) []schema.FieldDescriptor {
	prevText := precedingText(doc)

	var fields []schema.FieldDescriptor
	doc.Find("input, select, textarea").Each(func(_ int, el *goquery.Selection) {
		tag := goquery.NodeName(el)
		id := el.AttrOr("id", "")

		name := el.AttrOr("name", "")
		if name == "" {
			name = id
		}
		f := schema.FieldDescriptor{
			Name:        name,
			ID:          id,
			Tag:         tag,
			Type:        tag,
			Required:    isRequired(el),
			Pattern:     firstAttr(el, "pattern", "data-val-regex", "data-val-regex-pattern"),
			MaxLength:   maxLength(el),
			Placeholder: el.AttrOr("placeholder", ""),
		}
		if tag == "input" {
			f.Type = el.AttrOr("type", "text")
		}
		f.Label = labelFor(doc, el, id, prevText[el.Get(0)])
		if tag == "select" {
			f.Options = selectOptions(el)
		}
		fields = append(fields, f)
	})
	return fields
}

// isRequired treats an attribute's presence as the signal, so
// <input required> counts even with an empty value.
func isRequired(el *goquery.Selection) bool {
	if _, ok := el.Attr("required"); ok {
		return true
	}
	if el.AttrOr("aria-required", "") == "true" {
		return true
	}
	_, ok := el.Attr("data-val-required")
	return ok
}

func firstAttr(el *goquery.Selection, names ...string) string {
	for _, name := range names {
		if v := el.AttrOr(name, ""); v != "" {
			return v
		}
	}
	return ""
}

func maxLength(el *goquery.Selection) schema.Length {
	n, err := strconv.Atoi(strings.TrimSpace(el.AttrOr("maxlength", "")))
	if err != nil || n < 0 {
		return 0
	}
	return schema.Length(n)
}

// labelFor tries label[for=id], then an enclosing label, then the nearest
// text before the element.
func labelFor(doc *goquery.Document, el *goquery.Selection, id, previous string) string {
	if id != "" {
		var found string
		doc.Find("label").EachWithBreak(func(_ int, lbl *goquery.Selection) bool {
			if lbl.AttrOr("for", "") != id {
				return true
			}
			found = CleanText(lbl.Text())
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	if parent := el.Closest("label"); parent.Length() > 0 {
		if text := CleanText(parent.Text()); text != "" {
			return text
		}
	}
	return CleanText(previous)
}

func selectOptions(el *goquery.Selection) []schema.Option {
	var opts []schema.Option
	el.Find("option").Each(func(_ int, o *goquery.Selection) {
		opts = append(opts, schema.Option{
			Value: o.AttrOr("value", ""),
			Label: CleanText(o.Text()),
		})
	})
	return opts
}

// CleanText strips markup, decodes entities and collapses whitespace.
func CleanText(s string) string {
	s = stdhtml.UnescapeString(labelPolicy.Sanitize(s))
	return strings.Join(strings.Fields(s), " ")
}

// precedingText maps each form control to the last non-blank text node
// before it in document order. Script and style contents are skipped.
func precedingText(doc *goquery.Document) map[*html.Node]string {
	out := map[*html.Node]string{}
	last := ""

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := strings.TrimSpace(n.Data); t != "" {
				last = t
			}
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Input, atom.Select, atom.Textarea:
				out[n] = last
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return out
}
