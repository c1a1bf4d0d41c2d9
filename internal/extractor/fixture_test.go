package extractor

import (
	"fmt"
	"html"
	"strings"

	"github.com/cdtdelta/tiaalarms/internal/tiaxml"
)

// memberFixture is one leaf of a subgroup. An empty comment omits the Comment element.
type memberFixture struct {
	name    string
	comment string
	lang    string
}

type subGroupFixture struct {
	name    string
	members []memberFixture
}

type structFixture struct {
	name      string
	subGroups []subGroupFixture
}

// buildDB renders a data block export declaring ns on its Sections element.
func buildDB(ns string, structs ...structFixture) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	b.WriteString(`<Document><SW.Blocks.GlobalDB ID="0"><AttributeList><Interface>`)
	fmt.Fprintf(&b, `<Sections xmlns="%s"><Section Name="Static">`, ns)
	for _, s := range structs {
		fmt.Fprintf(&b, `<Member Name="%s" Datatype="Struct"><Sections><Section Name="None">`, s.name)
		for _, sg := range s.subGroups {
			fmt.Fprintf(&b, `<Member Name="%s" Datatype="Struct"><Sections><Section Name="None">`, sg.name)
			for _, m := range sg.members {
				fmt.Fprintf(&b, `<Member Name="%s" Datatype="Bool">`, m.name)
				if m.comment != "" {
					lang := m.lang
					if lang == "" {
						lang = "en-US"
					}
					fmt.Fprintf(&b, `<Comment><MultiLanguageText Lang="%s">%s</MultiLanguageText></Comment>`,
						lang, html.EscapeString(m.comment))
				}
				b.WriteString(`</Member>`)
			}
			b.WriteString(`</Section></Sections></Member>`)
		}
		b.WriteString(`</Section></Sections></Member>`)
	}
	b.WriteString(`</Section></Sections></Interface></AttributeList></SW.Blocks.GlobalDB></Document>`)
	return b.String()
}

func mustParse(content string) *tiaxml.Document {
	doc, err := tiaxml.Parse(strings.NewReader(content))
	if err != nil {
		panic(err)
	}
	return doc
}
