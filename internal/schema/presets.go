package schema

import (
	"strings"

	"github.com/inkstone/inkstone/internal/command"
	"github.com/inkstone/inkstone/internal/doctree"
)

// Minimal returns the inline-formatting preset: paragraph plus the basic
// marks. It is the base every richer preset extends.
func Minimal() []*Descriptor {
	return []*Descriptor{
		{Name: "paragraph", Kind: KindNode},
		{
			Name: "strong",
			Kind: KindMark,
			Commands: map[string]command.Command{
				"strong": toggleMark("strong"),
			},
		},
		{
			Name: "em",
			Kind: KindMark,
			Commands: map[string]command.Command{
				"em": toggleMark("em"),
			},
		},
		{
			Name: "code_inline",
			Kind: KindMark,
			Commands: map[string]command.Command{
				"code_inline": toggleMark("code_inline"),
			},
		},
		{
			Name: "link",
			Kind: KindMark,
			Commands: map[string]command.Command{
				"link": linkCommand(),
			},
		},
	}
}

// Full returns the complete preset: Minimal's node and mark list plus the
// structural blocks, tables, media, and embeds. It is additive, never a
// separate schema.
func Full() []*Descriptor {
	full := Minimal()
	full = append(full,
		&Descriptor{
			Name:     "heading",
			Kind:     KindNode,
			Title:    "Heading",
			Keywords: "h1 h2 h3 title",
			Commands: map[string]command.Command{
				"createHeading1": setBlockType("heading", doctree.Attrs{"level": 1}),
				"createHeading2": setBlockType("heading", doctree.Attrs{"level": 2}),
				"createHeading3": setBlockType("heading", doctree.Attrs{"level": 3}),
			},
		},
		&Descriptor{
			Name:     "blockquote",
			Kind:     KindNode,
			Title:    "Quote",
			Keywords: "blockquote cite",
			Commands: map[string]command.Command{
				"createBlockquote": setBlockType("blockquote", nil),
			},
		},
		&Descriptor{
			Name:     "code_block",
			Kind:     KindNode,
			Title:    "Code block",
			Keywords: "code snippet",
			Commands: map[string]command.Command{
				"createCodeBlock": setBlockType("code_block", nil),
			},
		},
		&Descriptor{
			Name:     "hr",
			Kind:     KindNode,
			Title:    "Divider",
			Keywords: "horizontal rule line",
			Commands: map[string]command.Command{
				"createHr": insertAtomic("hr"),
				"deleteHr": deleteNode(),
			},
		},
		&Descriptor{
			Name:     "image",
			Kind:     KindNode,
			Title:    "Image",
			Keywords: "picture photo",
			Commands: map[string]command.Command{
				"createImage": insertAtomic("image", "src", "alt"),
				"deleteImage": deleteNode(),
			},
		},
		&Descriptor{
			Name:     "attachment",
			Kind:     KindNode,
			Title:    "Attachment",
			Keywords: "file upload",
			Commands: map[string]command.Command{
				"createAttachment": insertAtomic("attachment", "href", "title", "size"),
			},
		},
		&Descriptor{
			Name:     "table",
			Kind:     KindNode,
			Title:    "Table",
			Keywords: "grid rows columns",
			Commands: map[string]command.Command{
				"createTable":    createTableCommand(),
				"addRowAfter":    addRowCommand(),
				"addColumnAfter": addColumnCommand(),
				"deleteRow":      deleteRowCommand(),
				"deleteColumn":   deleteColumnCommand(),
				"deleteTable":    deleteTableCommand(),
			},
		},
		embed("youtube", "YouTube", "video", "youtube.com", "youtu.be"),
		embed("vimeo", "Vimeo", "video", "vimeo.com"),
		embed("figma", "Figma", "design prototype", "figma.com"),
		embed("loom", "Loom", "video recording", "loom.com"),
	)
	return full
}

// WithCollab injects the collaboration-only descriptors ahead of a base
// preset list.
func WithCollab(base []*Descriptor) []*Descriptor {
	collab := []*Descriptor{
		{
			Name:     "mention",
			Kind:     KindMark,
			Title:    "Mention",
			Keywords: "user person member",
			Commands: map[string]command.Command{
				"mention": mentionCommand(),
			},
		},
		{
			Name: "comment",
			Kind: KindMark,
			Commands: map[string]command.Command{
				"comment": commentCommand(),
			},
		},
	}
	return append(collab, base...)
}

// embed builds an embed descriptor whose matcher accepts URLs containing any
// of the given hosts, and whose create command inserts the embed block.
func embed(name, title, keywords string, hosts ...string) *Descriptor {
	matcher := func(url string) bool {
		for _, host := range hosts {
			if strings.Contains(url, host) {
				return true
			}
		}
		return false
	}
	return &Descriptor{
		Name:     name,
		Kind:     KindEmbed,
		Title:    title,
		Keywords: keywords,
		Matcher:  matcher,
		Commands: map[string]command.Command{
			command.CreateName(name): insertAtomic(name, "href"),
		},
	}
}
