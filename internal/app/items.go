package app

import "github.com/inkstone/inkstone/internal/menu"

// blockItems is the static block menu: the entries offered by the suggestion
// overlay before the embed descriptors are appended. Names resolve through
// the create fallback, e.g. "heading1" finds "createHeading1".
func blockItems() []menu.Item {
	return []menu.Item{
		{Name: "heading1", Title: "Big heading", Keywords: "h1 title", Shortcut: "#"},
		{Name: "heading2", Title: "Medium heading", Keywords: "h2 subtitle", Shortcut: "##"},
		{Name: "heading3", Title: "Small heading", Keywords: "h3", Shortcut: "###"},
		menu.Divider(),
		{Name: "blockquote", Title: "Quote", Keywords: "blockquote cite", Shortcut: ">"},
		{Name: "codeBlock", Title: "Code block", Keywords: "code snippet"},
		{Name: "hr", Title: "Divider", Keywords: "horizontal rule line", Shortcut: "---"},
		menu.Divider(),
		{Name: "table", Title: "Table", Keywords: "grid rows columns"},
		{
			Name:           "image",
			Title:          "Image",
			Keywords:       "picture photo",
			Action:         menu.ActionFilePicker,
			RequiresUpload: true,
		},
		{
			Name:           "attachment",
			Title:          "File attachment",
			Keywords:       "file upload",
			Action:         menu.ActionFilePicker,
			RequiresUpload: true,
			DefaultHidden:  true,
		},
		{Name: "link", Title: "Link", Keywords: "url href", Action: menu.ActionLinkToolbar},
	}
}
