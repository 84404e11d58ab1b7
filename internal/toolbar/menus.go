package toolbar

import "github.com/inkstone/inkstone/internal/menu"

// The menu sets below name commands from the active schema; items whose
// command is absent are dropped by Menu before display.

func tableMenu() []menu.Item {
	return []menu.Item{
		{Name: "addRowAfter", Title: "Add row", Attrs: map[string]any{"index": -1}},
		{Name: "addColumnAfter", Title: "Add column", Attrs: map[string]any{"index": -1}},
		menu.Divider(),
		{Name: "deleteTable", Title: "Delete table"},
	}
}

func columnMenu(index int, rtl bool) []menu.Item {
	after := "Insert column right"
	if rtl {
		after = "Insert column left"
	}
	return []menu.Item{
		{Name: "addColumnAfter", Title: after, Attrs: map[string]any{"index": index}},
		menu.Divider(),
		{Name: "deleteColumn", Title: "Delete column", Attrs: map[string]any{"index": index}},
	}
}

func rowMenu(index int) []menu.Item {
	return []menu.Item{
		{Name: "addRowAfter", Title: "Insert row below", Attrs: map[string]any{"index": index}},
		menu.Divider(),
		{Name: "deleteRow", Title: "Delete row", Attrs: map[string]any{"index": index}},
	}
}

func imageMenu() []menu.Item {
	return []menu.Item{
		{Name: "image", Title: "Replace image", Action: menu.ActionFilePicker},
		menu.Divider(),
		{Name: "deleteImage", Title: "Delete"},
	}
}

func dividerMenu() []menu.Item {
	return []menu.Item{
		{Name: "deleteHr", Title: "Delete"},
	}
}

func formattingMenu(isTemplate bool) []menu.Item {
	items := []menu.Item{
		{Name: "strong", Title: "Bold", Shortcut: "Ctrl+B"},
		{Name: "em", Title: "Italic", Shortcut: "Ctrl+I"},
		{Name: "code_inline", Title: "Code"},
		menu.Divider(),
		{Name: "createHeading1", Title: "Heading 1"},
		{Name: "createHeading2", Title: "Heading 2"},
		{Name: "createBlockquote", Title: "Quote"},
		menu.Divider(),
		{Name: "link", Title: "Link", Shortcut: "Ctrl+K", Action: menu.ActionLinkToolbar},
	}
	if isTemplate {
		// Resolves only when the schema registers a placeholder extension.
		items = append(items, menu.Item{Name: "placeholder", Title: "Placeholder"})
	}
	return items
}
