// ABOUTME: Localized Undo/Redo menu item titles built from group action names
// ABOUTME: Uses an x/text message catalog with English fallback

package undo

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	undoBare  = "Undo"
	redoBare  = "Redo"
	undoNamed = "Undo %s"
	redoNamed = "Redo %s"
)

var menuCatalog = buildMenuCatalog()

func buildMenuCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	entries := map[language.Tag][4]string{
		language.English: {"Undo", "Redo", "Undo %s", "Redo %s"},
		language.German:  {"Rückgängig", "Wiederholen", "%s rückgängig machen", "%s wiederholen"},
		language.French:  {"Annuler", "Rétablir", "Annuler %s", "Rétablir %s"},
	}
	for tag, e := range entries {
		_ = b.SetString(tag, undoBare, e[0])
		_ = b.SetString(tag, redoBare, e[1])
		_ = b.SetString(tag, undoNamed, e[2])
		_ = b.SetString(tag, redoNamed, e[3])
	}
	return b
}

// UndoMenuTitle returns the Undo menu title for actionName in tag's language.
func UndoMenuTitle(tag language.Tag, actionName string) string {
	p := message.NewPrinter(tag, message.Catalog(menuCatalog))
	if actionName == "" {
		return p.Sprintf(undoBare)
	}
	return p.Sprintf(undoNamed, actionName)
}

// RedoMenuTitle returns the Redo menu title for actionName in tag's language.
func RedoMenuTitle(tag language.Tag, actionName string) string {
	p := message.NewPrinter(tag, message.Catalog(menuCatalog))
	if actionName == "" {
		return p.Sprintf(redoBare)
	}
	return p.Sprintf(redoNamed, actionName)
}
