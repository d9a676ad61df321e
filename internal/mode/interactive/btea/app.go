// ABOUTME: Bubble Tea model hosting a canvas document and its undo manager
// ABOUTME: Every Update ends the undo event cycle so per-keystroke edits group naturally

package btea

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/drawkit-undo-go/internal/canvas"
	"github.com/mauromedda/drawkit-undo-go/internal/history"
	"github.com/mauromedda/drawkit-undo-go/internal/keybindings"
	"github.com/mauromedda/drawkit-undo-go/internal/log"
	"github.com/mauromedda/drawkit-undo-go/pkg/undo"
)

var logger = log.For("tui")

var fills = []string{"white", "red", "green", "blue", "yellow"}

// AppDeps are the model's external dependencies.
type AppDeps struct {
	Doc *canvas.Document
	// Keys maps keys to actions; nil uses the default bindings.
	Keys *keybindings.Manager
}

// shared holds state that must survive the value copies Bubble Tea makes.
type shared struct {
	notice string
	unsub  func()
}

// AppModel is the root demo model.
type AppModel struct {
	sh     *shared
	doc    *canvas.Document
	um     *undo.Manager
	keys   *keybindings.Manager
	styles Styles
	help   *MarkdownRenderer

	selected    int
	dragging    bool
	showHelp    bool
	showHistory bool
	width       int
	height      int
	status      string
	err         error
}

// NewAppModel builds the model around deps.Doc.
func NewAppModel(deps AppDeps) AppModel {
	sh := &shared{}
	um := deps.Doc.UndoManager()
	sh.unsub = um.SubscribeKinds(func(n undo.Notification) {
		verb := "Undid"
		if n.Kind == undo.DidRedo {
			verb = "Redid"
		}
		sh.notice = strings.TrimSpace(verb + " " + n.Group.ActionName())
	}, undo.DidUndo, undo.DidRedo)

	keys := deps.Keys
	if keys == nil {
		// Defaults carry no overrides and cannot fail.
		keys, _ = keybindings.New(nil)
	}

	m := AppModel{
		sh:          sh,
		keys:        keys,
		doc:         deps.Doc,
		um:          um,
		styles:      DefaultStyles(),
		help:        NewMarkdownRenderer(),
		showHistory: true,
		width:       80,
		height:      24,
	}
	if shapes := deps.Doc.Shapes(); len(shapes) > 0 {
		m.selected = shapes[0].ID
	}
	return m
}

// Init implements tea.Model.
func (m AppModel) Init() tea.Cmd { return nil }

// Update implements tea.Model. The host loop's end-of-event notification is
// sent after every message, whatever it was.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.um.NotifyEventCycleEnded()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case ConfigReloadMsg:
		return m.handleReload(msg), nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m AppModel) handleReload(msg ConfigReloadMsg) AppModel {
	if msg.Err != nil {
		m.err = fmt.Errorf("reloading settings: %w", msg.Err)
		return m
	}
	if err := msg.Settings.Apply(m.um); err != nil {
		m.err = err
		return m
	}
	if err := m.keys.Reload(msg.Settings.Keys); err != nil {
		m.err = err
		return m
	}
	if msg.Settings.LogLevel != "" {
		if lvl, err := log.ParseLevel(msg.Settings.LogLevel); err == nil {
			log.SetLevel(lvl)
		}
	}
	m.err = nil
	m.status = "Settings reloaded"
	return m
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	m.status = ""
	m.sh.notice = ""

	if m.showHelp {
		// Any key dismisses help.
		m.showHelp = false
		return m, nil
	}

	var err error
	switch m.keys.ActionFor(msg.String()) {
	case keybindings.ActionQuit:
		if m.dragging {
			m, err = m.toggleDrag()
		}
		if m.sh.unsub != nil {
			m.sh.unsub()
		}
		m.err = err
		return m, tea.Quit
	case keybindings.ActionHelp:
		m.showHelp = true
	case keybindings.ActionToggleHistory:
		m.showHistory = !m.showHistory
	case keybindings.ActionNextShape:
		m.selected = m.nextShape()
	case keybindings.ActionMoveUp:
		err = m.doc.MoveBy(m.selected, 0, -1)
	case keybindings.ActionMoveDown:
		err = m.doc.MoveBy(m.selected, 0, 1)
	case keybindings.ActionMoveLeft:
		err = m.doc.MoveBy(m.selected, -1, 0)
	case keybindings.ActionMoveRight:
		err = m.doc.MoveBy(m.selected, 1, 0)
	case keybindings.ActionDrag:
		m, err = m.toggleDrag()
	case keybindings.ActionAddShape:
		err = m.addShape()
		if err == nil {
			shapes := m.doc.Shapes()
			m.selected = shapes[len(shapes)-1].ID
		}
	case keybindings.ActionDeleteShape:
		err = m.doc.RemoveShape(m.selected)
		if err == nil {
			m.selected = m.nextShape()
		}
	case keybindings.ActionPurgeShape:
		err = m.doc.PurgeShape(m.selected)
		if err == nil {
			m.selected = m.nextShape()
			m.status = "Purged"
		}
	case keybindings.ActionCycleFill:
		err = m.cycleFill()
	case keybindings.ActionGrow:
		err = m.resizeBy(2)
	case keybindings.ActionShrink:
		err = m.resizeBy(-2)
	case keybindings.ActionUndo:
		err = m.replay(m.um.Undo)
	case keybindings.ActionRedo:
		err = m.replay(m.um.Redo)
	}
	if err != nil {
		logger.Debug("key %q: %v", msg.String(), err)
		m.err = err
	}
	m.keepSelection()
	return m, nil
}

// toggleDrag opens an explicit group for the duration of a drag so that all
// moves coalesce into one undo step.
func (m AppModel) toggleDrag() (AppModel, error) {
	if !m.dragging {
		m.um.BeginUndoGrouping()
		m.dragging = true
		return m, nil
	}
	m.dragging = false
	return m, m.um.EndUndoGrouping()
}

func (m AppModel) replay(fn func() (bool, error)) error {
	if m.dragging {
		return errors.New("finish the drag (d) before undo or redo")
	}
	ok, err := fn()
	if err != nil {
		return err
	}
	if !ok {
		m.sh.notice = "Nothing to replay"
	}
	return nil
}

func (m AppModel) addShape() error {
	n := m.doc.Len()
	_, err := m.doc.AddShape(
		fmt.Sprintf("Shape %d", n+1),
		canvas.Point{X: float64(2 + 4*n), Y: float64(1 + n)},
		canvas.Size{W: 10, H: 4},
		fills[0],
	)
	return err
}

func (m AppModel) cycleFill() error {
	s, ok := m.doc.Shape(m.selected)
	if !ok {
		return canvas.ErrUnknownShape
	}
	next := fills[0]
	for i, f := range fills {
		if f == s.Fill {
			next = fills[(i+1)%len(fills)]
			break
		}
	}
	return m.doc.SetFill(s.ID, next)
}

func (m AppModel) resizeBy(d float64) error {
	s, ok := m.doc.Shape(m.selected)
	if !ok {
		return canvas.ErrUnknownShape
	}
	return m.doc.ResizeShape(s.ID, max(s.W+d, 1), max(s.H+d/2, 1))
}

// nextShape returns the id after the selected one, wrapping around.
func (m AppModel) nextShape() int {
	shapes := m.doc.Shapes()
	if len(shapes) == 0 {
		return 0
	}
	for i, s := range shapes {
		if s.ID == m.selected {
			return shapes[(i+1)%len(shapes)].ID
		}
	}
	return shapes[0].ID
}

// keepSelection re-targets the selection when undo or redo removed the
// selected shape.
func (m *AppModel) keepSelection() {
	if _, ok := m.doc.Shape(m.selected); ok {
		return
	}
	shapes := m.doc.Shapes()
	if len(shapes) == 0 {
		m.selected = 0
		return
	}
	m.selected = shapes[len(shapes)-1].ID
}

// View implements tea.Model.
func (m AppModel) View() string {
	if m.showHelp {
		return m.help.Render(m.keys.Markdown(), max(m.width-4, 20))
	}

	body := m.viewCanvas()
	if m.showHistory {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", m.viewHistory())
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.viewMenu(), body, m.viewStatus())
}

func (m AppModel) viewMenu() string {
	item := func(title string, enabled bool) string {
		if enabled {
			return m.styles.MenuItem.Render(title)
		}
		return m.styles.MenuDisabled.Render(title)
	}
	bar := item(m.um.UndoMenuItemTitle(), m.um.CanUndo()) + "   " + item(m.um.RedoMenuItemTitle(), m.um.CanRedo())
	if m.dragging {
		bar += "   " + m.styles.Dragging.Render("DRAG")
	}
	return m.styles.MenuBar.Width(max(m.width, 1)).Render(bar)
}

func (m AppModel) viewCanvas() string {
	var b strings.Builder
	b.WriteString(m.styles.PanelTitle.Render(m.doc.Name()))
	shapes := m.doc.Shapes()
	if len(shapes) == 0 {
		b.WriteString("\n" + m.styles.Status.Render("empty, press n to add a shape"))
	}
	for i := range shapes {
		s := &shapes[i]
		row := s.String()
		if s.ID == m.selected {
			b.WriteString("\n" + m.styles.Selected.Render("> "+row))
			continue
		}
		b.WriteString("\n" + m.styles.Shape.Render("  "+row))
	}
	return m.styles.Panel.Render(b.String())
}

func (m AppModel) viewHistory() string {
	const rowWidth = 28
	var b strings.Builder
	b.WriteString(m.styles.PanelTitle.Render("History"))
	entries := history.Entries(m.um)
	if len(entries) == 0 {
		b.WriteString("\n" + m.styles.Status.Render("nothing yet"))
	}
	limit := max(m.height-6, 3)
	for i, e := range entries {
		if i == limit {
			b.WriteString("\n" + m.styles.Status.Render(fmt.Sprintf("… %d more", len(entries)-limit)))
			break
		}
		b.WriteString("\n" + history.FormatRow(e, rowWidth))
	}
	return m.styles.Panel.Render(b.String())
}

func (m AppModel) viewStatus() string {
	switch {
	case m.err != nil:
		return m.styles.Error.Render(m.err.Error())
	case m.sh.notice != "":
		return m.styles.Status.Render(m.sh.notice)
	case m.status != "":
		return m.styles.Status.Render(m.status)
	}
	return m.styles.Status.Render(fmt.Sprintf("%d changes · ? for help", m.um.ChangeCount()))
}
