package picker

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/emojipick/emoji"
	"github.com/iw2rmb/emojipick/internal/grapheme"
)

var categoryIcons = map[string]string{
	emoji.CategoryRecents:    "🕘",
	emoji.CategorySmileys:    "😀",
	emoji.CategoryPeople:     "👋",
	emoji.CategoryAnimals:    "🐱",
	emoji.CategoryFood:       "🍎",
	emoji.CategoryTravel:     "🚗",
	emoji.CategoryActivities: "⚽",
	emoji.CategoryObjects:    "💡",
	emoji.CategorySymbols:    "🔣",
	emoji.CategoryFlags:      "🏁",
	emoji.CategoryCustom:     "✨",
}

func categoryIcon(key string) string {
	if icon, ok := categoryIcons[key]; ok {
		return icon
	}
	return "•"
}

type categoryTab struct {
	key    string
	icon   string
	active bool
}

// categoryTabs is the strip of category buttons. Activating a tab asks the
// grid to scroll via category:select; the grid reports scroll-driven
// changes back with category:highlight.
type categoryTabs struct {
	baseView

	tabs        []*categoryTab
	activeIndex int
}

func newCategoryTabs(ctx *viewContext, p props) (*categoryTabs, error) {
	keys := propOr[[]string](p, "categories", nil)
	v := &categoryTabs{baseView: newBaseView(ctx)}
	for _, k := range keys {
		v.tabs = append(v.tabs, &categoryTab{key: k, icon: categoryIcon(k)})
	}
	if len(v.tabs) > 0 {
		v.tabs[0].active = true
	}
	v.ui = map[string]string{"tabs": classTab}
	v.initialize(
		[]keyBinding{
			{ctx.keys.Left, func() tea.Cmd { return v.stepSelectedTab(-1) }},
			{ctx.keys.Right, func() tea.Cmd { return v.stepSelectedTab(1) }},
		},
		map[string]mouseHandler{
			classTab: func(el Element, _ tea.MouseMsg) tea.Cmd { return v.setActiveTab(el.Index, true) },
		},
		nil,
	)
	v.on(evCategoryHighlight, func(payload any) tea.Cmd {
		if i, ok := payload.(int); ok {
			return v.setActiveTab(i, false)
		}
		return nil
	})
	return v, nil
}

func (v *categoryTabs) currentCategory() string {
	if len(v.tabs) == 0 {
		return ""
	}
	return v.tabs[v.activeIndex].key
}

// setActiveTab activates tab index. With focus set the grid is asked to
// scroll to the category. Activating the active tab does nothing.
func (v *categoryTabs) setActiveTab(index int, focus bool) tea.Cmd {
	if index == v.activeIndex || index < 0 || index >= len(v.tabs) {
		return nil
	}
	v.tabs[v.activeIndex].active = false
	v.tabs[index].active = true
	v.activeIndex = index
	if focus {
		return v.emit(evCategorySelect, index)
	}
	return nil
}

func (v *categoryTabs) stepSelectedTab(step int) tea.Cmd {
	n := len(v.tabs)
	if n == 0 {
		return nil
	}
	return v.setActiveTab(((v.activeIndex+step)%n+n)%n, true)
}

func (v *categoryTabs) tabWidth() int {
	w := v.ctx.options.width()
	if len(v.tabs) == 0 {
		return w
	}
	return max(w/len(v.tabs), 2)
}

func (v *categoryTabs) Render() string {
	width := v.ctx.options.width()
	v.frame.reset(width, 1)
	tw := v.tabWidth()
	st := v.ctx.style

	var b strings.Builder
	used := 0
	for i, tab := range v.tabs {
		if used+tw > width {
			break
		}
		cell := grapheme.Center(tab.icon, tw)
		switch {
		case tab.active && v.focused:
			cell = st.TabFocused.Render(cell)
		case tab.active:
			cell = st.TabActive.Render(cell)
		default:
			cell = st.Tab.Render(cell)
		}
		b.WriteString(cell)
		v.frame.add(Element{
			Class:   classTab,
			Rect:    Rect{X: used, Y: 0, Width: tw, Height: 1},
			Index:   i,
			Section: i,
			Key:     tab.key,
		})
		used += tw
	}
	if used < width {
		b.WriteString(strings.Repeat(" ", width-used))
	}
	return b.String()
}
