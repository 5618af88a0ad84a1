package editor

// MenuID identifies a toolbar menu.
type MenuID int

const (
	MenuFile MenuID = iota
	MenuFormat
	MenuEdit
	MenuInsert
)

// AllMenus lists the menus in display order.
var AllMenus = []MenuID{MenuFile, MenuFormat, MenuEdit, MenuInsert}

func (m MenuID) String() string {
	switch m {
	case MenuFile:
		return "File"
	case MenuFormat:
		return "Format"
	case MenuEdit:
		return "Edit"
	case MenuInsert:
		return "Insert"
	default:
		return "unknown"
	}
}

// Menus holds the open state of the toolbar menus. By default every menu
// opens and closes on its own trigger; in exclusive mode opening one menu
// closes the others. Nothing closes a menu from the outside.
type Menus struct {
	open      [4]bool
	exclusive bool
}

// NewMenus returns all menus closed.
func NewMenus(exclusive bool) *Menus {
	return &Menus{exclusive: exclusive}
}

// Exclusive reports whether at most one menu may be open.
func (m *Menus) Exclusive() bool { return m.exclusive }

// Toggle flips menu id and returns its new state.
func (m *Menus) Toggle(id MenuID) bool {
	if id < MenuFile || id > MenuInsert {
		return false
	}
	next := !m.open[id]
	if next && m.exclusive {
		m.open = [4]bool{}
	}
	m.open[id] = next
	return next
}

// IsOpen reports whether menu id is open.
func (m *Menus) IsOpen(id MenuID) bool {
	if id < MenuFile || id > MenuInsert {
		return false
	}
	return m.open[id]
}

// Open returns the open menus in display order.
func (m *Menus) Open() []MenuID {
	var ids []MenuID
	for _, id := range AllMenus {
		if m.open[id] {
			ids = append(ids, id)
		}
	}
	return ids
}

// CloseAll closes every menu.
func (m *Menus) CloseAll() {
	m.open = [4]bool{}
}
