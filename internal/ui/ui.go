package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tagshift/internal/models"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ContactListView ViewState = iota
	TagListView
)

// BrowseContact pairs a contact with its assigned tags for browsing.
type BrowseContact struct {
	Contact *models.Contact
	Tags    []*models.Tag
}

// Model represents the TUI application state.
//
// The dataset is loaded up front by the caller; the model itself never touches
// the database.
type Model struct {
	view        ViewState
	contactList list.Model
	tagList     list.Model
	selected    *BrowseContact
	width       int
	height      int
	help        help.Model
	keys        keyMap
}

// NewModel creates a browse model over the given contact records.
func NewModel(records []BrowseContact) Model {
	items := make([]list.Item, len(records))
	for i, record := range records {
		items[i] = contactItem{record: record}
	}

	contactList := list.New(items, list.NewDefaultDelegate(), 0, 0)
	contactList.Title = "Contacts"
	contactList.SetShowHelp(false)

	return Model{
		view:        ContactListView,
		contactList: contactList,
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.contactList.SetSize(msg.Width, msg.Height-4)
		m.tagList.SetSize(msg.Width, msg.Height-4)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.enter):
			if m.view == ContactListView {
				if item, ok := m.contactList.SelectedItem().(contactItem); ok {
					m.selected = &item.record
					m.tagList = newTagList(item.record, m.width, m.height)
					m.view = TagListView
				}
				return m, nil
			}

		case key.Matches(msg, m.keys.back):
			if m.view == TagListView {
				m.view = ContactListView
				m.selected = nil
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	switch m.view {
	case TagListView:
		m.tagList, cmd = m.tagList.Update(msg)
	default:
		m.contactList, cmd = m.contactList.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	var body string
	switch m.view {
	case TagListView:
		body = m.tagList.View()
	default:
		body = m.contactList.View()
	}

	return body + "\n" + styles.help.Render(m.help.View(m.keys))
}

// newTagList builds the second-level list for a selected contact.
func newTagList(record BrowseContact, width, height int) list.Model {
	items := make([]list.Item, len(record.Tags))
	for i, tag := range record.Tags {
		items[i] = tagItem{tag: tag}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height-4)
	l.Title = fmt.Sprintf("Tags for %s", record.Contact.Email())
	l.SetShowHelp(false)
	return l
}
