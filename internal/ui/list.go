package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tagshift/internal/models"
)

var (
	_ list.Item = contactItem{}
	_ list.Item = tagItem{}
)

// contactItem wraps a [BrowseContact] to implement [list.Item].
type contactItem struct {
	record BrowseContact
}

func (i contactItem) FilterValue() string { return i.record.Contact.Email() }
func (i contactItem) Title() string       { return i.record.Contact.Email() }
func (i contactItem) Description() string {
	c := i.record.Contact
	desc := fmt.Sprintf("%s • %s", c.Name(), c.Status())
	if n := len(i.record.Tags); n == 1 {
		desc = fmt.Sprintf("%s • 1 tag", desc)
	} else {
		desc = fmt.Sprintf("%s • %d tags", desc, n)
	}
	return desc
}

// tagItem wraps [models.Tag] to implement [list.Item].
type tagItem struct {
	tag *models.Tag
}

func (i tagItem) FilterValue() string { return i.tag.Name() }
func (i tagItem) Title() string {
	if i.tag.IsSystem() {
		return i.tag.Name() + " (system)"
	}
	return i.tag.Name()
}
func (i tagItem) Description() string {
	if i.tag.Description() == "" {
		return i.tag.Color()
	}
	return i.tag.Description()
}
