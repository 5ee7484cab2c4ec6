package profile

import (
	"fmt"
	"strings"
)

// AvatarID identifies one entry of the avatar catalog.
type AvatarID string

// NoAvatar is the unset selection.
const NoAvatar AvatarID = ""

// Avatar pairs an identifier with its display label.
type Avatar struct {
	ID    AvatarID
	Label string
}

// Catalog is the closed set of avatars a player can choose from.
type Catalog struct {
	avatars []Avatar
	def     AvatarID
}

var defaultAvatars = []Avatar{
	{ID: "C1", Label: "Trader"},
	{ID: "C2", Label: "Investor"},
	{ID: "C3", Label: "Saver"},
	{ID: "C4", Label: "Planner"},
}

// DefaultCatalog returns the four stock avatars with C1 as the default.
func DefaultCatalog() Catalog {
	c, _ := NewCatalog(defaultAvatars, "C1")
	return c
}

// NewCatalog builds a catalog, rejecting empty, duplicate or unknown-default input.
func NewCatalog(avatars []Avatar, def AvatarID) (Catalog, error) {
	if len(avatars) == 0 {
		return Catalog{}, fmt.Errorf("avatar catalog is empty")
	}
	seen := make(map[AvatarID]struct{}, len(avatars))
	list := make([]Avatar, 0, len(avatars))
	for _, a := range avatars {
		id := AvatarID(strings.TrimSpace(string(a.ID)))
		if id == NoAvatar {
			return Catalog{}, fmt.Errorf("avatar id is empty")
		}
		if _, dup := seen[id]; dup {
			return Catalog{}, fmt.Errorf("duplicate avatar id %q", id)
		}
		seen[id] = struct{}{}
		label := strings.TrimSpace(a.Label)
		if label == "" {
			label = string(id)
		}
		list = append(list, Avatar{ID: id, Label: label})
	}
	def = AvatarID(strings.TrimSpace(string(def)))
	if def == NoAvatar {
		def = list[0].ID
	}
	if _, ok := seen[def]; !ok {
		return Catalog{}, fmt.Errorf("default avatar %q is not in the catalog", def)
	}
	return Catalog{avatars: list, def: def}, nil
}

// Avatars returns a copy of the catalog entries in display order.
func (c Catalog) Avatars() []Avatar {
	out := make([]Avatar, len(c.avatars))
	copy(out, c.avatars)
	return out
}

// Default is the avatar used when the remote record has none.
func (c Catalog) Default() AvatarID {
	return c.def
}

// Contains reports whether id belongs to the catalog.
func (c Catalog) Contains(id AvatarID) bool {
	return c.Index(id) >= 0
}

// Index returns the display position of id, or -1.
func (c Catalog) Index(id AvatarID) int {
	for i, a := range c.avatars {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// Label returns the display label for id, falling back to the raw id.
func (c Catalog) Label(id AvatarID) string {
	if i := c.Index(id); i >= 0 {
		return c.avatars[i].Label
	}
	return string(id)
}

// Len returns the number of avatars.
func (c Catalog) Len() int {
	return len(c.avatars)
}
