package Models

import (
	"strings"

	"gorm.io/gorm"
)

// UserIndex resolves free-text doer names to user rows the same way the
// legacy pages did: LOWER(TRIM(x)) equality against username or name.
type UserIndex struct {
	byID  map[uint]*User
	byKey map[string][]*User
}

// MatchKey is the normalized form used for doer name matching
func MatchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func NewUserIndex(users []User) *UserIndex {
	idx := &UserIndex{
		byID:  make(map[uint]*User, len(users)),
		byKey: make(map[string][]*User, len(users)*2),
	}
	for i := range users {
		u := &users[i]
		idx.byID[u.ID] = u
		keys := []string{MatchKey(u.Username)}
		if name := MatchKey(u.Name); name != "" && name != keys[0] {
			keys = append(keys, name)
		}
		for _, k := range keys {
			if k == "" {
				continue
			}
			idx.byKey[k] = append(idx.byKey[k], u)
		}
	}
	return idx
}

// LoadUserIndex reads every user row into an index
func LoadUserIndex(db *gorm.DB) (*UserIndex, error) {
	var users []User
	if err := db.Find(&users).Error; err != nil {
		return nil, err
	}
	return NewUserIndex(users), nil
}

func (idx *UserIndex) ByID(id uint) (*User, bool) {
	u, ok := idx.byID[id]
	return u, ok
}

// Match returns every user whose username or name matches the free-text value
func (idx *UserIndex) Match(text string) []*User {
	return idx.byKey[MatchKey(text)]
}

// Resolve prefers the foreign key and falls back to a unique name match.
// Text shared by several users stays unresolved, as in ReconcileDoers.
func (idx *UserIndex) Resolve(doerID *uint, text string) (*User, bool) {
	if doerID != nil {
		if u, ok := idx.byID[*doerID]; ok {
			return u, true
		}
	}
	matches := idx.Match(text)
	if len(matches) != 1 {
		return nil, false
	}
	return matches[0], true
}

// Users returns all indexed users
func (idx *UserIndex) Users() []*User {
	out := make([]*User, 0, len(idx.byID))
	for _, u := range idx.byID {
		out = append(out, u)
	}
	return out
}
