package repository

import (
	"fmt"
	"strings"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

// columnSet collects column assignments for a partial update. Column names
// follow the storage convention (is_active, contact_email, ...).
type columnSet struct {
	names  []string
	values []any
}

func (c *columnSet) add(name string, value any) {
	c.names = append(c.names, name)
	c.values = append(c.values, value)
}

func (c columnSet) has(name string) bool {
	for _, n := range c.names {
		if n == name {
			return true
		}
	}
	return false
}

// updateQuery renders UPDATE ... RETURNING for id. An empty set still
// returns the current row.
func (c columnSet) updateQuery(table, returning, id string) (string, []any) {
	if len(c.names) == 0 {
		return fmt.Sprintf(`UPDATE %s SET id=id WHERE id=$1 RETURNING %s`, table, returning), []any{id}
	}
	assignments := make([]string, len(c.names))
	args := make([]any, 0, len(c.values)+1)
	for i, name := range c.names {
		args = append(args, c.values[i])
		assignments[i] = fmt.Sprintf("%s=$%d", name, len(args))
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id=$%d RETURNING %s`,
		table, strings.Join(assignments, ", "), len(args), returning)
	return query, args
}

func categoryColumns(p domain.CategoryPatch) columnSet {
	var c columnSet
	if p.Name != nil {
		c.add("name", *p.Name)
	}
	if p.Description != nil {
		c.add("description", *p.Description)
	}
	if p.IsActive != nil {
		c.add("is_active", *p.IsActive)
	}
	return c
}

func itemColumns(p domain.ItemPatch) columnSet {
	var c columnSet
	if p.Title != nil {
		c.add("title", *p.Title)
	}
	if p.Description != nil {
		c.add("description", *p.Description)
	}
	if p.Category != nil {
		c.add("category", string(*p.Category))
	}
	if p.Status != nil {
		c.add("status", string(*p.Status))
	}
	if p.PreviousStatus != nil {
		c.add("previous_status", string(*p.PreviousStatus))
	}
	if p.Date != nil {
		c.add("date", *p.Date)
	}
	if p.Location != nil {
		c.add("location", *p.Location)
	}
	if p.Image != nil {
		if *p.Image == "" {
			c.add("image", nil)
		} else {
			c.add("image", *p.Image)
		}
	}
	if p.ContactEmail != nil {
		c.add("contact_email", *p.ContactEmail)
	}
	return c
}

func messageColumns(p domain.MessagePatch) columnSet {
	var c columnSet
	if p.IsRead != nil {
		c.add("is_read", *p.IsRead)
	}
	return c
}
