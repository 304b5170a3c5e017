package routes

import "github.com/frahmantamala/billed/internal/core/datamodel/session"

type Path string

const (
	Login     Path = "/"
	Bills     Path = "#employee/bills"
	NewBill   Path = "#employee/bill/new"
	Dashboard Path = "#admin/dashboard"
)

// Navigator moves the application to another page.
type Navigator interface {
	Navigate(path Path)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path Path)

func (f NavigatorFunc) Navigate(path Path) { f(path) }

// Context is the navigation state shared between workflows.
// It is passed by value and returned updated rather than mutated in place.
type Context struct {
	PreviousLocation Path
}

// HomeFor returns the landing page of a role after login.
func HomeFor(role session.Role) Path {
	if role == session.RoleAdmin {
		return Dashboard
	}
	return Bills
}
