package entities

// Operation is a fixed, named action on the book resource. Each operation
// statically requires exactly one permission.
type Operation string

const (
	OpViewBooks  Operation = "view_books"
	OpCreateBook Operation = "create_book"
	OpEditBook   Operation = "edit_book"
	OpDeleteBook Operation = "delete_book"
)

var requiredPermission = map[Operation]Permission{
	OpViewBooks:  PermCanView,
	OpCreateBook: PermCanCreate,
	OpEditBook:   PermCanEdit,
	OpDeleteBook: PermCanDelete,
}

// Operations returns the fixed operation set in stable order.
func Operations() []Operation {
	return []Operation{OpViewBooks, OpCreateBook, OpEditBook, OpDeleteBook}
}

// Known reports whether the operation is part of the fixed set.
func (o Operation) Known() bool {
	_, ok := requiredPermission[o]
	return ok
}

// RequiredPermission returns the single permission gating the operation.
func (o Operation) RequiredPermission() (Permission, bool) {
	p, ok := requiredPermission[o]
	return p, ok
}
