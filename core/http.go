package core

// HTTPAdapter binds the session and ledger operations to a web
// framework. The presentation layer is an external collaborator: the
// core never imports it.
type HTTPAdapter interface {
	RegisterRoutes(c *Civika) error
}
