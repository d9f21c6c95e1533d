package file

// pathValidator confines tool paths to the workspace.
// Implemented by *path.Validator.
type pathValidator interface {
	ValidateForRead(requested string) (string, error)
	ValidateForWrite(requested string) (string, error)
	Confirm(requested, validated string) error
}
