package domain

// Ownable is implemented by every resource whose mutation requires the acting
// user to be its owner.
type Ownable interface {
	OwnerID() string
}
