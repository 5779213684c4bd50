package component

// Name is the entity's scene name, used by named property references.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]("name")
