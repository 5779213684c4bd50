package component

// Properties is the host-owned property store of an entity. Values are
// either raw declarative data (a *yaml.Node for "animation") or numeric
// values written by systems (anim.Animatable).
type Properties struct {
	Values   map[string]any
	ReadOnly map[string]bool
}

// NewProperties returns an empty store.
func NewProperties() *Properties {
	return &Properties{Values: map[string]any{}, ReadOnly: map[string]bool{}}
}

var PropertiesComponent = NewComponent[Properties]("properties")

// AnimationKey is the property holding an entity's animation definition.
const AnimationKey = "animation"
