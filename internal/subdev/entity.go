package subdev

// Pad is one connection point on a media entity.
type Pad struct {
	Index int
	Sink  bool
}

// Entity is the media entity exposed by a bound subdevice: its display
// name, its pads, and any capability strings the device reports. The name
// is mutable; duplicate names are disambiguated before link assembly.
type Entity struct {
	Name         string
	Pads         []Pad
	Capabilities map[string]string
}

// Link is one enabled data-path connection between a source pad and a sink
// pad on two entities.
type Link struct {
	Source    *Entity
	SourcePad int
	Sink      *Entity
	SinkPad   int
	Enabled   bool
}
