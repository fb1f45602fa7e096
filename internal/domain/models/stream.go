package models

// StreamSnapshot is one live stream as reported by a single SRS poll.
// Snapshots are transient: the poller holds one generation at a time and
// nothing here is persisted.
type StreamSnapshot struct {
	ID      string       `json:"id,omitempty"`
	App     string       `json:"app"`
	Name    string       `json:"name"`
	Clients int          `json:"clients"`
	Publish PublishState `json:"publish"`

	Video *VideoDescriptor `json:"video,omitempty"`
	Audio *AudioDescriptor `json:"audio,omitempty"`
}

type PublishState struct {
	Active bool   `json:"active"`
	CID    string `json:"cid,omitempty"`
}

type VideoDescriptor struct {
	Codec   string `json:"codec"`
	Profile string `json:"profile,omitempty"`
	Level   string `json:"level,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

type AudioDescriptor struct {
	Codec      string `json:"codec"`
	SampleRate int    `json:"sample_rate,omitempty"`
	Channel    int    `json:"channel,omitempty"`
	Profile    string `json:"profile,omitempty"`
}

// Key identifies a stream across polls. SRS reports streams as app/name
// pairs; app is the room, name is the publisher within it.
func (s StreamSnapshot) Key() string {
	return s.App + "/" + s.Name
}
