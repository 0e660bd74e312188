package events

// Outbox collects events raised during a transaction so the caller can
// dispatch them strictly after the transaction commits. A rolled-back
// operation simply drops its outbox.
type Outbox struct {
	entries []interface{}
}

func (o *Outbox) Add(event interface{}) {
	o.entries = append(o.entries, event)
}

func (o *Outbox) Entries() []interface{} {
	return o.entries
}

func (o *Outbox) Len() int {
	return len(o.entries)
}
