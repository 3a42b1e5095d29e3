package ir

// MessageKind identifies what role a definition plays in the protocol.
type MessageKind int

const (
	KindPlain          MessageKind = iota // Data shape, emitted only when referenced
	KindEvent                             // allOf [Event, {event, body}]
	KindRequest                           // allOf [Request, {command, arguments}]
	KindReverseRequest                    // Request titled "Reverse Requests"; treated as plain
)

// String returns the kind name used in manifests and logs.
func (k MessageKind) String() string {
	switch k {
	case KindPlain:
		return "plain"
	case KindEvent:
		return "event"
	case KindRequest:
		return "request"
	case KindReverseRequest:
		return "reverseRequest"
	default:
		return "unknown"
	}
}

// StubKind identifies which synthetic shape a Stub models.
type StubKind int

const (
	StubEventParams StubKind = iota
	StubParams
	StubResult
)

// String returns the stub kind name.
func (k StubKind) String() string {
	switch k {
	case StubEventParams:
		return "eventParams"
	case StubParams:
		return "params"
	case StubResult:
		return "result"
	default:
		return "unknown"
	}
}
