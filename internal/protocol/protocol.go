package protocol

// Version is sent in the V line right after connecting.
const Version = 1

// Line kinds. Server lines are parsed by Parse; client lines are built by
// the Encode helpers in messages.go.
const (
	KindYou        = 'U'
	KindBlock      = 'B'
	KindLight      = 'L'
	KindPosition   = 'P'
	KindDisconnect = 'D'
	KindKey        = 'K'
	KindRedraw     = 'R'
	KindTime       = 'E'
	KindTalk       = 'T'
	KindNick       = 'N'
	KindSign       = 'S'

	KindVersion = 'V'
	KindAuth    = 'A'
	KindChunk   = 'C'
)

// Message is one parsed server line.
type Message interface {
	Kind() byte
}

// MaxNameLength and MaxSignLength bound the text fields of N and S lines.
const (
	MaxNameLength = 32
	MaxSignLength = 64
)

// MinValue and MaxValue bound the w field of B and L lines.
const (
	MinValue = -127
	MaxValue = 127
)
